package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Veraticus/loansiya/internal/common"
	"github.com/Veraticus/loansiya/internal/model"
	"github.com/Veraticus/loansiya/internal/service"
)

// maxDocumentBytes bounds JSON document and login bodies.
const maxDocumentBytes = 1 << 20

// Services groups the use cases served over HTTP.
type Services struct {
	Registry  *service.ClientRegistry
	Metrics   *service.MetricsService
	Scoring   *service.ScoringService
	Documents *service.DocumentService
	Officers  *service.OfficerDirectory
}

// APIHandlers exposes JSON endpoints for clients, scoring, documents and officers.
type APIHandlers struct {
	logger         *slog.Logger
	svc            Services
	maxUploadBytes int64
}

// NewAPIHandlers constructs APIHandlers. maxUploadBytes bounds multipart
// request bodies; zero disables the limit.
func NewAPIHandlers(logger *slog.Logger, svc Services, maxUploadBytes int64) *APIHandlers {
	return &APIHandlers{
		logger:         logger,
		svc:            svc,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *APIHandlers) handleScore(w http.ResponseWriter, r *http.Request) {
	cid := chi.URLParam(r, "cid")
	result, err := h.svc.Scoring.Score(r.Context(), cid)
	if err != nil {
		h.logger.Error("scoring failed", "cid", cid, "error", err)
		respondError(w, err, "Scoring failed")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *APIHandlers) handleLatestScore(w http.ResponseWriter, r *http.Request) {
	cid := chi.URLParam(r, "cid")
	result, err := h.svc.Scoring.Latest(r.Context(), cid)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, errorResponse{Error: "Score not found"})
			return
		}
		h.logger.Error("failed to load score", "cid", cid, "error", err)
		respondError(w, err, "Failed to load score")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *APIHandlers) handleComputeMetrics(w http.ResponseWriter, r *http.Request) {
	cid := chi.URLParam(r, "cid")
	metrics, err := h.svc.Metrics.Compute(r.Context(), cid)
	if err != nil {
		h.logger.Error("metrics computation failed", "cid", cid, "error", err)
		respondError(w, err, "Failed to compute and upload metrics")
		return
	}
	respondJSON(w, http.StatusOK, metrics)
}

func (h *APIHandlers) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.svc.Registry.All(r.Context())
	if err != nil {
		h.logger.Error("failed to load clients", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to load clients", Details: err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, clients)
}

func (h *APIHandlers) handleGetClient(w http.ResponseWriter, r *http.Request) {
	cid := chi.URLParam(r, "cid")
	client, err := h.svc.Registry.Get(r.Context(), cid)
	if err != nil {
		if isMissingClient(err) {
			respondJSON(w, http.StatusNotFound, errorResponse{Error: "Client not found"})
			return
		}
		h.logger.Error("failed to load client", "cid", cid, "error", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to load client", Details: err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, client)
}

type nameResponse struct {
	Success bool   `json:"success"`
	Name    string `json:"name"`
}

func (h *APIHandlers) handleClientName(w http.ResponseWriter, r *http.Request) {
	cid := chi.URLParam(r, "cid")
	name, err := h.svc.Registry.Name(r.Context(), cid)
	if err != nil {
		if isMissingClient(err) {
			respondFailure(w, http.StatusNotFound, "Client not found")
			return
		}
		h.logger.Error("error retrieving client name", "cid", cid, "error", err)
		respondFailure(w, http.StatusInternalServerError, "Failed to fetch client data")
		return
	}
	respondJSON(w, http.StatusOK, nameResponse{Success: true, Name: name})
}

// isJSONContent reports whether the request declares a JSON body. Other
// bodies are ignored and the document is stored empty.
func isJSONContent(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// isMissingClient distinguishes an absent entry from an absent registry,
// which is a load failure.
func isMissingClient(err error) bool {
	return errors.Is(err, service.ErrUnknownClient)
}

func (h *APIHandlers) handleSaveDocument(w http.ResponseWriter, r *http.Request) {
	cid := chi.URLParam(r, "clientId")
	fileType := chi.URLParam(r, "fileType")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON body", Details: err.Error()})
		return
	}

	if !isJSONContent(r) {
		body = nil
	}

	receipt, err := h.svc.Documents.SaveJSON(r.Context(), cid, fileType, body)
	if err != nil {
		if statusFor(err) == http.StatusBadRequest {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: common.UserMessage(err, "Invalid request")})
			return
		}
		h.logger.Error("document upload failed", "cid", cid, "type", fileType, "error", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "Upload failed", Details: err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, receipt)
}

func (h *APIHandlers) handleUpload(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	reader, err := r.MultipartReader()
	if err != nil {
		respondFailure(w, http.StatusBadRequest, "Expected a multipart form upload")
		return
	}

	req, err := h.readUploadForm(reader)
	defer req.File.Release()
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("failed to stage upload", "error", err)
		}
		respondFailure(w, status, common.UserMessage(err, err.Error()))
		return
	}

	receipt, err := h.svc.Documents.Upload(r.Context(), req)
	if err != nil {
		h.logger.Error("upload failed", "cid", req.CID, "error", err)
		respondFailure(w, statusFor(err), common.UserMessage(err, err.Error()))
		return
	}
	respondJSON(w, http.StatusOK, receipt)
}

// readUploadForm walks the multipart parts, staging the "document" file and
// collecting the cid and fileType fields in whatever order they arrive.
func (h *APIHandlers) readUploadForm(reader *multipart.Reader) (service.UploadRequest, error) {
	var req service.UploadRequest
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return req, common.NewUserError("Malformed multipart body", common.Validationf("%v", err))
		}

		switch part.FormName() {
		case "document":
			if req.File != nil {
				_ = part.Close()
				continue
			}
			staged, err := h.svc.Documents.Stage(part, part.FileName())
			if err != nil {
				_ = part.Close()
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					return req, common.NewUserError("File too large", common.Validationf("%v", err))
				}
				return req, err
			}
			req.File = staged
		case "cid":
			req.CID, err = readField(part)
		case "fileType":
			req.FileType, err = readField(part)
		}
		_ = part.Close()
		if err != nil {
			return req, common.NewUserError("Malformed multipart body", common.Validationf("%v", err))
		}
	}

	if req.File == nil {
		return req, common.NewUserError("No file uploaded", common.ErrValidation)
	}
	return req, nil
}

func readField(part *multipart.Part) (string, error) {
	data, err := io.ReadAll(io.LimitReader(part, 1024))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Officer json.RawMessage `json:"officer"`
	Success bool            `json:"success"`
}

func (h *APIHandlers) handleListOfficers(w http.ResponseWriter, r *http.Request) {
	officers, err := h.svc.Officers.List(r.Context())
	if err != nil {
		h.logger.Error("failed to load officer accounts", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to load officer accounts"})
		return
	}

	out := make([]json.RawMessage, 0, len(officers))
	for _, o := range officers {
		redacted, err := o.Redacted()
		if err != nil {
			h.logger.Error("failed to encode officer account", "username", o.Username, "error", err)
			respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to load officer accounts"})
			return
		}
		out = append(out, redacted)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *APIHandlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDocumentBytes)).Decode(&req); err != nil {
		respondFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	officer, err := h.svc.Officers.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			respondFailure(w, http.StatusUnauthorized, common.UserMessage(err, "Unauthorized"))
			return
		}
		h.logger.Error("login error", "username", req.Username, "error", err)
		respondFailure(w, http.StatusInternalServerError, "Login failed")
		return
	}

	respondOfficer(w, h.logger, officer)
}

func respondOfficer(w http.ResponseWriter, logger *slog.Logger, officer model.OfficerAccount) {
	redacted, err := officer.Redacted()
	if err != nil {
		logger.Error("failed to encode officer account", "username", officer.Username, "error", err)
		respondFailure(w, http.StatusInternalServerError, "Login failed")
		return
	}
	respondJSON(w, http.StatusOK, loginResponse{Success: true, Officer: redacted})
}
