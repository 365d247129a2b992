package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/loansiya/internal/common"
	"github.com/Veraticus/loansiya/internal/model"
	"github.com/Veraticus/loansiya/internal/storage"
)

// Upload defaults applied when the form omits a field.
const (
	DefaultUploadCID      = "UnknownCID"
	DefaultUploadFileType = "document"
)

// SignedURLTTL is how long an upload's read reference stays valid.
const SignedURLTTL = time.Hour

// DocumentService stores JSON loan documents and binary uploads.
type DocumentService struct {
	bucket storage.Bucket
	clock  Clock
	stager *Stager
	logger *slog.Logger
}

// NewDocumentService creates a DocumentService.
func NewDocumentService(bucket storage.Bucket, stager *Stager, clock Clock, logger *slog.Logger) *DocumentService {
	return &DocumentService{
		bucket: bucket,
		stager: stager,
		clock:  clock,
		logger: logger,
	}
}

// SaveJSON stores body as the client's loan document of the given type under
// today's date. Only application and agreement documents are accepted, and
// the body must be a JSON object or array. An empty body is stored as {}.
func (s *DocumentService) SaveJSON(ctx context.Context, cid, fileType string, body []byte) (model.DocumentReceipt, error) {
	if cid == "" || fileType == "" {
		return model.DocumentReceipt{}, common.NewUserError("Missing clientId or fileType", common.ErrValidation)
	}
	docType := model.DocumentType(fileType)
	if !docType.IsValid() {
		return model.DocumentReceipt{}, common.NewUserError(
			"Invalid fileType. Must be application or agreement.",
			fmt.Errorf("%w: fileType %q", common.ErrValidation, fileType))
	}
	if err := validateCID(cid); err != nil {
		return model.DocumentReceipt{}, err
	}

	payload := bytes.TrimSpace(body)
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	if payload[0] != '{' && payload[0] != '[' {
		return model.DocumentReceipt{}, common.NewUserError("Invalid JSON body",
			common.Validationf("document must be a JSON object or array"))
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, payload); err != nil {
		return model.DocumentReceipt{}, common.NewUserError("Invalid JSON body", common.Validationf("%v", err))
	}

	key := DocumentKey(cid, s.clock.now(), docType)
	if err := s.bucket.Write(ctx, key, compact.Bytes(), storage.WriteOptions{ContentType: storage.ContentTypeJSON}); err != nil {
		return model.DocumentReceipt{}, fmt.Errorf("failed to store document: %w", err)
	}

	fileName := DocumentFileName(docType)
	s.logger.Info("document stored", "cid", cid, "type", docType, "path", key)

	return model.DocumentReceipt{
		Message: fmt.Sprintf("%s uploaded successfully for %s", fileName, cid),
		Path:    key,
	}, nil
}

// UploadRequest describes a binary upload already spooled by Stage.
type UploadRequest struct {
	File     *StagedFile
	CID      string
	FileType string
}

// Stage spools an incoming file to local disk. Callers must Release the
// returned file once the request finishes, whatever the outcome.
func (s *DocumentService) Stage(r io.Reader, originalName string) (*StagedFile, error) {
	return s.stager.Stage(r, originalName)
}

// Upload stores a staged file under today's date and returns a read-only
// reference valid for SignedURLTTL.
func (s *DocumentService) Upload(ctx context.Context, req UploadRequest) (model.UploadReceipt, error) {
	if req.File == nil {
		return model.UploadReceipt{}, common.NewUserError("No file uploaded", common.ErrValidation)
	}

	cid := req.CID
	if cid == "" {
		cid = DefaultUploadCID
	}
	if err := validateCID(cid); err != nil {
		return model.UploadReceipt{}, err
	}
	fileType := req.FileType
	if fileType == "" {
		fileType = DefaultUploadFileType
	}
	if strings.ContainsAny(fileType, `/\`) {
		return model.UploadReceipt{}, common.Validationf("fileType %q is invalid", fileType)
	}

	fileName := UploadFileName(fileType, req.File.OriginalName)
	key := UploadKey(cid, s.clock.now(), fileName)

	s.logger.Info("uploading document", "file", fileName, "destination", key, "bytes", req.File.Size)

	f, err := os.Open(req.File.Path)
	if err != nil {
		return model.UploadReceipt{}, fmt.Errorf("failed to open staged upload: %w", err)
	}
	defer func() { _ = f.Close() }()

	opts := storage.WriteOptions{
		ContentType:  contentTypeFor(fileName),
		CacheControl: "no-cache",
		Gzip:         true,
	}
	if err := s.bucket.WriteFrom(ctx, key, f, opts); err != nil {
		return model.UploadReceipt{}, fmt.Errorf("failed to store upload: %w", err)
	}

	signed, err := s.bucket.SignedURL(ctx, key, SignedURLTTL)
	if err != nil {
		return model.UploadReceipt{}, fmt.Errorf("failed to sign upload URL: %w", err)
	}

	return model.UploadReceipt{
		Success:    true,
		FileURL:    signed,
		UploadedTo: key,
	}, nil
}

func contentTypeFor(fileName string) string {
	if i := strings.LastIndex(fileName, "."); i >= 0 {
		if ct := mime.TypeByExtension(fileName[i:]); ct != "" {
			return ct
		}
	}
	return "application/octet-stream"
}
