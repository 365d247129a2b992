package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Veraticus/loansiya/internal/common"
	"github.com/Veraticus/loansiya/internal/credit"
	"github.com/Veraticus/loansiya/internal/model"
	"github.com/Veraticus/loansiya/internal/storage"
)

// timestampLayout renders score timestamps as UTC ISO-8601 with milliseconds.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// ScoringService scores clients from their processed metrics.
type ScoringService struct {
	bucket storage.Bucket
	clock  Clock
	logger *slog.Logger
}

// NewScoringService creates a ScoringService.
func NewScoringService(bucket storage.Bucket, clock Clock, logger *slog.Logger) *ScoringService {
	return &ScoringService{
		bucket: bucket,
		clock:  clock,
		logger: logger,
	}
}

// storedMetrics mirrors ProcessedMetrics with pointers so absent fields
// can be told apart from zeros.
type storedMetrics struct {
	PaymentHistory      *float64 `json:"paymentHistory"`
	CreditUtilization   *float64 `json:"creditUtilization"`
	CreditHistoryLength *int     `json:"creditHistoryLength"`
	CreditMix           *int     `json:"creditMix"`
	NewInquiries        *int     `json:"newInquiries"`
	CID                 string   `json:"cid"`
}

func (m storedMetrics) toModel() (model.ProcessedMetrics, error) {
	missing := ""
	switch {
	case m.PaymentHistory == nil:
		missing = "paymentHistory"
	case m.CreditUtilization == nil:
		missing = "creditUtilization"
	case m.CreditHistoryLength == nil:
		missing = "creditHistoryLength"
	case m.CreditMix == nil:
		missing = "creditMix"
	case m.NewInquiries == nil:
		missing = "newInquiries"
	}
	if missing != "" {
		return model.ProcessedMetrics{}, common.Malformedf("processed metrics missing %s", missing)
	}

	return model.ProcessedMetrics{
		CID:                 m.CID,
		PaymentHistory:      *m.PaymentHistory,
		CreditUtilization:   *m.CreditUtilization,
		CreditHistoryLength: *m.CreditHistoryLength,
		CreditMix:           *m.CreditMix,
		NewInquiries:        *m.NewInquiries,
	}, nil
}

// LoadMetrics reads the processed metrics stored for cid.
func (s *ScoringService) LoadMetrics(ctx context.Context, cid string) (model.ProcessedMetrics, error) {
	if err := validateCID(cid); err != nil {
		return model.ProcessedMetrics{}, err
	}

	data, err := s.bucket.Read(ctx, ProcessedMetricsKey(cid))
	if err != nil {
		return model.ProcessedMetrics{}, fmt.Errorf("failed to load processed metrics: %w", err)
	}
	return DecodeMetrics(data)
}

// DecodeMetrics parses a processed metrics document, rejecting documents
// that omit any of the five metrics.
func DecodeMetrics(data []byte) (model.ProcessedMetrics, error) {
	var stored storedMetrics
	if err := json.Unmarshal(data, &stored); err != nil {
		return model.ProcessedMetrics{}, common.Malformedf("decode processed metrics: %v", err)
	}
	return stored.toModel()
}

// Evaluate scores metrics for cid without touching the store.
func (s *ScoringService) Evaluate(cid string, metrics model.ProcessedMetrics) model.ScoreResult {
	assessment := credit.Assess(metrics)
	return model.ScoreResult{
		Timestamp:          s.clock.now().UTC().Format(timestampLayout),
		CID:                cid,
		Input:              metrics,
		CreditScore:        assessment.CreditScore,
		DefaultProbability: assessment.DefaultProbability,
		RiskCategory:       assessment.RiskCategory,
		Recommendation:     assessment.Recommendation,
	}
}

// Score runs the scoring engine on the stored metrics for cid, overwrites
// the client's score object and returns the result.
func (s *ScoringService) Score(ctx context.Context, cid string) (model.ScoreResult, error) {
	metrics, err := s.LoadMetrics(ctx, cid)
	if err != nil {
		return model.ScoreResult{}, err
	}

	result := s.Evaluate(cid, metrics)

	if err := storage.WriteJSON(ctx, s.bucket, ScoreKey(cid), result); err != nil {
		return model.ScoreResult{}, fmt.Errorf("failed to store score: %w", err)
	}

	s.logger.Info("client scored",
		"cid", cid,
		"credit_score", result.CreditScore,
		"risk_category", result.RiskCategory,
		"recommendation", result.Recommendation)

	return result, nil
}

// Latest returns the most recently stored score result for cid.
func (s *ScoringService) Latest(ctx context.Context, cid string) (model.ScoreResult, error) {
	if err := validateCID(cid); err != nil {
		return model.ScoreResult{}, err
	}

	var result model.ScoreResult
	if err := storage.ReadJSON(ctx, s.bucket, ScoreKey(cid), &result); err != nil {
		return model.ScoreResult{}, fmt.Errorf("failed to load score: %w", err)
	}
	return result, nil
}
