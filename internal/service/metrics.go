package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/loansiya/internal/credit"
	"github.com/Veraticus/loansiya/internal/model"
	"github.com/Veraticus/loansiya/internal/storage"
)

// MetricsService derives processed metrics from raw client records.
type MetricsService struct {
	bucket storage.Bucket
	clock  Clock
	logger *slog.Logger
}

// NewMetricsService creates a MetricsService.
func NewMetricsService(bucket storage.Bucket, clock Clock, logger *slog.Logger) *MetricsService {
	return &MetricsService{
		bucket: bucket,
		clock:  clock,
		logger: logger,
	}
}

// Compute reads the raw record for cid, derives its metrics, overwrites the
// processed metrics object and returns the metrics.
func (s *MetricsService) Compute(ctx context.Context, cid string) (model.ProcessedMetrics, error) {
	if err := validateCID(cid); err != nil {
		return model.ProcessedMetrics{}, err
	}

	var record model.ClientRecord
	if err := storage.ReadJSON(ctx, s.bucket, RawRecordKey(cid), &record); err != nil {
		return model.ProcessedMetrics{}, fmt.Errorf("failed to load raw record: %w", err)
	}

	metrics, err := credit.DeriveMetrics(record, s.clock.now())
	if err != nil {
		return model.ProcessedMetrics{}, fmt.Errorf("failed to derive metrics for %s: %w", cid, err)
	}
	metrics.CID = cid

	if err := storage.WriteJSON(ctx, s.bucket, ProcessedMetricsKey(cid), metrics); err != nil {
		return model.ProcessedMetrics{}, fmt.Errorf("failed to store metrics: %w", err)
	}

	s.logger.Info("metrics computed",
		"cid", cid,
		"payment_history", metrics.PaymentHistory,
		"credit_utilization", metrics.CreditUtilization,
		"new_inquiries", metrics.NewInquiries)

	return metrics, nil
}
