package server

import (
	"context"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// Prober is implemented by store buckets that can check their own reachability.
type Prober interface {
	Probe(ctx context.Context) error
}

// BucketHealthService verifies that every configured bucket is reachable.
type BucketHealthService struct {
	Buckets []Prober
}

// Probe implements the HealthService interface.
func (s BucketHealthService) Probe(ctx context.Context) error {
	for _, b := range s.Buckets {
		if b == nil {
			continue
		}
		if err := b.Probe(ctx); err != nil {
			return err
		}
	}
	return nil
}
