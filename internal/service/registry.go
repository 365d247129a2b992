package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/loansiya/internal/common"
	"github.com/Veraticus/loansiya/internal/model"
	"github.com/Veraticus/loansiya/internal/storage"
)

// ErrUnknownClient reports a registry without an entry for the requested cid.
// It always accompanies common.ErrNotFound.
var ErrUnknownClient = errors.New("client not in registry")

// ClientRegistry reads the shared client registry collection.
type ClientRegistry struct {
	bucket storage.Bucket
}

// NewClientRegistry creates a registry over the client bucket.
func NewClientRegistry(bucket storage.Bucket) *ClientRegistry {
	return &ClientRegistry{bucket: bucket}
}

// All returns every registry entry in stored order.
func (r *ClientRegistry) All(ctx context.Context) ([]model.Client, error) {
	var clients []model.Client
	if err := storage.ReadJSON(ctx, r.bucket, RegistryKey, &clients); err != nil {
		return nil, fmt.Errorf("failed to load client registry: %w", err)
	}
	if clients == nil {
		clients = []model.Client{}
	}
	return clients, nil
}

// Get returns the entry whose cid matches exactly.
func (r *ClientRegistry) Get(ctx context.Context, cid string) (model.Client, error) {
	clients, err := r.All(ctx)
	if err != nil {
		return model.Client{}, err
	}
	for _, c := range clients {
		if c.CID == cid {
			return c, nil
		}
	}
	return model.Client{}, fmt.Errorf("%w: %w %s", common.ErrNotFound, ErrUnknownClient, cid)
}

// Name returns the display name of a client.
func (r *ClientRegistry) Name(ctx context.Context, cid string) (string, error) {
	client, err := r.Get(ctx, cid)
	if err != nil {
		return "", err
	}
	return client.Name, nil
}
