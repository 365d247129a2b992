package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/Veraticus/loansiya/internal/common"
	"github.com/Veraticus/loansiya/internal/model"
	"github.com/Veraticus/loansiya/internal/storage"
)

// BcryptVerifier implements PasswordVerifier for bcrypt hashes.
type BcryptVerifier struct{}

// Verify implements PasswordVerifier.
func (BcryptVerifier) Verify(hash, secret string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
}

// OfficerDirectory reads loan officer accounts and checks their credentials.
type OfficerDirectory struct {
	bucket   storage.Bucket
	verifier PasswordVerifier
	logger   *slog.Logger
}

// NewOfficerDirectory creates a directory over the accounts bucket.
func NewOfficerDirectory(bucket storage.Bucket, verifier PasswordVerifier, logger *slog.Logger) *OfficerDirectory {
	return &OfficerDirectory{
		bucket:   bucket,
		verifier: verifier,
		logger:   logger,
	}
}

// List returns every stored officer account.
func (d *OfficerDirectory) List(ctx context.Context) ([]model.OfficerAccount, error) {
	var officers []model.OfficerAccount
	if err := storage.ReadJSON(ctx, d.bucket, OfficersKey, &officers); err != nil {
		return nil, fmt.Errorf("failed to load officer accounts: %w", err)
	}
	if officers == nil {
		officers = []model.OfficerAccount{}
	}
	return officers, nil
}

// Login authenticates username with secret. The returned account includes
// the stored hash; callers must not expose it further.
func (d *OfficerDirectory) Login(ctx context.Context, username, secret string) (model.OfficerAccount, error) {
	officers, err := d.List(ctx)
	if err != nil {
		return model.OfficerAccount{}, err
	}

	var found *model.OfficerAccount
	for i := range officers {
		if officers[i].Username == username {
			found = &officers[i]
			break
		}
	}

	if found == nil || !found.IsActive() {
		d.logger.Warn("officer login rejected", "username", username, "reason", "unknown or inactive")
		return model.OfficerAccount{}, common.NewUserError("Invalid or inactive account", common.ErrUnauthorized)
	}

	if err := d.verifier.Verify(found.PasswordHash, secret); err != nil {
		d.logger.Warn("officer login rejected", "username", username, "reason", "password mismatch")
		return model.OfficerAccount{}, common.NewUserError("Incorrect password", common.ErrUnauthorized)
	}

	d.logger.Info("officer logged in", "username", username)
	return *found, nil
}
