// Package service implements the loan-origination use cases on top of the
// object store: client registry lookups, metrics derivation, scoring,
// document ingestion and officer authentication.
package service

import (
	"strings"
	"time"

	"github.com/Veraticus/loansiya/internal/common"
)

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

// PasswordVerifier checks a clear-text secret against a stored hash.
// Verify returns nil on a match.
type PasswordVerifier interface {
	Verify(hash, secret string) error
}

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// validateCID rejects client ids that cannot be embedded in an object key.
func validateCID(cid string) error {
	if strings.TrimSpace(cid) == "" {
		return common.Validationf("client id is required")
	}
	if strings.ContainsAny(cid, `/\`) || cid == "." || cid == ".." {
		return common.Validationf("client id %q is invalid", cid)
	}
	return nil
}
