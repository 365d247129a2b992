package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StatusActive is the only officer status allowed to log in.
const StatusActive = "active"

// OfficerAccount is a loan officer's stored credential entry. Profile fields
// beyond the credential triple are kept verbatim for output.
type OfficerAccount struct {
	Username     string
	PasswordHash string
	Status       string
	raw          json.RawMessage
}

// IsActive reports whether the account status is "active", ignoring case.
func (o OfficerAccount) IsActive() bool {
	return strings.EqualFold(o.Status, StatusActive)
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OfficerAccount) UnmarshalJSON(data []byte) error {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Status   string `json:"status"`
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return fmt.Errorf("decode officer account: %w", err)
	}
	o.Username = creds.Username
	o.PasswordHash = creds.Password
	o.Status = creds.Status
	o.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (o OfficerAccount) MarshalJSON() ([]byte, error) {
	if len(o.raw) > 0 {
		return o.raw, nil
	}
	return json.Marshal(struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Status   string `json:"status"`
	}{o.Username, o.PasswordHash, o.Status})
}

// Redacted returns the account as JSON without its password hash.
func (o OfficerAccount) Redacted() (json.RawMessage, error) {
	data, err := o.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode officer account: %w", err)
	}
	delete(fields, "password")
	return json.Marshal(fields)
}
