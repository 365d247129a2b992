// Package model holds the data types exchanged between ingestion, metrics
// derivation, scoring and the HTTP surface.
package model

import (
	"encoding/json"
	"fmt"
)

// Client is one entry of the client registry. Only the identifying fields
// are typed; the full stored entry is preserved and re-emitted verbatim.
type Client struct {
	CID  string
	Name string
	raw  json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Client) UnmarshalJSON(data []byte) error {
	var ident struct {
		CID  string `json:"cid"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &ident); err != nil {
		return fmt.Errorf("decode client entry: %w", err)
	}
	c.CID = ident.CID
	c.Name = ident.Name
	c.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c Client) MarshalJSON() ([]byte, error) {
	if len(c.raw) > 0 {
		return c.raw, nil
	}
	return json.Marshal(struct {
		CID  string `json:"cid"`
		Name string `json:"name"`
	}{c.CID, c.Name})
}

// ClientRecord is the raw per-client financial record supplied by upstream
// systems. Slices and pointers are nil when the field was absent, which the
// metrics derivation distinguishes from an empty list.
type ClientRecord struct {
	CID                    string            `json:"cid"`
	Name                   string            `json:"name,omitempty"`
	PaymentHistoryLog      []PaymentPeriod   `json:"paymentHistoryLog"`
	UtilizationData        *UtilizationData  `json:"utilizationData"`
	CreditHistoryStartDate Date              `json:"creditHistoryStartDate"`
	CreditAccounts         []CreditAccount   `json:"creditAccounts"`
	LoanHistory            []LoanApplication `json:"loanHistory,omitempty"`
}

// PaymentPeriod is one entry of the payment-history log.
type PaymentPeriod struct {
	Period         string  `json:"period,omitempty"`
	OnTimePayments float64 `json:"onTimePayments"`
	LatePayments   float64 `json:"latePayments"`
}

// UtilizationData describes revolving credit usage.
type UtilizationData struct {
	TotalUsed        float64 `json:"totalUsed"`
	TotalCreditLimit float64 `json:"totalCreditLimit"`
}

// CreditAccount is one open credit line.
type CreditAccount struct {
	AccountID string  `json:"accountId,omitempty"`
	Type      string  `json:"type,omitempty"`
	Balance   float64 `json:"balance,omitempty"`
}

// LoanApplication is a historical credit application.
type LoanApplication struct {
	LoanID      string  `json:"loanId,omitempty"`
	DateApplied Date    `json:"dateApplied"`
	Amount      float64 `json:"amount,omitempty"`
	Status      string  `json:"status,omitempty"`
}
