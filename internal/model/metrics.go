package model

// ProcessedMetrics are the five derived credit indicators for one client.
// They are recomputed from a single ClientRecord and overwritten each time.
type ProcessedMetrics struct {
	CID                 string  `json:"cid,omitempty"`
	PaymentHistory      float64 `json:"paymentHistory"`
	CreditUtilization   float64 `json:"creditUtilization"`
	CreditHistoryLength int     `json:"creditHistoryLength"`
	CreditMix           int     `json:"creditMix"`
	NewInquiries        int     `json:"newInquiries"`
}
