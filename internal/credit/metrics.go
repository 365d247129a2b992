package credit

import (
	"time"

	"github.com/Veraticus/loansiya/internal/common"
	"github.com/Veraticus/loansiya/internal/model"
)

const (
	// monthLength approximates a month as 30 days for credit-age purposes.
	monthLength = 30 * 24 * time.Hour
	// inquiryWindow is the trailing period counted as new inquiries.
	inquiryWindow = 365 * 24 * time.Hour
	// mixPointsPerAccount is the credit-mix contribution of each distinct account.
	mixPointsPerAccount = 10
	maxCreditMix        = 100
)

// DeriveMetrics computes ProcessedMetrics from a raw record as of now.
// It fails with common.ErrMalformedInput when a required collection is absent
// or would cause a division by zero.
func DeriveMetrics(record model.ClientRecord, now time.Time) (model.ProcessedMetrics, error) {
	paymentHistory, err := PaymentHistory(record.PaymentHistoryLog)
	if err != nil {
		return model.ProcessedMetrics{}, err
	}

	utilization, err := CreditUtilization(record.UtilizationData)
	if err != nil {
		return model.ProcessedMetrics{}, err
	}

	if record.CreditHistoryStartDate.IsZero() {
		return model.ProcessedMetrics{}, common.Malformedf("creditHistoryStartDate is required")
	}

	if record.CreditAccounts == nil {
		return model.ProcessedMetrics{}, common.Malformedf("creditAccounts is required")
	}

	inquiries, err := NewInquiries(record.LoanHistory, now)
	if err != nil {
		return model.ProcessedMetrics{}, err
	}

	return model.ProcessedMetrics{
		CID:                 record.CID,
		PaymentHistory:      paymentHistory,
		CreditUtilization:   utilization,
		CreditHistoryLength: CreditHistoryLength(record.CreditHistoryStartDate.Time, now),
		CreditMix:           CreditMix(record.CreditAccounts),
		NewInquiries:        inquiries,
	}, nil
}

// PaymentHistory returns the percentage of payments made on time.
func PaymentHistory(log []model.PaymentPeriod) (float64, error) {
	if len(log) == 0 {
		return 0, common.Malformedf("paymentHistoryLog is empty")
	}

	var onTime, total float64
	for _, entry := range log {
		onTime += entry.OnTimePayments
		total += entry.OnTimePayments + entry.LatePayments
	}
	if total == 0 {
		return 0, common.Malformedf("paymentHistoryLog has zero total payments")
	}

	return onTime / total * 100, nil
}

// CreditUtilization returns the percentage of available credit in use.
// The result is not clamped; overdrawn accounts exceed 100.
func CreditUtilization(data *model.UtilizationData) (float64, error) {
	if data == nil {
		return 0, common.Malformedf("utilizationData is required")
	}
	if data.TotalCreditLimit == 0 {
		return 0, common.Malformedf("utilizationData.totalCreditLimit is zero")
	}
	return data.TotalUsed / data.TotalCreditLimit * 100, nil
}

// CreditHistoryLength returns the whole number of 30-day months between
// start and now. Start dates in the future yield 0.
func CreditHistoryLength(start, now time.Time) int {
	age := now.Sub(start)
	if age <= 0 {
		return 0
	}
	return int(age / monthLength)
}

// CreditMix scores account diversity: 10 points per listed account, capped
// at 100. Every entry counts, including repeated account ids.
func CreditMix(accounts []model.CreditAccount) int {
	return min(len(accounts)*mixPointsPerAccount, maxCreditMix)
}

// NewInquiries counts applications dated within the trailing 365 days of now,
// inclusive of exactly 365 days prior. A nil history counts as zero.
func NewInquiries(history []model.LoanApplication, now time.Time) (int, error) {
	cutoff := now.Add(-inquiryWindow)
	count := 0
	for i, entry := range history {
		if entry.DateApplied.IsZero() {
			return 0, common.Malformedf("loanHistory[%d].dateApplied is required", i)
		}
		if !entry.DateApplied.Before(cutoff) {
			count++
		}
	}
	return count, nil
}
