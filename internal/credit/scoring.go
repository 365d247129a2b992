package credit

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/loansiya/internal/model"
)

// Weights of each normalized metric in the credit score. They sum to 1.
const (
	WeightPaymentHistory      = 0.35
	WeightCreditUtilization   = 0.30
	WeightCreditHistoryLength = 0.15
	WeightCreditMix           = 0.10
	WeightNewInquiries        = 0.10
)

// Credit score scale.
const (
	ScoreFloor = 300
	ScoreSpan  = 550
)

// historyCapMonths is the credit age beyond which history earns no more credit.
const historyCapMonths = 60

// Logistic model coefficients for the default probability.
const (
	logitIntercept           = -4.0
	logitPaymentHistory      = 5.0
	logitCreditUtilization   = -3.0
	logitCreditHistoryLength = 2.0
	logitCreditMix           = 1.0
	logitNewInquiries        = -2.0
)

// probabilityPlaces is the number of decimal places kept in DefaultProbability.
const probabilityPlaces = 4

// Risk category lower bounds (inclusive).
const (
	thresholdExceptional = 800
	thresholdVeryGood    = 740
	thresholdGood        = 670
	thresholdFair        = 580
)

// Normalized holds the metrics rescaled for the weighted score.
type Normalized struct {
	PaymentHistory      float64
	CreditUtilization   float64
	CreditHistoryLength float64
	CreditMix           float64
	NewInquiries        float64
}

// Assessment is the scoring engine output for one set of metrics.
type Assessment struct {
	CreditScore        int
	DefaultProbability float64
	RiskCategory       model.RiskCategory
	Recommendation     model.Recommendation
}

// Assess runs the full scoring pipeline over m.
func Assess(m model.ProcessedMetrics) Assessment {
	score := CreditScore(m)
	category := ClassifyRisk(score)
	return Assessment{
		CreditScore:        score,
		DefaultProbability: DefaultProbability(m),
		RiskCategory:       category,
		Recommendation:     Recommend(category),
	}
}

// Normalize rescales m for weighting. Utilization above 100 and inquiry
// counts above 100 produce negative components; inquiries are a raw count
// but are scaled as if they ranged 0-100.
func Normalize(m model.ProcessedMetrics) Normalized {
	return Normalized{
		PaymentHistory:      m.PaymentHistory / 100,
		CreditUtilization:   1 - m.CreditUtilization/100,
		CreditHistoryLength: math.Min(float64(m.CreditHistoryLength)/historyCapMonths, 1),
		CreditMix:           float64(m.CreditMix) / 100,
		NewInquiries:        1 - float64(m.NewInquiries)/100,
	}
}

// WeightedSum combines normalized metrics with the fixed weights.
func WeightedSum(n Normalized) float64 {
	return WeightPaymentHistory*n.PaymentHistory +
		WeightCreditUtilization*n.CreditUtilization +
		WeightCreditHistoryLength*n.CreditHistoryLength +
		WeightCreditMix*n.CreditMix +
		WeightNewInquiries*n.NewInquiries
}

// CreditScore maps metrics onto the 300-850 scale, rounding half up.
// Out-of-range inputs produce out-of-range scores; nothing is clamped.
func CreditScore(m model.ProcessedMetrics) int {
	raw := ScoreFloor + WeightedSum(Normalize(m))*ScoreSpan
	return int(math.Floor(raw + 0.5))
}

// DefaultProbability estimates the probability of default with a logistic
// model over the raw metrics, each divided by 100 (credit history included),
// rounded to four decimal places.
func DefaultProbability(m model.ProcessedMetrics) float64 {
	z := logitIntercept +
		logitPaymentHistory*(m.PaymentHistory/100) +
		logitCreditUtilization*(m.CreditUtilization/100) +
		logitCreditHistoryLength*(float64(m.CreditHistoryLength)/100) +
		logitCreditMix*(float64(m.CreditMix)/100) +
		logitNewInquiries*(float64(m.NewInquiries)/100)

	p := 1 / (1 + math.Exp(-z))
	return decimal.NewFromFloat(p).Round(probabilityPlaces).InexactFloat64()
}

// ClassifyRisk buckets a credit score. Lower bounds are inclusive.
func ClassifyRisk(score int) model.RiskCategory {
	switch {
	case score >= thresholdExceptional:
		return model.RiskExceptional
	case score >= thresholdVeryGood:
		return model.RiskVeryGood
	case score >= thresholdGood:
		return model.RiskGood
	case score >= thresholdFair:
		return model.RiskFair
	default:
		return model.RiskPoor
	}
}

// Recommend maps a risk category to a lending recommendation.
func Recommend(category model.RiskCategory) model.Recommendation {
	switch category {
	case model.RiskPoor:
		return model.RecommendReviewOrDecline
	case model.RiskFair:
		return model.RecommendReview
	default:
		return model.RecommendApprove
	}
}
