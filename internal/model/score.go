package model

// RiskCategory is the band a credit score falls into.
type RiskCategory string

// Risk categories, best first.
const (
	RiskExceptional RiskCategory = "Exceptional"
	RiskVeryGood    RiskCategory = "Very Good"
	RiskGood        RiskCategory = "Good"
	RiskFair        RiskCategory = "Fair"
	RiskPoor        RiskCategory = "Poor"
)

// Recommendation is the coarse lending signal derived from a risk category.
type Recommendation string

// Recommendations.
const (
	RecommendApprove         Recommendation = "APPROVE"
	RecommendReview          Recommendation = "REVIEW"
	RecommendReviewOrDecline Recommendation = "REVIEW OR DECLINE"
)

// ScoreResult is the persisted outcome of one scoring run.
type ScoreResult struct {
	Timestamp          string           `json:"timestamp"`
	CID                string           `json:"cid"`
	Input              ProcessedMetrics `json:"input"`
	CreditScore        int              `json:"creditScore"`
	DefaultProbability float64          `json:"defaultProbability"`
	RiskCategory       RiskCategory     `json:"riskCategory"`
	Recommendation     Recommendation   `json:"recommendation"`
}
