package credit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/loansiya/internal/model"
)

func TestWeightsSumToOne(t *testing.T) {
	sum := WeightPaymentHistory + WeightCreditUtilization + WeightCreditHistoryLength +
		WeightCreditMix + WeightNewInquiries
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestAssess_SampleApplicant(t *testing.T) {
	m := model.ProcessedMetrics{
		PaymentHistory:      95,
		CreditUtilization:   20,
		CreditHistoryLength: 48,
		CreditMix:           80,
		NewInquiries:        2,
	}

	assert.InDelta(t, 0.8705, WeightedSum(Normalize(m)), 1e-9)

	got := Assess(m)
	assert.Equal(t, 779, got.CreditScore)
	assert.Equal(t, model.RiskVeryGood, got.RiskCategory)
	assert.Equal(t, model.RecommendApprove, got.Recommendation)
	assert.InDelta(t, 0.8665, got.DefaultProbability, 1e-12)
}

func TestCreditScore(t *testing.T) {
	tests := []struct {
		name    string
		metrics model.ProcessedMetrics
		want    int
	}{
		{
			name:    "perfect profile",
			metrics: model.ProcessedMetrics{PaymentHistory: 100, CreditHistoryLength: 60, CreditMix: 100},
			want:    850,
		},
		{
			name:    "worst in-range profile",
			metrics: model.ProcessedMetrics{CreditUtilization: 100, NewInquiries: 100},
			want:    300,
		},
		{
			name: "history capped at sixty months",
			metrics: model.ProcessedMetrics{
				PaymentHistory: 100, CreditHistoryLength: 240, CreditMix: 100,
			},
			want: 850,
		},
		{
			name: "middling profile",
			metrics: model.ProcessedMetrics{
				PaymentHistory: 50, CreditUtilization: 50, CreditHistoryLength: 24, CreditMix: 30, NewInquiries: 3,
			},
			want: 582,
		},
		{
			name: "overdrawn utilization is not clamped",
			metrics: model.ProcessedMetrics{
				PaymentHistory: 80, CreditUtilization: 150, CreditHistoryLength: 12, CreditMix: 20, NewInquiries: 5,
			},
			want: 451,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CreditScore(tt.metrics))
		})
	}
}

func TestCreditScore_CanLeaveConventionalRange(t *testing.T) {
	m := model.ProcessedMetrics{CreditUtilization: 400, NewInquiries: 100}
	assert.Less(t, CreditScore(m), ScoreFloor)
}

func TestDefaultProbability(t *testing.T) {
	tests := []struct {
		name    string
		metrics model.ProcessedMetrics
		want    float64
	}{
		{
			name:    "strong profile",
			metrics: model.ProcessedMetrics{PaymentHistory: 100, CreditHistoryLength: 60, CreditMix: 100},
			want:    0.9608,
		},
		{
			name:    "weak profile",
			metrics: model.ProcessedMetrics{CreditUtilization: 100, NewInquiries: 100},
			want:    0.0001,
		},
		{
			name: "history divided by one hundred",
			metrics: model.ProcessedMetrics{
				PaymentHistory: 70, CreditUtilization: 40, CreditHistoryLength: 30, CreditMix: 50, NewInquiries: 1,
			},
			want: 0.3498,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DefaultProbability(tt.metrics)
			assert.InDelta(t, tt.want, got, 1e-12)
			assert.Greater(t, got, 0.0)
			assert.Less(t, got, 1.0)
			assert.InDelta(t, got, math.Round(got*1e4)/1e4, 1e-12, "expected four decimal places")
		})
	}
}

func TestClassifyRisk_Boundaries(t *testing.T) {
	tests := []struct {
		want  model.RiskCategory
		score int
	}{
		{score: 850, want: model.RiskExceptional},
		{score: 800, want: model.RiskExceptional},
		{score: 799, want: model.RiskVeryGood},
		{score: 740, want: model.RiskVeryGood},
		{score: 739, want: model.RiskGood},
		{score: 670, want: model.RiskGood},
		{score: 669, want: model.RiskFair},
		{score: 580, want: model.RiskFair},
		{score: 579, want: model.RiskPoor},
		{score: 300, want: model.RiskPoor},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyRisk(tt.score), "score %d", tt.score)
	}
}

func TestRecommend(t *testing.T) {
	assert.Equal(t, model.RecommendReviewOrDecline, Recommend(model.RiskPoor))
	assert.Equal(t, model.RecommendReview, Recommend(model.RiskFair))
	assert.Equal(t, model.RecommendApprove, Recommend(model.RiskGood))
	assert.Equal(t, model.RecommendApprove, Recommend(model.RiskVeryGood))
	assert.Equal(t, model.RecommendApprove, Recommend(model.RiskExceptional))
}

func TestAssess_Deterministic(t *testing.T) {
	m := model.ProcessedMetrics{
		PaymentHistory: 88.5, CreditUtilization: 33.3, CreditHistoryLength: 17, CreditMix: 40, NewInquiries: 4,
	}
	assert.Equal(t, Assess(m), Assess(m))
}
