// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/loansiya/internal/model"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#3A86FF")
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#4ECDC4") // Teal
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#FFE66D") // Yellow
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#FF6B6B") // Red
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.Color("#95E1D3") // Light teal
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666") // Gray

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)

	// LabelStyle pads metric labels into a column.
	LabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Width(24)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	ChartIcon   = "📊"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	boxTitle := TitleStyle.
		UnsetMargins().
		Render(title)

	boxContent := lipgloss.JoinVertical(
		lipgloss.Left,
		boxTitle,
		content,
	)

	return BoxStyle.Render(boxContent)
}

// RiskStyle colors a risk category by severity.
func RiskStyle(category model.RiskCategory) lipgloss.Style {
	switch category {
	case model.RiskExceptional, model.RiskVeryGood:
		return SuccessStyle.Bold(true)
	case model.RiskGood:
		return InfoStyle.Bold(true)
	case model.RiskFair:
		return WarningStyle.Bold(true)
	default:
		return ErrorStyle.Bold(true)
	}
}

// RenderScore renders a score result as a boxed report.
func RenderScore(result model.ScoreResult) string {
	in := result.Input
	rows := []struct {
		label string
		value string
	}{
		{"Credit score", RiskStyle(result.RiskCategory).Render(fmt.Sprintf("%d", result.CreditScore))},
		{"Risk category", RiskStyle(result.RiskCategory).Render(string(result.RiskCategory))},
		{"Recommendation", string(result.Recommendation)},
		{"Default probability", fmt.Sprintf("%.2f%%", result.DefaultProbability*100)},
		{"", ""},
		{"Payment history", fmt.Sprintf("%.1f%%", in.PaymentHistory)},
		{"Credit utilization", fmt.Sprintf("%.1f%%", in.CreditUtilization)},
		{"Credit history", fmt.Sprintf("%d months", in.CreditHistoryLength)},
		{"Credit mix", fmt.Sprintf("%d", in.CreditMix)},
		{"New inquiries", fmt.Sprintf("%d", in.NewInquiries)},
	}

	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		if row.label == "" {
			continue
		}
		b.WriteString(LabelStyle.Render(row.label))
		b.WriteString(row.value)
	}
	if result.Timestamp != "" {
		b.WriteString("\n\n")
		b.WriteString(SubtleStyle.Render("scored at " + result.Timestamp))
	}

	title := fmt.Sprintf("%s Credit Assessment", ChartIcon)
	if result.CID != "" {
		title += ": " + result.CID
	}
	return RenderBox(title, b.String())
}
