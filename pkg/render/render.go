package render

import (
	"fmt"

	"github.com/skinlens/skinlens/pkg/models"
)

const (
	BadgeHigh   = "High confidence"
	BadgeMedium = "Medium"
	BadgeLow    = "Low"

	UnknownLabel = "Unknown"
	NoConfidence = "N/A"
)

// ResultView is what the result panel displays for a successful prediction.
type ResultView struct {
	Label      string
	Confidence string
	Badge      string
}

// NewResultView maps a parsed payload to display text. Missing fields degrade
// to placeholders instead of failing.
func NewResultView(res *models.PredictionResult) ResultView {
	if res == nil {
		res = &models.PredictionResult{}
	}
	return ResultView{
		Label:      PredictionLabel(res.Prediction),
		Confidence: FormatConfidence(res.Confidence),
		Badge:      ConfidenceBadge(res.Confidence),
	}
}

func PredictionLabel(prediction *string) string {
	if prediction == nil || *prediction == "" {
		return UnknownLabel
	}
	return *prediction
}

// FormatConfidence renders a [0,1] confidence as a percentage with two
// decimal places, e.g. 0.93 -> "93.00%".
func FormatConfidence(confidence *float64) string {
	if confidence == nil {
		return NoConfidence
	}
	return fmt.Sprintf("%.2f%%", *confidence*100)
}

// ConfidenceBadge buckets confidence into three tiers. An absent confidence
// counts as 0 and lands in the lowest tier.
func ConfidenceBadge(confidence *float64) string {
	c := 0.0
	if confidence != nil {
		c = *confidence
	}
	switch {
	case c > 0.8:
		return BadgeHigh
	case c > 0.5:
		return BadgeMedium
	default:
		return BadgeLow
	}
}
