package analysis

import "time"

// ActivityLabel categorizes observed fish activity.
type ActivityLabel string

const (
	ActivityLow      ActivityLabel = "Low"
	ActivityModerate ActivityLabel = "Moderate"
	ActivityHigh     ActivityLabel = "High"
	ActivityFeeding  ActivityLabel = "Feeding"
)

// ActivityLabels is the fixed set an analysis may report.
var ActivityLabels = []ActivityLabel{
	ActivityLow,
	ActivityModerate,
	ActivityHigh,
	ActivityFeeding,
}

// WaterQualityImpact categorizes the predicted effect on water quality.
type WaterQualityImpact string

const (
	ImpactMinimal  WaterQualityImpact = "Minimal"
	ImpactLow      WaterQualityImpact = "Low"
	ImpactModerate WaterQualityImpact = "Moderate"
)

// Result is the record produced by a completed analysis. It is immutable
// once created and superseded, never mutated, by the next completed run.
type Result struct {
	ID                  string             `json:"id"`
	SourceName          string             `json:"source_name"`
	FeedAmountKg        float64            `json:"feed_amount_kg"`
	Confidence          float64            `json:"confidence"`
	CostSavingsUSD      float64            `json:"cost_savings_usd"`
	SustainabilityScore float64            `json:"sustainability_score"`
	ActivityLabel       ActivityLabel      `json:"activity_label"`
	FishCount           int                `json:"fish_count"`
	EfficiencyScore     float64            `json:"efficiency_score"`
	WaterQualityImpact  WaterQualityImpact `json:"water_quality_impact"`
	ProducedAt          time.Time          `json:"produced_at"`
}
