package dashboard

import "time"

// AnalysisCompletedEvent is emitted when a simulated analysis reaches the
// Complete state.
type AnalysisCompletedEvent struct {
	AnalysisID          string    `json:"analysis_id"`
	SessionID           string    `json:"session_id"`
	SourceName          string    `json:"source_name"`
	FeedAmountKg        float64   `json:"feed_amount_kg"`
	Confidence          float64   `json:"confidence"`
	CostSavingsUSD      float64   `json:"cost_savings_usd"`
	SustainabilityScore float64   `json:"sustainability_score"`
	ActivityLabel       string    `json:"activity_label"`
	FishCount           int       `json:"fish_count"`
	ProducedAt          time.Time `json:"produced_at"`
}
