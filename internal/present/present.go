// Package present turns analysis snapshots into a render-ready dashboard
// view. It performs no computation beyond formatting and layout policy;
// charts themselves are the consuming frontend's concern.
package present

import (
	"fmt"
	"math"

	"github.com/your-org/aquavision/internal/analysis"
)

// Feed-plan economics baseline.
const (
	baselineFeedKg = 3.0
	costPerKgUSD   = 4.50
	daysPerMonth   = 30
)

// Card is one formatted summary metric.
type Card struct {
	Title   string `json:"title"`
	Value   string `json:"value"`
	Caption string `json:"caption"`
}

// SeriesPoint is one labeled value in a chart dataset.
type SeriesPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// FeedPlan summarizes the feeding adjustment implied by the current result.
type FeedPlan struct {
	CurrentFeedKg     float64 `json:"current_feed_kg"`
	RecommendedFeedKg float64 `json:"recommended_feed_kg"`
	AdjustmentPercent float64 `json:"adjustment_percent"`
	CostPerKgUSD      float64 `json:"cost_per_kg_usd"`
	DailySavingsUSD   float64 `json:"daily_savings_usd"`
	MonthlySavingsUSD float64 `json:"monthly_savings_usd"`
}

// View is the rendered dashboard state.
type View struct {
	State           analysis.State `json:"state"`
	HasResult       bool           `json:"has_result"`
	ActivityLabel   string         `json:"activity_label,omitempty"`
	Cards           []Card         `json:"cards"`
	FeedPlan        *FeedPlan      `json:"feed_plan,omitempty"`
	Insights        []string       `json:"insights,omitempty"`
	Recommendations []string       `json:"recommendations,omitempty"`
	FeedSeries      []SeriesPoint  `json:"feed_series"`
	ScoreSeries     []SeriesPoint  `json:"score_series"`
	SampleSeries    bool           `json:"sample_series"`
}

// Canned illustrative series, shown until a session has history of its own.
var (
	sampleFeedSeries = []SeriesPoint{
		{Label: "Mon", Value: 3.2}, {Label: "Tue", Value: 2.9},
		{Label: "Wed", Value: 3.4}, {Label: "Thu", Value: 2.7},
		{Label: "Fri", Value: 3.1}, {Label: "Sat", Value: 2.8},
		{Label: "Sun", Value: 3.0},
	}
	sampleScoreSeries = []SeriesPoint{
		{Label: "Mon", Value: 8.1}, {Label: "Tue", Value: 7.8},
		{Label: "Wed", Value: 8.6}, {Label: "Thu", Value: 7.5},
		{Label: "Fri", Value: 8.9}, {Label: "Sat", Value: 8.2},
		{Label: "Sun", Value: 8.4},
	}
)

// BuildView renders a snapshot. It is a pure function: the same snapshot
// always yields the same view.
func BuildView(snap analysis.Snapshot) View {
	v := View{
		State:     snap.State,
		HasResult: snap.Current != nil,
	}

	if snap.Current != nil {
		res := *snap.Current
		v.ActivityLabel = string(res.ActivityLabel)
		v.Cards = buildCards(res)
		v.FeedPlan = buildFeedPlan(res)
		v.Insights = analysis.Insights(res)
		v.Recommendations = analysis.Recommendations(res)
	}

	if len(snap.History) > 0 {
		v.FeedSeries, v.ScoreSeries = historySeries(snap.History)
	} else {
		v.FeedSeries = sampleFeedSeries
		v.ScoreSeries = sampleScoreSeries
		v.SampleSeries = true
	}

	return v
}

func buildCards(res analysis.Result) []Card {
	return []Card{
		{
			Title:   "Recommended Feed",
			Value:   fmt.Sprintf("%.2f kg", res.FeedAmountKg),
			Caption: "per feeding cycle",
		},
		{
			Title:   "Confidence",
			Value:   Percent(res.Confidence),
			Caption: "model certainty",
		},
		{
			Title:   "Cost Savings",
			Value:   USD(res.CostSavingsUSD),
			Caption: "estimated monthly",
		},
		{
			Title:   "Sustainability",
			Value:   fmt.Sprintf("%.1f / 10", res.SustainabilityScore),
			Caption: "environmental score",
		},
	}
}

func buildFeedPlan(res analysis.Result) *FeedPlan {
	adjustment := (res.FeedAmountKg - baselineFeedKg) / baselineFeedKg * 100
	daily := math.Abs(res.FeedAmountKg-baselineFeedKg) * costPerKgUSD
	return &FeedPlan{
		CurrentFeedKg:     baselineFeedKg,
		RecommendedFeedKg: res.FeedAmountKg,
		AdjustmentPercent: round1(adjustment),
		CostPerKgUSD:      costPerKgUSD,
		DailySavingsUSD:   round2(daily),
		MonthlySavingsUSD: round2(daily * daysPerMonth),
	}
}

func historySeries(history []analysis.Result) (feed, score []SeriesPoint) {
	feed = make([]SeriesPoint, 0, len(history))
	score = make([]SeriesPoint, 0, len(history))
	for _, res := range history {
		label := res.ProducedAt.Format("15:04:05")
		feed = append(feed, SeriesPoint{Label: label, Value: res.FeedAmountKg})
		score = append(score, SeriesPoint{Label: label, Value: res.SustainabilityScore})
	}
	return feed, score
}

// Percent formats a [0,1] ratio as a percentage with one decimal.
func Percent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// USD formats a dollar amount with two decimals.
func USD(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
