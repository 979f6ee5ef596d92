package analysis

// Insights derives observations from a completed result. The rules mirror
// the thresholds the feeding model was tuned against.
func Insights(res Result) []string {
	var insights []string

	switch res.ActivityLabel {
	case ActivityHigh, ActivityFeeding:
		insights = append(insights, "Fish are actively feeding - optimal time for feed distribution")
	case ActivityLow:
		insights = append(insights, "Low fish activity detected - consider reducing feed amount")
	}

	if res.FishCount > 35 {
		insights = append(insights, "High fish density observed - monitor water quality closely")
	} else if res.FishCount < 20 {
		insights = append(insights, "Lower fish density - feed distribution can be more targeted")
	}

	if res.FeedAmountKg > 3.0 {
		insights = append(insights, "Higher feed requirement detected - fish growth phase likely")
	}

	return insights
}

// Recommendations derives actionable next steps from a completed result.
func Recommendations(res Result) []string {
	var recs []string

	if res.Confidence > 0.9 {
		recs = append(recs, "High confidence analysis - safe to apply recommendations")
	} else if res.Confidence < 0.7 {
		recs = append(recs, "Lower confidence - consider manual verification")
	}

	switch res.ActivityLabel {
	case ActivityFeeding:
		recs = append(recs, "Continue current feeding schedule - fish responding well")
	case ActivityLow:
		recs = append(recs, "Reduce feeding frequency or amount to prevent waste")
	}

	recs = append(recs,
		"Monitor water temperature and quality parameters",
		"Schedule next analysis within 4-6 hours",
	)

	return recs
}
