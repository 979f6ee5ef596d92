package analysis

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/aquavision/internal/media"
)

func seededAnalyzer(delay time.Duration) *SimulatedAnalyzer {
	return NewSimulatedAnalyzer(delay, rand.New(rand.NewPCG(1, 2)))
}

func TestSimulatedAnalyzerMetricRanges(t *testing.T) {
	analyzer := seededAnalyzer(0)
	up := media.Upload{Name: "feeding.mp4", SizeBytes: 1024, Kind: media.KindMP4}

	labels := map[ActivityLabel]bool{}
	for i := 0; i < 500; i++ {
		res, err := analyzer.Analyze(context.Background(), up)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, res.FeedAmountKg, 2.5)
		assert.LessOrEqual(t, res.FeedAmountKg, 4.0)
		assert.GreaterOrEqual(t, res.Confidence, 0.85)
		assert.LessOrEqual(t, res.Confidence, 0.99)
		assert.GreaterOrEqual(t, res.CostSavingsUSD, 10.0)
		assert.LessOrEqual(t, res.CostSavingsUSD, 30.0)
		assert.GreaterOrEqual(t, res.SustainabilityScore, 7.0)
		assert.LessOrEqual(t, res.SustainabilityScore, 9.5)
		assert.Contains(t, ActivityLabels, res.ActivityLabel)
		assert.GreaterOrEqual(t, res.FishCount, 15)
		assert.Less(t, res.FishCount, 45)
		assert.GreaterOrEqual(t, res.EfficiencyScore, 7.0)
		assert.LessOrEqual(t, res.EfficiencyScore, 9.5)
		assert.Contains(t, []WaterQualityImpact{ImpactMinimal, ImpactLow, ImpactModerate}, res.WaterQualityImpact)

		assert.NotEmpty(t, res.ID)
		assert.Equal(t, "feeding.mp4", res.SourceName)
		assert.False(t, res.ProducedAt.IsZero())

		labels[res.ActivityLabel] = true
	}

	// Over 500 draws every label in the fixed four-element set should occur.
	assert.Len(t, labels, len(ActivityLabels))
}

func TestSimulatedAnalyzerWaitsFixedDelay(t *testing.T) {
	const delay = 60 * time.Millisecond
	analyzer := seededAnalyzer(delay)

	start := time.Now()
	_, err := analyzer.Analyze(context.Background(), media.Upload{Name: "clip.mov", Kind: media.KindMOV})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), delay, "must never complete earlier than the fixed delay")
}

func TestSimulatedAnalyzerDelayIgnoresMediaSize(t *testing.T) {
	const delay = 40 * time.Millisecond
	analyzer := seededAnalyzer(delay)

	small := media.Upload{Name: "small.mp4", SizeBytes: 1, Kind: media.KindMP4}
	large := media.Upload{Name: "large.mp4", SizeBytes: 90 << 20, Kind: media.KindMP4}

	startSmall := time.Now()
	_, err := analyzer.Analyze(context.Background(), small)
	require.NoError(t, err)
	smallElapsed := time.Since(startSmall)

	startLarge := time.Now()
	_, err = analyzer.Analyze(context.Background(), large)
	require.NoError(t, err)
	largeElapsed := time.Since(startLarge)

	assert.GreaterOrEqual(t, smallElapsed, delay)
	assert.GreaterOrEqual(t, largeElapsed, delay)
}

func TestSimulatedAnalyzerResultsAreIndependentDraws(t *testing.T) {
	analyzer := seededAnalyzer(0)
	up := media.Upload{Name: "feeding.mp4", Kind: media.KindMP4}

	first, err := analyzer.Analyze(context.Background(), up)
	require.NoError(t, err)
	second, err := analyzer.Analyze(context.Background(), up)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}
