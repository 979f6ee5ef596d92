package analysis

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/your-org/aquavision/internal/media"
)

// ErrAnalysisFailed is reserved for MediaAnalyzer implementations backed by
// real inference or network calls. The simulated analyzer never returns it.
var ErrAnalysisFailed = errors.New("analysis failed")

// MediaAnalyzer produces an analysis Result for a selected upload. The
// coordinator depends only on this interface so a real backend can be
// substituted without touching the state machine.
type MediaAnalyzer interface {
	Analyze(ctx context.Context, up media.Upload) (Result, error)
}

// Metric ranges for the simulated analysis. Each draw is independent and
// uniform over its range.
const (
	feedAmountMinKg   = 2.5
	feedAmountMaxKg   = 4.0
	confidenceMin     = 0.85
	confidenceMax     = 0.99
	costSavingsMin    = 10.0
	costSavingsMax    = 30.0
	sustainabilityMin = 7.0
	sustainabilityMax = 9.5
	efficiencyMin     = 7.0
	efficiencyMax     = 9.5
	fishCountMin      = 15
	fishCountMax      = 45
)

var waterQualityImpacts = []WaterQualityImpact{ImpactMinimal, ImpactLow, ImpactModerate}

// SimulatedAnalyzer is the placeholder stand-in for a real inference call:
// a fixed-duration wait followed by uniform random metric generation. The
// delay does not depend on file size or content.
type SimulatedAnalyzer struct {
	delay time.Duration

	mu  sync.Mutex // guards rng when an analyzer is shared across sessions
	rng *rand.Rand
}

// NewSimulatedAnalyzer constructs a SimulatedAnalyzer with the given fixed
// delay. A nil rng falls back to a time-seeded source.
func NewSimulatedAnalyzer(delay time.Duration, rng *rand.Rand) *SimulatedAnalyzer {
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>32))
	}
	return &SimulatedAnalyzer{delay: delay, rng: rng}
}

// Analyze waits the fixed delay and synthesizes a Result. It cannot fail;
// the context is honored only so substitutes share the same signature.
func (a *SimulatedAnalyzer) Analyze(ctx context.Context, up media.Upload) (Result, error) {
	if a.delay > 0 {
		timer := time.NewTimer(a.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	return Result{
		ID:                  uuid.NewString(),
		SourceName:          up.Name,
		FeedAmountKg:        round2(a.uniform(feedAmountMinKg, feedAmountMaxKg)),
		Confidence:          a.uniform(confidenceMin, confidenceMax),
		CostSavingsUSD:      round2(a.uniform(costSavingsMin, costSavingsMax)),
		SustainabilityScore: round1(a.uniform(sustainabilityMin, sustainabilityMax)),
		ActivityLabel:       ActivityLabels[a.rng.IntN(len(ActivityLabels))],
		FishCount:           fishCountMin + a.rng.IntN(fishCountMax-fishCountMin),
		EfficiencyScore:     round1(a.uniform(efficiencyMin, efficiencyMax)),
		WaterQualityImpact:  waterQualityImpacts[a.rng.IntN(len(waterQualityImpacts))],
		ProducedAt:          time.Now().UTC(),
	}, nil
}

func (a *SimulatedAnalyzer) uniform(lo, hi float64) float64 {
	return lo + a.rng.Float64()*(hi-lo)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
