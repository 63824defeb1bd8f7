package scoring

import "math"

const (
	noCoveragePenalty = 8.0
	maxRecentBonus    = 5.0
	waterSourceNudge  = 0.2
)

// ScoreFormula is the hand-tuned score: disaster penalty, portal coverage and
// a water source mix nudge around the neutral 50.
func ScoreFormula(d Details) int {
	score := 100 - d.DisasterPenalty

	if d.WQPStationCount == 0 && d.WQPResultCount == 0 {
		score -= noCoveragePenalty
	} else if d.HasRecentResults {
		score += math.Min(maxRecentBonus, math.Floor(float64(d.WQPResultCount)/100))
	}

	score += (d.WaterSourceScore - NeutralWaterSourceScore) * waterSourceNudge
	return clampScore(score)
}

func clampScore(s float64) int {
	return int(math.Max(0, math.Min(100, math.Round(s))))
}
