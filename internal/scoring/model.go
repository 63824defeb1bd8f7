package scoring

import (
	"errors"
	"math"
)

var ErrDimensionMismatch = errors.New("weights do not match feature dimension")

// ValidWeights reports whether weights can be applied to a vector built from
// FeatureNames.
func ValidWeights(weights []float64) bool {
	if len(weights) != len(FeatureNames) {
		return false
	}
	for _, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return false
		}
	}
	return true
}

// ScoreModel returns weights · features, rounded and clamped to [0,100].
func ScoreModel(weights, features []float64) (int, error) {
	if len(weights) != len(features) {
		return 0, ErrDimensionMismatch
	}
	var s float64
	for i := range weights {
		s += weights[i] * features[i]
	}
	return clampScore(s), nil
}
