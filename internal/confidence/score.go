// Package confidence derives a bounded confidence score from how much of an
// estimate is backed by historical evidence.
package confidence

import "github.com/jonathan/project-estimator/internal/types"

const (
	// coverageWeight and strengthWeight blend the two evidence fractions.
	coverageWeight = 0.6
	strengthWeight = 0.4

	// strongSamples is the sample count at which a match counts as strong
	// evidence rather than merely usable.
	strongSamples = 3

	// maxConfidence caps the reported score.
	maxConfidence = 0.95
)

// Score computes the project confidence in [0, 0.95] from the feature
// estimates. An empty feature list scores exactly 0.
func Score(features []types.FeatureEstimate) float64 {
	if len(features) == 0 {
		return 0
	}

	covered := 0
	strong := 0
	for _, f := range features {
		if !f.Calibrated {
			continue
		}
		covered++
		if f.SampleCount >= strongSamples {
			strong++
		}
	}

	n := float64(len(features))
	coverage := float64(covered) / n
	strength := float64(strong) / n

	score := coverage*coverageWeight + strength*strengthWeight
	if score > maxConfidence {
		return maxConfidence
	}
	return score
}
