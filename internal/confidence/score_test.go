package confidence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/project-estimator/internal/types"
)

func calibrated(samples int) types.FeatureEstimate {
	return types.FeatureEstimate{Calibrated: true, SampleCount: samples}
}

func uncalibrated() types.FeatureEstimate {
	return types.FeatureEstimate{}
}

func TestScore_TenFeatureProject(t *testing.T) {
	// 10 features: 3 strongly calibrated, 5 with exactly two samples,
	// 2 uncalibrated. Coverage 0.8, strength 0.3.
	features := []types.FeatureEstimate{
		calibrated(3), calibrated(4), calibrated(5),
		calibrated(2), calibrated(2), calibrated(2), calibrated(2), calibrated(2),
		uncalibrated(), uncalibrated(),
	}

	// 0.8*0.6 + 0.3*0.4 = 0.60
	assert.InDelta(t, 0.60, Score(features), 1e-9)
}

func TestScore_MixedCoverage(t *testing.T) {
	// 5 features: 4 calibrated (coverage 0.8), 3 of them with at least
	// three samples (strength 0.6).
	features := []types.FeatureEstimate{
		calibrated(5),
		calibrated(3),
		calibrated(3),
		calibrated(2),
		uncalibrated(),
	}

	// 0.8*0.6 + 0.6*0.4 = 0.72
	assert.InDelta(t, 0.72, Score(features), 1e-9)
}

func TestScore_WeakCoverage(t *testing.T) {
	// 5 features, 4 usable but only 1 strong.
	features := []types.FeatureEstimate{
		calibrated(2),
		calibrated(2),
		calibrated(2),
		calibrated(4),
		uncalibrated(),
	}

	// 0.8*0.6 + 0.2*0.4 = 0.56
	assert.InDelta(t, 0.56, Score(features), 1e-9)
}

func TestScore_NoEvidence(t *testing.T) {
	features := []types.FeatureEstimate{uncalibrated(), uncalibrated()}
	assert.Equal(t, 0.0, Score(features))
}

func TestScore_CappedBelowCertainty(t *testing.T) {
	features := []types.FeatureEstimate{calibrated(10), calibrated(10)}
	// Raw score would be 1.0; the cap holds.
	assert.Equal(t, 0.95, Score(features))
}

func TestScore_EmptyFeatureList(t *testing.T) {
	assert.Equal(t, 0.0, Score(nil))
}
