package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointConversions(t *testing.T) {
	assert.Equal(t, 72.0, InchesToPoints(1))
	assert.Equal(t, 1.0, PointsToInches(72))
	assert.InDelta(t, 28.35, CmToPoints(1), 0.01)
	assert.InDelta(t, 2.54, PointsToCm(72), 1e-9)
}

func TestEMUConversions(t *testing.T) {
	assert.Equal(t, int64(12700), PointsToEMU(1))
	assert.Equal(t, 1.0, EMUToPoints(12700))
	assert.Equal(t, int64(914400), InchesToEMU(1))
	assert.Equal(t, 1.0, EMUToInches(914400))
	assert.Equal(t, int64(360000), CmToEMU(1))
	assert.Equal(t, 1.0, EMUToCm(360000))
}

func TestRoundTrip(t *testing.T) {
	for _, pt := range []float64{0, 1, 7.2, 540, 960} {
		assert.InDelta(t, pt, EMUToPoints(PointsToEMU(pt)), 1e-4)
		assert.InDelta(t, pt, InchesToPoints(PointsToInches(pt)), 1e-9)
	}
}

func TestSlideSizes(t *testing.T) {
	assert.Equal(t, 16.0/9.0, SlideWidth16x9/SlideHeight16x9)
	assert.Equal(t, 4.0/3.0, SlideWidth4x3/SlideHeight4x3)
}
