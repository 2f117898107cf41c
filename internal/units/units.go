// Package units converts between the measurement systems PowerPoint
// exposes. COM positions and sizes are always points; 1 inch = 72 points,
// 1 cm ≈ 28.35 points, 1 point = 12700 EMU.
package units

import "math"

const (
	PointsPerInch = 72.0
	CmPerInch     = 2.54
	PointsPerCm   = PointsPerInch / CmPerInch
	EMUPerPoint   = 12700
	EMUPerInch    = 914400
	EMUPerCm      = 360000
)

// Standard slide sizes in points.
const (
	SlideWidth16x9  = 960.0
	SlideHeight16x9 = 540.0
	SlideWidth4x3   = 720.0
	SlideHeight4x3  = 540.0
)

func InchesToPoints(in float64) float64 { return in * PointsPerInch }

func PointsToInches(pt float64) float64 { return pt / PointsPerInch }

func CmToPoints(cm float64) float64 { return cm * PointsPerCm }

func PointsToCm(pt float64) float64 { return pt / PointsPerCm }

func EMUToPoints(emu int64) float64 { return float64(emu) / EMUPerPoint }

func PointsToEMU(pt float64) int64 { return int64(math.Round(pt * EMUPerPoint)) }

func InchesToEMU(in float64) int64 { return int64(math.Round(in * EMUPerInch)) }

func EMUToInches(emu int64) float64 { return float64(emu) / EMUPerInch }

func CmToEMU(cm float64) int64 { return int64(math.Round(cm * EMUPerCm)) }

func EMUToCm(emu int64) float64 { return float64(emu) / EMUPerCm }
