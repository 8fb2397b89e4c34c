package renderer

import (
	"math"

	"github.com/ReinierMaas/PathTracer/pkg/core"
)

// Accumulator sums radiance per pixel across frames. It is cleared whenever
// the camera moves; until then the estimate converges as samples accumulate.
type Accumulator struct {
	Width           int
	Height          int
	SamplesPerPixel uint32

	radiance []core.Vec3
}

// NewAccumulator creates an accumulator for the given image size
func NewAccumulator(width, height int) *Accumulator {
	return &Accumulator{
		Width:    width,
		Height:   height,
		radiance: make([]core.Vec3, width*height),
	}
}

// Clear zeroes the radiance buffer and resets the sample count
func (a *Accumulator) Clear() {
	for i := range a.radiance {
		a.radiance[i] = core.Vec3{}
	}
	a.SamplesPerPixel = 0
}

// Add accumulates radiance into the pixel at the given buffer index
func (a *Accumulator) Add(index int, radiance core.Vec3) {
	a.radiance[index] = a.radiance[index].Add(radiance)
}

// At returns the accumulated radiance at the given buffer index
func (a *Accumulator) At(index int) core.Vec3 {
	return a.radiance[index]
}

// DefaultExposure is the exposure multiplier of the tone-mapping curve
const DefaultExposure = 1.5

// ToneMap converts an accumulated radiance component to 8-bit sRGB using a
// gamma-2 curve: min(255, 256 * exposure * sqrt(v / spp)). Negative or NaN
// inputs clamp to 0.
func ToneMap(component, invSamples, exposure float64) uint8 {
	v := 256 * exposure * math.Sqrt(component*invSamples)
	if !(v > 0) {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
