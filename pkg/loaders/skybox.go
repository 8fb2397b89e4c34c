package loaders

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/ReinierMaas/PathTracer/pkg/core"
)

// Default dimensions of the raw equirectangular skybox asset
const (
	DefaultSkyboxWidth  = 2500
	DefaultSkyboxHeight = 1250
)

// Skybox is an equirectangular HDR environment map of big-endian float32
// RGB triples, row-major.
type Skybox struct {
	Width  int
	Height int
	Data   []float32
}

// LoadSkybox reads a raw big-endian float32 RGB file of the given dimensions
func LoadSkybox(path string, width, height int) (*Skybox, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read skybox: %w", err)
	}

	want := width * height * 3 * 4
	if len(raw) < want {
		return nil, fmt.Errorf("skybox %s: got %d bytes, want %d for %dx%d", path, len(raw), want, width, height)
	}

	data := make([]float32, width*height*3)
	for i := range data {
		bits := binary.BigEndian.Uint32(raw[i*4:])
		data[i] = math.Float32frombits(bits)
	}

	return &Skybox{Width: width, Height: height, Data: data}, nil
}

// Sample returns the radiance in the given unit direction
func (s *Skybox) Sample(direction core.Vec3) core.Vec3 {
	u := int(float64(s.Width) * 0.5 * (1 + math.Atan2(direction.X, -direction.Z)/math.Pi))
	v := int(float64(s.Height) * math.Acos(direction.Y) / math.Pi)
	if u < 0 {
		u = 0
	} else if u >= s.Width {
		u = s.Width - 1
	}
	if v < 0 {
		v = 0
	} else if v >= s.Height {
		v = s.Height - 1
	}

	idx := 3 * (u + s.Width*v)
	return core.NewVec3(float64(s.Data[idx]), float64(s.Data[idx+1]), float64(s.Data[idx+2]))
}
