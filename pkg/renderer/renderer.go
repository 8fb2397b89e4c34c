package renderer

import (
	"encoding/binary"
	"math/rand"
	"runtime"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/ReinierMaas/PathTracer/pkg/core"
	"github.com/ReinierMaas/PathTracer/pkg/geometry"
	"github.com/ReinierMaas/PathTracer/pkg/integrator"
	"github.com/ReinierMaas/PathTracer/pkg/scene"
)

// worker holds the state one render goroutine owns exclusively: its random
// stream and its BVH traversal stack.
type worker struct {
	random    *rand.Rand
	traversal *geometry.Traversal
}

// Renderer drives one frame at a time: it splits the image into contiguous
// row bands, one per worker, and joins all workers before the frame is
// considered complete. Scene and camera are read-only during a frame; the
// accumulator and framebuffer are written through disjoint slices only.
type Renderer struct {
	scene      *scene.Scene
	camera     *Camera
	integrator *integrator.PathTracer

	accumulator *Accumulator
	framebuffer []byte // RGB24, row-major
	Exposure    float64

	workers []worker
	logger  core.Logger
}

// NewRenderer creates a renderer with the given number of workers
// (0 = number of CPU cores)
func NewRenderer(sc *scene.Scene, camera *Camera, numWorkers int, seed uint64, logger core.Logger) *Renderer {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	workers := make([]worker, numWorkers)
	for i := range workers {
		workers[i] = worker{
			random:    rand.New(rand.NewSource(int64(workerSeed(seed, i)))),
			traversal: sc.BVH.NewTraversal(),
		}
	}

	return &Renderer{
		scene:       sc,
		camera:      camera,
		integrator:  integrator.NewPathTracer(sc),
		accumulator: NewAccumulator(camera.width, camera.height),
		framebuffer: make([]byte, camera.width*camera.height*3),
		Exposure:    DefaultExposure,
		workers:     workers,
		logger:      logger,
	}
}

// workerSeed derives a well-spread, stable seed for a worker's random stream
func workerSeed(base uint64, index int) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], base)
	binary.LittleEndian.PutUint64(buf[8:], uint64(index))
	return xxhash.Sum64(buf[:])
}

// RenderFrame renders one sample per pixel into the accumulator and updates
// the framebuffer. A moved camera resets the accumulator first.
func (r *Renderer) RenderFrame(cameraMoved bool) {
	if cameraMoved {
		r.accumulator.Clear()
	}
	r.accumulator.SamplesPerPixel++
	invSamples := 1.0 / float64(r.accumulator.SamplesPerPixel)

	numWorkers := len(r.workers)
	rowsPerBand := (r.camera.height + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := range r.workers {
		y0 := i * rowsPerBand
		y1 := min(y0+rowsPerBand, r.camera.height)
		if y0 >= y1 {
			continue
		}
		wg.Add(1)
		go func(w *worker, y0, y1 int) {
			defer wg.Done()
			r.renderBand(w, y0, y1, invSamples)
		}(&r.workers[i], y0, y1)
	}
	wg.Wait()
}

// renderBand renders the rows [y0, y1) with one worker's private state
func (r *Renderer) renderBand(w *worker, y0, y1 int, invSamples float64) {
	for y := y0; y < y1; y++ {
		for x := 0; x < r.camera.width; x++ {
			ray := r.camera.GenerateRay(x, y, w.random)
			radiance := r.integrator.Li(ray, w.random, w.traversal)

			index := y*r.camera.width + x
			r.accumulator.Add(index, radiance)

			accumulated := r.accumulator.At(index)
			r.framebuffer[index*3] = ToneMap(accumulated.X, invSamples, r.Exposure)
			r.framebuffer[index*3+1] = ToneMap(accumulated.Y, invSamples, r.Exposure)
			r.framebuffer[index*3+2] = ToneMap(accumulated.Z, invSamples, r.Exposure)
		}
	}
}

// Framebuffer returns the tone-mapped RGB24 image of the last frame
func (r *Renderer) Framebuffer() []byte {
	return r.framebuffer
}

// Accumulator exposes the accumulation state
func (r *Renderer) Accumulator() *Accumulator {
	return r.accumulator
}

// Camera returns the camera this renderer samples through
func (r *Renderer) Camera() *Camera {
	return r.camera
}

// SetMaxBounces overrides the integrator's bounce budget
func (r *Renderer) SetMaxBounces(bounces int) {
	r.integrator.MaxBounces = bounces
}

// SetSkyboxScale overrides the integrator's environment scale factor
func (r *Renderer) SetSkyboxScale(scale float64) {
	r.integrator.SkyboxScale = scale
}

// MaxBounces returns the integrator's current bounce budget
func (r *Renderer) MaxBounces() int {
	return r.integrator.MaxBounces
}

// NumWorkers returns the number of render workers
func (r *Renderer) NumWorkers() int {
	return len(r.workers)
}
