package app

import (
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/ReinierMaas/PathTracer/pkg/core"
	"github.com/ReinierMaas/PathTracer/pkg/renderer"
	"github.com/ReinierMaas/PathTracer/pkg/scene"
)

// RunViewer opens a window and renders the scene progressively until the
// user quits. The accumulator resets whenever the camera moves; otherwise
// every frame adds one sample per pixel.
func RunViewer(config Config, sc *scene.Scene, logger core.Logger) error {
	window, err := NewWindow(config.Width, config.Height, "PathTracer")
	if err != nil {
		return err
	}
	defer window.Destroy()

	blitter, err := NewBlitter(config.Width, config.Height)
	if err != nil {
		return err
	}
	defer blitter.Destroy()

	camera := renderer.NewCamera(config.Width, config.Height, sc)
	camera.LensSize = config.LensSize

	r := renderer.NewRenderer(sc, camera, config.Workers, uint64(time.Now().UnixNano()), logger)
	r.Exposure = config.Exposure
	r.SetMaxBounces(config.MaxBounces)
	r.SetSkyboxScale(config.SkyboxScale)

	logger.Printf("Rendering %dx%d with %d workers\n", config.Width, config.Height, r.NumWorkers())

	frames := 0
	lastReport := time.Now()

	for !window.ShouldClose() {
		window.PollEvents()

		moved := camera.HandleInput(window.PressedKeys())

		if window.JustPressed(glfw.KeyH) {
			if r.MaxBounces() == config.BounceOverrideHigh {
				r.SetMaxBounces(config.BounceOverrideLow)
			} else {
				r.SetMaxBounces(config.BounceOverrideHigh)
			}
			logger.Printf("Bounce budget: %d\n", r.MaxBounces())
		}
		if window.JustPressed(glfw.KeyP) {
			logger.Printf("Camera origin=%v direction=%v\n", camera.Origin, camera.Direction())
		}

		r.RenderFrame(moved)
		blitter.Blit(r.Framebuffer())
		window.SwapBuffers()

		frames++
		if elapsed := time.Since(lastReport); elapsed >= time.Second {
			logger.Printf("%.1f fps, %d spp\n",
				float64(frames)/elapsed.Seconds(), r.Accumulator().SamplesPerPixel)
			frames = 0
			lastReport = time.Now()
		}
	}
	return nil
}
