package cmd

import (
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/ReinierMaas/PathTracer/pkg/renderer"
)

var (
	flagSamples int
	flagOut     string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a fixed sample count offline and write a PNG",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, sc, logger, err := setup()
		if err != nil {
			return err
		}

		camera := renderer.NewCamera(config.Width, config.Height, sc)
		camera.LensSize = config.LensSize

		r := renderer.NewRenderer(sc, camera, config.Workers, uint64(time.Now().UnixNano()), logger)
		r.Exposure = config.Exposure
		r.SetMaxBounces(config.MaxBounces)
		r.SetSkyboxScale(config.SkyboxScale)

		logger.Printf("Rendering %dx%d, %d samples, %d workers\n",
			config.Width, config.Height, flagSamples, r.NumWorkers())

		start := time.Now()
		for sample := 0; sample < flagSamples; sample++ {
			r.RenderFrame(false)
		}
		logger.Printf("Rendered in %v\n", time.Since(start))

		img := image.NewNRGBA(image.Rect(0, 0, config.Width, config.Height))
		framebuffer := r.Framebuffer()
		for i := 0; i < config.Width*config.Height; i++ {
			img.Pix[i*4] = framebuffer[i*3]
			img.Pix[i*4+1] = framebuffer[i*3+1]
			img.Pix[i*4+2] = framebuffer[i*3+2]
			img.Pix[i*4+3] = 255
		}

		if err := imaging.Save(img, flagOut); err != nil {
			return err
		}
		logger.Printf("Saved %s\n", flagOut)
		return nil
	},
}

func init() {
	renderCmd.Flags().IntVar(&flagSamples, "samples", 64, "samples per pixel")
	renderCmd.Flags().StringVar(&flagOut, "out", "render.png", "output image path")
	rootCmd.AddCommand(renderCmd)
}
