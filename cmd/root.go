package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ReinierMaas/PathTracer/pkg/app"
	"github.com/ReinierMaas/PathTracer/pkg/core"
	"github.com/ReinierMaas/PathTracer/pkg/loaders"
	"github.com/ReinierMaas/PathTracer/pkg/scene"
)

var (
	flagScene   string
	flagConfig  string
	flagWidth   int
	flagHeight  int
	flagWorkers int
	flagNoSky   bool
)

var rootCmd = &cobra.Command{
	Use:   "pathtracer",
	Short: "Interactive CPU Monte Carlo path tracer",
	Long: `pathtracer renders a sphere or mesh scene progressively in a window.

Move with WASD, pan with R/F, jump with Q/E, tilt with the arrow keys.
H toggles the bounce budget, P prints the camera pose, Escape quits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, sc, logger, err := setup()
		if err != nil {
			return err
		}
		return app.RunViewer(config, sc, logger)
	},
}

// Execute runs the command tree
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagScene, "scene", "default", "scene: 'default' or a path to an OBJ file")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a yaml settings file")
	rootCmd.PersistentFlags().IntVar(&flagWidth, "width", 0, "image width (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagHeight, "height", 0, "image height (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "number of parallel workers (0 = CPU count)")
	rootCmd.PersistentFlags().BoolVar(&flagNoSky, "no-skybox", false, "render without the environment map")
}

// setup resolves configuration (flags > yaml > defaults) and builds the scene
func setup() (app.Config, *scene.Scene, core.Logger, error) {
	logger := core.NewStdoutLogger()

	config := app.DefaultConfig()
	if flagConfig != "" {
		loaded, err := app.LoadConfig(flagConfig)
		if err != nil {
			return config, nil, nil, err
		}
		config = loaded
	}
	if flagWidth > 0 {
		config.Width = flagWidth
	}
	if flagHeight > 0 {
		config.Height = flagHeight
	}
	if flagWorkers > 0 {
		config.Workers = flagWorkers
	}

	var skybox *loaders.Skybox
	if !flagNoSky {
		loaded, err := loaders.LoadSkybox(config.SkyboxPath, config.SkyboxWidth, config.SkyboxHeight)
		if err != nil {
			return config, nil, nil, err
		}
		skybox = loaded
	}

	var sc *scene.Scene
	if flagScene == "default" {
		logger.Printf("Using default sphere scene\n")
		sc = scene.NewDefaultScene(skybox)
	} else {
		logger.Printf("Loading mesh scene %s\n", flagScene)
		loaded, err := scene.NewMeshScene(flagScene, skybox, logger)
		if err != nil {
			return config, nil, nil, err
		}
		sc = loaded
	}

	if sc.BVH.LightCount() == 0 {
		logger.Printf("Scene has no light sources; only the environment will contribute\n")
	}
	logger.Printf("Scene: %d primitives, %d lights\n", sc.BVH.PrimitiveCount(), sc.BVH.LightCount())

	return config, sc, logger, nil
}
