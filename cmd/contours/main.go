package main

import (
	"flag"
	"runtime"

	"contours/internal/animation"
	"contours/internal/capture"
	"contours/internal/config"
	"contours/internal/game"
	"contours/internal/graphics/renderables/editor"
	"contours/internal/graphics/renderables/instances"
	"contours/internal/graphics/renderables/posteffect"
	renderer "contours/internal/graphics/renderer"
	"contours/internal/input"
	"contours/internal/logging"
	"contours/internal/scene"
	"contours/internal/shaders"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "contours.yaml", "Path to configuration file")
	fpsLimit := flag.Int("fps", -1, "FPS limit, 0 for uncapped (overrides config)")
	writeConfig := flag.Bool("write-config", false, "Write the default configuration to -config and exit")
	flag.Parse()

	if *writeConfig {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			closer.Fatalln(err)
		}
		return
	}

	cfg, cfgErr := config.LoadConfig(*configPath)
	log := logging.FromLevel("contours", cfg.Log.Level)
	if cfgErr != nil {
		log.Warnf("%v", cfgErr)
	}

	config.SetFPSLimit(cfg.Render.FPSLimit)
	if *fpsLimit >= 0 {
		config.SetFPSLimit(*fpsLimit)
	}

	defer closer.Close()

	// Capture is not tied to the GL thread, so it is safe to flush from
	// closer's signal handler.
	captureService, err := capture.NewService(cfg.Capture, log)
	if err != nil {
		closer.Fatalln(err)
	}
	closer.Bind(captureService.Shutdown)

	if err := glfw.Init(); err != nil {
		closer.Fatalln(err)
	}
	defer glfw.Terminate()

	window, err := game.SetupWindow(cfg.Window)
	if err != nil {
		closer.Fatalln(err)
	}

	registry := shaders.NewRegistry()
	if err := shaders.RegisterHost(registry); err != nil {
		closer.Fatalln(err)
	}
	s := scene.Must(scene.New(cfg, registry))

	clearColor := [4]float32{}
	copy(clearColor[:], cfg.Render.ClearColor)

	width, height := window.GetFramebufferSize()
	r, err := renderer.NewRenderer(
		width, height,
		posteffect.NewPostEffect(registry, clearColor),
		[]renderer.Renderable{instances.NewInstances(registry, s.Item.Vertices, log)},
		[]renderer.Renderable{editor.NewEditor(registry)},
	)
	if err != nil {
		closer.Fatalln(err)
	}
	defer r.Dispose()

	im := input.NewManager()
	app := game.NewApp(window, im, s, r, captureService, animation.Options{ZScaleLimit: cfg.Animation.ZScaleLimit}, log)
	game.SetupInputHandlers(app)

	log.Infof("running with shaders %v, fps limit %d", registry.Names(), config.GetFPSLimit())
	app.Run()
}
