// Command flowdemo records a grid of pictures and replays it for a few
// frames through a raster cache, writing the last frame as a PNG.
//
// Usage:
//
//	flowdemo -config demo.toml -frames 6 -output out.png -v
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/gogpu/flow"
	"github.com/gogpu/flow/rastercache"
	"github.com/gogpu/flow/render"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML config file")
		width      = flag.Int("width", 0, "image width (overrides config)")
		height     = flag.Int("height", 0, "image height (overrides config)")
		dpr        = flag.Float64("dpr", 0, "device pixel ratio (overrides config)")
		frames     = flag.Int("frames", 0, "frames to render (overrides config)")
		output     = flag.String("output", "", "output file (overrides config)")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	conf, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *width > 0 {
		conf.Width = *width
	}
	if *height > 0 {
		conf.Height = *height
	}
	if *dpr > 0 {
		conf.DevicePixelRatio = *dpr
	}
	if *frames > 0 {
		conf.Frames = *frames
	}
	if *output != "" {
		conf.Output = *output
	}
	if *verbose {
		conf.LogLevel = "debug"
	}
	if err := conf.validate(); err != nil {
		log.Fatal(err)
	}

	level, _ := parseLevel(conf.LogLevel)
	flow.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(conf); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	log.Printf("Demo saved to %s (%dx%d @%gx)\n", conf.Output, conf.Width, conf.Height, conf.DevicePixelRatio)
}

func run(conf config) error {
	device := render.NewSoftwareDevice()
	cache := rastercache.New(device,
		rastercache.WithThreshold(conf.threshold()),
		rastercache.WithMinCommandCount(conf.Cache.MinCommandCount),
	)
	defer cache.Clear()

	d := newDemo(conf)

	var last *render.PixmapTarget
	for frame := range conf.Frames {
		last = d.renderFrame(cache, frame)
		cache.SweepAfterFrame()

		s := cache.Stats()
		flow.Logger().Info("frame done",
			"frame", frame, "entries", s.Entries, "rasterized", s.Rasterized,
			"hits", s.Hits, "misses", s.Misses, "live_textures", device.LiveTextures())
	}
	return savePNG(last, conf.Output)
}

func savePNG(target *render.PixmapTarget, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("flowdemo: create %s: %w", path, err)
	}
	if err := png.Encode(f, target.Image()); err != nil {
		_ = f.Close()
		return fmt.Errorf("flowdemo: encode %s: %w", path, err)
	}
	return f.Close()
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("%w: log level %q", errInvalidConfig, s)
	}
	return level, nil
}

// pixelSize returns the device pixel count covering v logical units.
func pixelSize(v, dpr float64) int {
	return int(math.Ceil(v * dpr))
}
