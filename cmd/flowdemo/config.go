package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// config controls a demo run. Zero fields in a config file keep their
// defaults.
type config struct {
	Width            int     `toml:"width"`
	Height           int     `toml:"height"`
	DevicePixelRatio float64 `toml:"device_pixel_ratio"`
	Frames           int     `toml:"frames"`
	Output           string  `toml:"output"`
	LogLevel         string  `toml:"log_level"`

	Cache cacheConfig `toml:"cache"`
	Scene sceneConfig `toml:"scene"`
}

type cacheConfig struct {
	Threshold       int  `toml:"threshold"`
	MinCommandCount int  `toml:"min_command_count"`
	Disabled        bool `toml:"disabled"`
}

type sceneConfig struct {
	Columns int     `toml:"columns"`
	Rows    int     `toml:"rows"`
	Drift   float64 `toml:"drift"`
	Label   string  `toml:"label"`
}

var errInvalidConfig = errors.New("flowdemo: invalid config")

func defaultConfig() config {
	return config{
		Width:            640,
		Height:           480,
		DevicePixelRatio: 1,
		Frames:           4,
		Output:           "flowdemo.png",
		LogLevel:         "info",
		Cache: cacheConfig{
			Threshold:       3,
			MinCommandCount: 10,
		},
		Scene: sceneConfig{
			Columns: 4,
			Rows:    3,
			Drift:   0,
			Label:   "flow",
		},
	}
}

// loadConfig decodes the TOML file at path over the defaults. An empty
// path returns the defaults.
func loadConfig(path string) (config, error) {
	conf := defaultConfig()
	if path == "" {
		return conf, nil
	}
	md, err := toml.DecodeFile(path, &conf)
	if err != nil {
		return config{}, fmt.Errorf("flowdemo: read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return config{}, fmt.Errorf("%w: unknown keys %s", errInvalidConfig, strings.Join(keys, ", "))
	}
	return conf, conf.validate()
}

func (c config) validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", errInvalidConfig, c.Width, c.Height)
	case !(c.DevicePixelRatio > 0):
		return fmt.Errorf("%w: device pixel ratio %v", errInvalidConfig, c.DevicePixelRatio)
	case c.Frames <= 0:
		return fmt.Errorf("%w: %d frames", errInvalidConfig, c.Frames)
	case c.Cache.Threshold < 0:
		return fmt.Errorf("%w: threshold %d", errInvalidConfig, c.Cache.Threshold)
	case c.Scene.Columns <= 0 || c.Scene.Rows <= 0:
		return fmt.Errorf("%w: grid %dx%d", errInvalidConfig, c.Scene.Columns, c.Scene.Rows)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// threshold returns the promotion threshold to hand to the cache.
func (c config) threshold() int {
	if c.Cache.Disabled {
		return 0
	}
	return c.Cache.Threshold
}
