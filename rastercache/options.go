package rastercache

import "github.com/gogpu/gputypes"

// Default cache configuration.
const (
	// DefaultThreshold is the number of requests, across frames, after
	// which a picture is rasterized.
	DefaultThreshold = 3

	// DefaultMinCommandCount is the command count a picture must exceed to
	// be cached when the caller does not mark it complex.
	DefaultMinCommandCount = 10
)

// Option configures a Cache.
type Option func(*options)

type options struct {
	threshold       int
	minCommandCount int
	format          gputypes.TextureFormat
}

func defaultOptions() options {
	return options{
		threshold:       DefaultThreshold,
		minCommandCount: DefaultMinCommandCount,
		format:          gputypes.TextureFormatRGBA8Unorm,
	}
}

// WithThreshold sets the promotion threshold. Zero disables caching;
// negative values are ignored.
func WithThreshold(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.threshold = n
		}
	}
}

// WithMinCommandCount sets the command count above which a picture is
// worth caching without being marked complex. Negative values are ignored.
func WithMinCommandCount(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.minCommandCount = n
		}
	}
}

// WithFormat sets the format of the textures the cache allocates.
func WithFormat(format gputypes.TextureFormat) Option {
	return func(o *options) {
		o.format = format
	}
}
