package numutil

import (
	"github.com/YuminosukeSato/numkit/pkg/errors"
)

const (
	// DefaultEps is the lower domain boundary for Log and XLogX.
	DefaultEps = 1e-30
	// DefaultBigX and DefaultLowX bound the safe domain of Exp.
	DefaultBigX = 50.0
	DefaultLowX = -50.0
)

type options struct {
	eps     float64
	bigX    float64
	lowX    float64
	deriv   int
	verbose bool
}

// Option configures a smooth-extension call.
type Option func(*options)

func newOptions(opts []Option) *options {
	o := &options{
		eps:  DefaultEps,
		bigX: DefaultBigX,
		lowX: DefaultLowX,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) checkDeriv(op string) error {
	if o.deriv < 0 || o.deriv > 2 {
		return errors.NewValidationError("deriv", "can only be 0, 1, or 2", o.deriv)
	}
	return nil
}

// WithEps sets the lower domain boundary for Log and XLogX.
func WithEps(eps float64) Option {
	return func(o *options) { o.eps = eps }
}

// WithBounds sets the safe domain [lowX, bigX] for Exp.
func WithBounds(lowX, bigX float64) Option {
	return func(o *options) {
		o.lowX = lowX
		o.bigX = bigX
	}
}

// WithDeriv requests derivatives up to the given level (0, 1 or 2).
func WithDeriv(level int) Option {
	return func(o *options) { o.deriv = level }
}

// Verbose reports the count of out-of-range elements through the warning
// channel.
func Verbose() Option {
	return func(o *options) { o.verbose = true }
}
