package present

import (
	"time"

	"github.com/jask/loom/effect"
)

// Defaults for Transition. The timeout safety net fires at TimeoutFactor
// times the expected transition duration, well after a healthy external
// system would have reported completion.
const (
	DefaultPresentDuration = 300 * time.Millisecond
	DefaultDismissDuration = 200 * time.Millisecond
	DefaultTimeoutFactor   = 3
)

// Options configures Transition. Zero fields take the defaults above.
type Options struct {
	PresentDuration time.Duration
	DismissDuration time.Duration
	TimeoutFactor   int
}

// Plan is a pair of timeout effects plus the durations a reducer should
// record in its lifecycle state. Dispatch Present alongside the action that
// enters presenting, Dismiss alongside the one that enters dismissing.
type Plan[A any] struct {
	PresentDuration time.Duration
	DismissDuration time.Duration
	Present         effect.Effect[A]
	Dismiss         effect.Effect[A]
}

// Transition builds the timeout safety nets for one presentation cycle.
// Each effect is a TimedDispatch of the corresponding timeout event, mapped
// into the caller's action vocabulary by makeEvent. If the external system
// reports completion first, the late timeout is absorbed by State's guards.
func Transition[A any](opts Options, makeEvent func(Event) A) Plan[A] {
	if opts.PresentDuration == 0 {
		opts.PresentDuration = DefaultPresentDuration
	}
	if opts.DismissDuration == 0 {
		opts.DismissDuration = DefaultDismissDuration
	}
	if opts.TimeoutFactor == 0 {
		opts.TimeoutFactor = DefaultTimeoutFactor
	}
	factor := time.Duration(opts.TimeoutFactor)
	return Plan[A]{
		PresentDuration: opts.PresentDuration,
		DismissDuration: opts.DismissDuration,
		Present:         effect.TimedDispatch(opts.PresentDuration*factor, makeEvent(PresentationTimeout)),
		Dismiss:         effect.TimedDispatch(opts.DismissDuration*factor, makeEvent(DismissalTimeout)),
	}
}
