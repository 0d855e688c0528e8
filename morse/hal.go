package morse

// OutputPin is the abstract digital output that the emitter keys.
// Platform-specific implementations handle actual hardware control.
type OutputPin interface {
	// Set drives the pin to electrical high (true) or low (false).
	// The returned error is defined by the implementation and is
	// forwarded unchanged by the emitter.
	Set(high bool) error
}

// Delayer provides a blocking millisecond sleep.
// It has no error channel; waiting is assumed to always succeed.
type Delayer interface {
	// DelayMs blocks the caller for at least ms milliseconds.
	DelayMs(ms uint16)
}

// PinFunc adapts a plain function to the OutputPin interface.
type PinFunc func(high bool) error

func (f PinFunc) Set(high bool) error { return f(high) }

// DelayFunc adapts a plain function to the Delayer interface.
type DelayFunc func(ms uint16)

func (f DelayFunc) DelayMs(ms uint16) { f(ms) }
