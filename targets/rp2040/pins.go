//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	"gomorse/morse"
)

// gpioPin adapts a machine.Pin to the emitter's output capability.
// machine pin writes cannot fail, so Set always returns nil.
type gpioPin struct {
	pin machine.Pin
}

func newGPIOPin(pin machine.Pin) gpioPin {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return gpioPin{pin: pin}
}

func (p gpioPin) Set(high bool) error {
	p.pin.Set(high)
	return nil
}

// sleepDelayer implements the emitter's delay capability with the
// scheduler-aware time.Sleep.
type sleepDelayer struct{}

func (sleepDelayer) DelayMs(ms uint16) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// fanoutPin drives several physical outputs as one logical output, so the
// LED and the buzzer key in lockstep. The first write error aborts the
// remaining outputs and is reported to the emitter.
type fanoutPin struct {
	outputs []morse.OutputPin
}

func (f fanoutPin) Set(high bool) error {
	for _, out := range f.outputs {
		if err := out.Set(high); err != nil {
			return err
		}
	}
	return nil
}
