//go:build rp2040 || rp2350

package main

import (
	"machine"

	"tinygo.org/x/drivers/tone"
)

const (
	buzzerPinNumber = machine.GPIO15
	buzzerNote      = tone.A5
)

// buzzerPin keys an audible side tone through a PWM-driven piezo, giving
// the beacon an audio output alongside the LED.
type buzzerPin struct {
	speaker tone.Speaker
}

// newBuzzerPin configures the piezo on its PWM slice. GPIO15 sits on PWM
// slice 7 on both the RP2040 and RP2350.
func newBuzzerPin() (buzzerPin, error) {
	speaker, err := tone.New(machine.PWM7, buzzerPinNumber)
	if err != nil {
		return buzzerPin{}, err
	}
	return buzzerPin{speaker: speaker}, nil
}

func (b buzzerPin) Set(high bool) error {
	if high {
		return b.speaker.SetNote(buzzerNote)
	}
	b.speaker.Stop()
	return nil
}
