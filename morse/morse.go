// Package morse converts ASCII text into timed on/off pulses on a single
// digital output, encoding the text as International Morse code.
//
// The package targets bare-metal environments: the caller injects a blocking
// millisecond delay provider and a digital output pin, and Output keys the
// pin synchronously until the whole message has been sent. Only 'a'-'z',
// 'A'-'Z' and ' ' are transmitted; everything else is skipped.
package morse

// DefaultDotLength is the dot duration in milliseconds used by NewDefault.
const DefaultDotLength = 300

// Emitter drives a single output pin to transmit morse messages.
// It exclusively owns its pin and delay provider for its entire lifetime.
//
// All derived durations are fixed integer multiples of the dot length:
// dash and inter-letter gap are 3x, the word gap is 7x. The dot length
// must not exceed 9362 ms so the word gap still fits in 16 bits.
type Emitter struct {
	dotLength   uint16 // one dot, also the gap between symbols of a letter
	dashLength  uint16 // one dash, 3x dot
	spaceLength uint16 // gap appended after each letter, 3x dot
	wordLength  uint16 // gap for a ' ' character, 7x dot
	invert      bool   // active level is low instead of high

	delay Delayer
	pin   OutputPin
}

// New creates an emitter with a configurable dot length in milliseconds.
// invert swaps the drive polarity: when set, the pin is driven low while
// a symbol is transmitting and high in between.
func New(delay Delayer, pin OutputPin, invert bool, dotLength uint16) *Emitter {
	return &Emitter{
		dotLength:   dotLength,
		dashLength:  dotLength * 3,
		spaceLength: dotLength * 3,
		wordLength:  dotLength * 7,
		invert:      invert,
		delay:       delay,
		pin:         pin,
	}
}

// NewDefault creates an emitter with a dot length of DefaultDotLength ms.
func NewDefault(delay Delayer, pin OutputPin, invert bool) *Emitter {
	return New(delay, pin, invert, DefaultDotLength)
}

// DotLength returns the configured dot duration in milliseconds.
func (e *Emitter) DotLength() uint16 { return e.dotLength }

// Output transmits text as a morse message, blocking until done.
//
// Letters are keyed symbol by symbol with a one-dot gap after every symbol
// and a further three-dot gap after the letter. A space becomes a seven-dot
// word gap with no pin activity. Unsupported characters are skipped without
// delay. The first pin error aborts the transmission and is returned
// unchanged; the pin is left at whatever level the last successful write
// set.
func (e *Emitter) Output(text string) error {
	for i := 0; i < len(text); i++ {
		c := text[i]
		if 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		switch {
		case 'A' <= c && c <= 'Z':
			if err := e.outputLetter(c); err != nil {
				return err
			}
		case c == ' ':
			e.delay.DelayMs(e.wordLength)
		default:
			// unsupported character, skip silently
		}
	}
	return nil
}

// outputLetter keys a single uppercase letter, including the trailing
// inter-letter gap.
func (e *Emitter) outputLetter(letter byte) error {
	code := lookupSymbol(letter)
	pattern := code.pattern
	for n := uint8(0); n < code.length; n++ {
		if err := e.pin.Set(!e.invert); err != nil {
			return err
		}
		if pattern&0b1 == 1 {
			e.delay.DelayMs(e.dashLength)
		} else {
			e.delay.DelayMs(e.dotLength)
		}
		if err := e.pin.Set(e.invert); err != nil {
			return err
		}
		// inter-symbol gap, kept even after the last symbol
		e.delay.DelayMs(e.dotLength)
		pattern >>= 1
	}
	e.delay.DelayMs(e.spaceLength)
	return nil
}
