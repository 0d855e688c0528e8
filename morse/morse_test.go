package morse

import (
	"errors"
	"testing"
)

// keyOp records one observable emitter action.
type keyOp struct {
	kind string // "high", "low" or "delay"
	ms   uint16 // delay duration, 0 for pin operations
}

// keyRecorder is a fake pin and delay provider that records every
// operation. failAt makes the Nth pin write (1-based) return pinErr.
type keyRecorder struct {
	ops    []keyOp
	pinErr error
	failAt int
	writes int
}

func (r *keyRecorder) Set(high bool) error {
	r.writes++
	if r.failAt != 0 && r.writes >= r.failAt {
		return r.pinErr
	}
	if high {
		r.ops = append(r.ops, keyOp{kind: "high"})
	} else {
		r.ops = append(r.ops, keyOp{kind: "low"})
	}
	return nil
}

func (r *keyRecorder) DelayMs(ms uint16) {
	r.ops = append(r.ops, keyOp{kind: "delay", ms: ms})
}

func record(text string, invert bool, dotLength uint16) []keyOp {
	rec := &keyRecorder{}
	e := New(rec, rec, invert, dotLength)
	if err := e.Output(text); err != nil {
		panic("unexpected pin error from recorder")
	}
	return rec.ops
}

func opsEqual(a, b []keyOp) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDerivedTimings(t *testing.T) {
	testCases := []uint16{1, 50, 300, 1000, 9362}

	for _, dot := range testCases {
		rec := &keyRecorder{}
		e := New(rec, rec, false, dot)
		if e.dashLength != 3*dot {
			t.Errorf("dot=%d: dash %d, expected %d", dot, e.dashLength, 3*dot)
		}
		if e.spaceLength != 3*dot {
			t.Errorf("dot=%d: space %d, expected %d", dot, e.spaceLength, 3*dot)
		}
		if e.wordLength != 7*dot {
			t.Errorf("dot=%d: word gap %d, expected %d", dot, e.wordLength, 7*dot)
		}
	}
}

func TestNewDefault(t *testing.T) {
	rec := &keyRecorder{}
	def := NewDefault(rec, rec, false)
	explicit := New(rec, rec, false, 300)

	if def.dotLength != explicit.dotLength ||
		def.dashLength != explicit.dashLength ||
		def.spaceLength != explicit.spaceLength ||
		def.wordLength != explicit.wordLength {
		t.Errorf("NewDefault timings %+v differ from New(..., 300) %+v", def, explicit)
	}
}

func TestOutputEmpty(t *testing.T) {
	ops := record("", false, 100)
	if len(ops) != 0 {
		t.Errorf("expected no operations, got %v", ops)
	}
}

func TestOutputSpace(t *testing.T) {
	ops := record(" ", false, 100)
	expected := []keyOp{{kind: "delay", ms: 700}}
	if !opsEqual(ops, expected) {
		t.Errorf("expected %v, got %v", expected, ops)
	}
}

func TestOutputSingleDot(t *testing.T) {
	// E is a single dot: one symbol cycle plus the inter-letter gap
	ops := record("E", false, 100)
	expected := []keyOp{
		{kind: "high"},
		{kind: "delay", ms: 100},
		{kind: "low"},
		{kind: "delay", ms: 100},
		{kind: "delay", ms: 300},
	}
	if !opsEqual(ops, expected) {
		t.Errorf("expected %v, got %v", expected, ops)
	}
}

func TestOutputDashTiming(t *testing.T) {
	// T is a single dash: held for three dot lengths
	ops := record("T", false, 100)
	expected := []keyOp{
		{kind: "high"},
		{kind: "delay", ms: 300},
		{kind: "low"},
		{kind: "delay", ms: 100},
		{kind: "delay", ms: 300},
	}
	if !opsEqual(ops, expected) {
		t.Errorf("expected %v, got %v", expected, ops)
	}
}

func TestOutputInvert(t *testing.T) {
	normal := record("A", false, 100)
	inverted := record("A", true, 100)

	if len(normal) != len(inverted) {
		t.Fatalf("operation counts differ: %d vs %d", len(normal), len(inverted))
	}
	for i := range normal {
		a, b := normal[i], inverted[i]
		switch a.kind {
		case "delay":
			if b != a {
				t.Errorf("op %d: delay changed under invert: %v vs %v", i, a, b)
			}
		case "high":
			if b.kind != "low" {
				t.Errorf("op %d: expected low under invert, got %v", i, b)
			}
		case "low":
			if b.kind != "high" {
				t.Errorf("op %d: expected high under invert, got %v", i, b)
			}
		}
	}
}

func TestOutputCaseInsensitive(t *testing.T) {
	lower := record("Sos", false, 100)
	upper := record("SOS", false, 100)
	if !opsEqual(lower, upper) {
		t.Errorf("mixed case keyed differently:\n%v\n%v", lower, upper)
	}
}

func TestOutputSkipsUnsupported(t *testing.T) {
	testCases := []string{"E5E", "E.E", "E\tE", "E!?E"}

	expected := record("EE", false, 100)
	for _, text := range testCases {
		ops := record(text, false, 100)
		if !opsEqual(ops, expected) {
			t.Errorf("%q: expected unsupported characters to be skipped, got %v", text, ops)
		}
	}
}

func TestOutputWordGapBetweenLetters(t *testing.T) {
	ops := record("E E", false, 100)
	letter := record("E", false, 100)

	expected := append([]keyOp{}, letter...)
	expected = append(expected, keyOp{kind: "delay", ms: 700})
	expected = append(expected, letter...)
	if !opsEqual(ops, expected) {
		t.Errorf("expected %v, got %v", expected, ops)
	}
}

func TestOutputPinError(t *testing.T) {
	pinErr := errors.New("pin fault")

	// E E produces two pin writes per letter; fail on the third write,
	// which is the first write of the second letter.
	rec := &keyRecorder{pinErr: pinErr, failAt: 3}
	e := New(rec, rec, false, 100)
	err := e.Output("E E")
	if err != pinErr {
		t.Fatalf("expected the pin error to be forwarded unchanged, got %v", err)
	}

	// Everything up to the failing write ran; nothing after it did.
	expected := []keyOp{
		{kind: "high"},
		{kind: "delay", ms: 100},
		{kind: "low"},
		{kind: "delay", ms: 100},
		{kind: "delay", ms: 300},
		{kind: "delay", ms: 700},
	}
	if !opsEqual(rec.ops, expected) {
		t.Errorf("expected %v before abort, got %v", expected, rec.ops)
	}
}

func TestOutputImmediateError(t *testing.T) {
	pinErr := errors.New("pin fault")
	rec := &keyRecorder{pinErr: pinErr, failAt: 1}
	e := NewDefault(rec, rec, false)

	if err := e.Output("SOS"); err != pinErr {
		t.Fatalf("expected pin error, got %v", err)
	}
	if len(rec.ops) != 0 {
		t.Errorf("expected no operations after immediate failure, got %v", rec.ops)
	}
}
