package gripper

import (
	"fmt"
	"math"
)

// MaxWord is the largest raw position word (fully closed).
const MaxWord = 255

// wordTolerance absorbs floating point error when converting a position
// back to a raw word, so that ToWord(ToPosition(w)) == w for every w.
const wordTolerance = 1e-6

// Scale maps raw position words to caller-facing positions:
//
//	position = Alpha/255 * word + Beta
//	word     = 255/Alpha * (position - Beta)
//
// The default {1, 0} yields 0 for open and 1 for closed. For a 2F-85 in
// meters of finger opening, use {-0.086, 0.086}.
type Scale struct {
	Alpha float64
	Beta  float64
}

// Validate reports whether the scale is invertible.
func (s Scale) Validate() error {
	if s.Alpha == 0 || math.IsNaN(s.Alpha) || math.IsInf(s.Alpha, 0) {
		return fmt.Errorf("%w: alpha %v", ErrInvalidScale, s.Alpha)
	}
	if math.IsNaN(s.Beta) || math.IsInf(s.Beta, 0) {
		return fmt.Errorf("%w: beta %v", ErrInvalidScale, s.Beta)
	}

	return nil
}

// ToPosition converts a raw word to a scaled position.
func (s Scale) ToPosition(word uint8) float64 {
	return s.Alpha/MaxWord*float64(word) + s.Beta
}

// ToWord converts a scaled position to a raw word, clamped to [0, 255]
// and truncated.
func (s Scale) ToWord(position float64) uint8 {
	raw := MaxWord / s.Alpha * (position - s.Beta)
	if math.IsNaN(raw) {
		return 0
	}
	raw = math.Floor(raw + wordTolerance)

	return uint8(max(0, min(raw, MaxWord)))
}
