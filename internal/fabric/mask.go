package fabric

import "math/bits"

// Mask is a 9-bit digit or position set. Bit i represents digit i+1 when
// masking candidates, or the i-th cell of a sector when masking positions.
type Mask uint16

// AllDigits has all nine bits set.
const AllDigits Mask = 0x1FF

// DigitMask returns the mask with only digit d set.
func DigitMask(d int) Mask { return 1 << uint(d-1) }

// Has reports whether digit d is in the mask.
func (m Mask) Has(d int) bool { return m&DigitMask(d) != 0 }

// Count returns the number of set bits.
func (m Mask) Count() int { return bits.OnesCount16(uint16(m)) }

// Lowest returns the lowest set digit, or 0 for an empty mask.
func (m Mask) Lowest() int {
	if m == 0 {
		return 0
	}
	return bits.TrailingZeros16(uint16(m)) + 1
}

// Digits returns the set digits in ascending order.
func (m Mask) Digits() []int {
	digits := make([]int, 0, m.Count())
	for m != 0 {
		d := bits.TrailingZeros16(uint16(m)) + 1
		digits = append(digits, d)
		m &= m - 1
	}
	return digits
}
