// Package words spells out integers in English.
//
// The convention is the British short scale: groups of thousands, with
// "and" between hundreds and the remainder and no hyphens, so 236 is
// "two hundred and thirty six" and 1005 is "one thousand and five".
package words

import (
	"strings"

	"github.com/divan/num2words"
)

// num2words names scales up to billion; larger groups are composed here.
const libraryLimit = 1_000_000_000_000

var scales = [...]string{"trillion", "quadrillion", "quintillion"}

// Cardinal returns n in words, lower case. Negative numbers get a "minus" prefix.
func Cardinal(n int64) string {
	if n == 0 {
		return "zero"
	}
	if n < 0 {
		// -MinInt64 overflows; spell its magnitude through uint64.
		return "minus " + cardinal(uint64(-(n+1))+1)
	}
	return cardinal(uint64(n))
}

func cardinal(n uint64) string {
	low := n % libraryLimit
	var parts []string
	high := n / libraryLimit
	for i := len(scales) - 1; i >= 0; i-- {
		div := uint64(1)
		for j := 0; j < i; j++ {
			div *= 1000
		}
		if g := high / div % 1000; g > 0 {
			parts = append(parts, spell(g)+" "+scales[i])
		}
	}
	if low > 0 {
		w := spell(low)
		if low < 100 && len(parts) > 0 {
			w = "and " + w
		}
		parts = append(parts, w)
	}
	return strings.Join(parts, " ")
}

// spell delegates n in [1, 10^12) to num2words.
func spell(n uint64) string {
	return strings.ReplaceAll(num2words.ConvertAnd(int(n)), "-", " ")
}
