package wtosc

import "github.com/cwbudde/algo-wtosc/dsp"

// DetuneRow holds the normalized detune of every oscillator lane of a voice
// for one unison count.
type DetuneRow [NumVoiceOscillators]dsp.Float

// UnisonDetunes is indexed by unison count; row 0 is unused.
var UnisonDetunes = newDetuneRows()

func newDetuneRows() [MaxUnison + 1]DetuneRow {
	var rows [MaxUnison + 1]DetuneRow
	table := buildDetuneTable(dsp.FloatsPerVector, MaxUnison)
	for n := 1; n <= MaxUnison; n++ {
		for g := range rows[n] {
			copy(rows[n][g][:], table[n][g*dsp.FloatsPerVector:])
		}
	}
	return rows
}

// soundingLanes is the number of oscillator lanes a unison count occupies.
// Odd counts get one extra lane so every copy has a stereo partner.
func soundingLanes(n int) int {
	return n + n%2
}

// groupLayout returns how many oscillator groups of width lanes a unison
// count needs and how many lanes of the last group are used.
func groupLayout(n, width int) (groups, rem int) {
	lanes := soundingLanes(n)
	groups = (lanes + width - 1) / width
	rem = (lanes-1)%width + 1
	return groups, rem
}

// buildDetuneTable lays out normalized detunes for every unison count from 1
// to maxUnison in oscillator groups of width lanes. Row n holds pairs ±d with
// d = 1 - j*2/(n-1), outermost pair first; the sign flips from pair to pair
// so both even and odd lanes spread evenly. Full groups come first and the
// last group is right-aligned, leaving its unused lanes at the front.
func buildDetuneTable(width, maxUnison int) [][]float32 {
	groups, _ := groupLayout(maxUnison, width)
	table := make([][]float32, maxUnison+1)
	for n := 1; n <= maxUnison; n++ {
		row := make([]float32, groups*width)
		used, rem := groupLayout(n, width)
		full := (used - 1) * width
		shift := width - rem

		var step float32
		if n > 1 {
			step = 2 / float32(n-1)
		}
		sign := float32(1)
		for j := 0; j < soundingLanes(n)/2; j++ {
			var d float32
			if n > 1 {
				d = (1 - step*float32(j)) * sign
			}
			left, right := 2*j, 2*j+1
			if left >= full {
				left += shift
				right += shift
			}
			row[left] = -d
			row[right] = d
			sign = -sign
		}
		table[n] = row
	}
	return table
}

// remainderMask selects the used lanes of the last oscillator group.
func remainderMask(n int) dsp.Mask {
	_, rem := groupLayout(n, dsp.FloatsPerVector)
	return dsp.LastLanes(rem)
}
