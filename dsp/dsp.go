package dsp

const (
	// FloatsPerVector is the number of float32 lanes in one processing vector.
	FloatsPerVector = 16
	// StereoVoicesPerVector is the number of stereo voices packed into one vector.
	// Voice v owns lanes 2v (left) and 2v+1 (right).
	StereoVoicesPerVector = FloatsPerVector / 2
)

// Float is a vector of float32 lanes.
type Float [FloatsPerVector]float32

// UInt is a vector of uint32 lanes.
type UInt [FloatsPerVector]uint32

// Mask marks lanes of a vector.
type Mask [FloatsPerVector]bool

// Splat returns a vector with every lane set to v.
func Splat(v float32) Float {
	var out Float
	for i := range out {
		out[i] = v
	}
	return out
}

// SplatU returns an integer vector with every lane set to v.
func SplatU(v uint32) UInt {
	var out UInt
	for i := range out {
		out[i] = v
	}
	return out
}

// Add returns a+b lane-wise.
func (a Float) Add(b Float) Float {
	for i := range a {
		a[i] += b[i]
	}
	return a
}

// Sub returns a-b lane-wise.
func (a Float) Sub(b Float) Float {
	for i := range a {
		a[i] -= b[i]
	}
	return a
}

// Mul returns a*b lane-wise.
func (a Float) Mul(b Float) Float {
	for i := range a {
		a[i] *= b[i]
	}
	return a
}

// Scale multiplies every lane by s.
func (a Float) Scale(s float32) Float {
	for i := range a {
		a[i] *= s
	}
	return a
}

// MulAdd returns a*b+c lane-wise.
func (a Float) MulAdd(b, c Float) Float {
	for i := range a {
		a[i] = a[i]*b[i] + c[i]
	}
	return a
}

// Select returns a where the mask is set and b elsewhere.
func (m Mask) Select(a, b Float) Float {
	for i, set := range m {
		if !set {
			a[i] = b[i]
		}
	}
	return a
}

// SelectU is Select for integer vectors.
func (m Mask) SelectU(a, b UInt) UInt {
	for i, set := range m {
		if !set {
			a[i] = b[i]
		}
	}
	return a
}

// Any reports whether at least one lane is set.
func (m Mask) Any() bool {
	for _, set := range m {
		if set {
			return true
		}
	}
	return false
}

// Xor returns the lanes set in exactly one of m and o.
func (m Mask) Xor(o Mask) Mask {
	for i := range m {
		m[i] = m[i] != o[i]
	}
	return m
}

// And returns the lanes set in both m and o.
func (m Mask) And(o Mask) Mask {
	for i := range m {
		m[i] = m[i] && o[i]
	}
	return m
}

// Voice reports whether stereo voice v is selected.
func (m Mask) Voice(v int) bool {
	return m[2*v] || m[2*v+1]
}

// VoiceMask selects both lanes of stereo voice v.
func VoiceMask(v int) Mask {
	var m Mask
	m[2*v] = true
	m[2*v+1] = true
	return m
}

// AllVoices selects every lane.
func AllVoices() Mask {
	var m Mask
	for i := range m {
		m[i] = true
	}
	return m
}

// FirstLanes selects lanes [0, n).
func FirstLanes(n int) Mask {
	var m Mask
	for i := 0; i < n && i < FloatsPerVector; i++ {
		m[i] = true
	}
	return m
}

// LastLanes selects lanes [FloatsPerVector-n, FloatsPerVector).
func LastLanes(n int) Mask {
	var m Mask
	for i := FloatsPerVector - n; i < FloatsPerVector; i++ {
		if i >= 0 {
			m[i] = true
		}
	}
	return m
}

// SwapStereo exchanges the left and right lane of every stereo pair.
func SwapStereo(v Float) Float {
	for i := 0; i < FloatsPerVector; i += 2 {
		v[i], v[i+1] = v[i+1], v[i]
	}
	return v
}

// SumToStereo folds a vector into one stereo pair: even lanes to the left
// channel, odd lanes to the right channel.
func SumToStereo(v Float) [2]float32 {
	var out [2]float32
	for i := 0; i < FloatsPerVector; i += 2 {
		out[0] += v[i]
		out[1] += v[i+1]
	}
	return out
}

// SetStereo writes a stereo pair into the lanes of voice v.
func (a *Float) SetStereo(voice int, s [2]float32) {
	a[2*voice] = s[0]
	a[2*voice+1] = s[1]
}

// Stereo returns the stereo pair of voice v.
func (a Float) Stereo(voice int) [2]float32 {
	return [2]float32{a[2*voice], a[2*voice+1]}
}
