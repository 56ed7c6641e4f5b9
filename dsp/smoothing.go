package dsp

import "math"

// LinearSmoother ramps each lane linearly toward its target and stops there.
type LinearSmoother struct {
	Value     Float
	Increment Float
	Target    Float
}

// Current returns the current lane values.
func (s *LinearSmoother) Current() Float {
	return s.Value
}

// SetInstantly jumps every lane to v.
func (s *LinearSmoother) SetInstantly(v Float) {
	s.Value = v
	s.Target = v
	s.Increment = Float{}
}

// SetInstantlyMasked jumps the selected lanes to v.
func (s *LinearSmoother) SetInstantlyMasked(v Float, mask Mask) {
	s.Value = mask.Select(v, s.Value)
	s.Target = mask.Select(v, s.Target)
	s.Increment = mask.Select(Float{}, s.Increment)
}

// SetTarget starts a ramp on the selected lanes that reaches target after
// the given number of samples. Non-positive durations jump immediately.
func (s *LinearSmoother) SetTarget(target Float, samples float32, mask Mask) {
	if !(samples > 0) {
		s.SetInstantlyMasked(target, mask)
		return
	}
	inv := 1 / samples
	for i, set := range mask {
		if !set {
			continue
		}
		s.Target[i] = target[i]
		s.Increment[i] = (target[i] - s.Value[i]) * inv
	}
}

// SetIncrement ramps every lane toward target, reaching it after 1/inc ticks.
func (s *LinearSmoother) SetIncrement(target Float, inc float32) {
	for i := range target {
		s.Target[i] = target[i]
		s.Increment[i] = (target[i] - s.Value[i]) * inc
	}
}

// Tick advances every lane by n samples.
func (s *LinearSmoother) Tick(n float32) {
	for i := range s.Value {
		inc := s.Increment[i]
		if inc == 0 {
			continue
		}
		v := s.Value[i] + inc*n
		if (inc > 0 && v >= s.Target[i]) || (inc < 0 && v <= s.Target[i]) {
			v = s.Target[i]
			s.Increment[i] = 0
		}
		s.Value[i] = v
	}
}

// Tick1 advances every lane by one sample.
func (s *LinearSmoother) Tick1() {
	s.Tick(1)
}

// Scale multiplies value and target of every lane by ratio.
func (s *LinearSmoother) Scale(ratio Float) {
	s.Value = s.Value.Mul(ratio)
	s.Target = s.Target.Mul(ratio)
	s.Increment = s.Increment.Mul(ratio)
}

// LogSmoother ramps each lane exponentially (linearly in log space) toward
// its target. Lanes must hold positive values to glide; anything else jumps.
type LogSmoother struct {
	Value  Float
	Factor Float
	Target Float
}

// Current returns the current lane values.
func (s *LogSmoother) Current() Float {
	return s.Value
}

// SetInstantly jumps every lane to v.
func (s *LogSmoother) SetInstantly(v Float) {
	s.Value = v
	s.Target = v
	s.Factor = Splat(1)
}

// SetIncrement ramps every lane toward target, reaching it after 1/inc ticks.
func (s *LogSmoother) SetIncrement(target Float, inc float32) {
	for i := range target {
		s.Target[i] = target[i]
		cur := s.Value[i]
		if !(cur > 0) || !(target[i] > 0) || cur == target[i] {
			s.Value[i] = target[i]
			s.Factor[i] = 1
			continue
		}
		ratio := float64(target[i]) / float64(cur)
		s.Factor[i] = float32(math.Exp2(math.Log2(ratio) * float64(inc)))
	}
}

// Tick1 advances every lane by one sample.
func (s *LogSmoother) Tick1() {
	for i := range s.Value {
		f := s.Factor[i]
		if f == 1 {
			continue
		}
		v := s.Value[i] * f
		if (f > 1 && v >= s.Target[i]) || (f < 1 && v <= s.Target[i]) {
			v = s.Target[i]
			s.Factor[i] = 1
		}
		s.Value[i] = v
	}
}

// Scale multiplies value and target of every lane by ratio; the glide
// factor is unchanged.
func (s *LogSmoother) Scale(ratio Float) {
	s.Value = s.Value.Mul(ratio)
	s.Target = s.Target.Mul(ratio)
}
