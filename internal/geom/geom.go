// Package geom holds the angle and distance helpers shared by the arena
// engine, the script sandbox and the viewer. All angles are in degrees,
// 0 = +X (right), 90 = +Y (down in screen space).
package geom

import "math"

// NormalizeAngle wraps a heading in degrees to (-180, 180].
// Non-finite input maps to 0 so a bad value can never poison vehicle state.
func NormalizeAngle(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0
	}
	a = math.Mod(a, 360)
	if a <= -180 {
		a += 360
	} else if a > 180 {
		a -= 360
	}
	return a
}

// AngularDifference returns the smallest signed rotation from a to b,
// in (-180, 180]. Positive means b lies clockwise of a in screen space.
func AngularDifference(a, b float64) float64 {
	return NormalizeAngle(b - a)
}

// AbsAngularDifference is the unsigned form of AngularDifference.
func AbsAngularDifference(a, b float64) float64 {
	return math.Abs(AngularDifference(a, b))
}

// BearingTo returns the heading from (ox,oy) toward (px,py).
func BearingTo(ox, oy, px, py float64) float64 {
	return NormalizeAngle(Degrees(math.Atan2(py-oy, px-ox)))
}

// DistanceTo returns the Euclidean distance between two points.
func DistanceTo(ox, oy, px, py float64) float64 {
	return math.Hypot(px-ox, py-oy)
}

// InArc reports whether bearing lies within an arc of the given total width
// centred on center. Wraparound at ±180 is handled.
func InArc(center, width, bearing float64) bool {
	return AbsAngularDifference(center, bearing) <= width/2
}

// RotateToward moves current toward target by at most maxStep degrees,
// snapping exactly onto target when it is within one step.
func RotateToward(current, target, maxStep float64) float64 {
	diff := AngularDifference(current, target)
	if math.Abs(diff) <= maxStep {
		return NormalizeAngle(target)
	}
	if diff > 0 {
		return NormalizeAngle(current + maxStep)
	}
	return NormalizeAngle(current - maxStep)
}

// Polar decomposes a heading and length into x/y components.
func Polar(angle, length float64) (float64, float64) {
	r := Radians(angle)
	return math.Cos(r) * length, math.Sin(r) * length
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return Clamp(v, 0, 1)
}

// Finite reports whether every value is neither NaN nor infinite.
func Finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
