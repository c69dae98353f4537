package gamemath

import "math"

// ApplyFriction reduces speed toward zero by friction amount.
func ApplyFriction(speed, friction float64) float64 {
	if speed > friction {
		return speed - friction
	}
	if speed < -friction {
		return speed + friction
	}
	return 0
}

// ClampSpeed clamps a value to [-max, max].
func ClampSpeed(speed, max float64) float64 {
	if speed > max {
		return max
	}
	if speed < -max {
		return -max
	}
	return speed
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Blend moves current toward target by factor (0..1).
func Blend(current, target, factor float64) float64 {
	return current + (target-current)*factor
}

// Magnitude returns the length of (dx, dy).
func Magnitude(dx, dy float64) float64 {
	return math.Sqrt(dx*dx + dy*dy)
}

// ScaleToSpeed rescales (dx, dy) to the given magnitude while keeping its
// direction. A zero vector has no direction and is returned unchanged with ok=false.
func ScaleToSpeed(dx, dy, speed float64) (float64, float64, bool) {
	current := Magnitude(dx, dy)
	if current == 0 {
		return dx, dy, false
	}
	return dx / current * speed, dy / current * speed, true
}

// RampSpeed returns min(base + elapsed*accel, max).
func RampSpeed(base, accel, max, elapsed float64) float64 {
	return math.Min(base+elapsed*accel, max)
}

// HitAngle maps the impact offset from the paddle center linearly onto
// [-maxAngle, maxAngle]. Offsets past the paddle edge are capped.
func HitAngle(ballY, paddleY, paddleHeight, maxAngle float64) float64 {
	half := paddleHeight / 2
	if half <= 0 {
		return 0
	}
	offset := Clamp((ballY-paddleY)/half, -1, 1)
	return offset * maxAngle
}

// Finite reports whether every value is neither NaN nor infinite.
func Finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
