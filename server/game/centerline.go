package game

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// centerLine animates the dashed midline offset. The tween runs linearly from
// 0 to period over period units of time, so advancing by step moves the offset
// by step; on reaching the end it wraps with the overshoot carried over.
type centerLine struct {
	tw      *gween.Tween
	step    float32
	period  float32
	elapsed float32
	offset  float64
}

func newCenterLine(step, period float64) *centerLine {
	c := &centerLine{step: float32(step), period: float32(period)}
	if period > 0 {
		c.tw = gween.New(0, float32(period), float32(period), ease.Linear)
	}
	return c
}

func (c *centerLine) advance() {
	if c.tw == nil {
		return
	}
	c.elapsed += c.step
	v, done := c.tw.Update(c.step)
	// One tween run is one dash period; a finished run is a completed lap.
	for done {
		c.elapsed -= c.period
		c.tw.Reset()
		v, done = c.tw.Update(c.elapsed)
	}
	c.offset = float64(v)
}

func (c *centerLine) value() float64 {
	return c.offset
}
