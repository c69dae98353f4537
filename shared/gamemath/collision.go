package gamemath

// Point is a 2D position.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned box given by its top-left corner and size.
type Rect struct {
	X, Y, W, H float64
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.Right() && y >= r.Y && y <= r.Bottom()
}

// CircleRect tests a circle against a box for the paddle rebound. The box is
// expanded by the radius horizontally only: the ball hits when its center is
// within r of the paddle face and its center is within the paddle's height.
func CircleRect(cx, cy, r float64, box Rect) bool {
	return cx >= box.X-r && cx <= box.Right()+r &&
		cy >= box.Y && cy <= box.Bottom()
}

// CircleCircle reports whether two circles overlap (strictly).
func CircleCircle(ax, ay, ar, bx, by, br float64) bool {
	dx := ax - bx
	dy := ay - by
	reach := ar + br
	return dx*dx+dy*dy < reach*reach
}
