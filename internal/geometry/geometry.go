package geometry

// Rect is an axis-aligned rectangle in page coordinates, y increasing downward.
type Rect struct{ X0, Y0, X1, Y1 float64 }

var Empty = Rect{}

func (r Rect) IsEmpty() bool    { return r.X0 >= r.X1 || r.Y0 >= r.Y1 }
func (r Rect) Width() float64   { return r.X1 - r.X0 }
func (r Rect) Height() float64  { return r.Y1 - r.Y0 }
func (r Rect) CenterX() float64 { return (r.X0 + r.X1) / 2 }

func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return Rect{Min(r.X0, other.X0), Min(r.Y0, other.Y0), Max(r.X1, other.X1), Max(r.Y1, other.Y1)}
}

// OverlapX returns the width of the horizontal overlap between r and other,
// or 0 when they do not overlap horizontally.
func (r Rect) OverlapX(other Rect) float64 {
	lo, hi := Max(r.X0, other.X0), Min(r.X1, other.X1)
	if hi <= lo {
		return 0
	}
	return hi - lo
}

func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
