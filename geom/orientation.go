package geom

// Cross2D returns v1.X*v2.Y - v1.Y*v2.X.
func Cross2D(v1, v2 *Vector2) Element {
	return v1.Cross(v2)
}

// IsInTriangle2D reports whether p lies strictly inside triangle abc.
// Points on an edge or at a corner are outside. Works for either winding.
func IsInTriangle2D(p, a, b, c *Vector2) bool {
	ab, bc, ca := b.Sub(a), c.Sub(b), a.Sub(c)
	c1, c2, c3 := ab.Cross(p.Sub(a)), bc.Cross(p.Sub(b)), ca.Cross(p.Sub(c))
	return (c1 > 0 && c2 > 0 && c3 > 0) || (c1 < 0 && c2 < 0 && c3 < 0)
}

// SignedArea returns the signed area of the closed 2D polygon.
// Positive for counter-clockwise order.
func SignedArea(poly []*Vector2) float64 {
	var s float64
	for i, p := range poly {
		q := poly[(i+1)%len(poly)]
		s += float64(p.X)*float64(q.Y) - float64(q.X)*float64(p.Y)
	}
	return s / 2
}
