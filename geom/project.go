package geom

// ProjectTo2D maps points[loop[...]] onto the plane through the first three
// non-collinear vertices. The result is parallel to loop.
//
// The first axis is the first edge at its own length, so coordinates are
// scaled by that length. Input must already be known to be coplanar.
// Returns nil if loop is too short or all vertices lie on one line.
func ProjectTo2D(loop []int, points []*Vector3) []*Vector2 {
	if len(loop) < 3 {
		return nil
	}
	origin := points[loop[0]]
	e1 := points[loop[1]].Sub(origin)
	var normal *Vector3
	for _, i := range loop[2:] {
		if n, ok := e1.Cross(points[i].Sub(origin)).Unit(); ok {
			normal = n
			break
		}
	}
	if normal == nil {
		return nil
	}
	e2 := e1.Cross(normal).Neg()

	projected := make([]*Vector2, len(loop))
	for i, index := range loop {
		d := points[index].Sub(origin)
		projected[i] = &Vector2{X: d.Dot(e1), Y: d.Dot(e2)}
	}
	return projected
}

// PolygonNormal returns the unit normal of a polygon by summing the corner
// cross products, so it follows the winding of poly.
func PolygonNormal(poly []*Vector3) *Vector3 {
	n := &Vector3{}
	for i := range poly {
		v0 := poly[(i+len(poly)-1)%len(poly)]
		v1 := poly[i]
		v2 := poly[(i+1)%len(poly)]
		n = n.Add(v2.Sub(v1).Cross(v0.Sub(v1)))
	}
	return n.Normalize()
}
