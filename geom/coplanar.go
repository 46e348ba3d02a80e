package geom

// DefaultEpsilonScale is the multiple of Epsilon used as coplanarity
// tolerance. Mesh data usually carries more error than a single rounding.
const DefaultEpsilonScale = 100

func validLoop(loop []int, points []*Vector3) bool {
	for _, i := range loop {
		if i < 0 || i >= len(points) || points[i] == nil {
			return false
		}
	}
	return true
}

// IsCoplanar reports whether points[loop[...]] lie in one plane using the
// default tolerance.
func IsCoplanar(loop []int, points []*Vector3) bool {
	return defaultTriangulator.IsCoplanar(loop, points)
}

// IsCoplanar reports whether points[loop[...]] lie in one plane.
//
// Every vertex from the third on spans a plane with the first edge. Normals of
// neighboring planes must match within the tolerance, in either direction.
func (t *Triangulator) IsCoplanar(loop []int, points []*Vector3) bool {
	if len(loop) < 3 || !validLoop(loop, points) {
		return false
	}
	if len(loop) == 3 {
		return true
	}
	tolerance := t.Tolerance()
	origin := points[loop[0]]
	v1 := points[loop[1]].Sub(origin)
	var prev *Vector3
	for _, i := range loop[2:] {
		n, ok := v1.Cross(points[i].Sub(origin)).Unit()
		if !ok {
			// collinear with the first edge.
			continue
		}
		if prev != nil && prev.Sub(n).Len() > tolerance && prev.Add(n).Len() > tolerance {
			return false
		}
		prev = n
	}
	return true
}
