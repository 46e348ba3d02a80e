package geom

import "errors"

var (
	ErrInsufficientVertices = errors.New("polygon has less than 3 vertices")
	ErrInvalidIndex         = errors.New("polygon refers to a missing vertex")
	ErrNonCoplanar          = errors.New("polygon is not coplanar")
	ErrDegenerateClip       = errors.New("ear clipping did not converge")
)

// Triangle is a triple of indices into the point buffer given to Triangulate.
type Triangle [3]int

// Triangulator splits planar polygons into triangles by ear clipping.
// The zero value uses DefaultEpsilonScale. It holds no state between calls.
type Triangulator struct {
	// Coplanarity tolerance as a multiple of Epsilon.
	EpsilonScale Element
}

var defaultTriangulator = &Triangulator{EpsilonScale: DefaultEpsilonScale}

func NewTriangulator(epsilonScale Element) *Triangulator {
	if epsilonScale <= 0 {
		epsilonScale = DefaultEpsilonScale
	}
	return &Triangulator{EpsilonScale: epsilonScale}
}

// Tolerance returns the maximum deviation between unit plane normals.
func (t *Triangulator) Tolerance() Element {
	s := t.EpsilonScale
	if s <= 0 {
		s = DefaultEpsilonScale
	}
	return Epsilon * s
}

// Triangulate splits the polygon points[loop[...]] with the default tolerance.
func Triangulate(loop []int, points []*Vector3) ([]Triangle, error) {
	return defaultTriangulator.Triangulate(loop, points)
}

// TriangulatePoints triangulates the polygon made of all points in order.
func TriangulatePoints(points []*Vector3) ([]Triangle, error) {
	return defaultTriangulator.TriangulatePoints(points)
}

func (t *Triangulator) TriangulatePoints(points []*Vector3) ([]Triangle, error) {
	loop := make([]int, len(points))
	for i := range loop {
		loop[i] = i
	}
	return t.Triangulate(loop, points)
}

// Triangulate splits the simple planar polygon points[loop[...]] into
// len(loop)-2 triangles. Returned indices refer to points, not to loop.
func (t *Triangulator) Triangulate(loop []int, points []*Vector3) ([]Triangle, error) {
	tris, err := t.TriangulateCorners(loop, points)
	if err != nil {
		return nil, err
	}
	for i, tri := range tris {
		tris[i] = Triangle{loop[tri[0]], loop[tri[1]], loop[tri[2]]}
	}
	return tris, nil
}

// TriangulateCorners is like Triangulate but the returned triangles hold
// positions in loop. Use it to carry per-corner attributes such as UVs.
func (t *Triangulator) TriangulateCorners(loop []int, points []*Vector3) ([]Triangle, error) {
	if len(loop) < 3 {
		return nil, ErrInsufficientVertices
	}
	if !validLoop(loop, points) {
		return nil, ErrInvalidIndex
	}
	if !t.IsCoplanar(loop, points) {
		return nil, ErrNonCoplanar
	}
	poly := ProjectTo2D(loop, points)
	if poly == nil {
		return nil, ErrDegenerateClip
	}

	// Counter-clockwise traversal first, the other one as fallback.
	passes := [2]bool{false, true}
	if SignedArea(poly) < 0 {
		passes = [2]bool{true, false}
	}
	for _, reverse := range passes {
		if tris, ok := clipEars(poly, reverse); ok {
			return tris, nil
		}
	}
	return nil, ErrDegenerateClip
}

// clipEars runs one ear clipping pass over poly. Returned triangles hold
// positions in poly. ok is false if the pass gave up after len(poly)^2
// rejected candidates.
func clipEars(poly []*Vector2, reverse bool) (tris []Triangle, ok bool) {
	n := len(poly)
	r := newRing(n, reverse)
	limit := n * n
	tris = make([]Triangle, 0, n-2)
	for attempts := 0; r.len() > 3; {
		if attempts > limit {
			return nil, false
		}
		i0, i1, i2 := r.popFront(), r.popFront(), r.popFront()
		if !isEar(poly, r, i0, i1, i2) {
			r.pushFront(i2)
			r.pushFront(i1)
			r.pushBack(i0)
			attempts++
			continue
		}
		tris = append(tris, Triangle{i0, i1, i2})
		r.pushFront(i2)
		r.pushBack(i0)
	}
	return append(tris, Triangle{r.at(0), r.at(1), r.at(2)}), true
}

// isEar reports whether i0 i1 i2 turns left and no vertex left in r lies
// inside it. r must not contain the three candidates.
func isEar(poly []*Vector2, r *ring, i0, i1, i2 int) bool {
	x0, x1, x2 := poly[i0], poly[i1], poly[i2]
	if Cross2D(x1.Sub(x0), x2.Sub(x0)) < 0 {
		return false
	}
	for i := 0; i < r.len(); i++ {
		if IsInTriangle2D(poly[r.at(i)], x0, x1, x2) {
			return false
		}
	}
	return true
}
