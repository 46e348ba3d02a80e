package mqo

import (
	"fmt"

	"github.com/binzume/polytri/geom"
)

// FaceError is a polygon that could not be triangulated.
type FaceError struct {
	Object string
	Face   int
	Err    error
}

func (e *FaceError) Error() string {
	return fmt.Sprintf("object %q face %d: %v", e.Object, e.Face, e.Err)
}

func (e *FaceError) Unwrap() error {
	return e.Err
}

type TriangulateReport struct {
	Polygons  int // faces with more than 3 vertices
	Triangles int // triangles made from them
	Dropped   int // faces with less than 3 vertices
	Failed    []*FaceError
}

func (r *TriangulateReport) add(o *TriangulateReport) {
	r.Polygons += o.Polygons
	r.Triangles += o.Triangles
	r.Dropped += o.Dropped
	r.Failed = append(r.Failed, o.Failed...)
}

// Err returns nil if all polygons were triangulated.
func (r *TriangulateReport) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	if len(r.Failed) == 1 {
		return r.Failed[0]
	}
	return fmt.Errorf("%d faces not triangulated, first: %w", len(r.Failed), r.Failed[0])
}

// Triangulate replaces every polygon face with triangles. Faces which can
// not be split (non-planar, self-intersecting) are kept as they are.
func (o *Object) Triangulate(t *geom.Triangulator) *TriangulateReport {
	if t == nil {
		t = geom.NewTriangulator(0)
	}
	report := &TriangulateReport{}
	faces := make([]*Face, 0, len(o.Faces))
	for i, f := range o.Faces {
		if len(f.Verts) < 3 {
			report.Dropped++
			continue
		}
		if len(f.Verts) == 3 {
			faces = append(faces, f)
			continue
		}
		report.Polygons++
		tris, err := t.TriangulateCorners(f.Verts, o.Vertexes)
		if err != nil {
			report.Failed = append(report.Failed, &FaceError{Object: o.Name, Face: i, Err: err})
			faces = append(faces, f)
			continue
		}
		for _, tri := range tris {
			face := &Face{
				Verts:    []int{f.Verts[tri[0]], f.Verts[tri[1]], f.Verts[tri[2]]},
				Material: f.Material,
			}
			if len(f.UVs) > 0 {
				face.UVs = []Vector2{f.UVs[tri[0]], f.UVs[tri[1]], f.UVs[tri[2]]}
			}
			faces = append(faces, face)
		}
		report.Triangles += len(tris)
	}
	o.Faces = faces
	return report
}

// Triangulate triangulates all objects.
func (doc *Document) Triangulate(t *geom.Triangulator) *TriangulateReport {
	report := &TriangulateReport{}
	for _, obj := range doc.Objects {
		report.add(obj.Triangulate(t))
	}
	return report
}
