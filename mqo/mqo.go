package mqo

import "github.com/binzume/polytri/geom"

type Vector2 = geom.Vector2
type Vector3 = geom.Vector3

type Vector4 struct {
	X float32
	Y float32
	Z float32
	W float32
}

type Material struct {
	Name  string
	UID   int
	Color Vector4

	Diffuse     float32
	Ambient     float32
	Emission    float32
	Specular    float32
	Power       float32
	Texture     string
	DoubleSided bool
}

type Face struct {
	UID      int
	Verts    []int
	Material int
	UVs      []Vector2
}

type Object struct {
	UID      int
	Name     string
	Vertexes []*Vector3
	Faces    []*Face
	Visible  bool
	Locked   bool
	Depth    int

	Shading   int
	Facet     float32
	Mirror    int
	MirrorDis float32
}

func NewObject(name string) *Object {
	return &Object{Name: name, Visible: true, Shading: 1, Facet: 59.5}
}

type Document struct {
	Materials []*Material
	Objects   []*Object
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

// GetObjectByName returns the first object named name, or nil.
func (doc *Document) GetObjectByName(name string) *Object {
	for _, obj := range doc.Objects {
		if obj.Name == name {
			return obj
		}
	}
	return nil
}

// Transform applies transform to all vertices.
func (doc *Document) Transform(transform func(v *Vector3)) {
	for _, o := range doc.Objects {
		for _, v := range o.Vertexes {
			transform(v)
		}
	}
}
