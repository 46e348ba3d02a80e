package mqo

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/binzume/polytri/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

const testDocument = `Metasequoia Document
Format Text Ver 1.1
CodePage utf8

Scene {
	pos 0 0 1500
}
Material 1 {
	"mat1" col(1.000 0.500 0.250 1.000) dif(0.800) amb(0.600) emi(0.000) spc(0.000) power(5.00) tex("tex.png")
}
Object "obj1" {
	depth 0
	visible 15
	shading 1
	facet 59.5
	vertex 5 {
		0 0 4
		4 0 4
		2 2.5 2
		4 5 0
		0 5 0
	}
	face 3 {
		5 V(0 1 2 3 4) M(0) UV(0 0 1 0 0.5 0.5 1 1 0 1)
		2 V(0 1) M(0)
		3 V(0 1 9) M(0)
	}
}
Eof
`

func TestParse(t *testing.T) {
	doc, err := Parse(strings.NewReader(testDocument), "test.mqo")
	require.NoError(t, err)

	require.Len(t, doc.Materials, 1)
	assert.Equal(t, "mat1", doc.Materials[0].Name)
	assert.Equal(t, "tex.png", doc.Materials[0].Texture)
	assert.Equal(t, Vector4{X: 1, Y: 0.5, Z: 0.25, W: 1}, doc.Materials[0].Color)

	obj := doc.GetObjectByName("obj1")
	require.NotNil(t, obj)
	assert.True(t, obj.Visible)
	require.Len(t, obj.Vertexes, 5)
	assert.Equal(t, Vector3{X: 2, Y: 2.5, Z: 2}, *obj.Vertexes[2])
	// face with the missing vertex 9 is dropped.
	require.Len(t, obj.Faces, 2)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, obj.Faces[0].Verts)
	assert.Equal(t, Vector2{X: 0.5, Y: 0.5}, obj.Faces[0].UVs[2])
}

func TestParse_ShiftJIS(t *testing.T) {
	src := strings.Replace(testDocument, "CodePage utf8\n", "", 1)
	src = strings.Replace(src, `"obj1"`, `"立方体"`, 1)
	sjis, err := japanese.ShiftJIS.NewEncoder().String(src)
	require.NoError(t, err)

	doc, err := Parse(strings.NewReader(sjis), "")
	require.NoError(t, err)
	require.Len(t, doc.Objects, 1)
	assert.Equal(t, "立方体", doc.Objects[0].Name)
}

func TestTriangulate(t *testing.T) {
	doc, err := Parse(strings.NewReader(testDocument), "test.mqo")
	require.NoError(t, err)

	report := doc.Triangulate(nil)
	require.NoError(t, report.Err())
	assert.Equal(t, 1, report.Polygons)
	assert.Equal(t, 3, report.Triangles)
	assert.Equal(t, 1, report.Dropped)

	obj := doc.Objects[0]
	require.Len(t, obj.Faces, 3)
	for _, f := range obj.Faces {
		assert.Len(t, f.Verts, 3)
		assert.Len(t, f.UVs, 3)
		assert.Equal(t, 0, f.Material)
	}
	assert.Equal(t, []int{4, 0, 2}, obj.Faces[2].Verts)
	assert.Equal(t, []Vector2{{X: 0, Y: 1}, {X: 0, Y: 0}, {X: 0.5, Y: 0.5}}, obj.Faces[2].UVs)
}

func TestTriangulate_NonPlanar(t *testing.T) {
	obj := NewObject("bent")
	obj.Vertexes = []*Vector3{{X: 1}, {Z: 1}, {Y: 1, Z: 1}, {Y: 1}}
	obj.Faces = []*Face{{Verts: []int{0, 1, 2, 3}}}

	report := obj.Triangulate(geom.NewTriangulator(0))
	require.Len(t, report.Failed, 1)
	assert.ErrorIs(t, report.Err(), geom.ErrNonCoplanar)
	assert.Equal(t, 0, report.Failed[0].Face)
	// kept as is.
	require.Len(t, obj.Faces, 1)
	assert.Len(t, obj.Faces[0].Verts, 4)
}

func TestWriteMQO(t *testing.T) {
	doc, err := Parse(strings.NewReader(testDocument), "test.mqo")
	require.NoError(t, err)
	doc.Triangulate(nil)

	var buf bytes.Buffer
	require.NoError(t, WriteMQO(doc, &buf))
	assert.Contains(t, buf.String(), "3 V(4 0 2) M(0) UV(0 1 0 0 0.5 0.5)")

	doc2, err := Parse(&buf, "")
	require.NoError(t, err)
	require.Len(t, doc2.Objects, 1)
	assert.Equal(t, doc.Objects[0].Vertexes, doc2.Objects[0].Vertexes)
	assert.Equal(t, doc.Objects[0].Faces, doc2.Objects[0].Faces)
	assert.Equal(t, doc.Materials, doc2.Materials)
}

func TestLoadMQOZ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.MQOZ")
	f, err := os.Create(path)
	require.NoError(t, err)
	z := zip.NewWriter(f)
	w, err := z.Create("test.mqo")
	require.NoError(t, err)
	_, err = w.Write([]byte(testDocument))
	require.NoError(t, err)
	require.NoError(t, z.Close())
	require.NoError(t, f.Close())

	doc, err := Load(path)
	require.NoError(t, err)
	require.Len(t, doc.Objects, 1)
	assert.Len(t, doc.Objects[0].Faces, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.mqo"))
	assert.True(t, os.IsNotExist(err))
}
