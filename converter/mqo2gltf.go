package converter

import (
	"io"
	"log"
	"os"

	"github.com/binzume/polytri/geom"
	"github.com/binzume/polytri/mqo"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

type MQOToGLTFOption struct {
	Scale      float32 // Default: 1
	ForceUnlit bool

	// Used for faces with more than 3 vertices. Default tolerance if nil.
	Triangulator *geom.Triangulator

	TextureReCompress      bool
	TextureResolutionLimit int // 0: unlimited
	TextureScale           float32
}

type mqoToGltf struct {
	*MQOToGLTFOption
	*gltf.Document
	Report *mqo.TriangulateReport
}

func NewMQOToGLTFConverter(options *MQOToGLTFOption) *mqoToGltf {
	if options == nil {
		options = &MQOToGLTFOption{}
	}
	if options.Scale == 0 {
		options.Scale = 1
	}
	if options.TextureScale == 0 {
		options.TextureScale = 1.0
	}
	if options.Triangulator == nil {
		options.Triangulator = geom.NewTriangulator(0)
	}
	return &mqoToGltf{
		MQOToGLTFOption: options,
		Document:        gltf.NewDocument(),
		Report:          &mqo.TriangulateReport{},
	}
}

// faceNormal returns the normal of a triangle face. mqo faces are clockwise.
func faceNormal(obj *mqo.Object, f *mqo.Face) *geom.Vector3 {
	return geom.PolygonNormal([]*geom.Vector3{
		obj.Vertexes[f.Verts[2]], obj.Vertexes[f.Verts[1]], obj.Vertexes[f.Verts[0]],
	})
}

func smoothNormals(obj *mqo.Object) []geom.Vector3 {
	normals := make([]geom.Vector3, len(obj.Vertexes))
	for _, f := range obj.Faces {
		if len(f.Verts) != 3 {
			continue
		}
		n := faceNormal(obj, f)
		for _, v := range f.Verts {
			normals[v] = *normals[v].Add(n)
		}
	}
	for i := range normals {
		normals[i].Normalize()
	}
	return normals
}

type cornerKey struct {
	vert int
	face int // -1 unless flat shading
	uv   geom.Vector2
}

// ConvertObject triangulates obj and builds a mesh with one primitive per
// material. Returns nil if nothing is left to draw.
func (m *mqoToGltf) ConvertObject(obj *mqo.Object, materialMap map[int]uint32) *gltf.Mesh {
	report := obj.Triangulate(m.Triangulator)
	for _, f := range report.Failed {
		log.Print("skip face: ", f)
	}
	m.Report.Polygons += report.Polygons
	m.Report.Triangles += report.Triangles
	m.Report.Dropped += report.Dropped
	m.Report.Failed = append(m.Report.Failed, report.Failed...)

	flat := obj.Shading == 0
	var smooth []geom.Vector3
	if !flat {
		smooth = smoothNormals(obj)
	}

	var vertexes [][3]float32
	var normals [][3]float32
	var texcoord0 [][2]float32
	useTexcoord0 := false
	corners := map[cornerKey]uint32{}
	var materials []uint32
	indices := map[uint32][]uint32{}

	for fi, f := range obj.Faces {
		if len(f.Verts) != 3 {
			continue
		}
		mat, ok := materialMap[f.Material]
		if !ok {
			mat = materialMap[-1]
		}
		var n *geom.Vector3
		if flat {
			n = faceNormal(obj, f)
		}
		var tri [3]uint32
		for i, v := range f.Verts {
			key := cornerKey{vert: v, face: -1}
			if flat {
				key.face = fi
			}
			if len(f.UVs) > 0 {
				key.uv = f.UVs[i]
				useTexcoord0 = true
			}
			index, exists := corners[key]
			if !exists {
				index = uint32(len(vertexes))
				corners[key] = index
				p := obj.Vertexes[v].Scale(m.Scale)
				vertexes = append(vertexes, [3]float32{p.X, p.Y, p.Z})
				var normal [3]float32
				if flat {
					n.ToArray(normal[:])
				} else {
					smooth[v].ToArray(normal[:])
				}
				normals = append(normals, normal)
				texcoord0 = append(texcoord0, [2]float32{key.uv.X, key.uv.Y})
			}
			tri[i] = index
		}
		if _, exists := indices[mat]; !exists {
			materials = append(materials, mat)
		}
		indices[mat] = append(indices[mat], tri[2], tri[1], tri[0])
	}
	if len(vertexes) == 0 {
		return nil
	}

	attributes := map[string]uint32{
		"POSITION": modeler.WritePosition(m.Document, vertexes),
	}
	if !m.ForceUnlit {
		attributes["NORMAL"] = modeler.WriteNormal(m.Document, normals)
	}
	if useTexcoord0 {
		attributes["TEXCOORD_0"] = modeler.WriteTextureCoord(m.Document, texcoord0)
	}

	var primitives []*gltf.Primitive
	for _, mat := range materials {
		primitives = append(primitives, &gltf.Primitive{
			Indices:    gltf.Index(modeler.WriteIndices(m.Document, indices[mat])),
			Attributes: attributes,
			Material:   gltf.Index(mat),
		})
	}
	return &gltf.Mesh{Name: obj.Name, Primitives: primitives}
}

func (m *mqoToGltf) addTexture(texture string, textures *textureCache) (*uint32, error) {
	t := textures.get(texture)
	if t.id != nil {
		return t.id, nil
	}
	mimeType, native := textureMimeType(texture)

	var r io.Reader
	if !native || m.TextureReCompress || m.TextureResolutionLimit > 0 || m.TextureScale != 1.0 {
		r2, err := textures.encodeTexture(texture, mimeType, m.TextureScale, m.TextureResolutionLimit)
		if err != nil {
			return nil, err
		}
		r = r2
	} else {
		f, err := os.Open(textures.path(texture))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	img, err := modeler.WriteImage(m.Document, texture, mimeType, r)
	if err != nil {
		return nil, err
	}
	m.Buffers[0].ByteLength = uint32(len(m.Buffers[0].Data)) // avoid AddImage bug
	m.Textures = append(m.Textures,
		&gltf.Texture{Sampler: gltf.Index(0), Source: gltf.Index(img)})

	t.id = gltf.Index(uint32(len(m.Textures)) - 1)
	return t.id, nil
}

func (m *mqoToGltf) convertMaterial(mat *mqo.Material, textures *textureCache) *gltf.Material {
	var unlitMaterialExt = "KHR_materials_unlit"
	var rf float32 = 0.4
	var mf = mat.Specular
	mm := &gltf.Material{
		Name: mat.Name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{mat.Color.X, mat.Color.Y, mat.Color.Z, mat.Color.W},
			RoughnessFactor: &rf,
			MetallicFactor:  &mf,
		},
		DoubleSided: mat.DoubleSided,
	}
	if mat.Emission > 0 {
		mm.EmissiveFactor = [3]float32{mat.Emission, mat.Emission, mat.Emission}
	}
	if mat.Color.W < 0.99 || textures.hasAlpha(mat.Texture) {
		mm.AlphaMode = gltf.AlphaBlend
	}
	if m.ForceUnlit {
		mm.Extensions = map[string]interface{}{unlitMaterialExt: map[string]string{}}
	}

	if mat.Texture != "" {
		if tex, err := m.addTexture(mat.Texture, textures); err == nil {
			mm.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{
				Index: *tex,
			}
		} else {
			log.Print("Texture read error:", err)
		}
	}
	return mm
}

var defaultMaterial = &mqo.Material{Name: "default", Color: mqo.Vector4{X: 0.8, Y: 0.8, Z: 0.8, W: 1}, Diffuse: 0.8}

// Convert triangulates all visible objects of doc and returns them as a glTF
// document. Textures are read from textureDir.
func (m *mqoToGltf) Convert(doc *mqo.Document, textureDir string) (*gltf.Document, error) {
	var targetObjects []*mqo.Object
	materialUsed := map[int]bool{}
	for _, obj := range doc.Objects {
		if !obj.Visible || len(obj.Faces) == 0 {
			continue
		}
		targetObjects = append(targetObjects, obj)
		for _, f := range obj.Faces {
			materialUsed[f.Material] = true
		}
	}

	// -1 is for faces without a valid material.
	materialMap := map[int]uint32{}
	var materials []*mqo.Material
	for i, mat := range doc.Materials {
		if materialUsed[i] {
			materialMap[i] = uint32(len(materials))
			materials = append(materials, mat)
		}
	}
	for i := range materialUsed {
		if i < 0 || i >= len(doc.Materials) {
			materialMap[-1] = uint32(len(materials))
			materials = append(materials, defaultMaterial)
			break
		}
	}

	var nodePath []uint32
	for _, obj := range targetObjects {
		node := &gltf.Node{Name: obj.Name}
		if mesh := m.ConvertObject(obj, materialMap); mesh != nil {
			node.Mesh = gltf.Index(uint32(len(m.Meshes)))
			m.Meshes = append(m.Meshes, mesh)
		}
		index := uint32(len(m.Nodes))
		m.Nodes = append(m.Nodes, node)
		if len(nodePath) > obj.Depth {
			nodePath = nodePath[:obj.Depth]
		}
		if len(nodePath) > 0 {
			parent := m.Nodes[nodePath[len(nodePath)-1]]
			parent.Children = append(parent.Children, index)
		} else {
			m.Scenes[0].Nodes = append(m.Scenes[0].Nodes, index)
		}
		nodePath = append(nodePath, index)
	}

	textures := newTextureCache(textureDir)
	useUnlit := false
	for _, mat := range materials {
		mm := m.convertMaterial(mat, textures)
		if mm.Extensions["KHR_materials_unlit"] != nil {
			useUnlit = true
		}
		m.Materials = append(m.Materials, mm)
	}
	if useUnlit {
		m.ExtensionsUsed = append(m.ExtensionsUsed, "KHR_materials_unlit")
	}

	if len(m.Textures) > 0 {
		m.Samplers = []*gltf.Sampler{{}}
	}
	return m.Document, nil
}
