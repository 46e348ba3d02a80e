package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/binzume/polytri/converter"
	"github.com/binzume/polytri/geom"
	"github.com/binzume/polytri/mqo"
	"github.com/binzume/polytri/plot"
	"github.com/binzume/polytri/polyset"
	"github.com/logrusorgru/aurora"
	"github.com/qmuntal/gltf"
)

var errStrict = errors.New("some polygons were not triangulated")

func isMQO(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".mqo" || ext == ".mqoz"
}

func defaultOutputFile(input string) string {
	ext := strings.ToLower(filepath.Ext(input))
	base := input[0 : len(input)-len(ext)]
	if isMQO(input) {
		return base + ".glb"
	}
	return base + ".py"
}

type app struct {
	conf *Config
	au   aurora.Aurora
	tr   *geom.Triangulator
}

func newApp(conf *Config, color bool) *app {
	return &app{
		conf: conf,
		au:   aurora.NewAurora(color),
		tr:   geom.NewTriangulator(conf.EpsilonScale),
	}
}

func (a *app) printReport(r *mqo.TriangulateReport) {
	log.Printf("polygons: %d, triangles: %d, dropped: %d, failed: %v",
		r.Polygons, r.Triangles, r.Dropped, a.count(len(r.Failed)))
	for _, f := range r.Failed {
		log.Print("  ", a.au.Yellow(f.Error()))
	}
}

func (a *app) count(n int) aurora.Value {
	if n > 0 {
		return a.au.Red(n)
	}
	return a.au.Green(n)
}

func (a *app) check(r *mqo.TriangulateReport) error {
	a.printReport(r)
	if a.conf.Strict && len(r.Failed) > 0 {
		return errStrict
	}
	return nil
}

func (a *app) convertDocument(doc *mqo.Document, output, srcDir string) error {
	if a.conf.Scale != 1 {
		s := a.conf.Scale
		doc.Transform(func(v *mqo.Vector3) {
			v.X *= s
			v.Y *= s
			v.Z *= s
		})
	}

	ext := strings.ToLower(filepath.Ext(output))
	if ext == ".glb" || ext == ".gltf" {
		conv := converter.NewMQOToGLTFConverter(&converter.MQOToGLTFOption{
			ForceUnlit:             a.conf.Unlit,
			Triangulator:           a.tr,
			TextureResolutionLimit: a.conf.TextureLimit,
		})
		gltfdoc, err := conv.Convert(doc, srcDir)
		if err != nil {
			return err
		}
		if err := a.check(conv.Report); err != nil {
			return err
		}
		if ext == ".gltf" {
			return gltf.Save(gltfdoc, output)
		}
		return gltf.SaveBinary(gltfdoc, output)
	} else if ext == ".mqo" {
		if err := a.check(doc.Triangulate(a.tr)); err != nil {
			return err
		}
		return mqo.Save(doc, output)
	}
	return fmt.Errorf("unsupported output type: %v", ext)
}

// triangulateSet triangulates every polygon of s. Failed polygons are reported
// and left out.
func (a *app) triangulateSet(s *polyset.Set) ([]geom.Triangle, *mqo.TriangulateReport) {
	points := s.Vertexes()
	report := &mqo.TriangulateReport{}
	var tris []geom.Triangle
	for i, loop := range s.Loops() {
		if len(loop) > 3 {
			report.Polygons++
		}
		t, err := a.tr.Triangulate(loop, points)
		if err != nil {
			report.Failed = append(report.Failed, &mqo.FaceError{Object: "polygons", Face: i, Err: err})
			continue
		}
		if len(loop) > 3 {
			report.Triangles += len(t)
		}
		tris = append(tris, t...)
	}
	return tris, report
}

func setToDocument(s *polyset.Set, tris []geom.Triangle) *mqo.Document {
	doc := mqo.NewDocument()
	doc.Materials = append(doc.Materials, &mqo.Material{Name: "default", Color: mqo.Vector4{X: 1, Y: 1, Z: 1, W: 1}, Diffuse: 0.8})
	obj := mqo.NewObject("polygons")
	obj.Vertexes = s.Vertexes()
	for _, t := range tris {
		obj.Faces = append(obj.Faces, &mqo.Face{Verts: []int{t[0], t[1], t[2]}})
	}
	doc.Objects = append(doc.Objects, obj)
	return doc
}

func (a *app) convertSet(s *polyset.Set, output string) error {
	tris, report := a.triangulateSet(s)
	if err := a.check(report); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(output))
	if ext == ".py" {
		w, err := os.Create(output)
		if err != nil {
			return err
		}
		defer w.Close()
		return plot.WritePython(w, tris, s.Vertexes())
	} else if ext == ".yaml" || ext == ".yml" {
		w, err := os.Create(output)
		if err != nil {
			return err
		}
		defer w.Close()
		out := &polyset.Set{Points: s.Points}
		for _, t := range tris {
			out.Polygons = append(out.Polygons, []int{t[0], t[1], t[2]})
		}
		return polyset.Write(out, w)
	}
	return a.convertDocument(setToDocument(s, tris), output, "")
}

func (a *app) run(input, output string) error {
	if isMQO(input) {
		doc, err := mqo.Load(input)
		if err != nil {
			return err
		}
		return a.convertDocument(doc, output, filepath.Dir(input))
	}
	s, err := polyset.Load(input)
	if err != nil {
		return err
	}
	return a.convertSet(s, output)
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s input.(mqo|yaml|txt) [output.(glb|mqo|py|yaml)]\n", os.Args[0])
		flag.PrintDefaults()
	}
	eps := flag.Float64("eps", geom.DefaultEpsilonScale, "coplanarity tolerance as a multiple of float32 epsilon")
	confFile := flag.String("config", "", "options file (default: <input>.polytri.yaml)")
	strict := flag.Bool("strict", false, "fail if any polygon can not be triangulated")
	scale := flag.Float64("scale", 1, "scale vertices")
	unlit := flag.Bool("gltfunlit", false, "unlit all materials")
	texLimit := flag.Int("texlimit", 0, "max texture width. 0:unlimited")
	color := flag.Bool("color", true, "colored report")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return
	}
	input := flag.Arg(0)
	output := flag.Arg(1)
	if output == "" {
		output = defaultOutputFile(input)
	}
	if *confFile == "" {
		*confFile = defaultConfigFile(input)
	}

	conf, err := loadConfig(*confFile)
	if err != nil {
		log.Fatal(err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "eps":
			conf.EpsilonScale = float32(*eps)
		case "strict":
			conf.Strict = *strict
		case "scale":
			conf.Scale = float32(*scale)
		case "gltfunlit":
			conf.Unlit = *unlit
		case "texlimit":
			conf.TextureLimit = *texLimit
		}
	})

	log.Print("out: ", output)
	if err := newApp(conf, *color).run(input, output); err != nil {
		log.Fatal(err)
	}
}
