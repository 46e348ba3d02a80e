// Package polyset reads polygon sets: a shared point buffer and index loops
// into it.
package polyset

import (
	"bufio"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/binzume/polytri/geom"
	yaml "gopkg.in/yaml.v2"
)

type Set struct {
	Points   [][]float32 `yaml:"points"`
	Polygons [][]int     `yaml:"polygons,omitempty"`
}

// Vertexes returns the point buffer as vectors.
func (s *Set) Vertexes() []*geom.Vector3 {
	v := make([]*geom.Vector3, len(s.Points))
	for i, p := range s.Points {
		v[i] = &geom.Vector3{X: p[0], Y: p[1], Z: p[2]}
	}
	return v
}

// Loops returns the polygons. A set without polygons is one polygon over all
// points in order.
func (s *Set) Loops() [][]int {
	if len(s.Polygons) > 0 {
		return s.Polygons
	}
	loop := make([]int, len(s.Points))
	for i := range loop {
		loop[i] = i
	}
	return [][]int{loop}
}

func (s *Set) validate() error {
	for i, p := range s.Points {
		if len(p) != 3 {
			return fmt.Errorf("point %d: want 3 coordinates, got %d", i, len(p))
		}
	}
	for i, poly := range s.Polygons {
		for _, v := range poly {
			if v < 0 || v >= len(s.Points) {
				return fmt.Errorf("polygon %d: index %d out of range", i, v)
			}
		}
	}
	return nil
}

// Read parses a YAML polygon set.
func Read(r io.Reader) (*Set, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var s Set
	if err := yaml.UnmarshalStrict(data, &s); err != nil {
		return nil, err
	}
	return &s, s.validate()
}

// ReadText parses "x y z" lines. A blank line ends a polygon, so every
// polygon gets its own consecutive points.
func ReadText(r io.Reader) (*Set, error) {
	var s Set
	var loop []int
	flush := func() {
		if len(loop) > 0 {
			s.Polygons = append(s.Polygons, loop)
			loop = nil
		}
	}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			flush()
			continue
		}
		if strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: want 3 coordinates, got %d", line, len(fields))
		}
		p := make([]float32, 3)
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			p[i] = float32(v)
		}
		loop = append(loop, len(s.Points))
		s.Points = append(s.Points, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return &s, nil
}

// Load reads a .yaml/.yml polygon set or a text point list.
func Load(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		return Read(f)
	}
	return ReadText(f)
}

// Write writes s as YAML.
func Write(s *Set, w io.Writer) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
