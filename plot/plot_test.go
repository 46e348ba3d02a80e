package plot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/binzume/polytri/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePython(t *testing.T) {
	points := []*geom.Vector3{
		geom.NewVector3(0, 0, 0),
		geom.NewVector3(0, 0, 1),
		geom.NewVector3(0, 1, 1),
		geom.NewVector3(0, 1, 0.5),
	}
	tris, err := geom.TriangulatePoints(points)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePython(&buf, tris, points))
	lines := strings.Split(buf.String(), "\n")

	assert.Equal(t, "#!/usr/bin/env python3", lines[0])
	assert.Contains(t, lines, "list_index = [[0,1,2],[2,3,0]]")
	assert.Contains(t, lines, "list_points = [[0,0,0],[0,0,1],[0,1,1],[0,1,0.5]]")
	assert.Equal(t, "make_plot(list_index, list_points)", lines[len(lines)-2])
}
