// Package plot writes triangulation results as a matplotlib script for visual
// inspection.
package plot

import (
	"bufio"
	"fmt"
	"io"

	"github.com/binzume/polytri/geom"
)

const pythonHelper = `import mpl_toolkits.mplot3d as a3
import matplotlib.colors as colors
import matplotlib.pyplot as plt
import numpy as np


def make_plot(a, b):
    list_index = np.array(a)
    list_points = np.array(b)

    ax = plt.figure().add_subplot(projection='3d')
    ax.set_xlim(min(list_points[..., 0]), max(list_points[..., 0]))
    ax.set_ylim(min(list_points[..., 1]), max(list_points[..., 1]))
    ax.set_zlim(min(list_points[..., 2]), max(list_points[..., 2]))
    for elm in list_index:
        vtx = [list_points[elm[0]], list_points[elm[1]], list_points[elm[2]]]
        tri = a3.art3d.Poly3DCollection([vtx])
        tri.set_color(colors.rgb2hex(np.random.rand(3)))
        tri.set_edgecolor('k')
        ax.add_collection3d(tri)
    plt.show()
`

// WritePython writes a standalone python3 script that draws tris over points.
func WritePython(ww io.Writer, tris []geom.Triangle, points []*geom.Vector3) error {
	w := bufio.NewWriter(ww)
	w.WriteString("#!/usr/bin/env python3\n")
	w.WriteString("# Generated file. Run with python3.\n")
	w.WriteString(pythonHelper)
	w.WriteString("\n\n")

	w.WriteString("list_index = [")
	for i, t := range tris {
		if i != 0 {
			w.WriteString(",")
		}
		fmt.Fprintf(w, "[%d,%d,%d]", t[0], t[1], t[2])
	}
	w.WriteString("]\n")

	w.WriteString("list_points = [")
	for i, p := range points {
		if i != 0 {
			w.WriteString(",")
		}
		fmt.Fprintf(w, "[%v,%v,%v]", p.X, p.Y, p.Z)
	}
	w.WriteString("]\n")
	w.WriteString("make_plot(list_index, list_points)\n")
	return w.Flush()
}
