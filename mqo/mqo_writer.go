package mqo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// WriteMQO writes doc as a utf8 text document.
func WriteMQO(doc *Document, ww io.Writer) error {
	w := bufio.NewWriter(ww)
	w.WriteString("Metasequoia Document\n")
	w.WriteString("Format Text Ver 1.1\n")
	w.WriteString("CodePage utf8\n")
	w.WriteString("\n")

	fmt.Fprintf(w, "Material %v {\n", len(doc.Materials))
	for _, mat := range doc.Materials {
		fmt.Fprintf(w, "\t\"%v\"", mat.Name)
		if mat.DoubleSided {
			fmt.Fprintf(w, " dbls(%d)", boolToInt(mat.DoubleSided))
		}
		if mat.UID > 0 {
			fmt.Fprintf(w, " uid(%d)", mat.UID)
		}
		fmt.Fprintf(w, " col(%.3f %.3f %.3f %.3f) dif(%.3f) amb(%.3f) emi(%.3f) spc(%.3f) power(%.2f)",
			mat.Color.X, mat.Color.Y, mat.Color.Z, mat.Color.W,
			mat.Diffuse, mat.Ambient, mat.Emission, mat.Specular, mat.Power)
		if mat.Texture != "" {
			fmt.Fprintf(w, " tex(\"%v\")", strings.Replace(mat.Texture, "\\", "/", -1))
		}
		w.WriteString("\n")
	}
	w.WriteString("}\n")

	for _, obj := range doc.Objects {
		writeObject(w, obj)
	}

	w.WriteString("Eof\n")
	return w.Flush()
}

func writeObject(w *bufio.Writer, obj *Object) {
	fmt.Fprintf(w, "Object \"%v\" {\n", obj.Name)
	if obj.UID > 0 {
		fmt.Fprintf(w, "\tuid %v\n", obj.UID)
	}
	fmt.Fprintf(w, "\tdepth %d\n", obj.Depth)
	fmt.Fprintf(w, "\tlocking %v\n", boolToInt(obj.Locked))
	if !obj.Visible {
		fmt.Fprint(w, "\tvisible 0\n")
	}
	fmt.Fprintf(w, "\tshading %v\n", obj.Shading)
	fmt.Fprintf(w, "\tfacet %v\n", obj.Facet)
	fmt.Fprintf(w, "\tmirror %d\n", obj.Mirror)
	fmt.Fprintf(w, "\tmirror_dis %f\n", obj.MirrorDis)

	fmt.Fprintf(w, "\tvertex %v {\n", len(obj.Vertexes))
	for _, v := range obj.Vertexes {
		fmt.Fprintf(w, "\t\t%v %v %v\n", v.X, v.Y, v.Z)
	}
	w.WriteString("\t}\n")

	fmt.Fprintf(w, "\tface %v {\n", len(obj.Faces))
	for _, f := range obj.Faces {
		fmt.Fprintf(w, "\t\t%v V(%v) M(%v)", len(f.Verts), strings.Trim(fmt.Sprint(f.Verts), "[]"), f.Material)
		if f.UID > 0 {
			fmt.Fprintf(w, " UID(%v)", f.UID)
		}
		if len(f.UVs) > 0 {
			w.WriteString(" UV(")
			for i, uv := range f.UVs {
				if i != 0 {
					fmt.Fprint(w, " ")
				}
				fmt.Fprintf(w, "%v %v", uv.X, uv.Y)
			}
			w.WriteString(")")
		}
		w.WriteString("\n")
	}
	w.WriteString("\t}\n")
	w.WriteString("}\n")
}

// Save writes doc to path.
func Save(doc *Document, path string) error {
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	defer w.Close()
	return WriteMQO(doc, w)
}
