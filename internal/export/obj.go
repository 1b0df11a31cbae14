package export

import (
	"fmt"
	"io"

	"github.com/san-kum/ropesim/internal/tube"
)

// MeshToOBJ writes a tube mesh as Wavefront OBJ: positions, texture
// coordinates, and v/vt faces. OBJ indices are 1-based.
func MeshToOBJ(w io.Writer, m *tube.Mesh) error {
	if _, err := fmt.Fprintln(w, "# ropesim tube mesh"); err != nil {
		return err
	}

	for _, v := range m.Vertices {
		if _, err := fmt.Fprintf(w, "v %.6f %.6f %.6f\n", v[0], v[1], v[2]); err != nil {
			return err
		}
	}
	for _, uv := range m.UVs {
		if _, err := fmt.Fprintf(w, "vt %.6f %.6f\n", uv[0], uv[1]); err != nil {
			return err
		}
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i]+1, m.Indices[i+1]+1, m.Indices[i+2]+1
		if _, err := fmt.Fprintf(w, "f %d/%d %d/%d %d/%d\n", a, a, b, b, c, c); err != nil {
			return err
		}
	}
	return nil
}
