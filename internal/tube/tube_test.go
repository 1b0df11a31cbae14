package tube

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/ungerik/go3d/float64/vec3"
)

func straightLine() []vec3.T {
	return []vec3.T{{0, 0, 0}, {5, 0, 0}, {10, 0, 0}}
}

func TestGenerateCounts(t *testing.T) {
	g := NewGenerator()
	p := Params{Radius: 0.5, Segments: 6, TilesPerUnit: 1}

	if err := g.Generate([]vec3.T{{0, 0, 0}, {4, 0, 0}}, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := g.Mesh()
	// Two rings of segments+1 vertices plus two cap centers.
	wantVerts := 2*(p.Segments+1) + 2
	if m.VertexCount() != wantVerts {
		t.Errorf("expected %d vertices, got %d", wantVerts, m.VertexCount())
	}
	// One wall segment (2 triangles per quad) plus two fans.
	wantTris := 2*p.Segments + 2*p.Segments
	if m.TriangleCount() != wantTris {
		t.Errorf("expected %d triangles, got %d", wantTris, m.TriangleCount())
	}
	if len(m.UVs) != m.VertexCount() {
		t.Error("uv buffer must parallel the vertex buffer")
	}
}

func TestGenerateIdempotent(t *testing.T) {
	a, b := NewGenerator(), NewGenerator()
	p := Params{Radius: 0.3, Segments: 8, TilesPerUnit: 2}
	pts := straightLine()

	if err := a.Generate(pts, p); err != nil {
		t.Fatal(err)
	}
	if err := b.Generate(pts, p); err != nil {
		t.Fatal(err)
	}
	// Regenerating on the same generator must also give identical buffers.
	if err := a.Generate(pts, p); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(a.Mesh(), b.Mesh()) {
		t.Error("identical inputs produced different meshes")
	}
}

func TestGenerateTooFewPointsClearsMesh(t *testing.T) {
	g := NewGenerator()
	p := DefaultParams()

	if err := g.Generate(straightLine(), p); err != nil {
		t.Fatal(err)
	}
	if g.Mesh().Empty() {
		t.Fatal("expected populated mesh")
	}

	err := g.Generate([]vec3.T{{1, 2, 3}}, p)
	if !errors.Is(err, ErrTooFewPoints) {
		t.Fatalf("expected ErrTooFewPoints, got %v", err)
	}
	if !g.Mesh().Empty() {
		t.Error("previous mesh must be cleared on configuration error")
	}
}

func TestGenerateDegenerateParams(t *testing.T) {
	g := NewGenerator()
	pts := straightLine()

	if err := g.Generate(pts, Params{Radius: 0.5, Segments: 2}); !errors.Is(err, ErrTooFewSegments) {
		t.Errorf("expected ErrTooFewSegments, got %v", err)
	}
	if err := g.Generate(pts, Params{Radius: 0, Segments: 6}); !errors.Is(err, ErrBadRadius) {
		t.Errorf("expected ErrBadRadius, got %v", err)
	}
	if !g.Mesh().Empty() {
		t.Error("mesh must stay cleared after degenerate parameters")
	}
}

func TestRingRadius(t *testing.T) {
	g := NewGenerator()
	p := Params{Radius: 0.75, Segments: 12, TilesPerUnit: 1}
	pts := straightLine()

	if err := g.Generate(pts, p); err != nil {
		t.Fatal(err)
	}

	m := g.Mesh()
	ring := p.Segments + 1
	for i, c := range pts {
		for s := 0; s < ring; s++ {
			vert := m.Vertices[i*ring+s]
			d := vec3.Sub(&vert, &c)
			if math.Abs(d.Length()-p.Radius) > 1e-9 {
				t.Fatalf("ring %d vertex %d at distance %v, want %v", i, s, d.Length(), p.Radius)
			}
		}
	}
}

func TestUVArcLengthTiling(t *testing.T) {
	g := NewGenerator()
	p := Params{Radius: 0.5, Segments: 4, TilesPerUnit: 0.5}
	pts := []vec3.T{{0, 0, 0}, {3, 0, 0}, {3, 4, 0}}

	if err := g.Generate(pts, p); err != nil {
		t.Fatal(err)
	}

	m := g.Mesh()
	ring := p.Segments + 1

	// Ring 0 sits at V=0, ring 1 at 3*0.5, ring 2 at (3+5)*0.5.
	wantV := []float64{0, 1.5, 4}
	for i, want := range wantV {
		if got := m.UVs[i*ring][1]; math.Abs(got-want) > 1e-12 {
			t.Errorf("ring %d: V=%v, want %v", i, got, want)
		}
	}

	// Seam duplicate: first and last ring vertices share position but
	// carry U=0 and U=1.
	if m.Vertices[0] != m.Vertices[ring-1] {
		t.Error("seam vertex must duplicate the first ring vertex")
	}
	if m.UVs[0][0] != 0 || m.UVs[ring-1][0] != 1 {
		t.Error("seam U coordinates must span 0..1")
	}
}
