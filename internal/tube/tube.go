// Package tube extrudes a sampled centerline curve into a triangulated
// tube mesh with end caps and length-proportional UV tiling.
package tube

import (
	"errors"
	"math"

	"github.com/ungerik/go3d/float64/vec2"
	"github.com/ungerik/go3d/float64/vec3"
)

// Configuration errors. All are recoverable: generation is skipped and
// any previously built mesh is cleared.
var (
	ErrTooFewPoints   = errors.New("tube: need at least 2 centerline points")
	ErrTooFewSegments = errors.New("tube: need at least 3 radial segments")
	ErrBadRadius      = errors.New("tube: radius must be positive")
)

// Params control the extrusion.
type Params struct {
	Radius float64
	// Segments is the radial segment count; each ring carries one extra
	// duplicated vertex so the UV seam stays continuous.
	Segments int
	// TilesPerUnit scales accumulated arc length into the V coordinate.
	TilesPerUnit float64
}

func DefaultParams() Params {
	return Params{Radius: 0.15, Segments: 8, TilesPerUnit: 1}
}

// Mesh is the derived tube geometry. Buffers are rebuilt wholesale on
// every generation; consumers read, never patch.
type Mesh struct {
	Vertices []vec3.T
	UVs      []vec2.T
	Indices  []uint32
}

func (m *Mesh) VertexCount() int   { return len(m.Vertices) }
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }
func (m *Mesh) Empty() bool        { return len(m.Vertices) == 0 }

func (m *Mesh) clear() {
	m.Vertices = m.Vertices[:0]
	m.UVs = m.UVs[:0]
	m.Indices = m.Indices[:0]
}

// Generator owns one mesh and regenerates it from centerline samples.
type Generator struct {
	mesh Mesh
}

func NewGenerator() *Generator { return &Generator{} }

// Mesh returns the owned mesh. It is valid until the next Generate call,
// which rewrites the buffers in place.
func (g *Generator) Mesh() *Mesh { return &g.mesh }

// Generate rebuilds the tube around the given ordered world-space points.
// On a configuration error the previous mesh is cleared so stale geometry
// never lingers on screen.
func (g *Generator) Generate(points []vec3.T, p Params) error {
	if len(points) < 2 {
		g.mesh.clear()
		return ErrTooFewPoints
	}
	if p.Segments < 3 {
		g.mesh.clear()
		return ErrTooFewSegments
	}
	if p.Radius <= 0 {
		g.mesh.clear()
		return ErrBadRadius
	}

	g.mesh.clear()
	g.buildRings(points, p)
	g.buildWalls(len(points), p.Segments)
	g.buildCaps(points, p.Segments)
	return nil
}

// buildRings emits segments+1 vertices around each centerline point,
// oriented by the local tangent. The last ring vertex duplicates the
// first with U=1 so the seam interpolates cleanly.
func (g *Generator) buildRings(points []vec3.T, p Params) {
	arc := 0.0
	for i, center := range points {
		tangent := ringTangent(points, i)
		right, up := ringFrame(tangent)

		if i > 0 {
			seg := vec3.Sub(&points[i], &points[i-1])
			arc += seg.Length()
		}
		v := arc * p.TilesPerUnit

		for s := 0; s <= p.Segments; s++ {
			u := float64(s) / float64(p.Segments)
			// The seam duplicate reuses angle zero so its position is
			// bit-identical to the first ring vertex.
			ang := 2 * math.Pi * float64(s%p.Segments) / float64(p.Segments)

			offset := right.Scaled(math.Cos(ang) * p.Radius)
			lift := up.Scaled(math.Sin(ang) * p.Radius)
			offset.Add(&lift)

			vert := center
			vert.Add(&offset)
			g.mesh.Vertices = append(g.mesh.Vertices, vert)
			g.mesh.UVs = append(g.mesh.UVs, vec2.T{u, v})
		}
	}
}

// buildWalls connects adjacent rings with two triangles per radial quad.
func (g *Generator) buildWalls(numPoints, segments int) {
	ring := segments + 1
	for i := 0; i < numPoints-1; i++ {
		for s := 0; s < segments; s++ {
			a := uint32(i*ring + s)
			b := a + 1
			c := uint32((i+1)*ring + s)
			d := c + 1
			g.mesh.Indices = append(g.mesh.Indices, a, c, b, b, c, d)
		}
	}
}

// buildCaps closes both ends with a center vertex and a triangle fan.
func (g *Generator) buildCaps(points []vec3.T, segments int) {
	ring := segments + 1

	startCenter := uint32(len(g.mesh.Vertices))
	g.mesh.Vertices = append(g.mesh.Vertices, points[0])
	g.mesh.UVs = append(g.mesh.UVs, vec2.T{0.5, 0})
	for s := 0; s < segments; s++ {
		g.mesh.Indices = append(g.mesh.Indices, startCenter, uint32(s+1), uint32(s))
	}

	endCenter := uint32(len(g.mesh.Vertices))
	last := points[len(points)-1]
	g.mesh.Vertices = append(g.mesh.Vertices, last)
	g.mesh.UVs = append(g.mesh.UVs, vec2.T{0.5, 1})
	base := uint32((len(points) - 1) * ring)
	for s := 0; s < segments; s++ {
		g.mesh.Indices = append(g.mesh.Indices, endCenter, base+uint32(s), base+uint32(s+1))
	}
}

// ringTangent looks toward the next point, or from the previous point for
// the final sample. Coincident samples fall back to +Z.
func ringTangent(points []vec3.T, i int) vec3.T {
	var t vec3.T
	if i < len(points)-1 {
		t = vec3.Sub(&points[i+1], &points[i])
	} else {
		t = vec3.Sub(&points[i], &points[i-1])
	}
	if t.Length() == 0 {
		return vec3.T{0, 0, 1}
	}
	t.Normalize()
	return t
}

// ringFrame builds right/up vectors orthogonal to the tangent, anchored
// to world up so rings along a mostly horizontal rope do not twist.
func ringFrame(tangent vec3.T) (right, up vec3.T) {
	worldUp := vec3.T{0, 1, 0}
	right = vec3.Cross(&worldUp, &tangent)
	if right.Length() < 1e-9 {
		axis := vec3.T{1, 0, 0}
		right = vec3.Cross(&axis, &tangent)
	}
	right.Normalize()
	up = vec3.Cross(&tangent, &right)
	return right, up
}
