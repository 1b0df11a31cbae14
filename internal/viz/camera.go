package viz

import (
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// Camera projects world points onto the braille canvas with a simple
// rotate-scale-perspective pipeline around the world origin.
type Camera struct {
	Distance         float64
	Near             float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 40, Near: 0.1, Zoom: 1.0}
}

// rotate applies the camera's euler rotation to a point.
func (c *Camera) rotate(p vec3.T) vec3.T {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p[1], p[2] = p[1]*cx-p[2]*sx, p[1]*sx+p[2]*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p[0], p[2] = p[0]*cy+p[2]*sy, -p[0]*sy+p[2]*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p[0], p[1] = p[0]*cz-p[1]*sz, p[0]*sz+p[1]*cz
	return p
}

// Project converts a world point to sub-pixel canvas coordinates.
// The boolean reports whether the point lies in front of the camera and
// inside the canvas.
func (c *Camera) Project(p vec3.T, sw, sh int) (int, int, bool) {
	rot := c.rotate(p)
	rot.Scale(c.Zoom)

	if rot[2] >= c.Distance-c.Near {
		return 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot[2])

	minDim := float64(sh)
	if float64(sw) < minDim {
		minDim = float64(sw)
	}
	pixels := minDim / 16.0

	sx := int(rot[0]*scale*pixels) + sw/2
	sy := int(-rot[1]*scale*pixels) + sh/2
	return sx, sy, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// DrawPolyline projects and draws consecutive segments of a point list.
func DrawPolyline(c *Canvas, cam *Camera, pts []vec3.T) {
	sw, sh := c.Width*2, c.Height*4
	for i := 0; i+1 < len(pts); i++ {
		x1, y1, v1 := cam.Project(pts[i], sw, sh)
		x2, y2, v2 := cam.Project(pts[i+1], sw, sh)
		if v1 || v2 {
			c.DrawLine(x1, y1, x2, y2)
		}
	}
}

// DrawMarker draws a small cross at a world position.
func DrawMarker(c *Canvas, cam *Camera, p vec3.T) {
	sw, sh := c.Width*2, c.Height*4
	x, y, ok := cam.Project(p, sw, sh)
	if !ok {
		return
	}
	c.Set(x, y)
	c.Set(x-1, y)
	c.Set(x+1, y)
	c.Set(x, y-1)
	c.Set(x, y+1)
}
