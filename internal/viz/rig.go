package viz

import "math"

// Pose is one preset camera orientation.
type Pose struct {
	Name             string
	RotX, RotY, RotZ float64
	Zoom             float64
}

// DefaultPoses fly the camera around the rope: front, high three-quarter,
// side, and a close top-down.
func DefaultPoses() []Pose {
	return []Pose{
		{Name: "front", RotX: 0, RotY: 0, Zoom: 1},
		{Name: "three-quarter", RotX: -0.35, RotY: 0.7, Zoom: 1.1},
		{Name: "side", RotX: 0, RotY: math.Pi / 2, Zoom: 1},
		{Name: "top", RotX: -1.4, RotY: 0, Zoom: 1.4},
	}
}

// Rig cycles a camera through preset poses, easing each transition over
// a fixed blend time.
type Rig struct {
	cam   *Camera
	poses []Pose

	current int
	from    Pose
	blend   float64 // seconds remaining in the active transition
}

const blendTime = 0.6

func NewRig(cam *Camera, poses []Pose) *Rig {
	r := &Rig{cam: cam, poses: poses}
	if len(poses) > 0 {
		r.apply(poses[0])
		r.from = poses[0]
	}
	return r
}

// Cycle advances to the next preset pose.
func (r *Rig) Cycle() {
	if len(r.poses) == 0 {
		return
	}
	r.from = r.snapshot()
	r.current = (r.current + 1) % len(r.poses)
	r.blend = blendTime
}

// Current returns the active pose name.
func (r *Rig) Current() string {
	if len(r.poses) == 0 {
		return ""
	}
	return r.poses[r.current].Name
}

// Update eases the camera toward the active pose.
func (r *Rig) Update(dt float64) {
	if r.blend <= 0 || len(r.poses) == 0 {
		return
	}
	r.blend -= dt
	if r.blend <= 0 {
		r.apply(r.poses[r.current])
		return
	}

	t := 1 - r.blend/blendTime
	t = t * t * (3 - 2*t) // smoothstep
	to := r.poses[r.current]
	r.cam.RotX = lerp(r.from.RotX, to.RotX, t)
	r.cam.RotY = lerp(r.from.RotY, to.RotY, t)
	r.cam.RotZ = lerp(r.from.RotZ, to.RotZ, t)
	r.cam.Zoom = lerp(r.from.Zoom, to.Zoom, t)
}

func (r *Rig) apply(p Pose) {
	r.cam.RotX, r.cam.RotY, r.cam.RotZ = p.RotX, p.RotY, p.RotZ
	r.cam.Zoom = p.Zoom
}

func (r *Rig) snapshot() Pose {
	return Pose{RotX: r.cam.RotX, RotY: r.cam.RotY, RotZ: r.cam.RotZ, Zoom: r.cam.Zoom}
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
