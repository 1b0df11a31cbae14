package rope_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/ungerik/go3d/float64/vec3"

	"github.com/san-kum/ropesim/internal/rope"
	"github.com/san-kum/ropesim/internal/spring"
)

type countingListener struct{ fired int }

func (c *countingListener) PointsChanged() { c.fired++ }

type captureSink struct{ positions []vec3.T }

func (c *captureSink) SetPositions(pts []vec3.T) {
	c.positions = append([]vec3.T(nil), pts...)
}

var _ = Describe("Simulation", func() {
	var (
		sim        *rope.Simulation
		start, end *rope.Anchor
	)

	BeforeEach(func() {
		sim = rope.New(rope.DefaultParameters(), rope.ModeRuntime)
		start = &rope.Anchor{Position: vec3.T{0, 0, 0}}
		end = &rope.Anchor{Position: vec3.T{10, 0, 0}}
	})

	Describe("sag target", func() {
		It("lowers the fractional midpoint by the amplified slack", func() {
			p := rope.DefaultParameters()
			p.RestLength = 15
			p.MidpointWeight = 1
			p.MidpointFraction = 0.5

			target := rope.SagTarget(vec3.T{0, 0, 0}, vec3.T{10, 0, 0}, p)

			Expect(target[0]).To(Equal(5.0))
			Expect(target[2]).To(Equal(0.0))
			Expect(target[1]).To(BeNumerically("~", -(15.0-10.0)/0.493, 1e-12))
		})

		It("gives a taut rope zero droop", func() {
			p := rope.DefaultParameters()
			p.RestLength = 5

			target := rope.SagTarget(vec3.T{0, 0, 0}, vec3.T{10, 0, 0}, p)

			Expect(target[1]).To(Equal(0.0))
		})
	})

	Describe("state transitions", func() {
		It("stays invalid and empty until both anchors are present", func() {
			sim.SetStartAnchor(start)
			sim.Refresh()

			Expect(sim.Valid()).To(BeFalse())
			Expect(sim.Samples()).To(BeEmpty())
		})

		It("publishes one sample set on becoming stable", func() {
			listener := &countingListener{}
			sim.AddListener(listener)

			sim.SetStartAnchor(start)
			sim.SetEndAnchor(end)
			sim.Refresh()

			Expect(sim.Valid()).To(BeTrue())
			Expect(sim.Samples()).To(HaveLen(rope.DefaultSampleCount))
			Expect(listener.fired).To(Equal(1))
		})

		It("clears published samples when an anchor goes missing", func() {
			sink := &captureSink{}
			sim.SetLineSink(sink)
			sim.SetStartAnchor(start)
			sim.SetEndAnchor(end)
			sim.Refresh()
			Expect(sink.positions).NotTo(BeEmpty())

			sim.SetEndAnchor(nil)
			sim.Refresh()

			Expect(sim.Valid()).To(BeFalse())
			Expect(sim.Samples()).To(BeEmpty())
			Expect(sink.positions).To(BeEmpty())
		})

		It("resets the sag point identically across an invalid round trip", func() {
			sim.SetStartAnchor(start)
			sim.SetEndAnchor(end)
			sim.Refresh()

			for i := 0; i < 50; i++ {
				sim.SetExternalForce(vec3.T{0.3, 0, 0.1})
				sim.StepPhysics(0.02)
			}
			disturbed := sim.SagPoint()
			Expect(disturbed.Velocity).NotTo(Equal(vec3.T{}))

			sim.SetEndAnchor(nil)
			sim.Refresh()
			sim.SetEndAnchor(end)
			sim.Refresh()

			fresh := sim.SagPoint()
			Expect(fresh.Velocity).To(Equal(vec3.T{}))
			Expect(fresh.Current).To(Equal(fresh.Target))
			Expect(fresh.Current).To(Equal(rope.SagTarget(start.Position, end.Position, *sim.Params())))
		})
	})

	Describe("change notification", func() {
		var listener *countingListener

		BeforeEach(func() {
			listener = &countingListener{}
			sim.SetStartAnchor(start)
			sim.SetEndAnchor(end)
			sim.Refresh()
			sim.AddListener(listener)
		})

		It("fires exactly once per frame that changes a tunable", func() {
			sim.Params().Stiffness = 20
			sim.Refresh()
			sim.Refresh()
			sim.Refresh()

			Expect(listener.fired).To(Equal(1))
		})

		It("fires on exact anchor movement, however small", func() {
			start.Position[0] += 1e-12
			sim.Refresh()

			Expect(listener.fired).To(Equal(1))
		})

		It("stays quiet while only the sag point moves", func() {
			sim.StepPhysics(0.02)
			sim.Refresh()

			Expect(listener.fired).To(BeZero())
		})

		It("supports unsubscribe", func() {
			sim.RemoveListener(listener)
			sim.Params().Damping = 1
			sim.Refresh()

			Expect(listener.fired).To(BeZero())
		})
	})

	Describe("curve evaluation", func() {
		BeforeEach(func() {
			sim.SetStartAnchor(start)
			sim.SetEndAnchor(end)
			sim.Refresh()
		})

		It("hits the anchors exactly at the parameter bounds", func() {
			Expect(sim.Evaluate(0)).To(Equal(start.Position))
			Expect(sim.Evaluate(1)).To(Equal(end.Position))
		})

		It("returns the zero vector while anchors are missing", func() {
			sim.SetStartAnchor(nil)
			Expect(sim.Evaluate(0.5)).To(Equal(vec3.T{}))
		})

		It("pins the curve through a present mid anchor", func() {
			mid := &rope.Anchor{Position: vec3.T{5, 3, 0}}
			sim.SetMidAnchor(mid)
			sim.Refresh()

			// Unit weights: B(0.5) = (p0 + 2p1 + p2)/4.
			pt := sim.Evaluate(0.5)
			Expect(pt[1]).To(BeNumerically("~", 1.5, 1e-12))
		})
	})

	Describe("settling", func() {
		It("converges to the sag target under zero wind", func() {
			p := rope.DefaultParameters()
			p.RestLength = 15
			sim = rope.New(p, rope.ModeRuntime)
			sim.SetStartAnchor(start)
			sim.SetEndAnchor(end)
			sim.Refresh()

			// Disturb, then let the spring settle.
			for i := 0; i < 30; i++ {
				sim.SetExternalForce(vec3.T{0, 0.4, 0})
				sim.StepPhysics(0.02)
			}
			for i := 0; i < 4000; i++ {
				sim.StepPhysics(0.02)
			}

			sag := sim.SagPoint()
			d := vec3.Sub(&sag.Current, &sag.Target)
			Expect(d.Length()).To(BeNumerically("<", spring.SnapEpsilon))
		})
	})

	Describe("editor mode", func() {
		It("recomputes immediately when an anchor handle is set", func() {
			sim = rope.New(rope.DefaultParameters(), rope.ModeEditor)
			sim.SetStartAnchor(start)
			sim.SetEndAnchor(end)

			Expect(sim.Valid()).To(BeTrue())
			Expect(sim.Samples()).NotTo(BeEmpty())
		})
	})

	Describe("teardown", func() {
		It("clears sinks, listeners, and derived state", func() {
			sink := &captureSink{}
			sim.SetLineSink(sink)
			sim.SetStartAnchor(start)
			sim.SetEndAnchor(end)
			sim.Refresh()

			sim.Teardown()

			Expect(sim.Valid()).To(BeFalse())
			Expect(sim.Samples()).To(BeEmpty())
			Expect(sink.positions).To(BeEmpty())
		})
	})
})
