package particles_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/joephys/joephys/internal/clock"
	"github.com/joephys/joephys/internal/dynamo"
	"github.com/joephys/joephys/internal/particles"
)

var _ = Describe("Manager", func() {
	var (
		clk      *clock.Manual
		settings particles.Settings
		mgr      *particles.Manager
	)

	BeforeEach(func() {
		clk = clock.NewManual(0)
		settings = particles.DefaultSettings()
		settings.Spawn.Rate = 0
	})

	JustBeforeEach(func() {
		var err error
		mgr, err = particles.NewManager(settings, clk)
		Expect(err).NotTo(HaveOccurred())
	})

	Context("free fall without boundary contact", func() {
		BeforeEach(func() {
			settings.Hertz = 500
		})

		It("advances by implicit velocity plus gravity times dt squared", func() {
			p := particles.NewParticle(dynamo.V(0, 100), dynamo.RGBA(1, 1, 1, 1), 10)
			p.Place(dynamo.V(0, 100), dynamo.V(0, 101))
			mgr.Add(p)

			mgr.Update()

			pos := particleAt(mgr, 0).Position()
			Expect(pos.X).To(BeNumerically("~", 0, 1e-12))
			Expect(pos.Y).To(BeNumerically("~", 98.9968, 1e-9))
			Expect(mgr.Stats().LastBounces).To(BeZero())
		})
	})

	Context("a particle crossing the top wall", func() {
		BeforeEach(func() {
			settings.Hertz = 500
			settings.Gravity = dynamo.Vec2{}
		})

		It("ends as far inside as it was outside and comes back down", func() {
			p := particles.NewParticle(dynamo.V(0, 494), dynamo.RGBA(1, 1, 1, 1), 10)
			p.Place(dynamo.V(0, 494), dynamo.V(0, 493))
			mgr.Add(p)

			// Integration moves the edge to 505, 5 past the wall at 500.
			mgr.Update()

			bounced := mgr.Particle(0)
			Expect(bounced.Position().Y + bounced.Radius()).To(BeNumerically("~", 495, 1e-9))
			Expect(bounced.Velocity().Y).To(BeNumerically("<", 0))

			before := bounced.Position().Y
			mgr.Update()
			Expect(particleAt(mgr, 0).Position().Y - before).To(BeNumerically("~", -1, 1e-9))
		})
	})

	Context("with spawning enabled", func() {
		BeforeEach(func() {
			settings.Spawn.Rate = 4
			settings.Spawn.InitialImpulse = dynamo.Vec2{}
		})

		It("spawns at the configured cadence", func() {
			for i := 1; i <= 64*5; i++ {
				clk.Set(float64(i) / 64)
				mgr.Update()
			}
			Expect(mgr.Len()).To(BeNumerically(">=", 19))
			Expect(mgr.Len()).To(BeNumerically("<=", 21))
			Expect(mgr.Stats().Spawned).To(Equal(mgr.Len()))
		})

		It("never removes particles", func() {
			seen := 0
			for i := 1; i <= 60*20; i++ {
				clk.Set(float64(i) / 60)
				mgr.Update()
				Expect(mgr.Len()).To(BeNumerically(">=", seen))
				seen = mgr.Len()
			}
			Expect(seen).To(BeNumerically(">", 70))
		})
	})

	DescribeTable("non-positive spawn rates disable spawning",
		func(rate float64) {
			settings.Spawn.Rate = rate
			m, err := particles.NewManager(settings, clk)
			Expect(err).NotTo(HaveOccurred())
			for i := 0; i < 1000; i++ {
				clk.Advance(1)
				m.Update()
			}
			Expect(m.Len()).To(BeZero())
		},
		Entry("zero", 0.0),
		Entry("negative", -3.0),
		Entry("NaN", math.NaN()),
	)

	Describe("SetConstraint", func() {
		It("rejects degenerate rectangles and keeps the old boundary", func() {
			old := mgr.Constraint()
			err := mgr.SetConstraint(dynamo.V(0, 0), 0, 500)
			Expect(err).To(MatchError(dynamo.ErrDegenerateConstraint))
			Expect(mgr.Constraint()).To(Equal(old))
		})

		It("applies a new boundary on the next update", func() {
			mgr.Add(particles.NewParticle(dynamo.V(0, 0), dynamo.RGBA(1, 1, 1, 1), 10))
			Expect(mgr.SetConstraint(dynamo.V(0, 100), 200, 50)).To(Succeed())

			mgr.Update()

			p := mgr.Particle(0)
			Expect(p.Position().Y - p.Radius()).To(BeNumerically(">=", 75))
		})
	})
})

// particleAt returns an addressable copy of the i-th particle so its
// pointer-receiver accessors can be called.
func particleAt(m *particles.Manager, i int) *particles.Particle {
	p := m.Particle(i)
	return &p
}
