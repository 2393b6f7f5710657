package sim

import (
	"context"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/esim/internal/kinetic"
)

var _ = Describe("Simulator", func() {
	var (
		arena *kinetic.Arena
		cfg   Config
	)

	BeforeEach(func() {
		arena = kinetic.NewArena()
		cfg = DefaultConfig()
	})

	build := func() *Simulator {
		s, err := New(box, arena.Bodies(), cfg)
		Expect(err).NotTo(HaveOccurred())
		return s
	}

	add := func(pos, vel mgl64.Vec3) {
		_, err := arena.Add(pos, vel, 1, 1)
		Expect(err).NotTo(HaveOccurred())
	}

	Context("with an equal-mass head-on pair", func() {
		BeforeEach(func() {
			add(mgl64.Vec3{10, 50, 0}, mgl64.Vec3{1, 0, 0})
			add(mgl64.Vec3{14, 50, 0}, mgl64.Vec3{-1, 0, 0})
		})

		It("collides at t=1 and exchanges velocities", func() {
			f, err := build().Step()
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Event.Kind).To(Equal(kinetic.KindPair))
			Expect(f.Time).To(BeNumerically("~", 1, 1e-12))
			Expect(f.Bodies[0].Vel[0]).To(BeNumerically("~", -1, 1e-12))
			Expect(f.Bodies[1].Vel[0]).To(BeNumerically("~", 1, 1e-12))
		})

		It("highlights only the bodies of the current event", func() {
			s := build()
			first, err := s.Step()
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Highlighted()).To(ConsistOf(0, 1))

			second, err := s.Step()
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Event.Kind).To(Equal(kinetic.KindWall))
			Expect(second.Highlighted()).To(ConsistOf(second.Event.A))
		})

		It("restores the initial bodies on Reset", func() {
			s := build()
			for i := 0; i < 5; i++ {
				_, err := s.Step()
				Expect(err).NotTo(HaveOccurred())
			}
			s.Reset()
			Expect(s.Time()).To(BeZero())
			Expect(s.StepCount()).To(BeZero())
			Expect(s.Bodies()[0].Pos).To(Equal(mgl64.Vec3{10, 50, 0}))
			Expect(s.Bodies()[1].Vel).To(Equal(mgl64.Vec3{-1, 0, 0}))
		})
	})

	Context("with a body on the left wall moving out", func() {
		BeforeEach(func() {
			add(mgl64.Vec3{0, 50, 0}, mgl64.Vec3{-1, 0, 0})
		})

		It("reflects immediately and does not fire the same wall again", func() {
			s := build()
			f, err := s.Step()
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Event).To(Equal(kinetic.WallEvent(0, 0)))
			Expect(f.Flips).To(Equal(1))
			Expect(f.Bodies[0].Vel[0]).To(Equal(1.0))

			f, err = s.Step()
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Event.Kind).To(Equal(kinetic.KindWall))
			Expect(f.Event.Time).To(Equal(100.0))
		})
	})

	Describe("RunWithCallback", func() {
		BeforeEach(func() {
			add(mgl64.Vec3{10, 50, 0}, mgl64.Vec3{1, 0, 0})
			add(mgl64.Vec3{14, 50, 0}, mgl64.Vec3{-1, 0, 0})
			cfg.Ticks = 0
		})

		It("starts with the initial snapshot and stops when told to", func() {
			var steps []int
			err := build().RunWithCallback(context.Background(), func(f Frame) bool {
				steps = append(steps, f.Step)
				return len(steps) < 4
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(steps).To(Equal([]int{0, 1, 2, 3}))
		})

		It("returns the context error when cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			err := build().RunWithCallback(ctx, func(f Frame) bool {
				cancel()
				return true
			})
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Describe("Ensemble", func() {
		factory := func(seed int64) ([]*kinetic.Body, error) {
			rng := rand.New(rand.NewSource(seed))
			a := kinetic.NewArena()
			for i := 0; i < 4; i++ {
				pos := mgl64.Vec3{20 + float64(i)*20, 50, 0}
				vel := mgl64.Vec3{rng.Float64() - 0.5, rng.Float64() - 0.5, 0}
				if _, err := a.Add(pos, vel, 2, 1); err != nil {
					return nil, err
				}
			}
			return a.Bodies(), nil
		}

		It("runs one simulation per seed", func() {
			cfg.Ticks = 50
			ens := NewEnsemble(box, factory, 4, 100).WithMetrics(func() []Metric {
				return []Metric{&testMetric{}}
			})

			results, err := ens.Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(4))
			for i, r := range results {
				Expect(r.Seed).To(Equal(int64(100 + i)))
				Expect(r.StepsTaken).To(Equal(50))
				Expect(r.Metrics).To(HaveKey("test"))
				Expect(r.EnergyDrift).To(BeNumerically("<", 1e-9))
			}
		})

		It("rejects an empty ensemble", func() {
			_, err := NewEnsemble(box, factory, 0, 1).Run(context.Background(), cfg)
			Expect(err).To(MatchError(ErrInvalidConfig))
		})
	})
})
