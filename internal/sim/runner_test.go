package sim_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ringsim/internal/network"
	"github.com/san-kum/ringsim/internal/sim"
)

type countingObserver struct {
	steps []int
}

func (c *countingObserver) OnStep(m network.Vector, step int) {
	c.steps = append(c.steps, step)
}

type scribblingObserver struct{}

func (scribblingObserver) OnStep(m network.Vector, step int) {
	for i := range m {
		m[i] = -1
	}
}

type sumMetric struct {
	sum float64
	n   int
}

func (s *sumMetric) Name() string { return "sum" }
func (s *sumMetric) Observe(m network.Vector, step int) {
	for _, v := range m {
		s.sum += v
	}
	s.n++
}
func (s *sumMetric) Value() float64 { return s.sum }
func (s *sumMetric) Reset()         { s.sum, s.n = 0, 0 }

func zeros(n int) network.Vector { return make(network.Vector, n) }

var _ = Describe("Runner", func() {
	var cfg sim.Config

	BeforeEach(func() {
		cfg = sim.DefaultConfig()
	})

	Describe("trajectory length", func() {
		DescribeTable("matches the configured step count",
			func(steps int, connected bool) {
				cfg.Steps = steps
				cfg.Connected = connected

				result, err := sim.Run(zeros(cfg.Neurons), cfg)
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Trajectory).To(HaveLen(steps))
				Expect(result.StepsTaken).To(Equal(steps))
				for _, m := range result.Trajectory {
					Expect(m).To(HaveLen(cfg.Neurons))
				}
			},
			Entry("unconnected, zero steps", 0, false),
			Entry("connected, zero steps", 0, true),
			Entry("unconnected, 30 steps", 30, false),
			Entry("connected, 30 steps", 30, true),
			Entry("connected, 1 step", 1, true),
		)

		It("returns no final state for an empty run", func() {
			cfg.Steps = 0
			result, err := sim.Run(zeros(cfg.Neurons), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Final()).To(BeNil())
		})
	})

	Describe("unconnected mode", func() {
		It("stays at the origin without drive", func() {
			cfg.Stimulus = network.Stimulus{Theta0: 0.3, Contrast: 0, Epsilon: 0}

			result, err := sim.Run(zeros(cfg.Neurons), cfg)
			Expect(err).NotTo(HaveOccurred())
			for _, m := range result.Trajectory {
				for _, v := range m {
					Expect(v).To(BeZero())
				}
			}
		})

		It("follows the closed-form leaky integration", func() {
			result, err := sim.Run(zeros(cfg.Neurons), cfg)
			Expect(err).NotTo(HaveOccurred())

			angles, err := network.PreferredAngles(cfg.Neurons)
			Expect(err).NotTo(HaveOccurred())
			f, err := network.ActivationFilter(cfg.Stimulus.Drive(angles), cfg.Neuron.Threshold, cfg.Neuron.Beta)
			Expect(err).NotTo(HaveOccurred())

			decay := 1 - 1/cfg.Neuron.Tau
			for k, m := range result.Trajectory {
				scale := cfg.Neuron.Tau * (1 - math.Pow(decay, float64(k+1)))
				for i := range m {
					Expect(m[i]).To(BeNumerically("~", scale*f[i], 1e-9))
				}
			}
		})

		It("matches repeated network steps bit for bit", func() {
			cfg.Steps = 12
			initial := zeros(cfg.Neurons)
			for i := range initial {
				initial[i] = float64(i) * 0.05
			}

			result, err := sim.Run(initial, cfg)
			Expect(err).NotTo(HaveOccurred())

			angles, _ := network.PreferredAngles(cfg.Neurons)
			h := network.StimulusInput(angles, cfg.Stimulus.Theta0, cfg.Stimulus.Contrast, cfg.Stimulus.Epsilon)
			m := initial.Clone()
			for k := 0; k < cfg.Steps; k++ {
				m, err = network.Step(m, h, cfg.Neuron.Tau, cfg.Neuron.Threshold, cfg.Neuron.Beta)
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Trajectory[k]).To(Equal(m))
			}
		})
	})

	Describe("connected mode", func() {
		BeforeEach(func() {
			cfg.Connected = true
			cfg.Stimulus.Epsilon = 0.4
		})

		It("adds the recurrent input W·m to the drive", func() {
			cfg.Neurons = 7
			cfg.Steps = 5
			initial := network.Vector{0.1, 0.4, 0.9, 1.2, 0.9, 0.4, 0.1}

			result, err := sim.Run(initial, cfg)
			Expect(err).NotTo(HaveOccurred())

			w, err := network.ConnectivityMatrix(cfg.Neurons, cfg.Kernel.J0, cfg.Kernel.J2)
			Expect(err).NotTo(HaveOccurred())
			angles, _ := network.PreferredAngles(cfg.Neurons)
			ext := cfg.Stimulus.Drive(angles)

			m := initial.Clone()
			for k := 0; k < cfg.Steps; k++ {
				rec, err := w.MulVec(m)
				Expect(err).NotTo(HaveOccurred())
				m, err = cfg.Neuron.Step(m, ext.Add(rec))
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Trajectory[k]).To(Equal(m))
			}
		})

		It("differs from the unconnected run", func() {
			connected, err := sim.Run(zeros(cfg.Neurons), cfg)
			Expect(err).NotTo(HaveOccurred())

			cfg.Connected = false
			unconnected, err := sim.Run(zeros(cfg.Neurons), cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(connected.Final()).NotTo(Equal(unconnected.Final()))
		})

		It("keeps activity within [0, τ] from a silent start", func() {
			result, err := sim.Run(zeros(cfg.Neurons), cfg)
			Expect(err).NotTo(HaveOccurred())
			for _, m := range result.Trajectory {
				for _, v := range m {
					Expect(v).To(BeNumerically(">=", 0))
					Expect(v).To(BeNumerically("<=", cfg.Neuron.Tau))
				}
			}
		})

		It("builds the weights once", func() {
			r, err := sim.NewRunner(cfg, zeros(cfg.Neurons))
			Expect(err).NotTo(HaveOccurred())
			defer r.Close()

			w := r.Weights()
			Expect(w).NotTo(BeNil())
			_, err = r.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Weights()).To(BeIdenticalTo(w))
		})
	})

	Describe("determinism", func() {
		It("produces identical trajectories for identical inputs", func() {
			cfg.Connected = true
			a, err := sim.Run(zeros(cfg.Neurons), cfg)
			Expect(err).NotTo(HaveOccurred())
			b, err := sim.Run(zeros(cfg.Neurons), cfg)
			Expect(err).NotTo(HaveOccurred())

			for k := range a.Trajectory {
				for i := range a.Trajectory[k] {
					Expect(math.Float64bits(a.Trajectory[k][i])).To(Equal(math.Float64bits(b.Trajectory[k][i])))
				}
			}
		})
	})

	Describe("validation", func() {
		DescribeTable("rejects bad configuration before running",
			func(mutate func(*sim.Config), initial func(sim.Config) network.Vector, want error, param string) {
				mutate(&cfg)
				_, err := sim.NewRunner(cfg, initial(cfg))
				Expect(err).To(MatchError(want))
				if param != "" {
					var pe *network.ParamError
					Expect(errors.As(err, &pe)).To(BeTrue())
					Expect(pe.Name).To(Equal(param))
				}
			},
			Entry("zero tau", func(c *sim.Config) { c.Neuron.Tau = 0 }, fullZeros, network.ErrInvalidParameter, "tau"),
			Entry("negative tau", func(c *sim.Config) { c.Neuron.Tau = -5 }, fullZeros, network.ErrInvalidParameter, "tau"),
			Entry("zero beta", func(c *sim.Config) { c.Neuron.Beta = 0 }, fullZeros, network.ErrInvalidParameter, "beta"),
			Entry("negative steps", func(c *sim.Config) { c.Steps = -1 }, fullZeros, network.ErrInvalidParameter, "steps"),
			Entry("negative population", func(c *sim.Config) { c.Neurons = -3 }, func(sim.Config) network.Vector { return nil }, network.ErrInvalidDimension, ""),
			Entry("short initial activity", func(c *sim.Config) {}, func(c sim.Config) network.Vector { return zeros(c.Neurons - 1) }, network.ErrInvalidDimension, ""),
		)

		It("fails fast even when no steps would run", func() {
			cfg.Steps = 0
			cfg.Neuron.Beta = -1
			_, err := sim.Run(zeros(cfg.Neurons), cfg)
			Expect(err).To(MatchError(network.ErrInvalidParameter))
		})

		It("reports numeric overflow with the failing step", func() {
			cfg.Neurons = 3
			initial := network.Vector{1, math.Inf(1), 0}
			_, err := sim.Run(initial, cfg)
			Expect(err).To(MatchError(network.ErrNumericOverflow))

			var se *sim.StepError
			Expect(errors.As(err, &se)).To(BeTrue())
			Expect(se.Step).To(Equal(0))
		})
	})

	Describe("stepping", func() {
		It("advances one step at a time and stops", func() {
			cfg.Steps = 3
			r, err := sim.NewRunner(cfg, zeros(cfg.Neurons))
			Expect(err).NotTo(HaveOccurred())
			defer r.Close()

			for i := 0; i < 3; i++ {
				Expect(r.Done()).To(BeFalse())
				m, err := r.Advance()
				Expect(err).NotTo(HaveOccurred())
				Expect(m).To(Equal(r.Activity()))
			}
			Expect(r.Done()).To(BeTrue())
			_, err = r.Advance()
			Expect(err).To(MatchError(sim.ErrFinished))
		})

		It("does not alias returned activity", func() {
			r, err := sim.NewRunner(cfg, zeros(cfg.Neurons))
			Expect(err).NotTo(HaveOccurred())
			defer r.Close()

			first, _ := r.Advance()
			snapshot := first.Clone()
			_, _ = r.Advance()
			Expect(first).To(Equal(snapshot))
		})

		It("does not retain the caller's initial vector", func() {
			initial := zeros(cfg.Neurons)
			r, err := sim.NewRunner(cfg, initial)
			Expect(err).NotTo(HaveOccurred())
			defer r.Close()

			_, _ = r.Run()
			Expect(initial).To(Equal(zeros(cfg.Neurons)))
		})

		It("keeps the trajectory intact when an observer writes to its vector", func() {
			r, err := sim.NewRunner(cfg, zeros(cfg.Neurons))
			Expect(err).NotTo(HaveOccurred())
			defer r.Close()
			r.AddObserver(scribblingObserver{})

			got, err := r.Run()
			Expect(err).NotTo(HaveOccurred())

			want, err := sim.Run(zeros(cfg.Neurons), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Trajectory).To(Equal(want.Trajectory))
		})

		It("replays identically after Reset", func() {
			obs := &countingObserver{}
			metric := &sumMetric{}
			r, err := sim.NewRunner(cfg, zeros(cfg.Neurons), sim.WithMetrics(metric))
			Expect(err).NotTo(HaveOccurred())
			defer r.Close()
			r.AddObserver(obs)

			first, err := r.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Metrics).To(HaveKey("sum"))
			Expect(obs.steps).To(HaveLen(cfg.Steps))
			Expect(obs.steps[0]).To(Equal(0))

			r.Reset()
			Expect(r.StepsTaken()).To(Equal(0))
			second, err := r.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Trajectory).To(Equal(first.Trajectory))
			Expect(second.Metrics["sum"]).To(Equal(first.Metrics["sum"]))
		})
	})

	Describe("RunSimulation", func() {
		It("uses the default neuron and kernel", func() {
			traj, err := sim.RunSimulation(zeros(50), 0, 50, 30, 0.4, 1.2, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj).To(HaveLen(30))

			cfg.Connected = true
			cfg.Stimulus.Epsilon = 0.4
			result, err := sim.Run(zeros(50), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj).To(Equal(result.Trajectory))
		})
	})
})

func fullZeros(c sim.Config) network.Vector { return zeros(c.Neurons) }
