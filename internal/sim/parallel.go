package sim

import (
	"fmt"
	"sync"

	"github.com/san-kum/ringsim/internal/network"
)

// Job is one independent run of an ensemble.
type Job struct {
	Name    string
	Initial network.Vector
	Config  Config

	// Metrics builds fresh metric instances for this job.
	Metrics func() []Metric
}

// Ensemble executes independent runs concurrently. Runs share nothing but
// the scratch pools, which are safe for concurrent use.
type Ensemble struct {
	jobs  []Job
	pools map[int]*VectorPool
}

func NewEnsemble(jobs ...Job) *Ensemble {
	return &Ensemble{jobs: jobs, pools: make(map[int]*VectorPool)}
}

func (e *Ensemble) Add(job Job) { e.jobs = append(e.jobs, job) }

func (e *Ensemble) Len() int { return len(e.jobs) }

// Run returns one result per job, in job order. If any job fails the
// first failure in job order is returned.
func (e *Ensemble) Run() ([]*Result, error) {
	for _, job := range e.jobs {
		n := job.Config.Neurons
		if _, ok := e.pools[n]; !ok && n >= 0 {
			e.pools[n] = NewVectorPool(n)
		}
	}

	results := make([]*Result, len(e.jobs))
	errs := make([]error, len(e.jobs))

	var wg sync.WaitGroup
	for i := range e.jobs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			job := e.jobs[idx]
			var metrics []Metric
			if job.Metrics != nil {
				metrics = job.Metrics()
			}

			r, err := NewRunner(job.Config, job.Initial, WithPool(e.pools[job.Config.Neurons]), WithMetrics(metrics...))
			if err != nil {
				errs[idx] = err
				return
			}
			defer r.Close()

			results[idx], errs[idx] = r.Run()
		}(i)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", e.jobName(i), err)
		}
	}

	return results, nil
}

func (e *Ensemble) jobName(i int) string {
	if e.jobs[i].Name != "" {
		return e.jobs[i].Name
	}
	return fmt.Sprintf("#%d", i)
}

// RunParallel is shorthand for NewEnsemble(jobs...).Run().
func RunParallel(jobs ...Job) ([]*Result, error) {
	return NewEnsemble(jobs...).Run()
}
