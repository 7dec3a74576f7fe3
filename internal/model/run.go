package model

import (
	"runtime"
	"sync"

	"github.com/wildstyl3r/bzscope/internal/rng"
)

const batchChunk = 1024

type sampleJob struct {
	first, count int
	stream       rng.Stream
}

// SampleBatch draws n events at energy e on the given number of workers. Every
// chunk of events gets its own stream from p in chunk order, so the result does
// not depend on scheduling. A nil p hands out the default seeded streams.
func (m *PhysicsModel) SampleBatch(p rng.Producer, e float64, n, threads int) []ScatEvent {
	if n <= 0 {
		return nil
	}
	if p == nil {
		p = rng.NewProducer(1)
	}
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	events := make([]ScatEvent, n)

	jobs := make(chan sampleJob, threads)
	var wg sync.WaitGroup
	for range threads {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				for i := job.first; i < job.first+job.count; i++ {
					events[i] = m.SampleScatteringEvent(job.stream, e)
				}
			}
		}()
	}
	for first := 0; first < n; first += batchChunk {
		jobs <- sampleJob{first: first, count: min(batchChunk, n-first), stream: p.Produce()}
	}
	close(jobs)
	wg.Wait()
	return events
}
