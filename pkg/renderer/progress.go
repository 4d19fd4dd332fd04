package renderer

import (
	"sync"
	"time"

	"github.com/df07/go-sppm-raytracer/pkg/core"
)

// Progress is an advisory completion counter that logs percentage and ETA
type Progress struct {
	mu       sync.Mutex
	name     string
	total    int
	done     int
	start    time.Time
	nextLog  int
	logger   core.Logger
	interval int
}

// NewProgress creates a tracker that logs every tenth of the total
func NewProgress(name string, total int, logger core.Logger) *Progress {
	interval := max(1, total/10)
	return &Progress{
		name:     name,
		total:    total,
		start:    time.Now(),
		nextLog:  interval,
		logger:   logger,
		interval: interval,
	}
}

// Increment records one finished unit of work
func (p *Progress) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	if p.logger == nil || p.done < p.nextLog {
		return
	}
	p.nextLog += p.interval

	elapsed := time.Since(p.start)
	eta := time.Duration(float64(elapsed) / float64(p.done) * float64(p.total-p.done))
	p.logger.Infof("%s: %d/%d (%.0f%%), elapsed %v, eta %v",
		p.name, p.done, p.total, 100*float64(p.done)/float64(p.total),
		elapsed.Round(time.Millisecond), eta.Round(time.Millisecond))
}

// Done returns the number of finished units
func (p *Progress) Done() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Elapsed returns the time since the tracker was created
func (p *Progress) Elapsed() time.Duration {
	return time.Since(p.start)
}
