package batch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Kamar-Folarin/commitboard/internal/config"
	"github.com/Kamar-Folarin/commitboard/internal/models"
)

// Processor runs a fixed number of workers over an indexed set of items
type Processor struct {
	config     *config.BatchConfig
	statusChan chan *models.BatchProgress
	mu         sync.RWMutex
}

// NewProcessor creates a new batch processor
func NewProcessor(cfg *config.BatchConfig) *Processor {
	return &Processor{
		config:     cfg,
		statusChan: make(chan *models.BatchProgress, 1),
	}
}

// Workers returns the effective pool size
func (p *Processor) Workers() int {
	if p.config == nil || p.config.Workers <= 0 {
		return 1
	}
	return p.config.Workers
}

// ProcessItems calls processFn once for every index in [0, total). Workers
// claim the next index from a shared counter, so at most Workers() calls run
// at a time. A failing item is recorded and does not stop the others; once
// ctx is done no further items are claimed.
func (p *Processor) ProcessItems(ctx context.Context, total int, processFn func(ctx context.Context, index int) error) *models.BatchProgress {
	progress := &models.BatchProgress{
		Total:          total,
		StartTime:      time.Now(),
		LastUpdateTime: time.Now(),
	}
	if total <= 0 {
		p.updateProgress(progress)
		return progress
	}

	workers := p.Workers()
	if workers > total {
		workers = total
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	var mu sync.Mutex

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if ctx.Err() != nil {
					return
				}
				index := int(next.Add(1) - 1)
				if index >= total {
					return
				}

				err := processFn(ctx, index)

				mu.Lock()
				if err != nil {
					progress.Failed++
					progress.Errors = append(progress.Errors, err)
				} else {
					progress.Processed++
				}
				progress.LastUpdateTime = time.Now()
				snapshot := *progress
				mu.Unlock()

				p.updateProgress(&snapshot)
			}
		}()
	}

	wg.Wait()

	if err := ctx.Err(); err != nil && !progress.Done() {
		progress.Errors = append(progress.Errors, err)
	}
	p.updateProgress(progress)
	return progress
}

// GetProgress returns the current progress channel
func (p *Processor) GetProgress() <-chan *models.BatchProgress {
	return p.statusChan
}

// updateProgress updates and sends the current progress
func (p *Processor) updateProgress(progress *models.BatchProgress) {
	p.mu.Lock()
	defer p.mu.Unlock()

	select {
	case p.statusChan <- progress:
	default:
		// Channel is full, replace the value
		select {
		case <-p.statusChan:
		default:
		}
		p.statusChan <- progress
	}
}
