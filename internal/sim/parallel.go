package sim

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/joephys/joephys/internal/config"
)

// Batch runs independent configurations concurrently. Every run owns its
// manager and clock; nothing is shared between goroutines except the logger.
type Batch struct {
	configs []*config.Config
	logger  *log.Logger
}

func NewBatch(configs []*config.Config, logger *log.Logger) *Batch {
	return &Batch{configs: configs, logger: logger}
}

// Run executes every configuration and returns the results in input order.
// The first error in input order is returned after all runs have stopped.
func (b *Batch) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(b.configs))
	errs := make([]error, len(b.configs))

	var wg sync.WaitGroup
	for i, cfg := range b.configs {
		wg.Add(1)
		go func(idx int, cfg *config.Config) {
			defer wg.Done()

			r, runCfg, err := FromConfig(cfg)
			if err != nil {
				errs[idx] = err
				return
			}
			if b.logger != nil {
				r.SetLogger(b.logger.With("run", idx))
			}
			results[idx], errs[idx] = r.Run(ctx, runCfg)
		}(i, cfg)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
