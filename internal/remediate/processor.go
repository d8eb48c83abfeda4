package remediate

import (
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/abapscan/abapscan/internal/scanner"
	"github.com/abapscan/abapscan/pkg/shared"
)

// Processor scans batches of units with a bounded number of goroutines.
type Processor struct {
	scanner *scanner.Scanner
	workers int
	logger  hclog.Logger
}

// NewProcessor creates a batch processor. workers caps the number of units
// scanned concurrently and must be at least 1.
func NewProcessor(s *scanner.Scanner, workers int, logger hclog.Logger) *Processor {
	if workers < 1 {
		workers = 1
	}
	return &Processor{
		scanner: s,
		workers: workers,
		logger:  logger,
	}
}

// Process scans every unit's code and returns one result per unit in the
// original order. Results land in index-stable slots, so the output is
// deterministic regardless of goroutine scheduling.
func (p *Processor) Process(units []Unit) []UnitResult {
	results := make([]UnitResult, len(units))
	if len(units) == 0 {
		return results
	}

	batchID := uuid.NewString()
	p.logger.Debug("processing unit batch", "batch_id", batchID, "units", len(units), "workers", p.workers)

	values := make([]interface{}, len(units))
	for i := range units {
		values[i] = units[i]
	}

	shared.ForEveryStringWithBoundedGoroutines(p.workers, values, func(i int, value interface{}) {
		unit, ok := value.(Unit)
		if !ok {
			p.logger.Error("invalid unit type in batch", "batch_id", batchID, "index", i)
			return
		}

		hits := p.scanner.Scan(unit.CodeText())
		p.logger.Debug("unit scanned", "batch_id", batchID, "index", i, "pgm_name", unit.PgmName, "inc_name", unit.IncName, "findings", len(hits))
		results[i] = UnitResult{Unit: unit, MBTxnUsage: hits}
	})

	return results
}
