package analysis

import (
	"context"
	"log/slog"
	"sync"

	"aerotrace/internal/bootstrap/logging"
	"aerotrace/internal/domain/trace"
	"aerotrace/internal/errs"
	"aerotrace/internal/ports"
)

// ComponentError records one component whose scan failed. The fleet scan
// carries on past it.
type ComponentError struct {
	ComponentID string
	Err         error
}

// FleetScanSummary is the reduced result of a fleet-wide scan.
type FleetScanSummary struct {
	TotalComponents          int
	ComponentsWithExceptions int
	TotalExceptions          int
	Exceptions               []ports.ExceptionRecord
	Errors                   []ComponentError
}

// ScanFleet runs the rule engine over every component using a bounded
// worker pool. Components are independent units of work: one malformed
// component is recorded in Errors and the rest of the fleet still gets
// scanned. Cancelling the context stops dispatching new components and
// lets in-flight scans finish, so no partial exception writes are left
// behind; the partial summary is returned with the context's error.
func (s *Service) ScanFleet(ctx context.Context) (FleetScanSummary, error) {
	ids, err := s.repo.ListComponentIDs(ctx)
	if err != nil {
		return FleetScanSummary{}, errs.Wrap(err, "list fleet component ids")
	}

	summary := FleetScanSummary{TotalComponents: len(ids)}
	if len(ids) == 0 {
		return summary, nil
	}

	workers := s.opts.Workers
	if workers < 1 {
		workers = 4
	}
	if workers > len(ids) {
		workers = len(ids)
	}

	jobs := make(chan string)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				exceptions, scanErr := s.ScanComponent(ctx, id)

				mu.Lock()
				if scanErr != nil {
					summary.Errors = append(summary.Errors, ComponentError{ComponentID: id, Err: scanErr})
				} else {
					openCount := 0
					for _, ex := range exceptions {
						if ex.Status == string(trace.ExceptionOpen) || ex.Status == string(trace.ExceptionInvestigating) {
							openCount++
							summary.Exceptions = append(summary.Exceptions, ex)
						}
					}
					if openCount > 0 {
						summary.ComponentsWithExceptions++
						summary.TotalExceptions += openCount
					}
				}
				mu.Unlock()
			}
		}()
	}

dispatch:
	for _, id := range ids {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- id:
		}
	}
	close(jobs)
	wg.Wait()

	logging.Info(ctx, "fleet scan completed",
		slog.Int("total_components", summary.TotalComponents),
		slog.Int("components_with_exceptions", summary.ComponentsWithExceptions),
		slog.Int("total_exceptions", summary.TotalExceptions),
		slog.Int("failed_components", len(summary.Errors)),
	)

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}
