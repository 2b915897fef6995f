package analysis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"aerotrace/internal/bootstrap/logging"
	"aerotrace/internal/domain/trace"
	"aerotrace/internal/errs"
	"aerotrace/internal/ports"
)

var errComponentIDRequired = errors.New("component id is required")

// Options tunes the engine thresholds and the fleet scan worker pool.
// Zero values fall back to the domain defaults.
type Options struct {
	Workers               int
	GapInfoDays           int
	GapWarningDays        int
	GapCriticalDays       int
	UnsignedDocMaxAgeDays int
}

// Service exposes the provenance analysis operations over a pluggable
// repository. All derived values (reports, stops) are recomputed per call;
// the only writes are exception upserts during scans.
type Service struct {
	repo ports.ComponentRepository
	uow  ports.UnitOfWork
	opts Options
	now  func() time.Time
}

func NewService(repo ports.ComponentRepository, uow ports.UnitOfWork, opts Options) *Service {
	return &Service{
		repo: repo,
		uow:  uow,
		opts: opts,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) gapConfig() trace.GapConfig {
	cfg := trace.DefaultGapConfig()
	if s.opts.GapInfoDays > 0 {
		cfg.InfoDays = s.opts.GapInfoDays
	}
	if s.opts.GapWarningDays > 0 {
		cfg.WarningDays = s.opts.GapWarningDays
	}
	if s.opts.GapCriticalDays > 0 {
		cfg.CriticalDays = s.opts.GapCriticalDays
	}
	return cfg
}

func (s *Service) ruleConfig() trace.RuleConfig {
	cfg := trace.DefaultRuleConfig()
	cfg.Gaps = s.gapConfig()
	if s.opts.UnsignedDocMaxAgeDays > 0 {
		cfg.UnsignedDocMaxAgeDays = s.opts.UnsignedDocMaxAgeDays
	}
	cfg.Now = s.now()
	return cfg
}

// ComputeTrace loads one component and scores its documentation
// completeness. Pure read; safe to call repeatedly.
func (s *Service) ComputeTrace(ctx context.Context, componentID string) (trace.TraceReport, error) {
	component, events, err := s.loadComponent(ctx, componentID)
	if err != nil {
		return trace.TraceReport{}, err
	}

	report := trace.Score(trace.ScoreInput{
		ManufactureDate: component.ManufactureDate,
		Events:          trace.Sequence(events),
		Status:          component.Status,
		Now:             s.now(),
		Gaps:            s.gapConfig(),
	})
	return report, nil
}

// FacilityStops returns the component's custody chain grouped into facility
// stops with trust classification.
func (s *Service) FacilityStops(ctx context.Context, componentID string) ([]trace.FacilityStop, error) {
	component, events, err := s.loadComponent(ctx, componentID)
	if err != nil {
		return nil, err
	}

	sequenced := trace.Sequence(events)
	gaps := trace.DetectGaps(sequenced, s.gapConfig())
	return trace.BuildStops(sequenced, gaps, component.Status), nil
}

// ScanComponent evaluates the rule set for one component, upserts the
// findings inside a single transaction, and returns the stored exception
// list. Re-running over unchanged data refreshes timestamps instead of
// creating duplicates.
func (s *Service) ScanComponent(ctx context.Context, componentID string) ([]ports.ExceptionRecord, error) {
	component, events, err := s.loadComponent(ctx, componentID)
	if err != nil {
		return nil, err
	}

	findings := trace.Evaluate(component, events, s.ruleConfig())
	detectedAt := s.now().Format(time.RFC3339Nano)

	if len(findings) > 0 {
		err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
			for _, finding := range findings {
				if _, err := s.repo.UpsertException(txCtx, ports.ExceptionUpsert{
					ComponentID: componentID,
					Type:        string(finding.Type),
					Severity:    string(finding.Severity),
					Title:       finding.Title,
					Description: finding.Description,
					EventRef:    finding.EventRef,
					DetectedAt:  detectedAt,
				}); err != nil {
					return errs.Wrapf(err, "upsert %s exception", finding.Type)
				}
			}
			return nil
		})
		if err != nil {
			return nil, errs.Wrap(err, "persist scan findings")
		}
	}

	logging.Info(ctx, "component scan completed",
		slog.String("component_id", componentID),
		slog.Int("findings", len(findings)),
	)

	return s.repo.ListExceptions(ctx, componentID)
}

// ListExceptions returns the persisted exceptions for one component, or for
// the whole fleet when componentID is empty.
func (s *Service) ListExceptions(ctx context.Context, componentID string) ([]ports.ExceptionRecord, error) {
	return s.repo.ListExceptions(ctx, componentID)
}

// SetExceptionStatus applies a reviewer decision. This is the only human
// mutation the engine supports.
func (s *Service) SetExceptionStatus(ctx context.Context, exceptionID string, status trace.ExceptionStatus) error {
	if exceptionID == "" {
		return errors.New("exception id is required")
	}
	switch status {
	case trace.ExceptionOpen, trace.ExceptionInvestigating, trace.ExceptionResolved, trace.ExceptionDismissed:
	default:
		return errs.Wrapf(errors.New("invalid exception status"), "status %q", status)
	}

	return s.repo.SetExceptionStatus(ctx, exceptionID, string(status), s.now().Format(time.RFC3339Nano))
}

func (s *Service) loadComponent(ctx context.Context, componentID string) (trace.Component, []trace.Event, error) {
	if componentID == "" {
		return trace.Component{}, nil, errComponentIDRequired
	}

	record, err := s.repo.GetComponent(ctx, componentID)
	if err != nil {
		return trace.Component{}, nil, errs.Wrap(err, "load component")
	}

	component, events := mapComponent(record)
	return component, events, nil
}
