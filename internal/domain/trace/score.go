package trace

import (
	"math"
	"time"
)

// GapConfig holds the day thresholds that grade an undocumented interval.
type GapConfig struct {
	InfoDays     int
	WarningDays  int
	CriticalDays int
}

// DefaultGapConfig returns the stock 30/90/180 day tiers.
func DefaultGapConfig() GapConfig {
	return GapConfig{InfoDays: 30, WarningDays: 90, CriticalDays: 180}
}

func (c GapConfig) normalized() GapConfig {
	out := c
	if out.InfoDays <= 0 {
		out.InfoDays = 30
	}
	if out.WarningDays <= out.InfoDays {
		out.WarningDays = out.InfoDays * 3
	}
	if out.CriticalDays <= out.WarningDays {
		out.CriticalDays = out.WarningDays * 2
	}
	return out
}

func (c GapConfig) severityFor(days int) (Severity, bool) {
	cfg := c.normalized()
	switch {
	case days > cfg.CriticalDays:
		return SeverityCritical, true
	case days > cfg.WarningDays:
		return SeverityWarning, true
	case days > cfg.InfoDays:
		return SeverityInfo, true
	default:
		return "", false
	}
}

// ScoreInput feeds one completeness scoring run. Events must already be
// sequenced. Now is the injected clock for still-in-service components so
// repeated calls over unchanged data give identical output.
type ScoreInput struct {
	ManufactureDate time.Time
	Events          []Event
	Status          ComponentStatus
	Now             time.Time
	Gaps            GapConfig
}

// DetectGaps walks consecutive event pairs and emits a TraceGap for every
// interval longer than the configured info threshold that no attached
// evidence or generated document bridges. The arriving event's own
// attachments count as bridging: paperwork created when the component shows
// up again explains where it has been.
func DetectGaps(events []Event, cfg GapConfig) []TraceGap {
	var gaps []TraceGap

	for i := 1; i < len(events); i++ {
		prev := events[i-1]
		next := events[i]
		if prev.Date.IsZero() || next.Date.IsZero() {
			continue
		}

		days := daysBetween(prev.Date, next.Date)
		severity, ok := cfg.severityFor(days)
		if !ok {
			continue
		}
		if len(next.Evidence) > 0 || len(next.Documents) > 0 {
			continue
		}

		gaps = append(gaps, TraceGap{
			StartDate:    prev.Date,
			EndDate:      next.Date,
			EndEventID:   next.ID,
			LastFacility: prev.FacilityName,
			NextFacility: next.FacilityName,
			Days:         days,
			Severity:     severity,
		})
	}
	return gaps
}

// Score computes the 0-100 documentation-completeness score and its
// qualitative rating. The contract is monotonic: adding a gap or removing a
// required document never raises the score, and closing a gap or adding a
// missing required document never lowers it. Weights: 60 span coverage,
// 15 birth record, 10 release-to-service currency, 15 gap-count factor.
func Score(input ScoreInput) TraceReport {
	report := TraceReport{
		Rating:      RatingPoor,
		TotalEvents: len(input.Events),
	}
	for _, ev := range input.Events {
		report.TotalDocuments += len(ev.Documents)
	}

	end := analysisEnd(input)
	if input.ManufactureDate.IsZero() || end.Before(input.ManufactureDate) {
		// Without a usable lifecycle span nothing can be scored; report a
		// conservative zero instead of failing.
		return report
	}
	report.TotalDays = daysBetween(input.ManufactureDate, end)

	report.Gaps = DetectGaps(input.Events, input.Gaps)
	report.GapCount = len(report.Gaps)
	for _, gap := range report.Gaps {
		report.TotalGapDays += gap.Days
	}

	coverage := 1.0
	if report.TotalDays > 0 {
		gapDays := report.TotalGapDays
		if gapDays > report.TotalDays {
			gapDays = report.TotalDays
		}
		coverage = float64(report.TotalDays-gapDays) / float64(report.TotalDays)
	}

	birth := 0.0
	if hasBirthRecord(input.Events) {
		birth = 1.0
	}

	release := releaseCurrency(input.Events)
	gapFactor := 1.0 / float64(1+report.GapCount)

	raw := 60*coverage + 15*birth + 10*release + 15*gapFactor
	report.Score = clampScore(int(math.Round(raw)))
	report.Rating = RatingForScore(report.Score)
	return report
}

// RatingForScore maps a score to its qualitative band: complete (>95),
// good (80-95), fair (60-79), poor (<60).
func RatingForScore(score int) Rating {
	switch {
	case score > 95:
		return RatingComplete
	case score >= 80:
		return RatingGood
	case score >= 60:
		return RatingFair
	default:
		return RatingPoor
	}
}

func analysisEnd(input ScoreInput) time.Time {
	if input.Status.Terminal() {
		for i := len(input.Events) - 1; i >= 0; i-- {
			if !input.Events[i].Date.IsZero() {
				return input.Events[i].Date
			}
		}
	}
	if !input.Now.IsZero() {
		return input.Now
	}
	return time.Now().UTC()
}

func hasBirthRecord(events []Event) bool {
	for _, ev := range events {
		if ev.Type != EventManufacture {
			continue
		}
		for _, doc := range ev.Documents {
			if doc.Type == DocumentBirthCert {
				return true
			}
		}
	}
	return false
}

// releaseCurrency grades how recent the last release to service is relative
// to the last major maintenance event. Full credit when the component's most
// recent major event is a release, half credit when a release exists but
// maintenance happened after it, none otherwise.
func releaseCurrency(events []Event) float64 {
	lastRelease := -1
	lastMajor := -1
	for i, ev := range events {
		switch ev.Type {
		case EventReleaseToService:
			lastRelease = i
			lastMajor = i
		case EventManufacture, EventInstall, EventRemove, EventTeardown,
			EventRepair, EventReassembly, EventTransfer:
			lastMajor = i
		}
	}
	switch {
	case lastRelease < 0:
		return 0
	case lastRelease == lastMajor:
		return 1
	default:
		return 0.5
	}
}

func daysBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
