package trace

import "strings"

// BuildStops merges consecutive same-facility events into FacilityStops and
// classifies each stop's documentation trust. Gap classification is decided
// against the gap list produced by DetectGaps for the same sequenced events.
// A terminal component status counts as an implicit retirement at the final
// stop when labeling its activity.
func BuildStops(events []Event, gaps []TraceGap, status ComponentStatus) []FacilityStop {
	var stops []FacilityStop
	for _, ev := range events {
		if len(stops) > 0 && stops[len(stops)-1].Facility == ev.FacilityName {
			last := &stops[len(stops)-1]
			last.Events = append(last.Events, ev)
			if !ev.Date.IsZero() && ev.Date.After(last.EndDate) {
				last.EndDate = ev.Date
			}
			continue
		}

		display, location := ParseFacilityName(ev.FacilityName)
		stops = append(stops, FacilityStop{
			Facility:    ev.FacilityName,
			DisplayName: display,
			Location:    location,
			StartDate:   ev.Date,
			EndDate:     ev.Date,
			Events:      []Event{ev},
		})
	}

	for i := range stops {
		stop := &stops[i]
		for _, ev := range stop.Events {
			stop.EvidenceCount += len(ev.Evidence)
			stop.DocumentCount += len(ev.Documents)
		}
		stop.Activity = activityLabel(stop.Events, status.Terminal() && i == len(stops)-1)
		stop.PrecedingGap = gapEndingAt(gaps, *stop)
		stop.Trust = classifyTrust(*stop)
	}
	return stops
}

// ParseFacilityName derives a short display name and a location from a
// facility's full name. Handles "Name — Something Division" suffixes,
// "Name, City" forms, and the "<Company> <ABC> Maintenance/MRO/TechOps"
// convention where the middle token is an airport code.
func ParseFacilityName(full string) (display, location string) {
	name := strings.TrimSpace(full)
	if name == "" {
		return "Unknown", ""
	}

	if idx := strings.Index(name, " — "); idx >= 0 && strings.HasSuffix(name, "Division") {
		name = strings.TrimSpace(name[:idx])
	}

	if idx := strings.Index(name, ", "); idx >= 0 {
		return strings.TrimSpace(name[:idx]), strings.TrimSpace(name[idx+2:])
	}

	words := strings.Fields(name)
	if len(words) >= 3 {
		code := words[len(words)-2]
		kind := words[len(words)-1]
		if isAirportCode(code) && isMaintenanceWord(kind) {
			company := strings.Join(words[:len(words)-2], " ")
			return company + " " + kind, code
		}
	}
	return name, ""
}

func isAirportCode(word string) bool {
	if len(word) != 3 {
		return false
	}
	for _, r := range word {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func isMaintenanceWord(word string) bool {
	switch word {
	case "Maintenance", "MRO", "TechOps":
		return true
	default:
		return false
	}
}

// activityLabel condenses the set of event types at a stop into one label.
// Checks run in priority order; the first matching label wins. retired
// treats a terminal component status as an implicit retire event.
func activityLabel(events []Event, retired bool) string {
	types := make(map[EventType]bool, len(events))
	for _, ev := range events {
		types[ev.Type] = true
	}

	switch {
	case types[EventManufacture]:
		return "MFG"
	case types[EventTeardown] || types[EventRepair] || types[EventReassembly]:
		return "OH"
	case len(types) == 1 && types[EventReceivingInspection]:
		return "INSP"
	case types[EventInstall]:
		return "SVC"
	case types[EventTransfer]:
		return "DIST"
	case types[EventReleaseToService]:
		return "RTS"
	case types[EventRemove]:
		return "RMV"
	case types[EventRetire] || types[EventScrap] || retired:
		return "RTR"
	default:
		return "SVC"
	}
}

// gapEndingAt matches a gap to the stop whose first event closes it. The
// match goes through the closing event's identity, not day arithmetic:
// event timestamps carry a time of day and a reconstructed calendar day can
// land off by one.
func gapEndingAt(gaps []TraceGap, stop FacilityStop) *TraceGap {
	if len(stop.Events) == 0 {
		return nil
	}
	first := stop.Events[0]

	for i := range gaps {
		gap := gaps[i]
		if gap.EndEventID != "" && first.ID != "" {
			if gap.EndEventID == first.ID {
				return &gaps[i]
			}
			continue
		}
		if gap.NextFacility == stop.Facility && !gap.EndDate.IsZero() && gap.EndDate.Equal(first.Date) {
			return &gaps[i]
		}
	}
	return nil
}

// classifyTrust is a priority-ordered rule chain, first match wins. A gap
// arriving at the stop overrides every other signal: paperwork after a break
// in custody cannot vouch for the break itself.
func classifyTrust(stop FacilityStop) Trust {
	if stop.PrecedingGap != nil {
		return TrustGap
	}

	hasWorkOrder := false
	hasCertification := false
	hasHash := false
	for _, ev := range stop.Events {
		if ev.WorkOrderRef != "" {
			hasWorkOrder = true
		}
		if ev.Certification != "" {
			hasCertification = true
		}
		if ev.IntegrityHash != "" {
			hasHash = true
		}
	}

	if (hasWorkOrder || hasCertification) && hasHash {
		return TrustVerified
	}
	if hasWorkOrder || hasCertification || stop.EvidenceCount > 0 {
		return TrustPartial
	}
	return TrustUnknown
}
