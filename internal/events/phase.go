package events

import (
	"time"

	"github.com/aerostage/backend/internal/models"
)

// Status is the phase of the whole event schedule at one instant.
type Status struct {
	Live            *models.Event `json:"live"`
	Next            *models.Event `json:"next"`
	SubmissionsOpen *models.Event `json:"submissions_open"`
}

// Resolve computes the current phase from the full event set and now. Pure function;
// callers must re-resolve on every request because phases are time-driven.
//
// If more than one event satisfies the live or submissions-open predicate (overlapping
// windows, a data-modeling anomaly), the one with the earliest starts_at wins; ties on
// starts_at fall back to input order. Next is the event with the minimal future starts_at.
func Resolve(evs []models.Event, now time.Time) Status {
	var st Status
	for i := range evs {
		e := &evs[i]
		if e.IsLive(now) && (st.Live == nil || e.StartsAt.Before(st.Live.StartsAt)) {
			st.Live = e
		}
		if e.SubmissionsOpen(now) && (st.SubmissionsOpen == nil || e.StartsAt.Before(st.SubmissionsOpen.StartsAt)) {
			st.SubmissionsOpen = e
		}
		if e.StartsAt.After(now) && (st.Next == nil || e.StartsAt.Before(st.Next.StartsAt)) {
			st.Next = e
		}
	}
	return st
}
