package events

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aerostage/backend/internal/models"
)

func mkEvent(t *testing.T, title string, startsAt, endsAt, subOpen, subClose time.Time) models.Event {
	t.Helper()
	return models.Event{
		ID:                 uuid.New(),
		Title:              title,
		StartsAt:           startsAt,
		EndsAt:             endsAt,
		SubmissionsOpenAt:  subOpen,
		SubmissionsCloseAt: subClose,
	}
}

func TestResolve_LiveAndNext(t *testing.T) {
	t0 := time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC)
	ev := mkEvent(t, "show", t0, t0.Add(2*time.Hour), t0.Add(-48*time.Hour), t0.Add(-1*time.Hour))

	tests := []struct {
		name     string
		now      time.Time
		wantLive bool
		wantNext bool
	}{
		{"during live window", t0.Add(1 * time.Hour), true, false},
		{"before start", t0.Add(-1 * time.Hour), false, true},
		{"exactly at start", t0, true, false},
		{"exactly at end", t0.Add(2 * time.Hour), false, false},
		{"after end", t0.Add(3 * time.Hour), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := Resolve([]models.Event{ev}, tt.now)
			if got := st.Live != nil; got != tt.wantLive {
				t.Errorf("live = %v, want %v", got, tt.wantLive)
			}
			if tt.wantLive && st.Live.ID != ev.ID {
				t.Errorf("live.ID = %s, want %s", st.Live.ID, ev.ID)
			}
			if got := st.Next != nil; got != tt.wantNext {
				t.Errorf("next = %v, want %v", got, tt.wantNext)
			}
			if tt.wantNext && st.Next.ID != ev.ID {
				t.Errorf("next.ID = %s, want %s", st.Next.ID, ev.ID)
			}
		})
	}
}

func TestResolve_NextIsMinimalFutureStart(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	later := mkEvent(t, "later", now.Add(48*time.Hour), now.Add(50*time.Hour), now, now.Add(time.Hour))
	sooner := mkEvent(t, "sooner", now.Add(24*time.Hour), now.Add(26*time.Hour), now, now.Add(time.Hour))
	past := mkEvent(t, "past", now.Add(-48*time.Hour), now.Add(-46*time.Hour), now.Add(-72*time.Hour), now.Add(-50*time.Hour))

	st := Resolve([]models.Event{later, sooner, past}, now)
	if st.Next == nil || st.Next.ID != sooner.ID {
		t.Fatalf("next = %v, want %s", st.Next, sooner.ID)
	}
	if st.Live != nil {
		t.Errorf("live = %v, want nil", st.Live)
	}
}

func TestResolve_SubmissionsOpenWindow(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	ev := mkEvent(t, "show", now.Add(24*time.Hour), now.Add(26*time.Hour), now.Add(-time.Hour), now.Add(time.Hour))

	st := Resolve([]models.Event{ev}, now)
	if st.SubmissionsOpen == nil || st.SubmissionsOpen.ID != ev.ID {
		t.Fatalf("submissionsOpen = %v, want %s", st.SubmissionsOpen, ev.ID)
	}

	st = Resolve([]models.Event{ev}, now.Add(time.Hour))
	if st.SubmissionsOpen != nil {
		t.Errorf("submissionsOpen at close instant = %v, want nil", st.SubmissionsOpen)
	}
}

func TestResolve_OverlappingLiveWindowsPicksEarliestStart(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	earlier := mkEvent(t, "earlier", now.Add(-2*time.Hour), now.Add(2*time.Hour), now.Add(-72*time.Hour), now.Add(-48*time.Hour))
	later := mkEvent(t, "later", now.Add(-1*time.Hour), now.Add(3*time.Hour), now.Add(-72*time.Hour), now.Add(-48*time.Hour))

	// Input order must not matter.
	for _, evs := range [][]models.Event{{earlier, later}, {later, earlier}} {
		st := Resolve(evs, now)
		if st.Live == nil || st.Live.ID != earlier.ID {
			t.Errorf("live = %v, want earlier event %s", st.Live, earlier.ID)
		}
	}
}

func TestResolve_EmptySet(t *testing.T) {
	st := Resolve(nil, time.Now())
	if st.Live != nil || st.Next != nil || st.SubmissionsOpen != nil {
		t.Errorf("resolve of empty set = %+v, want all nil", st)
	}
}
