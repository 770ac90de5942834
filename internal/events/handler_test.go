package events

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aerostage/backend/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeStore struct {
	events []models.Event
}

func (f *fakeStore) ListAll(_ context.Context) ([]models.Event, error) {
	return f.events, nil
}

func statusRequest(t *testing.T, h *Handler) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.GET("/events/status", h.Status)
	req := httptest.NewRequest(http.MethodGet, "/events/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type statusPayload struct {
	Data struct {
		Live            *models.Event `json:"live"`
		Next            *models.Event `json:"next"`
		SubmissionsOpen *models.Event `json:"submissions_open"`
		Now             time.Time     `json:"now"`
	} `json:"data"`
}

func TestStatus_DuringLiveWindow(t *testing.T) {
	now := time.Date(2026, 6, 1, 20, 30, 0, 0, time.UTC)
	live := mkEvent(t, "tonight", now.Add(-30*time.Minute), now.Add(90*time.Minute),
		now.Add(-72*time.Hour), now.Add(-48*time.Hour))
	upcoming := mkEvent(t, "next week", now.Add(7*24*time.Hour), now.Add(7*24*time.Hour+2*time.Hour),
		now.Add(-time.Hour), now.Add(24*time.Hour))

	h := NewHandler(&fakeStore{events: []models.Event{live, upcoming}}, nil)
	h.now = func() time.Time { return now }

	w := statusRequest(t, h)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp statusPayload
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.Live == nil || resp.Data.Live.ID != live.ID {
		t.Errorf("live = %v, want %s", resp.Data.Live, live.ID)
	}
	if resp.Data.Next == nil || resp.Data.Next.ID != upcoming.ID {
		t.Errorf("next = %v, want %s", resp.Data.Next, upcoming.ID)
	}
	if resp.Data.SubmissionsOpen == nil || resp.Data.SubmissionsOpen.ID != upcoming.ID {
		t.Errorf("submissions_open = %v, want %s", resp.Data.SubmissionsOpen, upcoming.ID)
	}
	if !resp.Data.Now.Equal(now) {
		t.Errorf("now = %s, want %s", resp.Data.Now, now)
	}
}

func TestStatus_QuietPeriod(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	past := mkEvent(t, "last month", now.Add(-30*24*time.Hour), now.Add(-30*24*time.Hour+2*time.Hour),
		now.Add(-40*24*time.Hour), now.Add(-31*24*time.Hour))

	h := NewHandler(&fakeStore{events: []models.Event{past}}, nil)
	h.now = func() time.Time { return now }

	w := statusRequest(t, h)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp statusPayload
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.Live != nil || resp.Data.Next != nil || resp.Data.SubmissionsOpen != nil {
		t.Errorf("phases = %+v, want all null", resp.Data)
	}
}

// The phase must be derived from the schedule on every request, never cached: the same
// handler must report different phases as time advances past the boundaries.
func TestStatus_TracksClock(t *testing.T) {
	t0 := time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC)
	ev := mkEvent(t, "show", t0, t0.Add(2*time.Hour), t0.Add(-48*time.Hour), t0.Add(-time.Hour))
	h := NewHandler(&fakeStore{events: []models.Event{ev}}, nil)

	clock := t0.Add(-time.Minute)
	h.now = func() time.Time { return clock }

	read := func() statusPayload {
		w := statusRequest(t, h)
		var resp statusPayload
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		return resp
	}

	if resp := read(); resp.Data.Live != nil || resp.Data.Next == nil {
		t.Errorf("before start: live = %v next = %v, want nil and set", resp.Data.Live, resp.Data.Next)
	}

	clock = t0.Add(time.Minute)
	if resp := read(); resp.Data.Live == nil || resp.Data.Next != nil {
		t.Errorf("after start: live = %v next = %v, want set and nil", resp.Data.Live, resp.Data.Next)
	}

	clock = t0.Add(3 * time.Hour)
	if resp := read(); resp.Data.Live != nil {
		t.Errorf("after end: live = %v, want nil", resp.Data.Live)
	}
}
