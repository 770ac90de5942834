package likes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aerostage/backend/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type likeKey struct {
	eventID      uuid.UUID
	submissionID uuid.UUID
	ipHash       string
}

// fakeLikeStore reproduces the uniqueness behavior of the likes table in memory. The
// mutex stands in for the unique index arbitrating concurrent inserts.
type fakeLikeStore struct {
	mu        sync.Mutex
	rows      map[likeKey]bool
	insertErr error
}

func newFakeLikeStore() *fakeLikeStore {
	return &fakeLikeStore{rows: make(map[likeKey]bool)}
}

func (f *fakeLikeStore) Insert(_ context.Context, eventID, submissionID uuid.UUID, ipHash string) (InsertResult, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	k := likeKey{eventID, submissionID, ipHash}
	if f.rows[k] {
		return AlreadyExists, nil
	}
	f.rows[k] = true
	return Created, nil
}

func (f *fakeLikeStore) Delete(_ context.Context, eventID, submissionID uuid.UUID, ipHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, likeKey{eventID, submissionID, ipHash})
	return nil
}

func (f *fakeLikeStore) Count(_ context.Context, eventID, submissionID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for k := range f.rows {
		if k.eventID == eventID && k.submissionID == submissionID {
			n++
		}
	}
	return n, nil
}

func (f *fakeLikeStore) rowCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type fakeEventStore struct {
	events []models.Event
}

func (f *fakeEventStore) ListAll(_ context.Context) ([]models.Event, error) {
	return f.events, nil
}

type recordingBroadcaster struct {
	events []string
}

func (r *recordingBroadcaster) BroadcastToEventAndPublish(_ uuid.UUID, event string, _ interface{}) {
	r.events = append(r.events, event)
}

func liveEvent(now time.Time) models.Event {
	return models.Event{
		ID:                 uuid.New(),
		Title:              "live show",
		StartsAt:           now.Add(-time.Hour),
		EndsAt:             now.Add(time.Hour),
		SubmissionsOpenAt:  now.Add(-72 * time.Hour),
		SubmissionsCloseAt: now.Add(-48 * time.Hour),
	}
}

func toggleRequest(t *testing.T, h *Handler, body interface{}, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.POST("/likes", h.Toggle)

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/likes", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestToggle_InsertThenDeleteRestoresCount(t *testing.T) {
	now := time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC)
	ev := liveEvent(now)
	store := newFakeLikeStore()
	bc := &recordingBroadcaster{}
	h := NewHandler(store, &fakeEventStore{events: []models.Event{ev}}, NewFingerprinter("test-salt"), bc, nil)
	h.now = func() time.Time { return now }

	subID := uuid.New()
	body := ToggleRequest{EventID: ev.ID, SubmissionID: subID}

	w := toggleRequest(t, h, body, "203.0.113.9:51000")
	if w.Code != http.StatusOK {
		t.Fatalf("first toggle status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data ToggleResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Data.Liked || resp.Data.LikeCount != 1 {
		t.Errorf("first toggle = %+v, want liked=true count=1", resp.Data)
	}

	// Same caller again undoes the like and the count returns to zero.
	w = toggleRequest(t, h, body, "203.0.113.9:51000")
	if w.Code != http.StatusOK {
		t.Fatalf("second toggle status = %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.Liked || resp.Data.LikeCount != 0 {
		t.Errorf("second toggle = %+v, want liked=false count=0", resp.Data)
	}

	if len(bc.events) != 2 {
		t.Errorf("broadcasts = %d, want 2", len(bc.events))
	}
	for _, e := range bc.events {
		if e != "like_count" {
			t.Errorf("broadcast event = %q, want like_count", e)
		}
	}
}

func TestToggle_DistinctCallersAccumulate(t *testing.T) {
	now := time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC)
	ev := liveEvent(now)
	store := newFakeLikeStore()
	h := NewHandler(store, &fakeEventStore{events: []models.Event{ev}}, NewFingerprinter("test-salt"), nil, nil)
	h.now = func() time.Time { return now }

	subID := uuid.New()
	body := ToggleRequest{EventID: ev.ID, SubmissionID: subID}

	toggleRequest(t, h, body, "203.0.113.9:51000")
	w := toggleRequest(t, h, body, "203.0.113.10:51000")
	var resp struct {
		Data ToggleResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Data.Liked || resp.Data.LikeCount != 2 {
		t.Errorf("second caller toggle = %+v, want liked=true count=2", resp.Data)
	}
}

// Concurrent identical toggles from one fingerprint must leave at most one net like
// row. The unique index makes exactly one of N racing inserts win; every loser deletes
// the same single row, so the final state is zero or one rows, never more.
func TestToggle_ConcurrentSameFingerprint(t *testing.T) {
	now := time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC)
	ev := liveEvent(now)
	store := newFakeLikeStore()
	h := NewHandler(store, &fakeEventStore{events: []models.Event{ev}}, NewFingerprinter("test-salt"), nil, nil)
	h.now = func() time.Time { return now }

	body := ToggleRequest{EventID: ev.ID, SubmissionID: uuid.New()}

	const n = 32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := toggleRequest(t, h, body, "203.0.113.9:51000")
			if w.Code != http.StatusOK {
				t.Errorf("toggle status = %d", w.Code)
			}
		}()
	}
	wg.Wait()

	if got := store.rowCount(); got > 1 {
		t.Errorf("net like rows = %d, want at most 1", got)
	}
}

func TestToggle_EventNotLive(t *testing.T) {
	now := time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC)
	ended := liveEvent(now.Add(-3 * time.Hour))
	store := newFakeLikeStore()
	h := NewHandler(store, &fakeEventStore{events: []models.Event{ended}}, NewFingerprinter("test-salt"), nil, nil)
	h.now = func() time.Time { return now }

	w := toggleRequest(t, h, ToggleRequest{EventID: ended.ID, SubmissionID: uuid.New()}, "")
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Code, http.StatusConflict)
	}
	if len(store.rows) != 0 {
		t.Errorf("rows = %d, want 0 for a non-live event", len(store.rows))
	}
}

func TestToggle_OtherEventLive(t *testing.T) {
	now := time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC)
	live := liveEvent(now)
	h := NewHandler(newFakeLikeStore(), &fakeEventStore{events: []models.Event{live}}, NewFingerprinter("test-salt"), nil, nil)
	h.now = func() time.Time { return now }

	// Liking against an event other than the live one is rejected.
	w := toggleRequest(t, h, ToggleRequest{EventID: uuid.New(), SubmissionID: uuid.New()}, "")
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestToggle_BadBody(t *testing.T) {
	now := time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC)
	ev := liveEvent(now)
	h := NewHandler(newFakeLikeStore(), &fakeEventStore{events: []models.Event{ev}}, NewFingerprinter("test-salt"), nil, nil)
	h.now = func() time.Time { return now }

	w := toggleRequest(t, h, gin.H{"event_id": ev.ID}, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
