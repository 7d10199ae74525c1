package ingest

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"gatewatch/internal/activity"
	"gatewatch/internal/config"
	"gatewatch/internal/engine"
	"gatewatch/internal/killmail"
)

func newTestRouter(t *testing.T) (*engine.Engine, http.Handler) {
	t.Helper()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	eng := engine.New(config.Default(), activity.NewStore(), time.Second, func() time.Time { return t0 })
	return eng, NewRouter(eng, nil)
}

func postKill(t *testing.T, h http.Handler, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/kills", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestPostKill_CreatedThenDuplicate(t *testing.T) {
	_, h := newTestRouter(t)

	k := killmail.Kill{
		ID:            4001,
		SolarSystemID: 30002813,
		Time:          time.Date(2026, 3, 1, 11, 59, 0, 0, time.UTC),
		Victim:        killmail.Victim{Identity: killmail.Identity{CharacterID: 100, CorporationID: 9000}, ShipTypeID: 648},
	}
	body, err := json.Marshal(&k)
	if err != nil {
		t.Fatalf("marshal kill: %v", err)
	}

	w := postKill(t, h, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp killResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.KillID != 4001 || resp.Duplicate {
		t.Fatalf("unexpected response %+v", resp)
	}

	w = postKill(t, h, body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for duplicate, got %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Duplicate {
		t.Fatalf("expected duplicate flag on re-post")
	}
}

func TestPostKill_RejectsInvalidPayloads(t *testing.T) {
	_, h := newTestRouter(t)

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"killmail_id":`},
		{"missing id", `{"solar_system_id":30002813,"killmail_time":"2026-03-01T11:59:00Z"}`},
		{"missing system", `{"killmail_id":1,"killmail_time":"2026-03-01T11:59:00Z"}`},
		{"missing time", `{"killmail_id":1,"solar_system_id":30002813}`},
	}
	for _, tc := range cases {
		w := postKill(t, h, []byte(tc.body))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, w.Code)
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	_, h := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
