package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"zoom-attendance-llm/config"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := NewSessionStore(config.CountOncePerCapture, 5*time.Second, zerolog.Nop())
	srv := NewServer(store, zerolog.Nop(), "openai/gpt-4o", "gemini-2.0-flash-lite")
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func createMockSession(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	body := `{"provider":"mock"}`
	resp, err := http.Post(ts.URL+"/api/v1/session", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session status = %d", resp.StatusCode)
	}
	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode session response: %v", err)
	}
	if out["session_id"] == "" {
		t.Fatal("empty session_id")
	}
	return out["session_id"]
}

func uploadImage(t *testing.T, ts *httptest.Server, id string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "panel.png")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	fw.Write([]byte{0x89, 0x50, 0x4E, 0x47})
	mw.Close()

	resp, err := http.Post(ts.URL+"/api/v1/session/"+id+"/capture", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("capture request failed: %v", err)
	}
	return resp
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t)
	id := createMockSession(t, ts)

	// First capture: mock returns Alice Johnson, Bob Smith (Host), Carol White.
	resp := uploadImage(t, ts, id)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("capture status = %d", resp.StatusCode)
	}
	var out struct {
		Names        []string `json:"names"`
		NewAttendees int      `json:"new_attendees"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode capture response: %v", err)
	}
	if len(out.Names) != 3 || out.NewAttendees != 3 {
		t.Errorf("capture outcome = %+v, want 3 names, 3 new", out)
	}
	for _, n := range out.Names {
		if strings.Contains(n, "(") {
			t.Errorf("role marker not stripped: %q", n)
		}
	}

	// Tally reflects the capture.
	tallyResp, err := http.Get(ts.URL + "/api/v1/session/" + id + "/tally")
	if err != nil {
		t.Fatalf("tally request failed: %v", err)
	}
	defer tallyResp.Body.Close()
	var tally struct {
		Attendees []struct {
			Name  string `json:"name"`
			Count int    `json:"count"`
		} `json:"attendees"`
	}
	if err := json.NewDecoder(tallyResp.Body).Decode(&tally); err != nil {
		t.Fatalf("decode tally: %v", err)
	}
	if len(tally.Attendees) != 3 {
		t.Fatalf("tally len = %d, want 3", len(tally.Attendees))
	}
	if tally.Attendees[0].Name != "Alice Johnson" || tally.Attendees[0].Count != 1 {
		t.Errorf("unexpected first attendee: %+v", tally.Attendees[0])
	}
}

func TestExportCSV(t *testing.T) {
	ts := newTestServer(t)
	id := createMockSession(t, ts)

	// Empty record: export refused.
	resp, err := http.Get(ts.URL + "/api/v1/session/" + id + "/export.csv")
	if err != nil {
		t.Fatalf("export request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("empty export status = %d, want 409", resp.StatusCode)
	}

	uploadImage(t, ts, id).Body.Close()

	resp, err = http.Get(ts.URL + "/api/v1/session/" + id + "/export.csv")
	if err != nil {
		t.Fatalf("export request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	var body bytes.Buffer
	body.ReadFrom(resp.Body)
	if !strings.HasPrefix(body.String(), "name,first_seen,count,all_seen\n") {
		t.Errorf("missing CSV header: %q", body.String())
	}
	if !strings.Contains(body.String(), "Bob Smith") {
		t.Errorf("missing attendee row: %q", body.String())
	}
}

func TestReset(t *testing.T) {
	ts := newTestServer(t)
	id := createMockSession(t, ts)
	uploadImage(t, ts, id).Body.Close()

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/session/"+id+"/reset", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("reset status = %d", resp.StatusCode)
	}

	tallyResp, err := http.Get(ts.URL + "/api/v1/session/" + id + "/tally")
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	defer tallyResp.Body.Close()
	var tally struct {
		Attendees []any `json:"attendees"`
	}
	json.NewDecoder(tallyResp.Body).Decode(&tally)
	if len(tally.Attendees) != 0 {
		t.Errorf("tally not cleared: %v", tally.Attendees)
	}
}

func TestUnknownSession(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/v1/session/nope/tally")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestCreateSessionRejectsBadProvider(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/api/v1/session", "application/json",
		strings.NewReader(`{"provider":"carrier-pigeon"}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestIndexPage(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	var body bytes.Buffer
	body.ReadFrom(resp.Body)
	if !strings.Contains(body.String(), "Start session") {
		t.Errorf("index without session should show credential form: %q", body.String())
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	id := createMockSession(t, ts)
	uploadImage(t, ts, id).Body.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	var body bytes.Buffer
	body.ReadFrom(resp.Body)
	if !strings.Contains(body.String(), "attendance_captures_total") {
		t.Errorf("metrics output missing capture counter: %q", body.String())
	}
}
