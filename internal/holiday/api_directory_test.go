package holiday

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

const polandHolidays2024 = `[
	{"country": "Poland", "iso": "PL", "year": 2024, "date": "2024-01-01", "day": "Monday", "name": "New Year's Day", "type": "NATIONAL_HOLIDAY"},
	{"country": "Poland", "iso": "PL", "year": 2024, "date": "2024-05-01", "day": "Wednesday", "name": "Labour Day", "type": "OBSERVANCE"},
	{"country": "Poland", "iso": "PL", "year": 2024, "date": "2024-03-20", "day": "Wednesday", "name": "March Equinox", "type": "SEASON"},
	{"country": "Poland", "iso": "PL", "year": 2024, "date": "not-a-date", "day": "", "name": "Broken", "type": "OBSERVANCE"}
]`

func newTestServer(t *testing.T, status int, body string, hits *int32) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		if got := r.Header.Get("X-Api-Key"); got != "secret" {
			t.Errorf("X-Api-Key = %q, want %q", got, "secret")
		}
		if got := r.URL.Query().Get("country"); got != "PL" {
			t.Errorf("country = %q, want PL", got)
		}
		if got := r.URL.Query().Get("year"); got != "2024" {
			t.Errorf("year = %q, want 2024", got)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAPIDirectory_Holidays(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, polandHolidays2024, nil)
	dir := NewAPIDirectory(srv.URL, "secret", time.Second, time.Hour, zap.NewNop())

	records, err := dir.Holidays(context.Background(), "PL", 2024)
	if err != nil {
		t.Fatalf("Holidays() error = %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3 (invalid date skipped)", len(records))
	}

	tests := []struct {
		idx  int
		date string
		kind Kind
		name string
	}{
		{0, "2024-01-01", KindNationalHoliday, "New Year's Day"},
		{1, "2024-05-01", KindObservance, "Labour Day"},
		{2, "2024-03-20", KindOther, "March Equinox"},
	}
	for _, tt := range tests {
		r := records[tt.idx]
		if r.Key() != tt.date || r.Kind != tt.kind || r.Name != tt.name {
			t.Errorf("records[%d] = {%s %s %q}, want {%s %s %q}",
				tt.idx, r.Key(), r.Kind, r.Name, tt.date, tt.kind, tt.name)
		}
	}
}

func TestAPIDirectory_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error": "boom"}`},
		{"unauthorized", http.StatusUnauthorized, `{"error": "Invalid API Key."}`},
		{"malformed JSON", http.StatusOK, `{"date": `},
		{"object instead of list", http.StatusOK, `{"error": "premium only"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.status, tt.body, nil)
			dir := NewAPIDirectory(srv.URL, "secret", time.Second, time.Hour, zap.NewNop())

			if _, err := dir.Holidays(context.Background(), "PL", 2024); err == nil {
				t.Error("Holidays() expected error, got nil")
			}
		})
	}
}

func TestAPIDirectory_Cache(t *testing.T) {
	var hits int32
	srv := newTestServer(t, http.StatusOK, polandHolidays2024, &hits)
	dir := NewAPIDirectory(srv.URL, "secret", time.Second, time.Hour, zap.NewNop())

	for i := 0; i < 3; i++ {
		if _, err := dir.Holidays(context.Background(), "PL", 2024); err != nil {
			t.Fatalf("Holidays() error = %v", err)
		}
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("server hits = %d, want 1", got)
	}

	dir.ClearCache()
	if _, err := dir.Holidays(context.Background(), "PL", 2024); err != nil {
		t.Fatalf("Holidays() error = %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("server hits after ClearCache = %d, want 2", got)
	}
}

func TestFetch_FailOpen(t *testing.T) {
	srv := newTestServer(t, http.StatusBadGateway, "", nil)
	dir := NewAPIDirectory(srv.URL, "secret", time.Second, time.Hour, zap.NewNop())

	records := Fetch(context.Background(), dir, "PL", 2024, zap.NewNop())
	if records == nil {
		t.Fatal("Fetch() returned nil, want empty list")
	}
	if len(records) != 0 {
		t.Errorf("len(Fetch()) = %d, want 0", len(records))
	}
}

func TestFetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	dir := NewAPIDirectory(url, "", 500*time.Millisecond, time.Hour, zap.NewNop())
	if records := Fetch(context.Background(), dir, "PL", 2024, zap.NewNop()); len(records) != 0 {
		t.Errorf("len(Fetch()) = %d, want 0", len(records))
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"NATIONAL_HOLIDAY", KindNationalHoliday},
		{"national_holiday", KindNationalHoliday},
		{" OBSERVANCE ", KindObservance},
		{"SEASON", KindOther},
		{"", KindOther},
	}

	for _, tt := range tests {
		if got := ParseKind(tt.input); got != tt.want {
			t.Errorf("ParseKind(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestIndex_FirstRecordWins(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	idx := NewIndex([]Record{
		{Date: day, Kind: KindObservance, Name: "Labour Day"},
		{Date: day, Kind: KindNationalHoliday, Name: "Duplicate"},
	})

	r, ok := idx.Lookup(time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC))
	if !ok {
		t.Fatal("Lookup() found nothing")
	}
	if r.Name != "Labour Day" {
		t.Errorf("Lookup().Name = %q, want %q", r.Name, "Labour Day")
	}

	var empty Index
	if _, ok := empty.Lookup(day); ok {
		t.Error("Lookup() on nil index found a record")
	}
}
