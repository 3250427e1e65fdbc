package testhelpers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/johnwards/professionals/internal/domain"
)

// RecordedRequest is one call received by a FakeAPI.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

// FakeAPI is an in-process stand-in for the remote professionals API. It
// serves GET and POST /api/professionals/, records every request, and can be
// scripted to fail or to hold requests until released.
type FakeAPI struct {
	server *httptest.Server

	mu           sync.Mutex
	requests     []RecordedRequest
	records      []domain.Professional
	nextID       int
	listStatus   int
	listBody     string
	createStatus int
	createBody   string
	listGate     *gate
	createGate   *gate
	now          func() time.Time
}

// NewFakeAPI starts a FakeAPI that is closed when the test completes.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		nextID: 1,
		now:    func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) },
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/professionals/", f.list)
	mux.HandleFunc("POST /api/professionals/", f.create)
	f.server = httptest.NewServer(mux)

	t.Cleanup(f.Close)
	return f
}

// BaseURL is the API root to hand to apiclient.New.
func (f *FakeAPI) BaseURL() string {
	return f.server.URL + "/api"
}

// Close releases any held requests and stops the server.
func (f *FakeAPI) Close() {
	f.mu.Lock()
	for _, g := range []*gate{f.listGate, f.createGate} {
		if g != nil {
			g.open()
		}
	}
	f.listGate, f.createGate = nil, nil
	f.mu.Unlock()
	f.server.Close()
}

// SetRecords replaces the records returned by the list endpoint.
func (f *FakeAPI) SetRecords(records ...domain.Professional) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = slices.Clone(records)
	f.nextID = len(records) + 1
}

// FailList makes the list endpoint answer with status and body.
func (f *FakeAPI) FailList(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listStatus, f.listBody = status, body
}

// FailCreate makes the create endpoint answer with status and body.
func (f *FakeAPI) FailCreate(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createStatus, f.createBody = status, body
}

// Recover clears FailList and FailCreate.
func (f *FakeAPI) Recover() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listStatus, f.listBody = 0, ""
	f.createStatus, f.createBody = 0, ""
}

// HoldCreate makes create requests wait until the returned release function
// is called.
func (f *FakeAPI) HoldCreate() (release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := newGate()
	f.createGate = g
	return g.open
}

// HoldList makes list requests wait until the returned release function is
// called.
func (f *FakeAPI) HoldList() (release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := newGate()
	f.listGate = g
	return g.open
}

// Requests returns the recorded requests with the given method.
func (f *FakeAPI) Requests(method string) []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []RecordedRequest
	for _, r := range f.requests {
		if r.Method == method {
			out = append(out, r)
		}
	}
	return out
}

func (f *FakeAPI) record(r *http.Request) RecordedRequest {
	body, _ := io.ReadAll(r.Body)
	rec := RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Body:   body,
	}
	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()
	return rec
}

func (f *FakeAPI) wait(r *http.Request, g *gate) {
	if g == nil {
		return
	}
	select {
	case <-g.ch:
	case <-r.Context().Done():
	}
}

func (f *FakeAPI) list(w http.ResponseWriter, r *http.Request) {
	f.record(r)

	f.mu.Lock()
	gate, status, body := f.listGate, f.listStatus, f.listBody
	f.mu.Unlock()
	f.wait(r, gate)

	if status != 0 {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
		return
	}

	source := domain.Source(r.URL.Query().Get("source"))
	f.mu.Lock()
	out := make([]domain.Professional, 0, len(f.records))
	for _, p := range f.records {
		if source == "" || p.Source == source {
			out = append(out, p)
		}
	}
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (f *FakeAPI) create(w http.ResponseWriter, r *http.Request) {
	rec := f.record(r)

	f.mu.Lock()
	gate, status, body := f.createGate, f.createStatus, f.createBody
	f.mu.Unlock()
	f.wait(r, gate)

	if status != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
		return
	}

	var d domain.Draft
	if err := json.Unmarshal(rec.Body, &d); err != nil {
		http.Error(w, `{"detail":"malformed json"}`, http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	p := domain.Professional{
		ID:          domain.ID(strconv.Itoa(f.nextID)),
		FullName:    d.FullName,
		Email:       d.Email,
		Phone:       d.Phone,
		JobTitle:    d.JobTitle,
		CompanyName: d.CompanyName,
		Source:      d.Source,
		CreatedAt:   f.now(),
	}
	f.nextID++
	f.records = append([]domain.Professional{p}, f.records...)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(p)
}

type gate struct {
	ch   chan struct{}
	once sync.Once
}

func newGate() *gate { return &gate{ch: make(chan struct{})} }

func (g *gate) open() { g.once.Do(func() { close(g.ch) }) }
