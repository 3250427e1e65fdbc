package professionals_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/johnwards/professionals/internal/api"
	"github.com/johnwards/professionals/internal/api/professionals"
	"github.com/johnwards/professionals/internal/store"
	"github.com/johnwards/professionals/internal/testhelpers"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()

	s := store.New(testhelpers.NewMigratedDB(t))
	mux := http.NewServeMux()
	professionals.RegisterRoutes(mux, s.Professionals)

	srv := httptest.NewServer(api.Chain(mux, api.Recovery(), api.RequestID()))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

type professional struct {
	ID          int64   `json:"id"`
	FullName    string  `json:"full_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	JobTitle    string  `json:"job_title"`
	CompanyName string  `json:"company_name"`
	Source      string  `json:"source"`
	CreatedAt   string  `json:"created_at"`
}

func TestCreateProfessional(t *testing.T) {
	srv := setupServer(t)

	resp := post(t, srv.URL+"/api/professionals/",
		`{"full_name":"Ada Lovelace","email":"ada@example.com","phone":"","job_title":"Analyst","company_name":"","source":"direct"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var p professional
	decode(t, resp, &p)
	if p.ID == 0 {
		t.Error("expected non-zero id")
	}
	if p.FullName != "Ada Lovelace" || p.Source != "direct" || p.JobTitle != "Analyst" {
		t.Errorf("unexpected record %+v", p)
	}
	if p.Email == nil || *p.Email != "ada@example.com" {
		t.Errorf("email = %v, want ada@example.com", p.Email)
	}
	if p.Phone != nil {
		t.Errorf("empty phone should be null, got %q", *p.Phone)
	}
	if p.CreatedAt == "" {
		t.Error("expected created_at")
	}
}

func TestCreateValidation(t *testing.T) {
	srv := setupServer(t)

	tests := []struct {
		name string
		body string
		want map[string][]string
	}{
		{
			name: "missing required",
			body: `{"email":"a@example.com"}`,
			want: map[string][]string{
				"full_name": {"This field is required."},
				"source":    {"This field is required."},
			},
		},
		{
			name: "blank name and bad source",
			body: `{"full_name":"  ","email":"a@example.com","source":"vendor"}`,
			want: map[string][]string{
				"full_name": {"This field may not be blank."},
				"source":    {`"vendor" is not a valid choice.`},
			},
		},
		{
			name: "invalid email",
			body: `{"full_name":"Ada","email":"invalid format","source":"direct"}`,
			want: map[string][]string{"email": {"Enter a valid email address."}},
		},
		{
			name: "phone too long",
			body: `{"full_name":"Ada","phone":"012345678901234567890","source":"direct"}`,
			want: map[string][]string{"phone": {"Ensure this field has no more than 20 characters."}},
		},
		{
			name: "no contact details",
			body: `{"full_name":"Ada","email":"","phone":"","source":"partner"}`,
			want: map[string][]string{"non_field_errors": {"At least one of email or phone must be provided."}},
		},
		{
			name: "not an object",
			body: `["Ada"]`,
			want: map[string][]string{"non_field_errors": {"Invalid data. Expected a dictionary."}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+"/api/professionals/", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			var got map[string][]string
			decode(t, resp, &got)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("errors = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreateMalformedJSON(t *testing.T) {
	srv := setupServer(t)

	resp := post(t, srv.URL+"/api/professionals/", `{"full_name":`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var d api.Detail
	decode(t, resp, &d)
	if !strings.HasPrefix(d.Detail, "JSON parse error") {
		t.Errorf("detail = %q", d.Detail)
	}
}

func TestCreateDuplicate(t *testing.T) {
	srv := setupServer(t)
	body := `{"full_name":"Ada","email":"ada@example.com","phone":"555-0100","source":"direct"}`

	if resp := post(t, srv.URL+"/api/professionals/", body); resp.StatusCode != http.StatusCreated {
		t.Fatalf("first create: expected 201, got %d", resp.StatusCode)
	}

	resp := post(t, srv.URL+"/api/professionals/", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var got map[string][]string
	decode(t, resp, &got)
	want := map[string][]string{
		"email": {"professional with this email already exists."},
		"phone": {"professional with this phone already exists."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("errors = %v, want %v", got, want)
	}
}

func TestListAndFilter(t *testing.T) {
	srv := setupServer(t)

	for _, body := range []string{
		`{"full_name":"Ada","email":"ada@example.com","source":"direct"}`,
		`{"full_name":"Grace","phone":"555-0100","source":"partner"}`,
		`{"full_name":"Alan","email":"alan@example.com","source":"direct"}`,
	} {
		if resp := post(t, srv.URL+"/api/professionals/", body); resp.StatusCode != http.StatusCreated {
			t.Fatalf("create: expected 201, got %d", resp.StatusCode)
		}
	}

	resp, err := http.Get(srv.URL + "/api/professionals/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var all []professional
	decode(t, resp, &all)
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	if all[0].FullName != "Alan" {
		t.Errorf("expected newest first, got %s", all[0].FullName)
	}

	resp2, err := http.Get(srv.URL + "/api/professionals/?source=partner")
	if err != nil {
		t.Fatalf("get filtered: %v", err)
	}
	defer func() { _ = resp2.Body.Close() }()

	var partners []professional
	decode(t, resp2, &partners)
	if len(partners) != 1 || partners[0].FullName != "Grace" {
		t.Errorf("partners = %+v", partners)
	}
	if partners[0].Email != nil {
		t.Errorf("expected null email, got %q", *partners[0].Email)
	}
}

func TestListEmptyIsArray(t *testing.T) {
	srv := setupServer(t)

	resp, err := http.Get(srv.URL + "/api/professionals/?source=internal")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var raw json.RawMessage
	decode(t, resp, &raw)
	if strings.TrimSpace(string(raw)) != "[]" {
		t.Errorf("body = %s, want []", raw)
	}
}
