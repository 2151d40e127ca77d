package contacts

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultBaseURL {
		t.Fatalf("host = %q, want %q", u.Host, defaultBaseURL)
	}

	u, err = parseBaseURL("https://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
	if u.Scheme != "https" {
		t.Fatalf("scheme = %q, want https", u.Scheme)
	}
}

func TestClient_RoundTripsAllOperations(t *testing.T) {
	t.Parallel()

	type seen struct {
		method, path, contentType, requestID, userAgent string
		body                                            map[string]any
	}
	var calls []seen

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := seen{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			requestID:   r.Header.Get("X-Request-Id"),
			userAgent:   r.Header.Get("User-Agent"),
		}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &call.body)
		}
		calls = append(calls, call)

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/contacts":
			_ = json.NewEncoder(w).Encode([]Contact{{ID: 1, Fields: Fields{FirstName: "Ana"}}, {ID: 2}})
		case r.Method == http.MethodGet && r.URL.Path == "/api/contacts/7":
			_ = json.NewEncoder(w).Encode(Contact{ID: 7, Fields: Fields{LastName: "Lopez"}})
		case r.Method == http.MethodPost && r.URL.Path == "/api/contacts":
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(Contact{ID: 3, Fields: Fields{FirstName: "Ana", LastName: "Lopez"}})
		case r.Method == http.MethodPatch && r.URL.Path == "/api/contacts/3":
			_ = json.NewEncoder(w).Encode(Contact{ID: 3, Fields: Fields{FirstName: "Anita", LastName: "Lopez"}})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/contacts/3":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, 0)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	list, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != 2 || list[0].ID != 1 || list[0].FirstName != "Ana" {
		t.Fatalf("List = %#v, want 2 contacts starting with Ana", list)
	}

	got, err := c.Get(ctx, 7)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.ID != 7 || got.LastName != "Lopez" {
		t.Fatalf("Get = %#v, want id=7 Lopez", got)
	}

	created, err := c.Create(ctx, Fields{FirstName: "Ana", LastName: "Lopez"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID != 3 {
		t.Fatalf("Create id = %d, want 3", created.ID)
	}

	created.FirstName = "Anita"
	updated, err := c.Update(ctx, created)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.FirstName != "Anita" {
		t.Fatalf("Update FirstName = %q, want Anita", updated.FirstName)
	}

	id, err := c.Delete(ctx, 3)
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if id != 3 {
		t.Fatalf("Delete echoed %d, want 3", id)
	}

	if len(calls) != 5 {
		t.Fatalf("server saw %d calls, want 5", len(calls))
	}
	post := calls[2]
	if post.contentType != "application/json" {
		t.Fatalf("POST Content-Type = %q, want application/json", post.contentType)
	}
	if _, ok := post.body["id"]; ok {
		t.Fatalf("POST body carries id: %#v", post.body)
	}
	if post.body["nombre"] != "Ana" || post.body["apellido"] != "Lopez" {
		t.Fatalf("POST body = %#v, want nombre/apellido", post.body)
	}
	if patch := calls[3]; patch.body["id"] != float64(3) || patch.body["nombre"] != "Anita" {
		t.Fatalf("PATCH body = %#v, want whole contact", patch.body)
	}
	for _, call := range calls {
		if _, err := uuid.Parse(call.requestID); err != nil {
			t.Fatalf("%s %s X-Request-Id = %q, want uuid", call.method, call.path, call.requestID)
		}
		if !strings.HasPrefix(call.userAgent, "rolo/") {
			t.Fatalf("User-Agent = %q, want rolo/*", call.userAgent)
		}
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/contacts":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		case "/api/contacts/9":
			http.Error(w, `{"error":"Contact not found"}`, http.StatusNotFound)
		default:
			http.Error(w, "nope", http.StatusInternalServerError)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.List(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("List error = %v, want decode response error", err)
	}

	_, err = c.Get(context.Background(), 9)
	if err == nil || !strings.Contains(err.Error(), "returned status 404") {
		t.Fatalf("Get error = %v, want status 404 error", err)
	}

	_, err = c.Delete(context.Background(), 10)
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("Delete error = %v, want status 500 error", err)
	}
}

func TestClient_TransportErrorIsWrapped(t *testing.T) {
	c, err := NewClient("127.0.0.1:1", 200*time.Millisecond)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.List(context.Background())
	if err == nil || !strings.Contains(err.Error(), "execute request") {
		t.Fatalf("List error = %v, want execute request error", err)
	}
}

func TestClient_NilReceiver(t *testing.T) {
	var c *Client
	if _, err := c.List(context.Background()); err == nil {
		t.Fatalf("List on nil client returned nil error")
	}
	if got := c.BaseURL(); got != "" {
		t.Fatalf("BaseURL on nil client = %q, want empty", got)
	}
}
