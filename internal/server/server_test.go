package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/five82/rolo/internal/contacts"
	ds "github.com/five82/rolo/internal/server/datastore"
)

func newTestServer(t *testing.T, store ds.ContactsStore) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(NewHandler(store, logger))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	return resp, raw
}

func TestContactsAPI(t *testing.T) {
	srv := newTestServer(t, ds.NewInmem())
	base := srv.URL + "/api/contacts"

	resp, raw := doJSON(t, http.MethodGet, base, nil)
	if resp.StatusCode != http.StatusOK || strings.TrimSpace(string(raw)) != "[]" {
		t.Fatalf("empty list = %d %s", resp.StatusCode, raw)
	}

	resp, raw = doJSON(t, http.MethodPost, base, map[string]string{"nombre": "Ana"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("create without apellido = %d %s, want 400", resp.StatusCode, raw)
	}

	resp, raw = doJSON(t, http.MethodPost, base, contacts.Fields{FirstName: "Ana", LastName: "Lopez", City: "Lima"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create = %d %s, want 201", resp.StatusCode, raw)
	}
	var created contacts.Contact
	if err := json.Unmarshal(raw, &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID != 1 || created.FirstName != "Ana" {
		t.Fatalf("created = %+v", created)
	}

	resp, raw = doJSON(t, http.MethodPatch, base+"/1", map[string]string{"telefono": "555"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch = %d %s", resp.StatusCode, raw)
	}
	var patched contacts.Contact
	_ = json.Unmarshal(raw, &patched)
	if patched.Phone != "555" || patched.City != "Lima" {
		t.Fatalf("patched = %+v, want partial update", patched)
	}

	full := patched
	full.Notes = "vip"
	resp, raw = doJSON(t, http.MethodPatch, base+"/1", full)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch with whole contact = %d %s", resp.StatusCode, raw)
	}

	resp, _ = doJSON(t, http.MethodPatch, base+"/9", map[string]string{"telefono": "1"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("patch missing = %d, want 404", resp.StatusCode)
	}

	resp, raw = doJSON(t, http.MethodGet, base+"/1", nil)
	var got contacts.Contact
	_ = json.Unmarshal(raw, &got)
	if resp.StatusCode != http.StatusOK || got.Notes != "vip" {
		t.Fatalf("get = %d %+v", resp.StatusCode, got)
	}

	resp, _ = doJSON(t, http.MethodDelete, base+"/1", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete = %d, want 204", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodDelete, base+"/1", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete = %d, want 404", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, base+"/1", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get deleted = %d, want 404", resp.StatusCode)
	}
}

func TestProbesAndMetrics(t *testing.T) {
	srv := newTestServer(t, ds.NewInmem())

	for _, path := range []string{"/liveness", "/readiness"} {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+path, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s = %d", path, resp.StatusCode)
		}
	}

	doJSON(t, http.MethodGet, srv.URL+"/api/contacts", nil)
	resp, raw := doJSON(t, http.MethodGet, srv.URL+"/metrics", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/metrics = %d", resp.StatusCode)
	}
	for _, want := range []string{"rolod_build_info", `http_requests_total{method="GET",path="/api/contacts",status="200"} 1`} {
		if !strings.Contains(string(raw), want) {
			t.Fatalf("/metrics missing %q:\n%s", want, raw)
		}
	}
}

type brokenStore struct{ ds.ContactsStore }

func (brokenStore) Ping(context.Context) error { return errors.New("db gone") }

func (brokenStore) List(context.Context) ([]contacts.Contact, error) {
	panic("boom")
}

func TestReadinessFailureAndPanicRecovery(t *testing.T) {
	srv := newTestServer(t, brokenStore{})

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/readiness", nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("/readiness = %d, want 503", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/contacts", nil)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("panicking list = %d, want 500", resp.StatusCode)
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	store, closer, err := OpenStore(ctx, &StoreOptions{Seed: true})
	if err != nil {
		t.Fatalf("OpenStore(inmem): %v", err)
	}
	_ = closer.Close()
	items, _ := store.List(ctx)
	if len(items) != 1 || items[0].FirstName != sampleContact.FirstName {
		t.Fatalf("seeded inmem = %+v", items)
	}

	path := t.TempDir() + "/rolod.db"
	for range 2 {
		store, closer, err = OpenStore(ctx, &StoreOptions{DB: path, Seed: true})
		if err != nil {
			t.Fatalf("OpenStore(sqlite): %v", err)
		}
		items, _ = store.List(ctx)
		_ = closer.Close()
		if len(items) != 1 {
			t.Fatalf("seed should run only on an empty store, got %d contacts", len(items))
		}
	}
}
