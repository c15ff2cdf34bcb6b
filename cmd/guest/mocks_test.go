package main

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/jacobpatterson1549/wibble/server/peer"
)

const testToken = "t0k3n"

// mockDirectory lists a single room, ABC123, and records the requests to change it.
type mockDirectory struct {
	mu        sync.Mutex
	listing   peer.Listing
	listed    bool
	refreshes int
	removals  int
}

// newTestServer creates a server that makes players, lists the room of the directory, and answers pings.
func newTestServer(t *testing.T, d *mockDirectory) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/player", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			if !authorized(w, r) {
				return
			}
			w.Write([]byte(`{"id":"id-ada","name":"ada"}`))
			return
		}
		name := r.FormValue("name")
		if len(name) == 0 {
			http.Error(w, "name required", http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"id":"id-` + name + `","name":"` + name + `","token":"` + testToken + `"}`))
	})
	mux.HandleFunc("/peer", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		address := r.FormValue("address")
		if len(address) == 0 {
			host, _, _ := net.SplitHostPort(r.RemoteAddr)
			address = "ws://" + net.JoinHostPort(host, r.FormValue("port")) + "/"
		}
		d.mu.Lock()
		defer d.mu.Unlock()
		d.listing = peer.Listing{
			ID:        "ABC123",
			Name:      r.FormValue("name"),
			Address:   address,
			ExpiresAt: 160,
		}
		d.listed = true
		json.NewEncoder(w).Encode(d.listing)
	})
	mux.HandleFunc("/peer/", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		d.mu.Lock()
		defer d.mu.Unlock()
		if !d.listed || strings.TrimPrefix(r.URL.Path, "/peer/") != "ABC123" {
			http.NotFound(w, r)
			return
		}
		switch r.Method {
		case http.MethodGet:
		case http.MethodPut:
			d.refreshes++
		case http.MethodDelete:
			d.removals++
			d.listed = false
			w.WriteHeader(http.StatusNoContent)
			return
		}
		json.NewEncoder(w).Encode(d.listing)
	})
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	return httptest.NewServer(mux)
}

// authorized writes an error if the request does not have the test token.
func authorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Authorization") != "Bearer "+testToken {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

// counts reads the number of refreshes and removals of the listing.
func (d *mockDirectory) counts() (refreshes, removals int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.refreshes, d.removals
}

// newTestClient creates a client for the test server.
func newTestClient(t *testing.T, s *httptest.Server) *client {
	t.Helper()
	c, err := newClient(s.Client(), s.URL)
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	return c
}
