package server

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/janpfeifer/TriMatch/internal/config"
	"github.com/janpfeifer/TriMatch/internal/deck"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Tables = 2
	cfg.TableSize = 10
	return cfg
}

// startServer runs the server on an automatic port until the test ends.
func startServer(t *testing.T) (*ServerState, context.CancelFunc, chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan *ServerState, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- Run(ctx, testConfig(), "", started)
	}()
	select {
	case s := <-started:
		return s, cancel, errCh
	case err := <-errCh:
		cancel()
		t.Fatalf("Server failed to start: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatalf("Server took too long to start")
	}
	return nil, nil, nil
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("Failed to connect to server: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	return resp, string(body)
}

func TestServerRun(t *testing.T) {
	serverState, cancel, errCh := startServer(t)
	base := "http://" + serverState.Address

	resp, body := get(t, base+"/")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status OK, got %v", resp.Status)
	}
	// The go-app framework generates standard HTML, with the app name in it.
	if !strings.Contains(body, "TriMatch") {
		t.Errorf("Expected body to contain 'TriMatch', got body: %s", body)
	}

	// Cancel the context to stop the server
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Server shut down with error: %v", err)
		}
	case <-time.After(6 * time.Second):
		t.Errorf("Server took too long to shut down")
	}
}

func TestServerPages(t *testing.T) {
	serverState, cancel, _ := startServer(t)
	defer cancel()
	base := "http://" + serverState.Address

	// 20 participants fit in 2 sheets of 16.
	if pages := serverState.Current().Summary().Pages; pages != 2 {
		t.Fatalf("Expected 2 pages, got %d", pages)
	}

	resp, body := get(t, base+"/pages/2/back")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status OK, got %v", resp.Status)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Expected SVG content type, got %q", ct)
	}
	if !strings.HasPrefix(body, "<svg ") || strings.Count(body, "<g ") != 4 {
		t.Errorf("Expected an SVG with 4 cards, got: %.200s", body)
	}

	resp, body = get(t, base+"/pages/1/front?format=png")
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(body, "\x89PNG") {
		t.Errorf("Expected a PNG proof, got %v", resp.Status)
	}

	for url, status := range map[string]int{
		"/pages/3/front":    http.StatusNotFound,
		"/pages/0/front":    http.StatusNotFound,
		"/pages/x/front":    http.StatusBadRequest,
		"/pages/1/sideways": http.StatusBadRequest,
	} {
		resp, _ := get(t, base+url)
		if resp.StatusCode != status {
			t.Errorf("GET %s: expected status %d, got %v", url, status, resp.Status)
		}
	}
}

func TestServerSolution(t *testing.T) {
	serverState, cancel, _ := startServer(t)
	defer cancel()

	resp, body := get(t, "http://"+serverState.Address+"/solution.tsv")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status OK, got %v", resp.Status)
	}
	lines := strings.Split(strings.TrimSuffix(body, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("Expected 5 quadruplets, got %d lines: %q", len(lines), body)
	}
	for _, line := range lines {
		if fields := strings.Split(line, "\t"); len(fields) != 4 {
			t.Errorf("Expected 4 tab separated numbers, got %q", line)
		}
	}
}

func TestAppHandlerVersion(t *testing.T) {
	h := newAppHandler()
	if h.Version != deck.Version {
		t.Errorf("Expected viewer version %q, got %q", deck.Version, h.Version)
	}
	if h.Name != "TriMatch" {
		t.Errorf("Expected app name TriMatch, got %q", h.Name)
	}
}
