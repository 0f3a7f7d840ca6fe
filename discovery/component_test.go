package discovery

import (
	"context"
	"net/http"
	"testing"

	"github.com/reactivity-io/reactivity-go/component"
)

func TestComponent_StaticDomains(t *testing.T) {
	c := NewComponent(Config{Domains: []string{"https://a.example.com", "https://b.example.com"}})
	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	h := c.Health(context.Background())
	if h.Status != component.StatusHealthy || h.Message == "" {
		t.Errorf("expected lazy healthy status, got %+v", h)
	}
	url, err := c.Resolver().NextBaseURL(context.Background())
	if err != nil || url != "https://a.example.com" {
		t.Fatalf("unexpected %q %v", url, err)
	}
	if c.Describe().Details != "static" {
		t.Errorf("unexpected description %+v", c.Describe())
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Error(err)
	}
}

func TestComponent_WarmFailure(t *testing.T) {
	srv := serveDocument(t, DefaultPath, http.StatusInternalServerError, "")
	c := NewComponent(Config{Origin: srv.URL, Warm: true})
	if err := c.Start(context.Background()); err == nil {
		t.Fatal("expected warm-up failure")
	}
	if h := c.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy after failed fetch, got %+v", h)
	}
}

func TestComponent_Warm(t *testing.T) {
	srv := serveDocument(t, DefaultPath, http.StatusOK, `["https://a.example.com"]`)
	c := NewComponent(Config{Origin: srv.URL, Warm: true})
	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !c.Resolver().Loaded() {
		t.Error("expected document to be loaded after warm start")
	}
	if c.Describe().Details != srv.URL+DefaultPath {
		t.Errorf("unexpected description %+v", c.Describe())
	}
}

func TestComponent_InvalidConfig(t *testing.T) {
	c := NewComponent(Config{})
	if err := c.Start(context.Background()); err == nil {
		t.Error("expected config error")
	}
	if h := c.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %+v", h)
	}
}
