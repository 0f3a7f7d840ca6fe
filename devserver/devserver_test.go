package devserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/reactivity-io/reactivity-go/api"
	"github.com/reactivity-io/reactivity-go/discovery"
	"github.com/reactivity-io/reactivity-go/errors"
	"github.com/reactivity-io/reactivity-go/httpclient"
	"github.com/reactivity-io/reactivity-go/logger"
)

func startServer(t *testing.T, cfg Config, data *Dataset) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(cfg, data).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func getEvents(t *testing.T, url string) []api.Event {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, resp.StatusCode)
	}
	var events []api.Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		t.Fatal(err)
	}
	return events
}

func TestDiscoveryDocument_Self(t *testing.T) {
	srv := startServer(t, Config{}, nil)
	f, err := discovery.NewHTTPFetcher(discovery.Config{Origin: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	domains, err := f.FetchDomains(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(domains) != 1 || domains[0] != srv.URL {
		t.Errorf("expected self origin, got %v", domains)
	}
}

func TestDiscoveryDocument_ConfiguredPathAndDomains(t *testing.T) {
	cfg := Config{DiscoveryPath: discovery.AlternatePath, Domains: []string{"https://a.example.com", "https://b.example.com"}}
	srv := startServer(t, cfg, nil)
	f, err := discovery.NewHTTPFetcher(discovery.Config{Origin: srv.URL, Path: discovery.AlternatePath})
	if err != nil {
		t.Fatal(err)
	}
	domains, err := f.FetchDomains(context.Background())
	if err != nil || len(domains) != 2 {
		t.Fatalf("unexpected %v %v", domains, err)
	}
}

func TestDiscoveryDocument_Fail(t *testing.T) {
	srv := startServer(t, Config{FailDiscovery: true}, nil)
	f, err := discovery.NewHTTPFetcher(discovery.Config{Origin: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	_, err = f.FetchDomains(context.Background())
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeDiscoveryTransport || appErr.Details["status"] != http.StatusServiceUnavailable {
		t.Errorf("expected DISCOVERY_TRANSPORT with status 503, got %v", err)
	}
}

func TestRoutes_Subscribe(t *testing.T) {
	srv := startServer(t, Config{}, nil)
	groups := api.GroupByType(getEvents(t, srv.URL+"/subscribe/reactivity"))
	if len(groups[api.EventReadView]) != 2 {
		t.Errorf("expected 2 views, got %d", len(groups[api.EventReadView]))
	}
	if len(groups[api.EventReadArtifact]) != 80 {
		t.Errorf("expected 80 artifacts, got %d", len(groups[api.EventReadArtifact]))
	}
	if events := getEvents(t, srv.URL+"/subscribe/unknown"); len(events) != 0 {
		t.Errorf("expected no events for unknown organization, got %d", len(events))
	}
}

func TestRoutes_Artifacts(t *testing.T) {
	data := &Dataset{
		Views: []api.ArtifactView{{ID: "v", Organization: "o"}},
		Artifacts: []api.Artifact{
			{ID: "a1", Updated: 10, Views: []string{"v"}},
			{ID: "a2", Updated: 30, Views: []string{"v"}},
			{ID: "a3", Updated: 20, Views: []string{"v", "w"}},
		},
	}
	srv := startServer(t, Config{}, data)

	events := getEvents(t, srv.URL+"/load/artifacts/v/limit/2/maxage/-1")
	if len(events) != 2 || events[0].ID != "a2" || events[1].ID != "a3" {
		t.Errorf("unexpected newest page %+v", events)
	}
	events = getEvents(t, srv.URL+"/load/artifacts/v/limit/10/maxage/19")
	if len(events) != 1 || events[0].ID != "a1" {
		t.Errorf("unexpected maxage page %+v", events)
	}
	events = getEvents(t, srv.URL+"/load/artifacts/v/limit/10/minage/20")
	if len(events) != 2 {
		t.Errorf("unexpected minage page %+v", events)
	}

	events = getEvents(t, srv.URL+"/load/artifacts/missing/limit/10/maxage/-1")
	if len(events) != 1 || events[0].Event != api.EventError {
		t.Fatalf("expected a single ERROR event, got %+v", events)
	}
	if payload, err := events[0].ErrorPayload(); err != nil || payload.Message == "" {
		t.Errorf("unexpected error payload %+v %v", payload, err)
	}

	resp, err := http.Get(srv.URL + "/load/artifacts/v/limit/ten/maxage/-1")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for a bad limit, got %d", resp.StatusCode)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := startServer(t, Config{}, nil)
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	req.Header.Set(headerRequestID, "req-42")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if got := resp.Header.Get(headerRequestID); got != "req-42" {
		t.Errorf("expected echoed request ID, got %q", got)
	}
}

// The client discovers the mock through its own discovery document and pages
// through a view.
func TestClientAgainstMockBackend(t *testing.T) {
	srv := startServer(t, Config{}, nil)

	fetcher, err := discovery.NewHTTPFetcher(discovery.Config{Origin: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	adapter, err := httpclient.New(httpclient.Config{Name: "api"})
	if err != nil {
		t.Fatal(err)
	}
	client := api.New(discovery.NewResolver(fetcher, discovery.WithLogger(logger.Nop())), adapter, api.WithLogger(logger.Nop()))

	orgs, err := client.Organizations(context.Background())
	if err != nil || len(orgs) != 2 {
		t.Fatalf("unexpected organizations %v %v", orgs, err)
	}
	all, err := client.NewArtifactPager("errors", 7).All(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 40 {
		t.Errorf("expected 40 artifacts in view errors, got %d", len(all))
	}
}

func TestLoadDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.json")
	raw, err := json.Marshal(SampleDataset())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}
	d, err := LoadDataset(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Organizations) != 2 || len(d.Artifacts) != 120 {
		t.Errorf("unexpected dataset sizes %d %d", len(d.Organizations), len(d.Artifacts))
	}
	if _, err := LoadDataset(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestComponent(t *testing.T) {
	c := NewComponent(New(Config{Port: 0}, nil))
	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = c.Stop(context.Background()) }()

	if h := c.Health(context.Background()); h.Status != "healthy" {
		t.Errorf("unexpected health %+v", h)
	}
	routes := c.Routes()
	if len(routes) != 6 {
		t.Fatalf("expected 6 routes, got %d", len(routes))
	}
	for _, r := range routes {
		if r.Handler == "" {
			t.Errorf("empty handler name for %s", r.Path)
		}
	}
}

func TestHandlerName(t *testing.T) {
	tests := map[string]string{
		"github.com/reactivity-io/reactivity-go/devserver.(*Server).subscribe-fm":         "subscribe",
		"github.com/reactivity-io/reactivity-go/devserver.(*Server).loadArtifacts.func1": "loadArtifacts",
	}
	for in, want := range tests {
		if got := handlerName(in); got != want {
			t.Errorf("handlerName(%q) = %q, want %q", in, got, want)
		}
	}
}
