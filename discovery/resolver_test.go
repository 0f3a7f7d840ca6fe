package discovery

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/reactivity-io/reactivity-go/errors"
	"github.com/reactivity-io/reactivity-go/logger"
)

func newTestResolver(f Fetcher) *Resolver {
	return NewResolver(f, WithLogger(logger.Nop()), WithMetrics(nil))
}

func nextN(t *testing.T, r *Resolver, n int) []string {
	t.Helper()
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		url, err := r.NextBaseURL(context.Background())
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		out = append(out, url)
	}
	return out
}

func TestResolver_RoundRobin(t *testing.T) {
	r := newTestResolver(StaticFetcher{"a", "b", "c"})
	got := nextN(t, r, 4)
	want := []string{"a", "b", "c", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestResolver_SingleDomain(t *testing.T) {
	r := newTestResolver(StaticFetcher{"only"})
	for _, url := range nextN(t, r, 3) {
		if url != "only" {
			t.Fatalf("expected only, got %s", url)
		}
	}
}

func TestResolver_Periodicity(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		domains := rapid.SliceOfN(rapid.StringMatching(`https://[a-z]{1,8}\.example\.com`), 1, 12).Draw(rt, "domains")
		rounds := rapid.IntRange(1, 4).Draw(rt, "rounds")

		r := newTestResolver(StaticFetcher(domains))
		for i := 0; i < rounds*len(domains); i++ {
			url, err := r.NextBaseURL(context.Background())
			if err != nil {
				rt.Fatalf("call %d: %v", i, err)
			}
			if want := domains[i%len(domains)]; url != want {
				rt.Fatalf("call %d: got %s, want %s", i, url, want)
			}
		}
		r.mu.Lock()
		cursor := r.cursor
		r.mu.Unlock()
		if cursor < 0 || cursor > len(domains) {
			rt.Fatalf("cursor %d out of [0, %d]", cursor, len(domains))
		}
	})
}

func TestResolver_EmptyDocument(t *testing.T) {
	var calls atomic.Int32
	r := newTestResolver(FetcherFunc(func(context.Context) ([]string, error) {
		calls.Add(1)
		return []string{}, nil
	}))

	for i := 0; i < 2; i++ {
		_, err := r.NextBaseURL(context.Background())
		if !errors.HasCode(err, errors.ErrCodeEmptyDomainList) {
			t.Fatalf("expected EMPTY_DOMAIN_LIST, got %v", err)
		}
	}
	if err := r.Warm(context.Background()); !errors.HasCode(err, errors.ErrCodeEmptyDomainList) {
		t.Errorf("expected Warm to report EMPTY_DOMAIN_LIST, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("an empty document is still cached, expected 1 fetch, got %d", calls.Load())
	}
}

func TestResolver_ConcurrentCallersShareOneFetch(t *testing.T) {
	var fetches atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		<-release
		_, _ = w.Write([]byte(`["https://a.example.com","https://b.example.com"]`))
	}))
	defer srv.Close()

	f, err := NewHTTPFetcher(Config{Origin: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	r := NewResolver(f, WithLogger(logger.Nop()))

	const callers = 20
	results := make(chan string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			url, err := r.NextBaseURL(context.Background())
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results <- url
		}()
	}

	deadline := time.Now().Add(5 * time.Second)
	for fetches.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	close(release)
	wg.Wait()
	close(results)

	if fetches.Load() != 1 {
		t.Errorf("expected exactly 1 discovery request, got %d", fetches.Load())
	}
	counts := map[string]int{}
	for url := range results {
		counts[url]++
	}
	if counts["https://a.example.com"] != callers/2 || counts["https://b.example.com"] != callers/2 {
		t.Errorf("expected an even split, got %v", counts)
	}
}

func TestResolver_FailureIsSharedAndNotCached(t *testing.T) {
	var calls atomic.Int32
	boom := errors.DiscoveryTransport("https://app.example.com/domain-api.json", stderrors.New("connection refused"))
	r := newTestResolver(FetcherFunc(func(context.Context) ([]string, error) {
		if calls.Add(1) == 1 {
			return nil, boom
		}
		return []string{"https://a.example.com"}, nil
	}))

	_, err := r.NextBaseURL(context.Background())
	if !errors.HasCode(err, errors.ErrCodeDiscoveryTransport) {
		t.Fatalf("expected DISCOVERY_TRANSPORT, got %v", err)
	}
	if r.Loaded() || r.LastError() == nil {
		t.Error("failed fetch must not be cached")
	}

	url, err := r.NextBaseURL(context.Background())
	if err != nil || url != "https://a.example.com" {
		t.Fatalf("expected refetch to succeed, got %q %v", url, err)
	}
	if !r.Loaded() || r.LastError() != nil {
		t.Error("expected cached document after success")
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 fetches, got %d", calls.Load())
	}
}

func TestResolver_CallerCancellation(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	r := newTestResolver(FetcherFunc(func(ctx context.Context) ([]string, error) {
		calls.Add(1)
		close(entered)
		<-release
		return []string{"https://a.example.com"}, ctx.Err()
	}))

	patient := make(chan error, 1)
	go func() {
		_, err := r.NextBaseURL(context.Background())
		patient <- err
	}()
	<-entered

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.NextBaseURL(ctx); !stderrors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	close(release)
	if err := <-patient; err != nil {
		t.Errorf("other caller must not see the cancellation, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 fetch, got %d", calls.Load())
	}
}

func TestResolver_DomainsReturnsCopy(t *testing.T) {
	r := newTestResolver(StaticFetcher{"a", "b"})
	doc, err := r.Domains(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	doc[0] = "mutated"
	if got := nextN(t, r, 1)[0]; got != "a" {
		t.Errorf("resolver document was mutated through Domains, got %s", got)
	}
}

func TestResolver_Endpoint(t *testing.T) {
	f := &HTTPFetcher{endpoint: "https://app.example.com/domain-api.json"}
	if got := NewResolver(f).Endpoint(); got != f.endpoint {
		t.Errorf("expected endpoint from fetcher, got %q", got)
	}
	if got := NewResolver(StaticFetcher{}, WithEndpoint("static")).Endpoint(); got != "static" {
		t.Errorf("expected explicit endpoint, got %q", got)
	}
}
