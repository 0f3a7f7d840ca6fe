// Package discovery finds the Reactivity API domains and hands them out in
// round-robin order.
//
// An HTTPFetcher GETs the discovery document (a JSON array of base URLs,
// served at /domain-api.json by default) from the application origin. A
// Resolver fetches that document lazily on the first NextBaseURL call,
// shares one in-flight fetch between concurrent callers, and caches a
// successful document for its lifetime:
//
//	fetcher, err := discovery.NewHTTPFetcher(cfg)
//	resolver := discovery.NewResolver(fetcher, discovery.WithEndpoint(cfg.Endpoint()))
//
//	base, err := resolver.NextBaseURL(ctx) // doc[0], doc[1], ... doc[0]
//
// A failed fetch is returned to every caller waiting on it and is not
// cached, so the next call fetches again. Nothing retries on its own.
package discovery
