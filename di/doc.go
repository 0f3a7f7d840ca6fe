// Package di is an explicitly constructed provider registry. Modules
// register factories under string keys and look them up later without
// holding a direct reference to each other, so construction order and use
// order stay independent.
//
// Provide registers a factory that runs on every RequestProvider call.
// Callers that want a shared instance wrap the factory in Once, or use the
// Lazy, Eager and Singleton registration modes.
//
//	c := di.NewContainer()
//	_ = c.Provide(di.Keys.APIDomain, di.Once(func() (*discovery.Resolver, error) {
//	    return discovery.NewResolver(fetcher), nil
//	}))
//
//	resolver, err := di.Resolve[*discovery.Resolver](c, di.Keys.APIDomain)
package di
