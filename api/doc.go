// Package api is the client for the Reactivity backend event endpoints.
//
// Every request asks a discovery.BaseURLResolver for the next API domain, so
// consecutive calls spread over the discovered domains in round-robin order:
//
//	client := api.New(resolver, adapter)
//	orgs, err := client.Organizations(ctx)
//	groups, err := client.Subscribe(ctx, orgs[0].ID)
//	views := groups[api.EventReadView]
//
// Failed requests are returned to the caller and also reported to the
// client's ErrorHandler, which logs them by default.
package api
