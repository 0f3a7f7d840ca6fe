package api

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/reactivity-io/reactivity-go/errors"
	"github.com/reactivity-io/reactivity-go/validation"
)

// Route templates.
const (
	RouteOrganizations   = "/load/organizations"
	RouteSubscribe       = "/subscribe/{id}"
	RouteArtifactsMaxAge = "/load/artifacts/{id}/limit/{n}/maxage/{t}"
	RouteArtifactsMinAge = "/load/artifacts/{id}/limit/{n}/minage/{t}"
)

// NoMaxAge as maxAge loads the most recent artifacts.
const NoMaxAge int64 = -1

// Organizations loads the organizations of the current user.
func (c *Client) Organizations(ctx context.Context) ([]Organization, error) {
	events, err := fetch[[]Event](ctx, c, RouteOrganizations, RouteOrganizations)
	if err != nil {
		return nil, err
	}
	return decodeAll(GroupByType(events)[EventReadOrganization], Event.Organization)
}

// Subscribe loads the views of an organization and the artifacts of each
// view, grouped by event type.
func (c *Client) Subscribe(ctx context.Context, organizationID string) (EventGroups, error) {
	if organizationID == "" {
		return nil, errors.InvalidInput("organization_id", "organization ID is required")
	}
	events, err := fetch[[]Event](ctx, c, RouteSubscribe, "/subscribe/"+url.PathEscape(organizationID))
	if err != nil {
		return nil, err
	}
	return GroupByType(events), nil
}

// SubscribeAll subscribes to several organizations in parallel. The first
// failure cancels the remaining subscriptions and is returned.
func (c *Client) SubscribeAll(ctx context.Context, organizationIDs []string) (map[string]EventGroups, error) {
	g, ctx := errgroup.WithContext(ctx)
	if c.concurrency > 0 {
		g.SetLimit(c.concurrency)
	}

	var mu sync.Mutex
	results := make(map[string]EventGroups, len(organizationIDs))
	for _, id := range organizationIDs {
		g.Go(func() error {
			groups, err := c.Subscribe(ctx, id)
			if err != nil {
				return fmt.Errorf("subscribe %s: %w", id, err)
			}
			mu.Lock()
			results[id] = groups
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Artifacts loads up to limit artifacts of a view updated at or before
// maxAge. NoMaxAge loads the most recent ones.
func (c *Client) Artifacts(ctx context.Context, viewID string, limit int, maxAge int64) ([]Event, error) {
	return c.artifacts(ctx, RouteArtifactsMaxAge, "maxage", viewID, limit, maxAge)
}

// ArtifactsSince loads up to limit artifacts of a view updated at or after minAge.
func (c *Client) ArtifactsSince(ctx context.Context, viewID string, limit int, minAge int64) ([]Event, error) {
	return c.artifacts(ctx, RouteArtifactsMinAge, "minage", viewID, limit, minAge)
}

func (c *Client) artifacts(ctx context.Context, route, bound, viewID string, limit int, age int64) ([]Event, error) {
	v := validation.New()
	v.Required("view_id", viewID)
	v.Positive("limit", limit)
	if err := v.Error(); err != nil {
		return nil, err
	}
	path := fmt.Sprintf("/load/artifacts/%s/limit/%d/%s/%d", url.PathEscape(viewID), limit, bound, age)
	return fetch[[]Event](ctx, c, route, path)
}
