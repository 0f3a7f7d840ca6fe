package api

import "context"

// ArtifactPager walks the artifacts of a view from newest to oldest.
//
// The first page is loaded with NoMaxAge. After a non-empty page the next
// maxage is the last artifact's updated time minus one, so the boundary
// artifact is not returned twice. An empty page ends the iteration.
type ArtifactPager struct {
	client *Client
	viewID string
	limit  int
	maxAge int64
	done   bool
}

// NewArtifactPager creates a pager over viewID. A limit of 0 uses the
// client's page size.
func (c *Client) NewArtifactPager(viewID string, limit int) *ArtifactPager {
	if limit <= 0 {
		limit = c.pageSize
	}
	return &ArtifactPager{client: c, viewID: viewID, limit: limit, maxAge: NoMaxAge}
}

// Next loads the next page. It returns nil and no error once the view is
// exhausted. A failed page does not advance the cursor.
func (p *ArtifactPager) Next(ctx context.Context) ([]Event, error) {
	if p.done {
		return nil, nil
	}
	page, err := p.client.Artifacts(ctx, p.viewID, p.limit, p.maxAge)
	if err != nil {
		return nil, err
	}
	if len(page) == 0 {
		p.done = true
		return nil, nil
	}
	p.maxAge = page[len(page)-1].Updated - 1
	if p.maxAge < 0 {
		p.done = true
	}
	return page, nil
}

// Done reports whether the last page has been reached.
func (p *ArtifactPager) Done() bool {
	return p.done
}

// MaxAge returns the maxage bound of the next page.
func (p *ArtifactPager) MaxAge() int64 {
	return p.maxAge
}

// All loads every remaining page.
func (p *ArtifactPager) All(ctx context.Context) ([]Event, error) {
	var all []Event
	for !p.done {
		page, err := p.Next(ctx)
		if err != nil {
			return all, err
		}
		all = append(all, page...)
	}
	return all, nil
}
