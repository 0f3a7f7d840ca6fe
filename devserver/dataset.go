package devserver

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/reactivity-io/reactivity-go/api"
)

const eventVersion = "0.1.0"

// Dataset is the content served by the mock backend.
type Dataset struct {
	Organizations []api.Organization `json:"organizations"`
	Views         []api.ArtifactView `json:"views"`
	Artifacts     []api.Artifact     `json:"artifacts"`
}

// LoadDataset reads a JSON dataset from path.
func LoadDataset(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("devserver: read dataset: %w", err)
	}
	var d Dataset
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("devserver: parse dataset %s: %w", path, err)
	}
	return &d, nil
}

// SampleDataset returns two organizations with a few views and 120
// artifacts updated one second apart.
func SampleDataset() *Dataset {
	const base int64 = 1_485_000_000_000
	d := &Dataset{
		Organizations: []api.Organization{
			{ID: "reactivity", Name: "Reactivity", Updated: base, Members: []api.Member{{ID: "admin", Role: "owner"}}},
			{ID: "acme", Name: "Acme", Updated: base, Members: []api.Member{{ID: "admin", Role: "viewer"}}},
		},
		Views: []api.ArtifactView{
			{ID: "errors", Organization: "reactivity", Name: "Errors", Type: "list", Updated: base},
			{ID: "deployments", Organization: "reactivity", Name: "Deployments", Type: "list", Updated: base},
			{ID: "orders", Organization: "acme", Name: "Orders", Type: "list", Updated: base},
		},
	}
	views := []string{"errors", "deployments", "orders"}
	for i := 0; i < 120; i++ {
		view := views[i%len(views)]
		d.Artifacts = append(d.Artifacts, api.Artifact{
			ID:         fmt.Sprintf("%s-%03d", view, i),
			Updated:    base - int64(i)*1000,
			Views:      []string{view},
			Categories: map[string]any{"sequence": i},
		})
	}
	return d
}

func newEvent(t api.EventType, id string, updated int64, data any) api.Event {
	raw, _ := json.Marshal(data)
	return api.Event{Version: eventVersion, ID: id, Event: t, Updated: updated, Data: raw}
}

func (d *Dataset) organizationEvents() []api.Event {
	events := make([]api.Event, 0, len(d.Organizations))
	for _, o := range d.Organizations {
		events = append(events, newEvent(api.EventReadOrganization, o.ID, o.Updated, o))
	}
	return events
}

// subscription returns the views of an organization, each followed by its artifacts.
func (d *Dataset) subscription(organizationID string) []api.Event {
	events := []api.Event{}
	for _, v := range d.Views {
		if v.Organization != organizationID {
			continue
		}
		events = append(events, newEvent(api.EventReadView, v.ID, v.Updated, v))
		limit := -1
		if v.Period != nil && v.Period.Limit != nil {
			limit = *v.Period.Limit
		}
		for _, a := range d.artifactsOf(v.ID, limit, func(int64) bool { return true }) {
			events = append(events, newEvent(api.EventReadArtifact, a.ID, a.Updated, a))
		}
	}
	return events
}

func (d *Dataset) view(id string) (api.ArtifactView, bool) {
	for _, v := range d.Views {
		if v.ID == id {
			return v, true
		}
	}
	return api.ArtifactView{}, false
}

// artifactsOf returns up to limit artifacts of viewID accepted by keep,
// newest first. A negative limit means no limit.
func (d *Dataset) artifactsOf(viewID string, limit int, keep func(updated int64) bool) []api.Artifact {
	var out []api.Artifact
	for _, a := range d.Artifacts {
		if containsView(a.Views, viewID) && keep(a.Updated) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Updated > out[j].Updated })
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func containsView(views []string, id string) bool {
	for _, v := range views {
		if v == id {
			return true
		}
	}
	return false
}
