package api

import (
	"encoding/json"
	"fmt"

	"github.com/reactivity-io/reactivity-go/errors"
)

// EventType is the category of a backend event.
type EventType string

const (
	EventReadArtifact     EventType = "READ_ARTIFACT"
	EventReadView         EventType = "READ_VIEW"
	EventReadOrganization EventType = "READ_ORGANIZATION"
	EventError            EventType = "ERROR"
)

// Event is one record of a backend event stream. Data holds the payload,
// whose shape depends on Event.
type Event struct {
	Version string          `json:"version"`
	ID      string          `json:"id"`
	Event   EventType       `json:"event"`
	Updated int64           `json:"updated"`
	Data    json.RawMessage `json:"data"`
}

// Version identifies the platform version that produced an entity.
type Version struct {
	Semver   string `json:"semver"`
	Snapshot bool   `json:"snapshot"`
	Number   int    `json:"number"`
}

// Artifact is the payload of a READ_ARTIFACT event.
type Artifact struct {
	ID         string         `json:"id"`
	Version    *Version       `json:"version,omitempty"`
	Updated    int64          `json:"updated,omitempty"`
	Views      []string       `json:"views"`
	Categories map[string]any `json:"categories"`
}

// Period selects the artifacts of a view. Nil bounds are open.
type Period struct {
	From     *int64 `json:"from,omitempty"`
	To       *int64 `json:"to,omitempty"`
	Limit    *int   `json:"limit,omitempty"`
	Category string `json:"category,omitempty"`
}

// ArtifactView is the payload of a READ_VIEW event.
type ArtifactView struct {
	ID           string   `json:"id"`
	Version      *Version `json:"version,omitempty"`
	Updated      int64    `json:"updated,omitempty"`
	Organization string   `json:"organization"`
	Name         string   `json:"name"`
	Period       *Period  `json:"period,omitempty"`
	Type         string   `json:"type"`
}

// Member is a user's membership in an organization.
type Member struct {
	ID   string `json:"id"`
	Role string `json:"role,omitempty"`
}

// Organization is the payload of a READ_ORGANIZATION event.
type Organization struct {
	ID      string   `json:"id"`
	Version *Version `json:"version,omitempty"`
	Updated int64    `json:"updated,omitempty"`
	Name    string   `json:"name"`
	Members []Member `json:"members,omitempty"`
}

// ErrorPayload is the payload of an ERROR event.
type ErrorPayload struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// DecodeData decodes the payload of e into T.
func DecodeData[T any](e Event) (T, error) {
	var v T
	if len(e.Data) == 0 {
		return v, errors.InvalidPayload(fmt.Errorf("event %s has no data", e.ID))
	}
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return v, errors.InvalidPayload(fmt.Errorf("event %s: %w", e.ID, err))
	}
	return v, nil
}

// Artifact decodes a READ_ARTIFACT payload.
func (e Event) Artifact() (Artifact, error) {
	if err := e.expect(EventReadArtifact); err != nil {
		return Artifact{}, err
	}
	return DecodeData[Artifact](e)
}

// View decodes a READ_VIEW payload.
func (e Event) View() (ArtifactView, error) {
	if err := e.expect(EventReadView); err != nil {
		return ArtifactView{}, err
	}
	return DecodeData[ArtifactView](e)
}

// Organization decodes a READ_ORGANIZATION payload.
func (e Event) Organization() (Organization, error) {
	if err := e.expect(EventReadOrganization); err != nil {
		return Organization{}, err
	}
	return DecodeData[Organization](e)
}

// ErrorPayload decodes an ERROR payload.
func (e Event) ErrorPayload() (ErrorPayload, error) {
	if err := e.expect(EventError); err != nil {
		return ErrorPayload{}, err
	}
	return DecodeData[ErrorPayload](e)
}

func (e Event) expect(t EventType) error {
	if e.Event != t {
		return errors.InvalidInput("event", fmt.Sprintf("event %s is %s, not %s", e.ID, e.Event, t))
	}
	return nil
}

// EventGroups indexes events by category, preserving their order.
type EventGroups map[EventType][]Event

// GroupByType groups events by their Event field.
func GroupByType(events []Event) EventGroups {
	groups := make(EventGroups)
	for _, e := range events {
		groups[e.Event] = append(groups[e.Event], e)
	}
	return groups
}

// Views decodes every READ_VIEW event in the group.
func (g EventGroups) Views() ([]ArtifactView, error) {
	return decodeAll(g[EventReadView], Event.View)
}

// Artifacts decodes every READ_ARTIFACT event in the group.
func (g EventGroups) Artifacts() ([]Artifact, error) {
	return decodeAll(g[EventReadArtifact], Event.Artifact)
}

func decodeAll[T any](events []Event, decode func(Event) (T, error)) ([]T, error) {
	out := make([]T, 0, len(events))
	for _, e := range events {
		v, err := decode(e)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
