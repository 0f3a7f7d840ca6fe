package api

import (
	"encoding/json"
	"testing"

	"github.com/reactivity-io/reactivity-go/errors"
)

const subscribeFixture = `[
  {"version":"0.1.0","id":"v1","event":"READ_VIEW","updated":1485000000,
   "data":{"id":"v1","organization":"o1","name":"Errors","type":"list","period":{"to":1485000000,"limit":50,"category":"log"}}},
  {"version":"0.1.0","id":"a1","event":"READ_ARTIFACT","updated":1484999999,
   "data":{"id":"a1","views":["v1"],"categories":{"log":{"level":"error"}},"version":{"semver":"0.1.0","snapshot":true,"number":10}}},
  {"version":"0.1.0","id":"e1","event":"ERROR","updated":1485000001,
   "data":{"id":"e1","message":"The service has timed out."}}
]`

func TestEvents_DecodeFixture(t *testing.T) {
	var events []Event
	if err := json.Unmarshal([]byte(subscribeFixture), &events); err != nil {
		t.Fatal(err)
	}
	groups := GroupByType(events)

	view, err := groups[EventReadView][0].View()
	if err != nil {
		t.Fatal(err)
	}
	if view.Period == nil || view.Period.From != nil || *view.Period.To != 1485000000 || *view.Period.Limit != 50 {
		t.Errorf("unexpected period %+v", view.Period)
	}

	artifact, err := groups[EventReadArtifact][0].Artifact()
	if err != nil {
		t.Fatal(err)
	}
	if artifact.Version == nil || !artifact.Version.Snapshot || artifact.Categories["log"] == nil {
		t.Errorf("unexpected artifact %+v", artifact)
	}

	payload, err := groups[EventError][0].ErrorPayload()
	if err != nil || payload.Message != "The service has timed out." {
		t.Errorf("unexpected error payload %+v %v", payload, err)
	}
}

func TestEvents_WrongType(t *testing.T) {
	e := Event{ID: "a1", Event: EventReadArtifact, Data: json.RawMessage(`{}`)}
	if _, err := e.View(); !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestDecodeData_Invalid(t *testing.T) {
	cases := []Event{
		{ID: "x", Event: EventReadOrganization},
		{ID: "x", Event: EventReadOrganization, Data: json.RawMessage(`"text"`)},
	}
	for _, e := range cases {
		if _, err := e.Organization(); !errors.HasCode(err, errors.ErrCodeInvalidPayload) {
			t.Errorf("expected INVALID_PAYLOAD for %s, got %v", e.Data, err)
		}
	}
}
