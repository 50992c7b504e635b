// Package testjson parses the line-delimited JSON events emitted by the
// libtest runner (cargo test -- -Z unstable-options --format json).
package testjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Kind is the value of an event's "type" discriminator.
type Kind string

const (
	KindSuite Kind = "suite"
	KindTest  Kind = "test"
)

// Lifecycle markers carried in the "event" field.
const (
	StatusStarted = "started"
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusIgnored = "ignored"
)

// Event is one decoded runner event: either a *SuiteEvent or a *TestEvent.
// Events are never modified after decoding.
type Event interface {
	Kind() Kind
	isEvent()
}

// SuiteEvent summarizes a whole test run.
type SuiteEvent struct {
	Event       string   `json:"event"`
	TestCount   *uint32  `json:"test_count,omitempty"`
	Passed      *uint32  `json:"passed,omitempty"`
	Failed      *uint32  `json:"failed,omitempty"`
	Ignored     *uint32  `json:"ignored,omitempty"`
	Measured    *uint32  `json:"measured,omitempty"`
	FilteredOut *uint32  `json:"filtered_out,omitempty"`
	ExecTime    *float64 `json:"exec_time,omitempty"`
}

// TestEvent reports the state of a single test.
type TestEvent struct {
	Event    string   `json:"event"`
	Name     string   `json:"name"`
	Stdout   *string  `json:"stdout,omitempty"`
	ExecTime *float64 `json:"exec_time,omitempty"`
}

func (*SuiteEvent) Kind() Kind { return KindSuite }
func (*SuiteEvent) isEvent()   {}
func (*TestEvent) Kind() Kind  { return KindTest }
func (*TestEvent) isEvent()    {}

// WithStdout returns a copy of e with its captured output replaced.
func (e *TestEvent) WithStdout(stdout string) *TestEvent {
	cp := *e
	cp.Stdout = &stdout
	return &cp
}

// MarshalJSON writes the event with its "type" discriminator.
func (e *SuiteEvent) MarshalJSON() ([]byte, error) {
	type plain SuiteEvent
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*plain
	}{KindSuite, (*plain)(e)})
}

// MarshalJSON writes the event with its "type" discriminator.
func (e *TestEvent) MarshalJSON() ([]byte, error) {
	type plain TestEvent
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*plain
	}{KindTest, (*plain)(e)})
}

var (
	// ErrNotObject is returned when a line is valid JSON but not an object.
	ErrNotObject = errors.New("expected a JSON object")
	// ErrMissingType is returned when the "type" discriminator is absent.
	ErrMissingType = errors.New("missing field `type`")
)

// Decode strictly decodes one line into an Event. Field names are matched
// exactly; unknown fields, missing required fields, null required fields and
// unknown "type" values are all errors.
func Decode(line []byte) (Event, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(line, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, ErrNotObject
	}
	if err := checkDuplicateKeys(line); err != nil {
		return nil, err
	}
	rawKind, ok := fields["type"]
	if !ok {
		return nil, ErrMissingType
	}
	var kind Kind
	if err := json.Unmarshal(rawKind, &kind); err != nil {
		return nil, fmt.Errorf("field `type`: %w", err)
	}

	switch kind {
	case KindSuite:
		e := &SuiteEvent{}
		err := decodeFields(fields, map[string]any{
			"event":        &e.Event,
			"test_count":   &e.TestCount,
			"passed":       &e.Passed,
			"failed":       &e.Failed,
			"ignored":      &e.Ignored,
			"measured":     &e.Measured,
			"filtered_out": &e.FilteredOut,
			"exec_time":    &e.ExecTime,
		}, "event")
		if err != nil {
			return nil, err
		}
		return e, nil
	case KindTest:
		e := &TestEvent{}
		err := decodeFields(fields, map[string]any{
			"event":     &e.Event,
			"name":      &e.Name,
			"stdout":    &e.Stdout,
			"exec_time": &e.ExecTime,
		}, "event", "name")
		if err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown variant %q, expected %q or %q", kind, KindSuite, KindTest)
	}
}

// decodeFields unmarshals each field into its target. Keys are visited in
// sorted order so the reported error is stable.
func decodeFields(fields map[string]json.RawMessage, targets map[string]any, required ...string) error {
	for _, name := range required {
		raw, ok := fields[name]
		if !ok {
			return fmt.Errorf("missing field `%s`", name)
		}
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return fmt.Errorf("field `%s`: null is not allowed", name)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		if name == "type" {
			continue
		}
		target, ok := targets[name]
		if !ok {
			return fmt.Errorf("unknown field `%s`", name)
		}
		if err := json.Unmarshal(fields[name], target); err != nil {
			return fmt.Errorf("field `%s`: %w", name, err)
		}
	}
	return nil
}

// checkDuplicateKeys reports the first top-level key that appears twice.
// Unmarshal into a map keeps only the last value, which would let a second
// "event" override the first. line must already be a valid JSON object.
func checkDuplicateKeys(line []byte) error {
	dec := json.NewDecoder(bytes.NewReader(line))
	if _, err := dec.Token(); err != nil { // {
		return err
	}
	seen := make(map[string]struct{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate field `%s`", key)
		}
		seen[key] = struct{}{}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return err
		}
	}
	return nil
}
