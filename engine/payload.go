package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// Payload is either absent (no request body at all) or a JSON value.
// JSON(nil) is a present JSON null and still produces a body.
type Payload struct {
	value   any
	present bool
}

func Absent() Payload { return Payload{} }

func JSON(v any) Payload { return Payload{value: v, present: true} }

func (p Payload) IsAbsent() bool { return !p.present }

// Value returns the JSON value, or nil for an absent payload.
func (p Payload) Value() any { return p.value }

// ParsePayload turns the text of a body editor into a Payload. Blank text means absent;
// anything else must be exactly one JSON document.
func ParsePayload(text string) (Payload, error) {
	if strings.TrimSpace(text) == "" {
		return Absent(), nil
	}
	v, err := decodeJSON([]byte(text))
	if err != nil {
		return Absent(), malformed(err)
	}
	return JSON(v), nil
}

var errTrailingData = errors.New("unexpected data after JSON value")

// decodeJSON keeps numbers as json.Number so large IDs survive a round trip.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errTrailingData
	}
	return v, nil
}
