package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	domainErrors "github.com/polkiloo/chatpack/internal/domain/errors"
)

// BodyKind tells how a request body was supplied.
type BodyKind int

const (
	// BodyAbsent is an empty or null body, decoded as an empty object.
	BodyAbsent BodyKind = iota
	// BodyStructured is a JSON object.
	BodyStructured
	// BodyRaw is a JSON string whose content is itself a JSON object.
	BodyRaw
)

func (k BodyKind) String() string {
	switch k {
	case BodyStructured:
		return "structured"
	case BodyRaw:
		return "raw"
	default:
		return "absent"
	}
}

// Body is a request payload resolved at the handler boundary.
type Body struct {
	Kind    BodyKind
	Payload json.RawMessage
}

// ErrMalformedBody is returned for payloads that are neither absent, an object
// nor a string holding an object.
var ErrMalformedBody = &domainErrors.Fault{
	Kind: domainErrors.ErrValidation,
	Msg:  "malformed request body",
	Err:  domainErrors.ErrMalformedBody,
}

// ParseBody classifies raw request bytes.
func ParseBody(raw []byte) (Body, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Body{Kind: BodyAbsent, Payload: json.RawMessage("{}")}, nil
	}

	switch trimmed[0] {
	case '{':
		if !json.Valid(trimmed) {
			return Body{}, ErrMalformedBody
		}
		return Body{Kind: BodyStructured, Payload: json.RawMessage(trimmed)}, nil
	case '"':
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return Body{}, ErrMalformedBody
		}
		inner = string(bytes.TrimSpace([]byte(inner)))
		if len(inner) == 0 || inner[0] != '{' || !json.Valid([]byte(inner)) {
			return Body{}, ErrMalformedBody
		}
		return Body{Kind: BodyRaw, Payload: json.RawMessage(inner)}, nil
	default:
		return Body{}, ErrMalformedBody
	}
}

// Decode unmarshals the payload into v. Type mismatches are reported as a
// malformed body.
func (b Body) Decode(v any) error {
	payload := b.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return &domainErrors.Fault{
			Kind: domainErrors.ErrValidation,
			Msg:  ErrMalformedBody.Msg,
			Err:  fmt.Errorf("%w: %w", domainErrors.ErrMalformedBody, err),
		}
	}
	return nil
}
