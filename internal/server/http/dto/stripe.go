package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexString accepts a JSON string, number or null.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*s = FlexString(num.String())
	return nil
}

// CreateSessionRequest is the body of POST /api/stripe/create-checkout-session.
type CreateSessionRequest struct {
	OrderID       FlexString `json:"orderId"`
	Quantity      any        `json:"quantity"`
	CustomerEmail FlexString `json:"customerEmail"`
}

// VerifySessionRequest is the body of POST /api/stripe/verify-session.
type VerifySessionRequest struct {
	SessionID FlexString `json:"sessionId"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}
