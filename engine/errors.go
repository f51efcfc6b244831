package engine

import (
	"errors"
	"fmt"
	"net/http"
)

// --- Error kinds ---

const (
	KindMalformedPayload = "MALFORMED_PAYLOAD"
	KindTransport        = "TRANSPORT_FAILURE"
	KindServer           = "SERVER_ERROR"
)

// RequestError is the single failure type returned by Execute and ParsePayload.
// Message is what the console shows on the originating slot.
type RequestError struct {
	Kind       string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string { return e.Message }

func (e *RequestError) Unwrap() error { return e.Err }

func malformed(err error) *RequestError {
	return &RequestError{Kind: KindMalformedPayload, Message: fmt.Sprintf("invalid JSON payload: %v", err), Err: err}
}

func transport(err error) *RequestError {
	return &RequestError{Kind: KindTransport, Message: err.Error(), Err: err}
}

func serverError(resp *http.Response, body []byte) *RequestError {
	msg := string(body)
	if msg == "" {
		msg = reasonPhrase(resp)
	}
	return &RequestError{Kind: KindServer, StatusCode: resp.StatusCode, Message: msg}
}

func kindOf(err error) string {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

func IsMalformedPayload(err error) bool { return kindOf(err) == KindMalformedPayload }

func IsTransport(err error) bool { return kindOf(err) == KindTransport }

func IsServerError(err error) bool { return kindOf(err) == KindServer }

// ErrInvalidMethod is returned for methods outside GET/POST/PATCH/PUT/DELETE.
var ErrInvalidMethod = errors.New("unsupported method")
