package utils

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// MockDoer records requests and returns preconfigured responses.
// Set DoFn for dynamic per-call responses, otherwise Status/Body/Header/Err are used.
// Request bodies are drained into Bodies so tests can inspect them after the call.
type MockDoer struct {
	mu     sync.Mutex
	Calls  []*http.Request
	Bodies []string
	Status int
	Body   string
	Header http.Header
	Err    error
	DoFn   func(req *http.Request) (*http.Response, error)
}

func (m *MockDoer) Do(req *http.Request) (*http.Response, error) {
	var body string
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		_ = req.Body.Close()
		body = string(data)
	}

	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	m.Bodies = append(m.Bodies, body)
	m.mu.Unlock()

	if m.DoFn != nil {
		return m.DoFn(req)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return NewResponse(m.Status, m.Header, m.Body), nil
}

// CallCount is safe to use while requests are still in flight.
func (m *MockDoer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// NewResponse builds a minimal *http.Response. Status 0 means 200.
func NewResponse(status int, header http.Header, body string) *http.Response {
	if status == 0 {
		status = http.StatusOK
	}
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		StatusCode:    status,
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Header:        header,
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}
