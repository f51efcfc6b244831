package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/erikmagkekse/nas-console/utils"

	"github.com/rs/zerolog/log"
)

// Client executes console requests against the NAS REST backend.
// It is stateless apart from the transport and safe for concurrent use.
type Client struct {
	base string
	http utils.Doer
}

// NewClient builds a client for base. A zero timeout leaves requests unbounded.
func NewClient(base string, timeout time.Duration) *Client {
	return NewClientWithDoer(base, &http.Client{Timeout: timeout})
}

func NewClientWithDoer(base string, doer utils.Doer) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: doer,
	}
}

func (c *Client) Base() string { return c.base }

// Execute performs one request and returns the decoded outcome: structured JSON for JSON
// responses, text otherwise, "" for an empty body. Failures are *RequestError.
func (c *Client) Execute(ctx context.Context, method, endpoint string, body Payload) (any, error) {
	method, err := NormalizeMethod(method)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	out, err := c.execute(ctx, method, endpoint, body)
	requestsTotal.WithLabelValues(method, resultLabel(err)).Inc()
	requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	return out, err
}

func (c *Client) execute(ctx context.Context, method, endpoint string, body Payload) (any, error) {
	url := BuildURL(c.base, endpoint)

	var bodyReader io.Reader
	withBody := carriesBody(method) && !body.IsAbsent()
	if withBody {
		data, err := json.Marshal(body.Value())
		if err != nil {
			return nil, malformed(err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, transport(err)
	}
	if withBody {
		req.Header.Set("Content-Type", "application/json")
	}

	log.Debug().Str("method", method).Str("url", url).Bool("body", withBody).Msg("backend request")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transport(err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transport(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debug().Str("method", method).Str("url", url).Int("status", resp.StatusCode).Msg("backend returned error status")
		return nil, serverError(resp, respBody)
	}

	if len(respBody) == 0 {
		return "", nil
	}
	if !isJSON(resp.Header.Get("Content-Type")) {
		return string(respBody), nil
	}

	v, err := decodeJSON(respBody)
	if err != nil {
		return nil, &RequestError{
			Kind:       KindServer,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("invalid JSON response: %v", err),
			Err:        err,
		}
	}
	return v, nil
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(strings.ToLower(contentType), "application/json")
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// reasonPhrase prefers the server's status line over Go's canonical text.
func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason != "" {
		return reason
	}
	return http.StatusText(resp.StatusCode)
}
