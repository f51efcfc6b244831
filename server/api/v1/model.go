package v1

import (
	"github.com/erikmagkekse/nas-console/console"
	"github.com/erikmagkekse/nas-console/menu"
)

// request models

type SelectRequest struct {
	Key string `json:"key"`
}

type DraftRequest struct {
	Method   *string `json:"method,omitempty"`
	Endpoint *string `json:"endpoint,omitempty"`
	Body     *string `json:"body,omitempty"`
}

func (r DraftRequest) empty() bool {
	return r.Method == nil && r.Endpoint == nil && r.Body == nil
}

type ActionRequest struct {
	Body *string `json:"body,omitempty"`
}

// response models

type MenuResponse struct {
	Groups []menu.Group `json:"groups"`
	Total  int          `json:"total"`
}

type RunResponse struct {
	Outcome console.Outcome `json:"outcome"`
	View    console.View    `json:"view"`
}

type HealthResponse struct {
	Status        string            `json:"status"`
	Version       string            `json:"version"`
	Commit        string            `json:"commit"`
	UptimeSeconds int               `json:"uptime_seconds"`
	Selected      string            `json:"selected,omitempty"`
	Running       int               `json:"running"`
	Features      map[string]string `json:"features"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
