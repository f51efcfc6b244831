package utils

import "net/http"

// Doer sends a single HTTP request. *http.Client satisfies it; tests swap in MockDoer.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}
