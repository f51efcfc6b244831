package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/erikmagkekse/nas-console/model"
)

var absoluteURL = regexp.MustCompile(`(?i)^https?://`)

// BuildURL resolves endpoint against base. Absolute endpoints pass through untouched,
// an empty endpoint yields base, and exactly one "/" is inserted when endpoint lacks it.
func BuildURL(base, endpoint string) string {
	if absoluteURL.MatchString(endpoint) {
		return endpoint
	}
	if endpoint == "" {
		return base
	}
	if !strings.HasPrefix(endpoint, "/") {
		return base + "/" + endpoint
	}
	return base + endpoint
}

var methods = map[string]bool{
	model.MethodGet:    true,
	model.MethodPost:   true,
	model.MethodPatch:  true,
	model.MethodPut:    true,
	model.MethodDelete: true,
}

// NormalizeMethod upper-cases m and rejects anything the console cannot send.
func NormalizeMethod(m string) (string, error) {
	up := strings.ToUpper(strings.TrimSpace(m))
	if !methods[up] {
		return "", fmt.Errorf("%w: %q", ErrInvalidMethod, m)
	}
	return up, nil
}

func ValidMethod(m string) bool {
	_, err := NormalizeMethod(m)
	return err == nil
}

// carriesBody reports whether method may attach a JSON body. GET never does.
func carriesBody(method string) bool {
	return method != model.MethodGet
}
