package menu

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Len(t, c.Groups(), 12)
	assert.Equal(t, "1. Dashboard", c.Groups()[0].Title)

	total := 0
	for _, g := range c.Groups() {
		total += len(g.Items)
	}
	assert.Equal(t, total, c.Len())

	seen := map[string]bool{}
	for _, it := range c.Items() {
		assert.False(t, seen[it.Key], "duplicate key %s", it.Key)
		seen[it.Key] = true
		req := it.DefaultRequest()
		assert.NotEmpty(t, req.Endpoint, "item %s has no request", it.Key)
	}

	it, ok := c.Lookup("dashboard.overview")
	require.True(t, ok)
	assert.Equal(t, "GET /api/dashboard/overview", it.APIKey())

	search, ok := c.Lookup("search.global")
	require.True(t, ok)
	assert.Equal(t, "POST", search.DefaultRequest().Method)
	assert.NotNil(t, search.DefaultRequest().Body)

	assets, ok := c.Lookup("asset.detail")
	require.True(t, ok)
	require.Len(t, assets.Actions, 2)
	assert.Equal(t, map[string]any{}, assets.Actions[1].SamplePayload)

	detail, ok := c.Lookup("project.detail")
	require.True(t, ok)
	assert.Nil(t, detail.Actions[1].SamplePayload)

	_, ok = c.Lookup("nope")
	assert.False(t, ok)
}

func TestDefaultRequest(t *testing.T) {
	t.Run("declared request wins", func(t *testing.T) {
		it := Item{
			Request: &Request{Method: "POST", Endpoint: "/api/assets/search"},
			APIs:    []API{{Method: "GET", Endpoint: "/api/other"}},
		}
		assert.Equal(t, "/api/assets/search", it.DefaultRequest().Endpoint)
	})

	t.Run("first api", func(t *testing.T) {
		it := Item{APIs: []API{{Method: "GET", Endpoint: "/api/projects"}, {Method: "POST", Endpoint: "/api/projects"}}}
		assert.Equal(t, Request{Method: "GET", Endpoint: "/api/projects"}, it.DefaultRequest())
	})

	t.Run("nothing declared", func(t *testing.T) {
		assert.Equal(t, Request{Method: "GET"}, Item{}.DefaultRequest())
	})
}

func TestLoad(t *testing.T) {
	t.Run("normalizes methods", func(t *testing.T) {
		c, err := Load(strings.NewReader(`
groups:
  - title: Storage
    items:
      - key: storage.disks
        name: Disks
        request: { method: get, endpoint: /api/disks }
        actions:
          - { label: Scan, method: post, endpoint: /api/disks/scan }
`))
		require.NoError(t, err)
		it, _ := c.Lookup("storage.disks")
		assert.Equal(t, "GET", it.Request.Method)
		assert.Equal(t, "POST", it.Actions[0].Method)
	})

	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"duplicate key", `
groups:
  - title: A
    items:
      - { key: a.one, name: One }
  - title: B
    items:
      - { key: a.one, name: Again }
`, "duplicate menu key"},
		{"missing key", `
groups:
  - title: A
    items:
      - { name: Nameless }
`, "menu key is required"},
		{"bad method", `
groups:
  - title: A
    items:
      - key: a.one
        name: One
        actions:
          - { label: Probe, method: HEAD, endpoint: /x }
`, "unsupported method"},
		{"missing title", `
groups:
  - items: []
`, "title is required"},
		{"unencodable action payload", `
groups:
  - title: A
    items:
      - key: a.one
        name: One
        actions:
          - { label: Tune, method: POST, endpoint: /x, payload: { ratio: .inf } }
`, `action "Tune": payload is not valid JSON`},
		{"unencodable request body", `
groups:
  - title: A
    items:
      - key: a.one
        name: One
        request: { method: POST, endpoint: /x, body: { limit: .nan } }
`, `item "a.one" request: payload is not valid JSON`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.yaml))
			require.Error(t, err)
			var ce *CatalogError
			assert.True(t, errors.As(err, &ce))
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("non-string payload keys", func(t *testing.T) {
		c, err := Load(strings.NewReader(`
groups:
  - title: A
    items:
      - key: a
        name: A
        actions:
          - { label: Act, method: POST, endpoint: /x, payload: { 1: one, nested: { 2: two }, list: [ { 3: three } ] } }
`))
		require.NoError(t, err)
		it, _ := c.Lookup("a")
		data, err := json.Marshal(it.Actions[0].SamplePayload)
		require.NoError(t, err)
		assert.JSONEq(t, `{"1": "one", "nested": {"2": "two"}, "list": [{"3": "three"}]}`, string(data))
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := Load(strings.NewReader("groups:\n  - title: A\n    colour: red\n"))
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Load(strings.NewReader(""))
		assert.Error(t, err)
	})
}

func TestAccessorsReturnCopies(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	groups := c.Groups()
	groups[0].Title = "changed"
	groups[0].Items[0].Name = "changed"
	items := c.Items()
	items[0].Key = "changed"

	assert.NotEqual(t, "changed", c.Groups()[0].Title)
	assert.NotEqual(t, "changed", c.Groups()[0].Items[0].Name)
	assert.Equal(t, "dashboard.overview", c.Items()[0].Key)
	_, ok := c.Lookup("dashboard.overview")
	assert.True(t, ok)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.yaml")
	require.NoError(t, os.WriteFile(path, []byte("groups:\n  - title: A\n    items:\n      - { key: a, name: A }\n"), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
