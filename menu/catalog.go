package menu

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/erikmagkekse/nas-console/engine"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// CatalogError names the entry that failed validation.
type CatalogError struct {
	Where   string
	Message string
}

func (e *CatalogError) Error() string { return fmt.Sprintf("catalog %s: %s", e.Where, e.Message) }

// Catalog is the immutable menu registry. Build it with Load, LoadFile or Default.
type Catalog struct {
	groups []Group
	items  []Item
	byKey  map[string]int
}

type catalogFile struct {
	Groups []Group `yaml:"groups"`
}

// Default parses the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

func Load(r io.Reader) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &CatalogError{Where: "file", Message: "empty catalog"}
		}
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{byKey: make(map[string]int)}
	for gi := range file.Groups {
		g := &file.Groups[gi]
		if g.Title == "" {
			return nil, &CatalogError{Where: fmt.Sprintf("group %d", gi+1), Message: "title is required"}
		}
		for ii := range g.Items {
			it := &g.Items[ii]
			if err := normalizeItem(it); err != nil {
				return nil, err
			}
			if _, dup := c.byKey[it.Key]; dup {
				return nil, &CatalogError{Where: fmt.Sprintf("item %q", it.Key), Message: "duplicate menu key"}
			}
			c.byKey[it.Key] = len(c.items)
			c.items = append(c.items, *it)
		}
	}
	c.groups = file.Groups

	log.Debug().Int("groups", len(c.groups)).Int("items", len(c.items)).Msg("catalog loaded")
	return c, nil
}

func normalizeItem(it *Item) error {
	if it.Key == "" {
		return &CatalogError{Where: fmt.Sprintf("item %q", it.Name), Message: "menu key is required"}
	}
	where := fmt.Sprintf("item %q", it.Key)

	var err error
	if it.Request != nil {
		if it.Request.Method, err = engine.NormalizeMethod(it.Request.Method); err != nil {
			return &CatalogError{Where: where + " request", Message: err.Error()}
		}
		if it.Request.Body, err = jsonPayload(it.Request.Body); err != nil {
			return &CatalogError{Where: where + " request", Message: err.Error()}
		}
	}
	for i := range it.APIs {
		if it.APIs[i].Method, err = engine.NormalizeMethod(it.APIs[i].Method); err != nil {
			return &CatalogError{Where: fmt.Sprintf("%s api %d", where, i+1), Message: err.Error()}
		}
	}
	for i := range it.Actions {
		a := &it.Actions[i]
		if a.Label == "" {
			return &CatalogError{Where: fmt.Sprintf("%s action %d", where, i+1), Message: "label is required"}
		}
		if a.Method, err = engine.NormalizeMethod(a.Method); err != nil {
			return &CatalogError{Where: fmt.Sprintf("%s action %q", where, a.Label), Message: err.Error()}
		}
		if a.SamplePayload, err = jsonPayload(a.SamplePayload); err != nil {
			return &CatalogError{Where: fmt.Sprintf("%s action %q", where, a.Label), Message: err.Error()}
		}
	}
	return nil
}

// jsonPayload rewrites a decoded YAML value so it encodes as JSON. Mapping keys become
// strings; values JSON cannot represent (NaN, infinities) are rejected.
func jsonPayload(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	v = stringKeys(v)
	if _, err := json.Marshal(v); err != nil {
		return nil, fmt.Errorf("payload is not valid JSON: %w", err)
	}
	return v, nil
}

func stringKeys(v any) any {
	switch t := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = stringKeys(val)
		}
		return m
	case map[string]any:
		for k, val := range t {
			t[k] = stringKeys(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = stringKeys(val)
		}
		return t
	}
	return v
}

// Groups returns the menu tree. The group and item slices are copies; the APIs,
// actions and payloads inside each item are shared and must not be modified.
func (c *Catalog) Groups() []Group {
	groups := slices.Clone(c.groups)
	for i := range groups {
		groups[i].Items = slices.Clone(groups[i].Items)
	}
	return groups
}

// Items returns every item in menu order, as a copy.
func (c *Catalog) Items() []Item { return slices.Clone(c.items) }

func (c *Catalog) Len() int { return len(c.items) }

func (c *Catalog) Lookup(key string) (Item, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}
