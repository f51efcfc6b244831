package menu

// Catalog types. Payload and body fields hold decoded JSON-compatible values;
// nil means the descriptor declares no payload at all.

type Group struct {
	Title string `yaml:"title" json:"title"`
	Items []Item `yaml:"items" json:"items"`
}

type Item struct {
	Key         string   `yaml:"key" json:"menuKey"`
	Name        string   `yaml:"name" json:"name"`
	Path        string   `yaml:"path" json:"path"`
	Description string   `yaml:"description" json:"description"`
	Features    []string `yaml:"features,omitempty" json:"features,omitempty"`
	Request     *Request `yaml:"request,omitempty" json:"request,omitempty"`
	APIs        []API    `yaml:"apis,omitempty" json:"apis,omitempty"`
	Actions     []Action `yaml:"actions,omitempty" json:"actions,omitempty"`
}

type Request struct {
	Method   string `yaml:"method" json:"method"`
	Endpoint string `yaml:"endpoint" json:"endpoint"`
	Body     any    `yaml:"body,omitempty" json:"body,omitempty"`
}

type API struct {
	Method      string `yaml:"method" json:"method"`
	Endpoint    string `yaml:"endpoint" json:"endpoint"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

func (a API) String() string { return a.Method + " " + a.Endpoint }

type Action struct {
	Label         string `yaml:"label" json:"label"`
	Method        string `yaml:"method" json:"method"`
	Endpoint      string `yaml:"endpoint" json:"endpoint"`
	SamplePayload any    `yaml:"payload,omitempty" json:"samplePayload,omitempty"`
}

// DefaultRequest is what the console seeds the primary slot with: the declared default
// request, else the first API of the item, else an empty GET.
func (it Item) DefaultRequest() Request {
	if it.Request != nil {
		return *it.Request
	}
	if len(it.APIs) > 0 {
		return Request{Method: it.APIs[0].Method, Endpoint: it.APIs[0].Endpoint}
	}
	return Request{Method: "GET"}
}

// APIKey labels the item's primary call, e.g. "GET /api/dashboard/overview".
func (it Item) APIKey() string {
	r := it.DefaultRequest()
	return API{Method: r.Method, Endpoint: r.Endpoint}.String()
}
