package rpc

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/joao-fontenele/ecom-rpc/internal/telemetry"
)

// Identity requirements an operation may declare.
const (
	IdentityNone  = "none"
	IdentityAdmin = "admin"
	IdentityUser  = "user"
)

// Operation describes one RPC for routing and for the /schema listing.
// Request and Response are zero values of the payload types, used only for
// their shape.
type Operation struct {
	Service  string
	Name     string
	Method   string
	Path     string
	Identity string
	Request  any
	Response any
}

type Middleware func(http.Handler) http.Handler

type Router struct {
	mux    *http.ServeMux
	logger *slog.Logger
	ops    []Operation
	chains map[string][]Middleware
}

func NewRouter(logger *slog.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
		chains: map[string][]Middleware{},
	}
}

// Use adds middleware to operations registered afterwards. scope is either a
// service name or a single operation as "Service.Name".
func (rt *Router) Use(scope string, mw ...Middleware) {
	rt.chains[scope] = append(rt.chains[scope], mw...)
}

func (rt *Router) Handle(op Operation, h http.HandlerFunc) {
	var handler http.Handler = telemetry.WithHTTPRoute(h)
	chain := slices.Concat(rt.chains[op.Service], rt.chains[op.Service+"."+op.Name])
	for i := len(chain) - 1; i >= 0; i-- {
		handler = chain[i](handler)
	}

	if op.Identity == "" {
		op.Identity = IdentityNone
	}
	rt.mux.Handle(op.Method+" "+op.Path, handler)
	rt.ops = append(rt.ops, op)
}

// Mount registers a plain handler that is not listed in the schema.
func (rt *Router) Mount(pattern string, h http.Handler) {
	rt.mux.Handle(pattern, h)
}

func (rt *Router) Operations() []Operation {
	return slices.Clone(rt.ops)
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.mux.ServeHTTP(w, r)
}

type SchemaDocument struct {
	Services []ServiceSchema `json:"services"`
}

type ServiceSchema struct {
	Name       string            `json:"name"`
	Operations []OperationSchema `json:"operations"`
}

// OperationSchema carries JSON Schemas of the request and response bodies.
type OperationSchema struct {
	Name     string             `json:"name"`
	Method   string             `json:"method"`
	Path     string             `json:"path"`
	Identity string             `json:"identity"`
	Request  *jsonschema.Schema `json:"request,omitempty"`
	Response *jsonschema.Schema `json:"response,omitempty"`
}

func (rt *Router) Schema() SchemaDocument {
	var doc SchemaDocument
	index := map[string]int{}
	for _, op := range rt.ops {
		i, ok := index[op.Service]
		if !ok {
			i = len(doc.Services)
			index[op.Service] = i
			doc.Services = append(doc.Services, ServiceSchema{Name: op.Service})
		}
		doc.Services[i].Operations = append(doc.Services[i].Operations, OperationSchema{
			Name:     op.Name,
			Method:   op.Method,
			Path:     op.Path,
			Identity: op.Identity,
			Request:  SchemaOf(op.Request),
			Response: SchemaOf(op.Response),
		})
	}
	return doc
}

// HandleSchema serves the operation listing as JSON, or YAML when the caller
// asks for it through Accept or ?format=yaml.
func (rt *Router) HandleSchema(w http.ResponseWriter, r *http.Request) {
	doc := rt.Schema()

	if r.URL.Query().Get("format") != "yaml" && !strings.Contains(r.Header.Get("Accept"), "yaml") {
		WriteJSON(w, rt.logger, http.StatusOK, doc)
		return
	}

	out, err := toYAML(doc)
	if err != nil {
		WriteError(w, r, rt.logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		rt.logger.Error("failed to write schema", "error", err)
	}
}

// toYAML renders v through its JSON encoding so schema keywords keep their
// names and order.
func toYAML(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	blockStyle(&node)
	return yaml.Marshal(&node)
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
