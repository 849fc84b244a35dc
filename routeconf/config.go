// Package routeconf loads route registrations from a YAML routes file and
// applies them to a router.Registry.
//
// A routes file lists routes in matching order:
//
//	multi_match: false
//	not_found: Errors::NotFound
//	method_not_allowed: Errors::MethodNotAllowed
//	routes:
//	  - path: /pages
//	    handler: 'app\pages\PageLoader::GetPages'
//	  - path: /pages/{id}
//	    handler: 'app\pages\PageLoader::GetPageByID'
//	    methods: [GET, HEAD]
//
// Handlers are router.Named references; their targets must be registered
// with the registry's Dispatcher before the first request is served.
package routeconf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vitalvas/simplerouter/router"
	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyPath is returned when a route entry has no path.
	ErrEmptyPath = errors.New("routeconf: route path must not be empty")

	// ErrEmptyHandler is returned when a route entry has no handler.
	ErrEmptyHandler = errors.New("routeconf: route handler must not be empty")
)

// Config is the content of a routes file.
type Config struct {
	// MultiMatch dispatches every matching route instead of the first.
	MultiMatch bool `yaml:"multi_match,omitempty"`

	// NotFound is the handler reference called when no route path matches.
	NotFound string `yaml:"not_found,omitempty"`

	// MethodNotAllowed is the handler reference called when a route path
	// matches but none of those routes accepts the request method.
	MethodNotAllowed string `yaml:"method_not_allowed,omitempty"`

	// Routes in matching order.
	Routes []Route `yaml:"routes"`
}

// Route is a single route entry.
type Route struct {
	Path    string  `yaml:"path"`
	Handler string  `yaml:"handler"`
	Methods Methods `yaml:"methods,omitempty"`
}

// Methods is a list of HTTP methods. In YAML it is written either as a
// single scalar ("GET") or as a sequence ([GET, POST]).
type Methods []string

// UnmarshalYAML decodes methods from either a YAML scalar or sequence.
func (m *Methods) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*m = Methods{node.Value}
		return nil
	case yaml.SequenceNode:
		var arr []string
		if err := node.Decode(&arr); err != nil {
			return err
		}
		*m = arr
		return nil
	default:
		return fmt.Errorf("routeconf: unsupported YAML node kind %d for methods (line %d)", node.Kind, node.Line)
	}
}

// MarshalYAML encodes a single method as a scalar and several as a sequence.
func (m Methods) MarshalYAML() (any, error) {
	if len(m) == 1 {
		return m[0], nil
	}
	return []string(m), nil
}

// Load decodes a routes file from r and validates it.
func Load(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("routeconf: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFile reads and decodes the routes file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("routeconf: %w", err)
	}

	return Load(bytes.NewReader(data))
}

// Validate reports the first invalid route entry.
func (c *Config) Validate() error {
	for i, r := range c.Routes {
		if strings.TrimSpace(r.Path) == "" {
			return fmt.Errorf("route %d: %w", i, ErrEmptyPath)
		}
		if strings.TrimSpace(r.Handler) == "" {
			return fmt.Errorf("route %d (%s): %w", i, r.Path, ErrEmptyHandler)
		}
	}

	return nil
}

// Apply registers the configured routes and fallbacks on reg, appending to
// any routes already registered, and sets its multi-match mode.
func (c *Config) Apply(reg *router.Registry) {
	for _, r := range c.Routes {
		reg.Add(r.Path, router.Named(r.Handler), r.Methods...)
	}

	if c.NotFound != "" {
		reg.SetNoMatchHandler(router.Named(c.NotFound))
	}
	if c.MethodNotAllowed != "" {
		reg.SetMethodNotAllowedHandler(router.Named(c.MethodNotAllowed))
	}

	reg.MultiMatch(c.MultiMatch)
}

// FromRegistry describes the routes and fallbacks registered on reg.
// Func handlers have no name and are written as "<func>".
func FromRegistry(reg *router.Registry) *Config {
	cfg := &Config{
		MultiMatch:       reg.MultiMatchEnabled(),
		NotFound:         router.String(reg.NoMatchHandler()),
		MethodNotAllowed: router.String(reg.MethodNotAllowedHandler()),
	}

	for _, r := range reg.Routes() {
		cfg.Routes = append(cfg.Routes, Route{
			Path:    r.Expression(),
			Handler: router.String(r.GetHandler()),
			Methods: Methods(r.Methods()),
		})
	}

	return cfg
}

// Dump encodes the routes registered on reg as a routes file.
func Dump(reg *router.Registry) ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(FromRegistry(reg)); err != nil {
		return nil, fmt.Errorf("routeconf: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("routeconf: encode: %w", err)
	}

	return buf.Bytes(), nil
}
