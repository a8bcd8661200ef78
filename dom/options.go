package dom

import (
	"github.com/rs/zerolog"

	"github.com/chrisuehlinger/livedom/html"
	"github.com/chrisuehlinger/livedom/native"
)

type config struct {
	adapter native.Adapter
	logger  zerolog.Logger
	custom  []customProperty
}

type customProperty struct {
	scope Scope
	name  string
	prop  Property
}

func newConfig(opts []Option) *config {
	cfg := &config{
		adapter: html.NewAdapter(),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Option configures a Document.
type Option func(*config)

// WithAdapter sets the native tree adapter. The default is the
// golang.org/x/net/html backed adapter.
func WithAdapter(a native.Adapter) Option {
	return func(c *config) {
		if a != nil {
			c.adapter = a
		}
	}
}

// WithLogger sets the logger for registry and selector events.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithProperty registers a derived property in scope, taking precedence over
// the built-in property of the same name in that scope.
func WithProperty(scope Scope, name string, p Property) Option {
	return func(c *config) {
		c.custom = append(c.custom, customProperty{scope: scope, name: name, prop: p})
	}
}
