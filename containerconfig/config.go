package containerconfig

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// DefaultURIEncoding is the charset used to decode request paths when none is
// configured.
const DefaultURIEncoding = "UTF-8"

// ContainerConfig holds the settings that control how a gateway request is
// translated before it reaches the http handler. A ContainerConfig is built
// once through New or Default and is read-only afterwards, so a single value
// can be shared by any number of concurrent invocations.
//
// A nil *ContainerConfig reads as the default configuration.
type ContainerConfig struct {
	serviceBasePath             string
	stripBasePath               bool
	uriEncoding                 string
	consolidateSetCookieHeaders bool
	useStageAsServletContext    bool
}

// Option mutates a ContainerConfig while it is being built by New.
type Option func(*ContainerConfig) error

// Default returns a ContainerConfig with every option at its default value.
func Default() *ContainerConfig {
	return &ContainerConfig{
		stripBasePath:               false,
		uriEncoding:                 DefaultURIEncoding,
		consolidateSetCookieHeaders: true,
		useStageAsServletContext:    false,
	}
}

// New builds a ContainerConfig from the defaults and the given options. All
// values are normalized here; an *InvalidConfigurationError is returned for a
// value that cannot be.
func New(opts ...Option) (*ContainerConfig, error) {
	config := Default()

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// WithServiceBasePath sets the base path mapping that may be stripped from
// incoming request paths. The value is normalized with NormalizeBasePath.
func WithServiceBasePath(basePath string) Option {
	return func(config *ContainerConfig) error {
		config.serviceBasePath = NormalizeBasePath(basePath)
		return nil
	}
}

// WithStripBasePath sets whether the service base path is removed from the
// request path before routing.
func WithStripBasePath(strip bool) Option {
	return func(config *ContainerConfig) error {
		config.stripBasePath = strip
		return nil
	}
}

// WithURIEncoding sets the charset used to decode request paths. The name must
// be one known to the WHATWG encoding index, e.g. "UTF-8" or "ISO-8859-1".
// An empty name selects DefaultURIEncoding.
func WithURIEncoding(charset string) Option {
	return func(config *ContainerConfig) error {
		name := strings.TrimSpace(charset)
		if name == "" {
			name = DefaultURIEncoding
		}

		if _, err := htmlindex.Get(name); err != nil {
			return &InvalidConfigurationError{
				Field:  "uri_encoding",
				Value:  charset,
				Reason: "unknown charset",
			}
		}

		config.uriEncoding = name
		return nil
	}
}

// WithConsolidateSetCookieHeaders sets whether multiple Set-Cookie response
// headers are folded into a single comma separated header. When false only
// the first Set-Cookie header is kept in the single value header map.
func WithConsolidateSetCookieHeaders(consolidate bool) Option {
	return func(config *ContainerConfig) error {
		config.consolidateSetCookieHeaders = consolidate
		return nil
	}
}

// WithUseStageAsServletContext sets whether the gateway stage name is reported
// as the root of the context path.
func WithUseStageAsServletContext(useStage bool) Option {
	return func(config *ContainerConfig) error {
		config.useStageAsServletContext = useStage
		return nil
	}
}

// ServiceBasePath returns the normalized base path, or "" when none is set.
func (config *ContainerConfig) ServiceBasePath() string {
	if config == nil {
		return ""
	}
	return config.serviceBasePath
}

// IsStripBasePath returns true if the base path is removed before routing.
func (config *ContainerConfig) IsStripBasePath() bool {
	if config == nil {
		return false
	}
	return config.stripBasePath
}

// URIEncoding returns the charset name used to decode request paths.
func (config *ContainerConfig) URIEncoding() string {
	if config == nil || config.uriEncoding == "" {
		return DefaultURIEncoding
	}
	return config.uriEncoding
}

// IsConsolidateSetCookieHeaders returns true if Set-Cookie headers are folded
// into a single header.
func (config *ContainerConfig) IsConsolidateSetCookieHeaders() bool {
	if config == nil {
		return true
	}
	return config.consolidateSetCookieHeaders
}

// IsUseStageAsServletContext returns true if the stage name is part of the
// context path.
func (config *ContainerConfig) IsUseStageAsServletContext() bool {
	if config == nil {
		return false
	}
	return config.useStageAsServletContext
}

// String returns a string representation of this configuration.
func (config *ContainerConfig) String() string {
	return fmt.Sprintf("basePath=%q strip=%t uriEncoding=%s consolidateSetCookie=%t stageAsContext=%t",
		config.ServiceBasePath(),
		config.IsStripBasePath(),
		config.URIEncoding(),
		config.IsConsolidateSetCookieHeaders(),
		config.IsUseStageAsServletContext())
}

// NormalizeBasePath cleans up a base path so that it starts with exactly one
// "/" and never ends with one. Empty segments collapse, so "//api//v1/"
// becomes "/api/v1". Empty input or "/" returns "", meaning no base path.
func NormalizeBasePath(raw string) string {
	segments := strings.Split(strings.TrimSpace(raw), "/")

	kept := segments[:0]
	for _, segment := range segments {
		if segment != "" {
			kept = append(kept, segment)
		}
	}

	if len(kept) == 0 {
		return ""
	}

	return "/" + strings.Join(kept, "/")
}
