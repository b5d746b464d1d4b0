package containerconfig

import (
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Keys recognised by the loaders. The same names are used for map entries and
// stage variables; FromEnvironment upper-cases them behind a prefix.
const (
	KeyServiceBasePath             = "service_base_path"
	KeyStripBasePath               = "strip_base_path"
	KeyURIEncoding                 = "uri_encoding"
	KeyConsolidateSetCookieHeaders = "consolidate_set_cookie_headers"
	KeyUseStageAsServletContext    = "use_stage_as_servlet_context"
)

// Keys lists every key the loaders look for.
var Keys = []string{
	KeyServiceBasePath,
	KeyStripBasePath,
	KeyURIEncoding,
	KeyConsolidateSetCookieHeaders,
	KeyUseStageAsServletContext,
}

// values is the decoding target for loaders. Pointers tell an absent key
// apart from one set to its zero value.
type values struct {
	ServiceBasePath             *string `mapstructure:"service_base_path"`
	StripBasePath               *bool   `mapstructure:"strip_base_path"`
	URIEncoding                 *string `mapstructure:"uri_encoding"`
	ConsolidateSetCookieHeaders *bool   `mapstructure:"consolidate_set_cookie_headers"`
	UseStageAsServletContext    *bool   `mapstructure:"use_stage_as_servlet_context"`
}

// options converts the decoded values into options for New, skipping the
// absent ones so they keep their defaults.
func (v *values) options() []Option {
	var opts []Option

	if v.ServiceBasePath != nil {
		opts = append(opts, WithServiceBasePath(*v.ServiceBasePath))
	}

	if v.StripBasePath != nil {
		opts = append(opts, WithStripBasePath(*v.StripBasePath))
	}

	if v.URIEncoding != nil {
		opts = append(opts, WithURIEncoding(*v.URIEncoding))
	}

	if v.ConsolidateSetCookieHeaders != nil {
		opts = append(opts, WithConsolidateSetCookieHeaders(*v.ConsolidateSetCookieHeaders))
	}

	if v.UseStageAsServletContext != nil {
		opts = append(opts, WithUseStageAsServletContext(*v.UseStageAsServletContext))
	}

	return opts
}

// FromMap builds a ContainerConfig from loosely typed key/value pairs, so
// "true" and true are both accepted for flags. Unknown keys are ignored and
// missing keys keep their defaults.
//
// A service_base_path entry that is present but nil is rejected with an
// *InvalidConfigurationError; use "" to configure no base path.
func FromMap(m map[string]interface{}) (*ContainerConfig, error) {
	if v, ok := m[KeyServiceBasePath]; ok && v == nil {
		return nil, &InvalidConfigurationError{
			Field:  KeyServiceBasePath,
			Value:  nil,
			Reason: "base path must not be null, use an empty string for none",
		}
	}

	decoded := new(values)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           decoded,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed creating configuration decoder")
	}

	if err := decoder.Decode(m); err != nil {
		return nil, errors.Wrapf(err, "failed decoding configuration %v", m)
	}

	return New(decoded.options()...)
}

// FromStageVariables builds a ContainerConfig from api gateway stage
// variables using the same keys as FromMap.
func FromStageVariables(stageVariables map[string]string) (*ContainerConfig, error) {
	m := make(map[string]interface{}, len(stageVariables))
	for k, v := range stageVariables {
		m[k] = v
	}

	return FromMap(m)
}

// FromEnvironment builds a ContainerConfig from environment variables named
// after the upper-cased keys behind prefix, e.g. with prefix "PROXY_" the
// base path is read from PROXY_SERVICE_BASE_PATH.
func FromEnvironment(prefix string) (*ContainerConfig, error) {
	m := make(map[string]interface{})
	for _, key := range Keys {
		if v, ok := os.LookupEnv(prefix + strings.ToUpper(key)); ok {
			m[key] = v
		}
	}

	return FromMap(m)
}
