package containerconfig

import "fmt"

// InvalidConfigurationError is returned when a configuration value cannot be
// normalized. It is only ever produced while a ContainerConfig is built,
// never while requests are resolved.
type InvalidConfigurationError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (err *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration for %s (%v): %s", err.Field, err.Value, err.Reason)
}
