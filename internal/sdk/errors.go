package sdk

import "errors"

// ConfigError reports missing or invalid merchant configuration. It is fatal
// to starting a session and is never retried automatically.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

func IsConfigError(err error) (*ConfigError, bool) {
	var cfgErr *ConfigError
	ok := errors.As(err, &cfgErr)
	return cfgErr, ok
}
