package config

import (
	"fmt"

	"github.com/Paintersrp/periodsearch/internal/constants"
)

// ConfigInitError reports a config file that is missing a required key.
type ConfigInitError struct {
	Key  string
	Path string
}

func (e *ConfigInitError) Error() string {
	return fmt.Sprintf("required config variable %q is not set in %s (run %q)",
		e.Key, e.Path, constants.AppName+" init <vault>")
}
