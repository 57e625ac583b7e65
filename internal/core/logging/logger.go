// Package logging holds zerolog helpers shared across toastkit.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component returns the global logger tagged with a component name under
// the "cmp" key.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}
