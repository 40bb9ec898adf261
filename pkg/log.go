package pile

import (
	"os"

	"github.com/rs/zerolog"
)

// Log is the package-level logger used to trace compile stages (spec
// §2 Ambient stack: logging). It defaults to info level with output
// suppressed below that; the CLI's --debug flag lowers it.
var Log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
	Level(zerolog.InfoLevel).
	With().Timestamp().Logger()

// SetDebug toggles debug-level stage tracing.
func SetDebug(on bool) {
	if on {
		Log = Log.Level(zerolog.DebugLevel)
		return
	}

	Log = Log.Level(zerolog.InfoLevel)
}
