package dtmf

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// NewLogger returns the text logger used for all diagnostics.
// level is one of debug, info, warn, error.
func NewLogger(w io.Writer, level string) (*log.Logger, error) {
	var lvl, lvlErr = log.ParseLevel(level)
	if lvlErr != nil {
		return nil, fmt.Errorf("log level %q: %w", level, lvlErr)
	}

	return log.NewWithOptions(w, log.Options{ //nolint:exhaustruct
		Level:  lvl,
		Prefix: "dtmf",
	}), nil
}
