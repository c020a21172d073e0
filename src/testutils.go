package dtmf

import (
	"bytes"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertOutputContains runs command with a buffer for its output and
// checks the result.
func AssertOutputContains(t *testing.T, command func(w io.Writer), expectedOutputContains string) {
	t.Helper()

	var buf bytes.Buffer

	command(&buf)

	assert.Contains(t, buf.String(), expectedOutputContains)
}

// NewBufferLogger returns a debug level logger and the buffer it writes to.
func NewBufferLogger(t *testing.T) (*log.Logger, *bytes.Buffer) {
	t.Helper()

	var buf = new(bytes.Buffer)

	var logger, err = NewLogger(buf, "debug")
	require.NoError(t, err)

	return logger, buf
}
