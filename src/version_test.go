package dtmf

import (
	"bytes"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionString(t *testing.T) {
	var bi = &debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs.revision", Value: "abc123"},
		{Key: "vcs.modified", Value: "true"},
		{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
	}}

	assert.Equal(t, "dtmfcodec - Version !UNKNOWN! (revision abc123-DIRTY, built at 2026-01-02T03:04:05Z)", versionString(bi))
	assert.Equal(t, "dtmfcodec - Version !UNKNOWN! (revision UNKNOWN, built at UNKNOWN)", versionString(nil))
}

func TestVersionFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 0, runDecode("decode", []string{"--version"}, &stdout, &stderr))
	assert.True(t, strings.HasPrefix(stdout.String(), "dtmfcodec - Version"))
}
