package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigure_Verbose(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	var buf bytes.Buffer
	Configure(&buf, false)
	Debug("hidden", "k", "v")
	Info("shown", "branch", "feature/x")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "branch=feature/x")

	buf.Reset()
	Configure(&buf, true)
	Debug("visible")
	assert.Contains(t, buf.String(), "level=DEBUG")
}
