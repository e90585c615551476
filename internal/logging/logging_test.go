package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_New_TextAndJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("debug", "json", &buf)
	require.NoError(t, err)

	logger.Debug("cycle complete", "entity", "account", "rows", 3)
	assert.Contains(t, buf.String(), `"entity":"account"`)
	assert.Contains(t, buf.String(), `"rows":3`)

	buf.Reset()
	logger, err = New("INFO", "text", &buf)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown", "entity", "loan")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "entity=loan")
}

func Test_New_Rejects(t *testing.T) {
	_, err := New("loud", "text", &bytes.Buffer{})
	assert.Error(t, err)

	_, err = New("info", "xml", &bytes.Buffer{})
	assert.Error(t, err)
}
