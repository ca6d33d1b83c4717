package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	transiterrors "github.com/mrz1836/transit/internal/errors"
)

func TestNewOutput(t *testing.T) {
	plain(t)
	var buf bytes.Buffer

	assert.IsType(t, &JSONOutput{}, NewOutput(&buf, FormatJSON))
	assert.IsType(t, &TTYOutput{}, NewOutput(&buf, FormatText))
	assert.IsType(t, &TTYOutput{}, NewOutput(&buf, ""))
}

func TestTTYOutput_Messages(t *testing.T) {
	plain(t)
	var buf bytes.Buffer
	out := NewTTYOutput(&buf)

	out.Success("migrated")
	out.Warning("nothing to do")
	out.Info("source: WildFly 10.1.0.Final")

	assert.Equal(t, "✓ migrated\n⚠ nothing to do\nsource: WildFly 10.1.0.Final\n", buf.String())
}

func TestTTYOutput_ErrorWithAction(t *testing.T) {
	plain(t)
	var buf bytes.Buffer

	NewTTYOutput(&buf).Error(fmt.Errorf("lock /srv/wildfly/.transit.lock: %w", transiterrors.ErrTargetLocked))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "✗ Another migration is already running against the target server.", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "  ▸ Try: Wait for it to finish"))
}

func TestTTYOutput_ErrorUnknown(t *testing.T) {
	plain(t)
	var buf bytes.Buffer

	NewTTYOutput(&buf).Error(fmt.Errorf("disk on fire"))

	assert.Equal(t, "✗ disk on fire\n", buf.String())
}

func TestTTYOutput_Table(t *testing.T) {
	plain(t)
	var buf bytes.Buffer

	NewTTYOutput(&buf).Table([]string{"ADDRESS", "KIND"}, [][]string{
		{"/subsystem=ejb3", "subsystem"},
		{"/jvm=default", "jvm"},
	})

	assert.Equal(t,
		"ADDRESS          KIND\n"+
			"/subsystem=ejb3  subsystem\n"+
			"/jvm=default     jvm\n",
		buf.String())
}

func TestJSONOutput(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	out := NewJSONOutput(&buf)

	out.Success("migrated")
	out.Error(fmt.Errorf("target: %w", transiterrors.ErrServerNotFound))
	out.Table([]string{"ADDRESS", "KIND"}, [][]string{{"/jvm=default", "jvm"}})

	dec := json.NewDecoder(&buf)

	var msg map[string]string
	require.NoError(t, dec.Decode(&msg))
	assert.Equal(t, map[string]string{"type": "success", "message": "migrated"}, msg)

	var errMsg map[string]string
	require.NoError(t, dec.Decode(&errMsg))
	assert.Equal(t, "error", errMsg["type"])
	assert.Equal(t, "target: server not found", errMsg["details"])
	assert.Equal(t, "Check the --source and --target paths.", errMsg["suggestion"])

	var rows []map[string]string
	require.NoError(t, dec.Decode(&rows))
	assert.Equal(t, []map[string]string{{"ADDRESS": "/jvm=default", "KIND": "jvm"}}, rows)
}

func TestPadRight(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, "abcd", padRight("abcd", 2))
	assert.Equal(t, "✓ ", padRight("✓", 2))
}
