package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/transit/internal/domain"
	"github.com/mrz1836/transit/internal/errors"
	"github.com/mrz1836/transit/internal/task"
	"github.com/mrz1836/transit/internal/testutil"
	"github.com/mrz1836/transit/internal/tui"
)

const standaloneSnapshot = `
children:
  deployment:
    app.war: {}
  subsystem:
    ejb3: {}
`

// migrationServers lays out a WildFly 10 source with one standalone
// configuration and managed content, and an empty WildFly 11 target.
func migrationServers(t *testing.T) (string, string) {
	t.Helper()
	source := testutil.NewServer(t, "WildFly", "10.1.0.Final", map[string]string{
		"standalone/configuration/standalone.yaml": standaloneSnapshot,
		"standalone/data/content/ab/cdef/content":  "bytes",
	})
	target := testutil.NewServer(t, "WildFly", "11.0.0.Final", nil)
	return source, target
}

// scriptedConsole answers every confirmation from a fixed list.
type scriptedConsole struct {
	answers   []task.Answer
	questions []string
}

func (c *scriptedConsole) Interactive() bool { return true }

func (c *scriptedConsole) Confirm(_ context.Context, message string) (task.Answer, error) {
	c.questions = append(c.questions, message)
	if len(c.answers) == 0 {
		return task.AnswerYes, nil
	}
	next := c.answers[0]
	c.answers = c.answers[1:]
	return next, nil
}

func runMigrateCmd(t *testing.T, output string, console task.Console, args ...string) (string, error) {
	t.Helper()

	cmd := newMigrateCmd(&GlobalFlags{Output: output}, console)
	stdout := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestMigrateCmd_NonInteractiveText(t *testing.T) {
	isolateHome(t)
	source, target := migrationServers(t)

	output, err := runMigrateCmd(t, OutputText, nil, "--source", source, "--target", target, "--non-interactive")
	require.NoError(t, err)

	assert.Contains(t, output, "Server Migration Report")
	assert.Contains(t, output, "wildfly10")
	assert.Contains(t, output, "WildFly 10.1.0.Final")
	assert.Contains(t, output, "standalone-configurations")
	assert.Contains(t, output, "Migrated configurations")
	assert.Contains(t, output, filepath.Join(target, "standalone", "configuration", "standalone.yaml"))
	assert.Contains(t, output, "✓ Migration complete")

	content, err := os.ReadFile(filepath.Join(target, "standalone", "data", "content", "ab", "cdef", "content")) //#nosec G304 -- test temp dir
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(content))
}

func TestMigrateCmd_JSONSkipTask(t *testing.T) {
	isolateHome(t)
	source, target := migrationServers(t)

	output, err := runMigrateCmd(t, OutputJSON, nil,
		"--source", source, "--target", target, "--skip", "migrate-content")
	require.NoError(t, err)

	var report tui.ReportJSON
	require.NoError(t, json.Unmarshal([]byte(output), &report))
	assert.Equal(t, "wildfly10", report.Provider)
	assert.Equal(t, domain.StatusSuccess.String(), report.Status)
	assert.NotEmpty(t, report.RunID)
	assert.Empty(t, report.Error)
	assert.Equal(t, []string{filepath.Join(target, "standalone", "configuration", "standalone.yaml")}, report.Saved)

	require.NotNil(t, report.Execution)
	statuses := map[string]string{}
	for _, sub := range report.Execution.Subtasks {
		statuses[sub.Name] = sub.Status
	}
	assert.Equal(t, domain.StatusSkipped.String(), statuses["migrate-content"])
	assert.Equal(t, domain.StatusSuccess.String(), statuses["standalone-configurations"])
	assert.NoDirExists(t, filepath.Join(target, "standalone", "data", "content"))
}

func TestMigrateCmd_EnvironmentFile(t *testing.T) {
	isolateHome(t)
	source, target := migrationServers(t)
	envFile := testutil.WriteFile(t, t.TempDir(), "migration.yaml", "migrate-content:\n  skip: true\n")

	output, err := runMigrateCmd(t, OutputJSON, nil,
		"--source", source, "--target", target, "--environment", envFile)
	require.NoError(t, err)

	var report tui.ReportJSON
	require.NoError(t, json.Unmarshal([]byte(output), &report))
	assert.NoDirExists(t, filepath.Join(target, "standalone", "data", "content"))
}

func TestMigrateCmd_ScriptedConsole(t *testing.T) {
	isolateHome(t)
	source, target := migrationServers(t)
	console := &scriptedConsole{answers: []task.Answer{task.AnswerNo, task.AnswerNo}}

	output, err := runMigrateCmd(t, OutputText, console, "--source", source, "--target", target)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Migrate all standalone configurations?",
		"Migrate configuration standalone.yaml (standalone)?",
	}, console.questions)
	assert.NoFileExists(t, filepath.Join(target, "standalone", "configuration", "standalone.yaml"))
	assert.NotContains(t, output, "Migrated configurations")
}

func TestMigrateCmd_JSONNeverPrompts(t *testing.T) {
	isolateHome(t)
	source, target := migrationServers(t)
	console := &scriptedConsole{}

	_, err := runMigrateCmd(t, OutputJSON, console, "--source", source, "--target", target)
	require.NoError(t, err)
	assert.Empty(t, console.questions)
}

func TestMigrateCmd_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     func(source, target string) []string
		wantErr  error
		wantCode int
	}{
		{
			name: "missing source server",
			args: func(_, target string) []string {
				return []string{"--source", filepath.Join(target, "missing"), "--target", target}
			},
			wantErr:  errors.ErrServerNotFound,
			wantCode: ExitError,
		},
		{
			name: "same server",
			args: func(source, _ string) []string {
				return []string{"--source", source, "--target", source}
			},
			wantErr:  errors.ErrSameServer,
			wantCode: ExitError,
		},
		{
			name: "missing environment file",
			args: func(source, target string) []string {
				return []string{"--source", source, "--target", target, "--environment", filepath.Join(target, "nope.yaml")}
			},
			wantErr:  errors.ErrEnvironmentFile,
			wantCode: ExitError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			isolateHome(t)
			source, target := migrationServers(t)

			_, err := runMigrateCmd(t, OutputText, nil, append(tc.args(source, target), "--non-interactive")...)
			require.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, tc.wantCode, ExitCodeForError(err))
		})
	}
}

func TestMigrateCmd_RequiredFlags(t *testing.T) {
	isolateHome(t)

	_, err := runMigrateCmd(t, OutputText, nil, "--source", "old")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target")
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestSelectConsole(t *testing.T) {
	t.Parallel()

	override := &scriptedConsole{}

	tests := []struct {
		name        string
		interactive bool
		output      string
		override    task.Console
		want        task.Console
	}{
		{name: "non-interactive", interactive: false, output: OutputText, override: override, want: nil},
		{name: "json output", interactive: true, output: OutputJSON, override: override, want: nil},
		{name: "override", interactive: true, output: OutputText, override: override, want: override},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, selectConsole(tc.interactive, tc.output, tc.override))
		})
	}
}
