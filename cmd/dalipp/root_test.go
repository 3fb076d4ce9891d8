package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/dalipp/pkg/dalipp/capture"
)

const scene = `
values:
  - name: position
    type: Dali::Vector2
    fields:
      - {name: x, type: float, value: 1.5}
      - {name: y, type: float, value: 2.5}
  - name: count
    type: int
    value: 3
`

// testEnv is a temp directory holding a config file and a snapshot.
type testEnv struct {
	dir    string
	config string
	scene  string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	env := testEnv{
		dir:    dir,
		config: filepath.Join(dir, "dalipp.yaml"),
		scene:  filepath.Join(dir, "scene.yaml"),
	}
	cfg := "log:\n  level: error\ncapture:\n  driver: sqlite\n  path: " + filepath.Join(dir, "captures.db") + "\n"
	require.NoError(t, os.WriteFile(env.config, []byte(cfg), 0o600))
	require.NoError(t, os.WriteFile(env.scene, []byte(scene), 0o600))
	return env
}

// run executes the CLI with args against env's config file.
func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err := root.Execute()
	return out.String(), err
}

// TestPrint verifies snapshot values are rendered with the printers.
func TestPrint(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"all values", []string{"print", env.scene}, "position = <1.5, 2.5>\ncount = 3\n"},
		{"one value", []string{"print", env.scene, "--name", "count"}, "count = 3\n"},
		{
			"disabled printer",
			[]string{"print", env.scene, "-n", "position", "--disable", "libdali:Dali::Vector2"},
			"position = {x = 1.5, y = 2.5}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := env.run(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

// TestPrint_Errors verifies bad input is reported.
func TestPrint_Errors(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "print", env.scene, "--name", "size")
	assert.Error(t, err)

	_, err = env.run(t, "print", filepath.Join(env.dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = env.run(t, "print", env.scene, "--max-depth", "0")
	assert.Error(t, err)

	_, err = env.run(t, "print", env.scene, "--disable", "Dali::Nope")
	assert.Error(t, err)

	_, err = env.run(t, "print")
	assert.Error(t, err)
}

// TestResolve verifies the match table.
func TestResolve(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "resolve", "Dali::Vector<int>")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"Dali::Vector<int>", "libdali", "template", "Dali::Vector", "true"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"Dali::Vector<int>", "libdali-toolkit-vk", "none", "-", "-"}, strings.Fields(lines[2]))
}

// TestList verifies registries and their printers are listed.
func TestList(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "list", "--only", "libdali", "--disable", "Generic")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "libdali (15 printers)\n"))
	assert.Contains(t, out, "  Dali::Vector2\n")
	assert.Contains(t, out, "  Generic [disabled]\n")
	assert.NotContains(t, out, "Material")

	_, err = env.run(t, "list", "--only", "libqt")
	assert.Error(t, err)
}

// TestCaptureReplay verifies values survive a capture and replay through
// the configured store.
func TestCaptureReplay(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "capture", env.scene, "--session", "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1 (2 values)\n", out)

	out, err = env.run(t, "replay", "s1")
	require.NoError(t, err)
	assert.Equal(t, "position = <1.5, 2.5>\ncount = 3\n", out)

	out, err = env.run(t, "sessions")
	require.NoError(t, err)
	assert.Equal(t, "s1\n", out)

	out, err = env.run(t, "sessions", "s1")
	require.NoError(t, err)
	assert.Contains(t, out, "position")
	assert.Contains(t, out, "Dali::Vector2")

	_, err = env.run(t, "replay", "s2")
	assert.Error(t, err)
}

// TestSessions_Delete verifies values and whole sessions can be removed.
func TestSessions_Delete(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "capture", env.scene, "--session", "s1")
	require.NoError(t, err)

	out, err := env.run(t, "sessions", "s1", "--delete", "--name", "count")
	require.NoError(t, err)
	assert.Equal(t, "deleted 1 captures from s1\n", out)

	out, err = env.run(t, "replay", "s1")
	require.NoError(t, err)
	assert.Equal(t, "position = <1.5, 2.5>\n", out)

	out, err = env.run(t, "sessions", "s1", "--delete")
	require.NoError(t, err)
	assert.Equal(t, "deleted 1 captures from s1\n", out)

	out, err = env.run(t, "sessions")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = env.run(t, "sessions", "s1", "--delete")
	assert.ErrorIs(t, err, capture.ErrNotFound)
	_, err = env.run(t, "sessions", "--delete")
	assert.Error(t, err)
}

// TestCapture_NewSession verifies a session ID is generated when none is
// given.
func TestCapture_NewSession(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "capture", env.scene)
	require.NoError(t, err)
	fields := strings.Fields(out)
	require.NotEmpty(t, fields)
	assert.Len(t, fields[0], 36)
}
