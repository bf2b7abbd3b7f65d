package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vburojevic/pomo/internal/config"
)

// testGlobals creates a Globals struct with captured stdout/stderr
func testGlobals(format string) (*Globals, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &Globals{
		Format:  format,
		Quiet:   false,
		Verbose: false,
		Stdin:   strings.NewReader(""),
		Stdout:  stdout,
		Stderr:  stderr,
		Config:  config.Default(),
	}, stdout, stderr
}

// decodeLines parses every NDJSON line in buf
func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var records []map[string]interface{}
	scanner := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &rec), "line: %s", line)
		records = append(records, rec)
	}
	return records
}

// --- Config Command Tests ---

func TestConfigShowCmd_Run(t *testing.T) {
	t.Run("outputs config in text format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		cmd := &ConfigShowCmd{}

		err := cmd.Run(globals)
		require.NoError(t, err)

		output := stdout.String()
		assert.Contains(t, output, "Current Configuration:")
		assert.Contains(t, output, "timer.work")
		assert.Contains(t, output, "25m0s")
		assert.Contains(t, output, "defaults.tmux_session")
	})

	t.Run("outputs config in NDJSON format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		cmd := &ConfigShowCmd{}

		err := cmd.Run(globals)
		require.NoError(t, err)

		var result map[string]interface{}
		err = json.Unmarshal(stdout.Bytes(), &result)
		require.NoError(t, err)

		assert.Equal(t, "config", result["type"])
		assert.Equal(t, "ndjson", result["format"])
		timer := result["timer"].(map[string]interface{})
		assert.Equal(t, "25m0s", timer["work"])
		assert.Equal(t, "5m0s", timer["break"])
		defaults := result["defaults"].(map[string]interface{})
		assert.Equal(t, "pomo", defaults["tmux_session"])
	})

	t.Run("global flags override loaded values", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		globals.Verbose = true

		require.NoError(t, (&ConfigShowCmd{}).Run(globals))

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
		assert.Equal(t, true, result["verbose"])
		assert.False(t, globals.Config.Verbose)
	})
}

func TestConfigPathCmd_Run(t *testing.T) {
	t.Run("outputs path info in text format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")

		require.NoError(t, (&ConfigPathCmd{}).Run(globals))

		output := stdout.String()
		// Either shows the path or says no config found
		assert.True(t, strings.Contains(output, "Config file:") || strings.Contains(output, "No configuration file found"))
	})

	t.Run("outputs path info in NDJSON format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")

		require.NoError(t, (&ConfigPathCmd{}).Run(globals))

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
		assert.Equal(t, "config_path", result["type"])
		assert.Contains(t, result, "found")
		assert.Contains(t, result, "default_path")
	})
}

func TestConfigGenerateCmd_Run(t *testing.T) {
	globals, stdout, _ := testGlobals("text")

	require.NoError(t, (&ConfigGenerateCmd{}).Run(globals))

	assert.True(t, strings.HasPrefix(stdout.String(), "# pomo configuration file"))
	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &doc))
	assert.Contains(t, doc, "timer")
}

func TestConfigSaveCmd_Run(t *testing.T) {
	t.Run("writes a file that loads back", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		path := filepath.Join(t.TempDir(), "pomo.yaml")

		require.NoError(t, (&ConfigSaveCmd{Path: path}).Run(globals))

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
		assert.Equal(t, "config_saved", result["type"])
		assert.Equal(t, path, result["path"])

		loaded, err := config.LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, globals.Config.Timer, loaded.Timer)
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		path := filepath.Join(t.TempDir(), "pomo.yaml")
		require.NoError(t, os.WriteFile(path, []byte("format: text\n"), 0o644))

		err := (&ConfigSaveCmd{Path: path}).Run(globals)
		require.Error(t, err)
		assert.Contains(t, stdout.String(), "CONFIG_EXISTS")

		stdout.Reset()
		require.NoError(t, (&ConfigSaveCmd{Path: path, Force: true}).Run(globals))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "# pomo configuration file")
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		globals.Config.Timer.Work = 0
		path := filepath.Join(t.TempDir(), "pomo.yaml")

		err := (&ConfigSaveCmd{Path: path}).Run(globals)
		require.Error(t, err)
		assert.Contains(t, stdout.String(), "INVALID_CONFIG")
		assert.NoFileExists(t, path)
	})
}

// --- Schema Command Tests ---

func TestSchemaCmd_Run(t *testing.T) {
	t.Run("outputs every schema by default", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")

		require.NoError(t, (&SchemaCmd{}).Run(globals))

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
		defs := result["definitions"].(map[string]interface{})
		for _, name := range []string{"session-start", "session-end", "session-pause", "session-resume", "timer-tick", "warning", "status", "ready", "error", "tmux", "collapsed"} {
			assert.Contains(t, defs, name)
		}
	})

	t.Run("filters by type", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")

		require.NoError(t, (&SchemaCmd{Type: []string{"warning", " Session-End "}}).Run(globals))

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
		defs := result["definitions"].(map[string]interface{})
		assert.Len(t, defs, 2)
		assert.Contains(t, defs, "session-end")
	})

	t.Run("unknown type is an error", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")

		err := (&SchemaCmd{Type: []string{"log"}}).Run(globals)
		require.Error(t, err)
		assert.Contains(t, stdout.String(), "INVALID_FLAGS")
	})

	t.Run("text format lists types", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")

		require.NoError(t, (&SchemaCmd{}).Run(globals))
		assert.Contains(t, stdout.String(), "timer-tick")
		assert.Contains(t, stdout.String(), "pomo schema --type")
	})
}

// --- Version Command Tests ---

func TestVersionCmd_Run(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		require.NoError(t, (&VersionCmd{}).Run(globals))
		assert.Equal(t, "pomo version dev (none)\n", stdout.String())
	})

	t.Run("ndjson", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		require.NoError(t, (&VersionCmd{}).Run(globals))

		var result VersionOutput
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
		assert.Equal(t, "version", result.Type)
		assert.Equal(t, Version, result.Version)
		assert.Equal(t, 1, result.SchemaVersion)
	})
}

// --- Autostart Command Tests ---

func TestAutostartCmd_Run(t *testing.T) {
	t.Run("print writes a launchd plist", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")

		require.NoError(t, (&AutostartCmd{Print: true, Dir: t.TempDir(), Label: "com.example.pomo"}).Run(globals))

		out := stdout.String()
		assert.Contains(t, out, "<key>Label</key>")
		assert.Contains(t, out, "<string>com.example.pomo</string>")
		assert.Contains(t, out, "<string>--detach</string>")
		assert.Contains(t, out, "<key>RunAtLoad</key>")
	})

	t.Run("install and remove", func(t *testing.T) {
		dir := t.TempDir()
		globals, stdout, _ := testGlobals("ndjson")
		cmd := &AutostartCmd{Dir: dir, Label: "com.example.pomo"}

		require.NoError(t, cmd.Run(globals))
		path := filepath.Join(dir, "com.example.pomo.plist")
		assert.FileExists(t, path)

		var result AutostartOutput
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
		assert.Equal(t, "installed", result.Action)
		assert.Equal(t, path, result.Path)

		stdout.Reset()
		cmd.Disable = true
		require.NoError(t, cmd.Run(globals))
		assert.NoFileExists(t, path)
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
		assert.Equal(t, "removed", result.Action)
	})

	t.Run("removing a missing agent succeeds", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")

		require.NoError(t, (&AutostartCmd{Disable: true, Dir: t.TempDir(), Label: "x"}).Run(globals))
		assert.Contains(t, stdout.String(), "Removed")
	})
}

func TestMarshalLaunchAgent(t *testing.T) {
	data, err := marshalLaunchAgent("com.example.pomo", "/usr/local/bin/pomo", "/tmp")
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "<string>/usr/local/bin/pomo</string>")
	assert.Contains(t, out, "<string>run</string>")
	assert.Contains(t, out, "<string>--tmux</string>")
	assert.Contains(t, out, "<string>/tmp/pomo.err.log</string>")
}

// --- Globals ---

func TestConfigPathFromArgs(t *testing.T) {
	assert.Equal(t, "a.yaml", ConfigPathFromArgs([]string{"run", "--config", "a.yaml"}))
	assert.Equal(t, "b.yaml", ConfigPathFromArgs([]string{"--config=b.yaml", "ui"}))
	assert.Equal(t, "", ConfigPathFromArgs([]string{"run", "--", "--config", "c.yaml"}))
	assert.Equal(t, "", ConfigPathFromArgs([]string{"run", "--config"}))
}

func TestNewGlobalsWithConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Verbose = true

	g := NewGlobalsWithConfig(&CLI{Format: "text"}, cfg)
	assert.Equal(t, "text", g.Format)
	assert.True(t, g.Verbose)
	assert.False(t, g.Quiet)
	assert.Same(t, cfg, g.Config)

	g = NewGlobalsWithConfig(&CLI{}, nil)
	assert.Equal(t, "ndjson", g.Format)
}
