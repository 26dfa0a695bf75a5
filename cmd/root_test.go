package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/tabc/internal/catalog"
	"github.com/oakwood-commons/tabc/internal/config"
	"github.com/oakwood-commons/tabc/internal/console"
	"github.com/oakwood-commons/tabc/pkg/loader"
)

const fixtureCatalog = "../pkg/loader/testdata/catalog.yaml"

func resetRootCmdState() {
	configFile = ""
	catalogPath = ""
	backend = "expr"
	watchCatalog = false
	insertMode = false
	logLevel = 0
	logFormat = "json"
	logFile = ""
	noColor = false
	keepGoing = false
	completeBuffer = ""
	completeCaret = -1
	completeBackward = false
	completeTimes = 1
	completeList = false
	catalogType = ""
	catalogOutput = "table"
	configDefaults = false

	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	for _, c := range append([]*cobra.Command{rootCmd}, rootCmd.Commands()...) {
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
	}
	rootCmd.SetArgs(nil)
}

type result struct {
	out    string
	errOut string
	err    error
}

// runCLI executes args with stdin as piped input, isolated from the user's
// config directory.
func runCLI(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	resetRootCmdState()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := rootCmd.Execute()
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

func TestVersion(t *testing.T) {
	res := runCLI(t, "", "version")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.out, "tabc "), res.out)

	res = runCLI(t, "", "--version")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "tabc")
}

func TestPipedCommands(t *testing.T) {
	res := runCLI(t, "answer + 1\nfoo.ToString()\n# comment\nx = 4\nx * 2\n")
	require.NoError(t, res.err)
	assert.Equal(t, "43\n\"foo(Razor)\"\n4\n8\n", res.out)
}

func TestPipedFailure(t *testing.T) {
	res := runCLI(t, "nope\nanswer\n")
	assert.ErrorIs(t, res.err, console.ErrScriptFailed)
	assert.Empty(t, res.out, "stops at the first failure")
	assert.Contains(t, res.errOut, "line 1:")

	res = runCLI(t, "nope\nanswer\n", "--keep-going")
	assert.ErrorIs(t, res.err, console.ErrScriptFailed)
	assert.Equal(t, "42\n", res.out)
}

func TestCELBackend(t *testing.T) {
	res := runCLI(t, "answer * 2\ninventory.Items.map(k, k.Cymidine)\n", "--backend", "cel")
	require.NoError(t, res.err)
	assert.Equal(t, "84\n[\"foo\",\"bar\"]\n", res.out)

	res = runCLI(t, "x = 1\n", "-b", "cel")
	assert.Error(t, res.err)

	res = runCLI(t, "", "--backend", "lua")
	assert.Error(t, res.err)
}

func TestCatalogFileSession(t *testing.T) {
	res := runCLI(t, "1 + 1\ny = 'v'\ny + y\n", "--catalog", fixtureCatalog)
	require.NoError(t, res.err)
	assert.Equal(t, "2\n\"v\"\n\"vv\"\n", res.out)

	res = runCLI(t, "", "--catalog", "missing.yaml")
	assert.Error(t, res.err)
}

func TestConfigCommand(t *testing.T) {
	res := runCLI(t, "", "config", "--backend", "cel", "--insert")
	require.NoError(t, res.err)
	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(res.out), &cfg))
	assert.Equal(t, "cel", cfg.Console.Backend)
	assert.Equal(t, "replace-token", cfg.Console.Mode)

	res = runCLI(t, "", "config", "--defaults")
	require.NoError(t, res.err)
	assert.Equal(t, string(config.DefaultConfigYAML()), res.out)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("console:\n  prompt: \"$ \"\n"), 0o600))
	res = runCLI(t, "", "config", "--config", path)
	require.NoError(t, res.err)
	require.NoError(t, yaml.Unmarshal([]byte(res.out), &cfg))
	assert.Equal(t, "$ ", cfg.Console.Prompt)

	require.NoError(t, os.WriteFile(path, []byte("console:\n  colour: red\n"), 0o600))
	res = runCLI(t, "", "config", "--config", path)
	assert.Error(t, res.err)
}

func TestLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabc.log")
	res := runCLI(t, "answer\n", "--log-file", path, "--log-level=-1")
	require.NoError(t, res.err)
	assert.Equal(t, "42\n", res.out)
	_, err := os.Stat(path)
	assert.NoError(t, err)

	res = runCLI(t, "answer\n", "--log-format", "logfmt")
	assert.ErrorContains(t, res.err, "log.format")
}

func TestCatalogCommand(t *testing.T) {
	res := runCLI(t, "", "catalog", "--no-color")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "NAME")
	assert.Regexp(t, `foo\s+instance\s+Kickup`, res.out)
	assert.Regexp(t, `Behen\s+static\s+Behen`, res.out)

	res = runCLI(t, "", "catalog", "--type", "Kickup", "--no-color")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "type Kickup")
	assert.Regexp(t, `SetBehen\s+method\s+Kickup\s+\(arg0 Behen\)`, res.out)
	assert.Regexp(t, `Describe\s+method\s+string\s+\(arg0 string, arg1 \.\.\.string\)`, res.out)

	res = runCLI(t, "", "catalog", "--type", "Nope")
	assert.ErrorIs(t, res.err, catalog.ErrUnknownType)

	res = runCLI(t, "", "catalog", "-o", "xml")
	assert.Error(t, res.err)
}

func TestCatalogTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme:\n  key: \"9\"\n"), 0o600))
	res := runCLI(t, "", "catalog", "--config", path)
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Kickup")

	require.NoError(t, os.WriteFile(path, []byte("theme:\n  key: crimson\n"), 0o600))
	res = runCLI(t, "", "catalog", "--config", path)
	assert.ErrorContains(t, res.err, "theme.key")
}

func TestInteractiveOnlyOnRoot(t *testing.T) {
	resetRootCmdState()
	rootCmd.SetIn(strings.NewReader("answer\n"))
	t.Cleanup(func() { rootCmd.SetIn(nil) })

	assert.False(t, interactive(rootCmd), "piped stdin runs as a script")
	assert.False(t, interactive(completeCmd))
	assert.False(t, isTerminal(strings.NewReader("")))
}

func TestCatalogDocs(t *testing.T) {
	res := runCLI(t, "", "catalog", "-o", "markdown")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.out, "# Catalog\n\nSource: demo\n"))
	assert.Contains(t, res.out, "| foo | instance | Kickup |")
	assert.Contains(t, res.out, "## Kickup")
	assert.Contains(t, res.out, "| SetBehen | method | Kickup | (arg0 Behen) |")

	res = runCLI(t, "", "catalog", "-o", "html")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "<h1")
	assert.Contains(t, res.out, "<td>SetBehen</td>")
}

func TestCatalogRoundTrip(t *testing.T) {
	for _, format := range []loader.Format{loader.FormatYAML, loader.FormatJSON, loader.FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			res := runCLI(t, "", "catalog", "--catalog", fixtureCatalog, "-o", string(format))
			require.NoError(t, res.err)
			def, err := loader.Decode([]byte(res.out), format)
			require.NoError(t, err)
			assert.Equal(t, "Kickup", def.Instances["foo"])

			path := filepath.Join(t.TempDir(), "catalog."+string(format))
			require.NoError(t, os.WriteFile(path, []byte(res.out), 0o600))
			again := runCLI(t, "", "catalog", "--catalog", path, "-o", string(format))
			require.NoError(t, again.err)
			assert.Equal(t, res.out, again.out)
		})
	}
}
