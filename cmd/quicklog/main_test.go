package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/goccy/go-json"
)

type result struct {
	code   int
	stdout string
	stderr string
}

// testCLI returns a CLI with a private settings file and piped stdin.
func testCLI(t *testing.T, stdin string) (*cli, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	c := newCLI(strings.NewReader(stdin), &out, &errOut)
	c.configPath = filepath.Join(t.TempDir(), "settings.toml")
	return c, &out, &errOut
}

func execute(t *testing.T, c *cli, args ...string) result {
	t.Helper()
	defer c.close()

	root := newRootCmd(c)
	root.SetArgs(args)
	code := 0
	if err := root.Execute(); err != nil {
		c.errOut.(*bytes.Buffer).WriteString("Error: " + err.Error() + "\n")
		code = 1
	}
	return result{
		code:   code,
		stdout: c.out.(*bytes.Buffer).String(),
		stderr: c.errOut.(*bytes.Buffer).String(),
	}
}

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

const dirtySource = "a();\nconsole.log('main.js:2 | x : ', x);\nb();\n"

func TestInsertPrintsResult(t *testing.T) {
	path := writeSource(t, "main.js", "let total = 1;\n")
	c, _, _ := testCLI(t, "")

	res := execute(t, c, "insert", path, "--at", "1:5")
	if res.code != 0 {
		t.Fatalf("insert failed: %s", res.stderr)
	}
	want := "let total = 1;\nconsole.log('main.js:2 | total : ', total);\n"
	if res.stdout != want {
		t.Errorf("expected %q, got %q", want, res.stdout)
	}
	if got := readFile(t, path); got != "let total = 1;\n" {
		t.Errorf("expected file untouched without --write, got %q", got)
	}
}

func TestInsertJSONAndWrite(t *testing.T) {
	path := writeSource(t, "main.js", "foo(a, b);\n")
	c, _, _ := testCLI(t, "")

	res := execute(t, c, "insert", path, "--at", "1:1", "--var", "a + b", "--json", "--write")
	if res.code != 0 {
		t.Fatalf("insert failed: %s", res.stderr)
	}

	var rep insertReport
	if err := json.Unmarshal([]byte(res.stdout), &rep); err != nil {
		t.Fatalf("decode report %q: %v", res.stdout, err)
	}
	if rep.Line != 2 || rep.Var != "a + b" || rep.Mode != "literal" || !rep.Saved {
		t.Errorf("unexpected report %+v", rep)
	}
	if rep.Text != "console.log('main.js:2 | a + b : ', a + b);" {
		t.Errorf("unexpected report text %q", rep.Text)
	}
	want := "foo(a, b);\nconsole.log('main.js:2 | a + b : ', a + b);\n"
	if got := readFile(t, path); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestInsertSelectionDiff(t *testing.T) {
	path := writeSource(t, "main.js", "run(user.name);\n")
	c, _, _ := testCLI(t, "")

	res := execute(t, c, "insert", path, "--at", "1:5", "--select", "1:5-1:14", "--diff")
	if res.code != 0 {
		t.Fatalf("insert failed: %s", res.stderr)
	}
	if !strings.Contains(res.stdout, "+console.log('main.js:2 | user.name : ', user.name);") {
		t.Errorf("expected added line in diff, got %q", res.stdout)
	}
}

func TestInsertInvalidPosition(t *testing.T) {
	path := writeSource(t, "main.js", "x;\n")
	c, _, _ := testCLI(t, "")

	res := execute(t, c, "insert", path, "--at", "zero")
	if res.code == 0 || !strings.Contains(res.stderr, "invalid position") {
		t.Errorf("expected invalid position error, got code %d: %s", res.code, res.stderr)
	}
}

func TestCleanWithYes(t *testing.T) {
	path := writeSource(t, "main.js", dirtySource)
	c, _, _ := testCLI(t, "")

	res := execute(t, c, "clean", path, "--yes", "--write")
	if res.code != 0 {
		t.Fatalf("clean failed: %s", res.stderr)
	}
	if got := readFile(t, path); got != "a();\nb();\n" {
		t.Errorf("expected cleaned file, got %q", got)
	}
	if !strings.Contains(res.stdout, "✓") {
		t.Errorf("expected success notice, got %q", res.stdout)
	}
}

func TestCleanDeclinesWithoutTerminal(t *testing.T) {
	path := writeSource(t, "main.js", dirtySource)
	c, _, _ := testCLI(t, "y\n")

	res := execute(t, c, "clean", path, "--write")
	if res.code != 0 {
		t.Fatalf("clean failed: %s", res.stderr)
	}
	if got := readFile(t, path); got != dirtySource {
		t.Errorf("expected file unchanged, got %q", got)
	}
	if !strings.Contains(res.stderr, "--yes") {
		t.Errorf("expected hint about --yes, got %q", res.stderr)
	}
}

func TestCleanPromptsOnTerminal(t *testing.T) {
	tests := []struct {
		answer string
		want   string
	}{
		{"y\n", "a();\nb();\n"},
		{"n\n", dirtySource},
		{"\n", dirtySource},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.answer), func(t *testing.T) {
			path := writeSource(t, "main.js", dirtySource)
			c, _, _ := testCLI(t, tt.answer)
			c.isTerminal = func() bool { return true }

			res := execute(t, c, "clean", path, "--write")
			if res.code != 0 {
				t.Fatalf("clean failed: %s", res.stderr)
			}
			if got := readFile(t, path); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if !strings.Contains(res.stderr, "[y/N]") {
				t.Errorf("expected prompt, got %q", res.stderr)
			}
		})
	}
}

func TestCleanDryRun(t *testing.T) {
	path := writeSource(t, "main.js", dirtySource)
	c, _, _ := testCLI(t, "")

	res := execute(t, c, "clean", path, "--dry-run")
	if res.code != 0 {
		t.Fatalf("clean failed: %s", res.stderr)
	}
	if !strings.Contains(res.stdout, "main.js:2: console.log(") {
		t.Errorf("expected matching line listed, got %q", res.stdout)
	}
	if !strings.Contains(res.stdout, "-console.log('main.js:2 | x : ', x);") {
		t.Errorf("expected removal in diff, got %q", res.stdout)
	}
	if got := readFile(t, path); got != dirtySource {
		t.Errorf("expected dry run to leave file, got %q", got)
	}
}

func TestCleanNothingFound(t *testing.T) {
	path := writeSource(t, "main.js", "a();\n")
	c, _, _ := testCLI(t, "")

	res := execute(t, c, "clean", path, "--yes")
	if res.code != 0 || res.stdout != "" {
		t.Errorf("expected silent success, got code %d stdout %q", res.code, res.stdout)
	}
	if res.stderr == "" {
		t.Error("expected not-found notice on stderr")
	}
}

func TestExpand(t *testing.T) {
	c, _, _ := testCLI(t, "")

	res := execute(t, c, "expand", "--file", "a.js", "--line", "3", "--var", "x")
	if res.code != 0 {
		t.Fatalf("expand failed: %s", res.stderr)
	}
	if want := "console.log('a.js:3 | x : ', x);\n"; res.stdout != want {
		t.Errorf("expected %q, got %q", want, res.stdout)
	}

	c, _, _ = testCLI(t, "")
	res = execute(t, c, "expand", "--var", "v", "log(${var}) // ${file}")
	if want := "log(v) // file.js\n"; res.stdout != want {
		t.Errorf("expected %q, got %q", want, res.stdout)
	}
}

func TestPreviewCopy(t *testing.T) {
	c, _, _ := testCLI(t, "")
	var copied string
	c.copyText = func(s string) error {
		copied = s
		return nil
	}

	res := execute(t, c, "preview", "--copy")
	if res.code != 0 {
		t.Fatalf("preview failed: %s", res.stderr)
	}
	if copied == "" || res.stdout != copied+"\n" {
		t.Errorf("expected printed and copied preview, got stdout %q copied %q", res.stdout, copied)
	}
}

func TestPreviewCopyError(t *testing.T) {
	c, _, _ := testCLI(t, "")
	c.copyText = func(string) error { return errors.New("no clipboard") }

	res := execute(t, c, "preview", "--copy")
	if res.code == 0 || !strings.Contains(res.stderr, "no clipboard") {
		t.Errorf("expected clipboard error, got code %d: %s", res.code, res.stderr)
	}
}

func TestConfigCommands(t *testing.T) {
	c, _, _ := testCLI(t, "")
	cfg := c.configPath

	res := execute(t, c, "config", "set", "selectionMode", "strict")
	if res.code != 0 {
		t.Fatalf("config set failed: %s", res.stderr)
	}

	c, _, _ = testCLI(t, "")
	c.configPath = cfg
	res = execute(t, c, "config", "get", "selectionMode")
	if res.stdout != "strict\n" {
		t.Errorf("expected %q, got %q", "strict\n", res.stdout)
	}

	c, _, _ = testCLI(t, "")
	c.configPath = cfg
	res = execute(t, c, "config", "show")
	if !strings.Contains(res.stdout, `selectionMode = "strict"`) || !strings.Contains(res.stdout, `tabWidth = "4"`) {
		t.Errorf("unexpected config show output %q", res.stdout)
	}

	c, _, _ = testCLI(t, "")
	c.configPath = cfg
	res = execute(t, c, "config", "path")
	if res.stdout != cfg+"\n" {
		t.Errorf("expected %q, got %q", cfg+"\n", res.stdout)
	}
}

func TestConfigSetWritesPresetPath(t *testing.T) {
	c, _, _ := testCLI(t, "")
	cfg := c.configPath
	home := os.Getenv("XDG_CONFIG_HOME")

	res := execute(t, c, "config", "set", "tabWidth", "2")
	if res.code != 0 {
		t.Fatalf("config set failed: %s", res.stderr)
	}
	if _, err := os.Stat(cfg); err != nil {
		t.Errorf("expected settings at %s: %v", cfg, err)
	}
	if _, err := os.Stat(filepath.Join(home, "quicklog")); err == nil {
		t.Error("expected the default config dir to stay untouched")
	}
}

func TestConfigSetWarnsAboutInvalidFileValues(t *testing.T) {
	c, _, _ := testCLI(t, "")
	if err := os.WriteFile(c.configPath, []byte("insertion = \"sideways\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := c.configPath

	res := execute(t, c, "config", "set", "language", "ko")
	if res.code != 0 {
		t.Fatalf("config set failed: %s", res.stderr)
	}
	if !strings.Contains(res.stderr, "warning:") || !strings.Contains(res.stderr, "insertion") {
		t.Errorf("expected a warning naming the invalid key, got %q", res.stderr)
	}

	c, _, _ = testCLI(t, "")
	c.configPath = cfg
	res = execute(t, c, "config", "get", "language")
	if res.stdout != "ko\n" {
		t.Errorf("expected %q, got %q", "ko\n", res.stdout)
	}
}

func TestConfigSetRejectsInvalid(t *testing.T) {
	c, _, _ := testCLI(t, "")

	res := execute(t, c, "config", "set", "insertion", "sideways")
	if res.code == 0 {
		t.Error("expected invalid value to fail")
	}
	if _, err := os.Stat(c.configPath); err == nil {
		t.Error("expected no settings file to be written")
	}
}

func TestScriptWrite(t *testing.T) {
	path := writeSource(t, "main.js", "let a = 1;\n")
	script := writeSource(t, "log.lua", `
local ks = require("ks")
ks.cursor.move_to_line(1)
print(ks.quicklog.insert("a"))
`)
	c, _, _ := testCLI(t, "")

	res := execute(t, c, "script", path, script, "--write")
	if res.code != 0 {
		t.Fatalf("script failed: %s", res.stderr)
	}
	if !strings.HasPrefix(res.stdout, "console.log('main.js:2 | a : ', a);\t2\n") {
		t.Errorf("unexpected script output %q", res.stdout)
	}
	want := "let a = 1;\nconsole.log('main.js:2 | a : ', a);\n"
	if got := readFile(t, path); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestScriptError(t *testing.T) {
	path := writeSource(t, "main.js", "x;\n")
	script := writeSource(t, "bad.lua", `error("boom")`)
	c, _, _ := testCLI(t, "")

	res := execute(t, c, "script", path, script)
	if res.code == 0 || !strings.Contains(res.stderr, "boom") {
		t.Errorf("expected script error, got code %d: %s", res.code, res.stderr)
	}
}

// quitScreen queues ctrl+q as soon as the screen is initialised.
type quitScreen struct {
	tcell.SimulationScreen
}

func (q quitScreen) Init() error {
	if err := q.SimulationScreen.Init(); err != nil {
		return err
	}
	q.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
	return nil
}

func TestEditNewFile(t *testing.T) {
	c, _, _ := testCLI(t, "")
	c.newScreen = func() (tcell.Screen, error) {
		return quitScreen{tcell.NewSimulationScreen("UTF-8")}, nil
	}

	res := execute(t, c, "edit", filepath.Join(t.TempDir(), "new.js"))
	if res.code != 0 {
		t.Fatalf("edit failed: %s", res.stderr)
	}
	if res.stderr != "" {
		t.Errorf("expected no log output on the terminal, got %q", res.stderr)
	}
}

func TestParsePoint(t *testing.T) {
	tests := []struct {
		in      string
		line    uint32
		col     uint32
		wantErr bool
	}{
		{"1:1", 0, 0, false},
		{"12:9", 11, 8, false},
		{"3", 2, 0, false},
		{"0:1", 0, 0, true},
		{"a:b", 0, 0, true},
	}

	for _, tt := range tests {
		pt, err := parsePoint(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePoint(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && (pt.Line != tt.line || pt.Column != tt.col) {
			t.Errorf("parsePoint(%q) = %v, want %d:%d", tt.in, pt, tt.line, tt.col)
		}
	}
}

func TestRunExitCodes(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := run([]string{"--version"}, strings.NewReader(""), &out, &errOut); code != 0 {
		t.Errorf("expected exit 0 for --version, got %d", code)
	}
	if !strings.Contains(out.String(), version) {
		t.Errorf("expected version in output, got %q", out.String())
	}
	if code := run([]string{"bogus"}, strings.NewReader(""), &out, &errOut); code != 1 {
		t.Errorf("expected exit 1 for unknown command, got %d", code)
	}
}
