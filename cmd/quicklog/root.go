package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/quicklog/internal/app"
	"github.com/dshills/quicklog/internal/engine/buffer"
)

// cli holds the global flags and the I/O seams the commands use.
type cli struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	configPath string
	logLevel   string
	logFile    string

	// quietLog discards log output when no log file is set.
	quietLog bool

	isTerminal func() bool
	copyText   func(string) error
	newScreen  func() (tcell.Screen, error)

	app *app.Application
}

func newCLI(in io.Reader, out, errOut io.Writer) *cli {
	return &cli{
		in:     in,
		out:    out,
		errOut: errOut,
		isTerminal: func() bool {
			f, ok := in.(*os.File)
			return ok && term.IsTerminal(int(f.Fd()))
		},
		copyText:  clipboard.WriteAll,
		newScreen: tcell.NewScreen,
	}
}

// application builds the Application on first use.
func (c *cli) application() (*app.Application, error) {
	if c.app != nil {
		return c.app, nil
	}
	opts := app.Options{
		ConfigPath: c.configPath,
		LogLevel:   c.logLevel,
		LogFile:    c.logFile,
		LogOutput:  c.errOut,
	}
	if c.quietLog {
		opts.LogOutput = io.Discard
	}
	a, err := app.New(opts)
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

func (c *cli) close() {
	if c.app != nil {
		_ = c.app.Close()
		c.app = nil
	}
}

func (c *cli) success(format string, args ...any) {
	color.New(color.FgGreen).Fprintf(c.out, "✓ "+format+"\n", args...)
}

func (c *cli) notice(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(c.errOut, format+"\n", args...)
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "quicklog",
		Short: "Insert and clean up debug log statements",
		Long: `quicklog inserts formatted debug log statements (file, line and
variable) into source files and removes the ones it generated.

Examples:
  quicklog insert main.js --at 12:9          Log the word at line 12, column 9
  quicklog clean main.js --yes --write       Remove generated statements
  quicklog edit main.js                      Open the terminal editor`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(c.in)
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&c.configPath, "config", "c", c.configPath, "settings file (.toml, .yaml or .json)")
	pf.StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&c.logFile, "log-file", "", "append log output to this file")

	root.AddCommand(
		newInsertCmd(c),
		newCleanCmd(c),
		newPreviewCmd(c),
		newExpandCmd(c),
		newConfigCmd(c),
		newEditCmd(c),
		newScriptCmd(c),
	)
	return root
}

// parsePoint parses a 1-based "LINE:COL" position.
func parsePoint(s string) (buffer.Point, error) {
	line, col, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		col = "1"
	}
	l, err := strconv.ParseUint(line, 10, 32)
	if err != nil || l == 0 {
		return buffer.Point{}, fmt.Errorf("invalid position %q: want LINE:COL", s)
	}
	cl, err := strconv.ParseUint(col, 10, 32)
	if err != nil || cl == 0 {
		return buffer.Point{}, fmt.Errorf("invalid position %q: want LINE:COL", s)
	}
	return buffer.Point{Line: uint32(l - 1), Column: uint32(cl - 1)}, nil
}

// parseSpan parses "L:C-L:C".
func parseSpan(s string) (buffer.Point, buffer.Point, error) {
	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return buffer.Point{}, buffer.Point{}, fmt.Errorf("invalid selection %q: want L:C-L:C", s)
	}
	start, err := parsePoint(from)
	if err != nil {
		return buffer.Point{}, buffer.Point{}, err
	}
	end, err := parsePoint(to)
	if err != nil {
		return buffer.Point{}, buffer.Point{}, err
	}
	return start, end, nil
}
