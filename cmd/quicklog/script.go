package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/quicklog/internal/app"
	"github.com/dshills/quicklog/internal/plugin"
	"github.com/dshills/quicklog/internal/plugin/api"
	plua "github.com/dshills/quicklog/internal/plugin/lua"
)

func newScriptCmd(c *cli) *cobra.Command {
	var (
		write          bool
		yes            bool
		timeout        time.Duration
		allowClipboard bool
	)

	cmd := &cobra.Command{
		Use:   "script FILE SCRIPT.lua",
		Short: "Run a Lua script against FILE",
		Long: `Runs SCRIPT.lua with the ks API bound to FILE:

  local ks = require("ks")
  ks.cursor.set(ks.buf.len())
  ks.quicklog.insert("total")`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application()
			if err != nil {
				return err
			}
			doc, err := a.Open(args[0])
			if err != nil {
				return err
			}

			opts := plugin.Options{Timeout: timeout, Output: c.out}
			if allowClipboard {
				opts.Capabilities = append(opts.Capabilities, plua.CapabilityClipboard)
			}
			runner, err := plugin.NewRunner(&api.Context{
				FileName: doc.Name,
				Buffer:   doc.Engine,
				Cursor:   doc.Engine,
				Service:  a.Service(),
				Prompter: &prompter{c: c, yes: yes},
			}, opts)
			if err != nil {
				return err
			}
			defer runner.Close()

			if err := runner.RunFile(cmd.Context(), args[1]); err != nil {
				return err
			}
			return finishScript(c, doc, write)
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&write, "write", "w", false, "write FILE when the script changed it")
	f.BoolVarP(&yes, "yes", "y", false, "confirm deletions requested by the script")
	f.DurationVar(&timeout, "timeout", 0, "script time limit (default 5s)")
	f.BoolVar(&allowClipboard, "allow-clipboard", false, "grant the script clipboard access")
	return cmd
}

func finishScript(c *cli, doc *app.Document, write bool) error {
	if !doc.IsModified() {
		return nil
	}
	if !write {
		fmt.Fprint(c.out, app.ColorizeDiff(doc.Diff()))
		return nil
	}
	if err := doc.Save(); err != nil {
		return err
	}
	c.success("saved %s", doc.Path)
	return nil
}
