package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/quicklog/internal/quicklog/template"
)

func newPreviewCmd(c *cli) *cobra.Command {
	var copyOut bool

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the configured template with sample values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application()
			if err != nil {
				return err
			}
			return c.emit(a.Settings().Preview(), copyOut)
		},
	}
	cmd.Flags().BoolVar(&copyOut, "copy", false, "also copy the result to the clipboard")
	return cmd
}

func newExpandCmd(c *cli) *cobra.Command {
	var (
		file    string
		line    int
		varName string
		copyOut bool
	)

	cmd := &cobra.Command{
		Use:   "expand [TEMPLATE]",
		Short: "Substitute ${file}, ${line} and ${var} in a template",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application()
			if err != nil {
				return err
			}
			tpl := template.Template(a.Settings().LogTemplate)
			if len(args) == 1 {
				tpl = template.Template(args[0])
			}
			if line < 1 {
				return fmt.Errorf("invalid line %d: must be at least 1", line)
			}
			return c.emit(template.Substitute(tpl, file, line, varName), copyOut)
		},
	}

	f := cmd.Flags()
	f.StringVar(&file, "file", "file.js", "value for ${file}")
	f.IntVar(&line, "line", 1, "value for ${line}")
	f.StringVar(&varName, "var", "value", "value for ${var}")
	f.BoolVar(&copyOut, "copy", false, "also copy the result to the clipboard")
	return cmd
}

// emit prints text and optionally copies it to the clipboard.
func (c *cli) emit(text string, copyOut bool) error {
	fmt.Fprintln(c.out, text)
	if !copyOut {
		return nil
	}
	if err := c.copyText(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	c.notice("copied to clipboard")
	return nil
}
