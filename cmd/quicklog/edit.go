package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/quicklog/internal/app"
	"github.com/dshills/quicklog/internal/tui"
)

func newEditCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "edit FILE",
		Short: "Open FILE in the terminal editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.quietLog = true
			a, err := c.application()
			if err != nil {
				return err
			}

			doc, err := a.Open(args[0])
			if app.IsNotExist(err) {
				doc, err = a.NewDocument(args[0], nil), nil
			}
			if err != nil {
				return err
			}
			if err := a.StartWatching(); err != nil {
				a.Logger().Warn("settings watcher not started: %v", err)
			}

			screen, err := c.newScreen()
			if err != nil {
				return fmt.Errorf("create screen: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("init screen: %w", err)
			}
			defer screen.Fini()

			return tui.New(screen, a, doc).Run()
		},
	}
}
