package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/quicklog/internal/config"
	"github.com/dshills/quicklog/internal/messages"
)

func newConfigCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print every setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application()
			if err != nil {
				return err
			}
			st := a.Settings()
			for _, key := range config.Keys() {
				v, _ := st.Get(key)
				fmt.Fprintf(c.out, "%s = %q\n", key, v)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get KEY",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application()
			if err != nil {
				return err
			}
			v, err := a.Settings().Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, v)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Validate and store one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application()
			if err != nil {
				return err
			}
			if _, err := a.Store().SetValue(args[0], args[1]); err != nil {
				if !errors.Is(err, config.ErrInvalidFileValues) {
					return err
				}
				c.notice("warning: %v", err)
			}
			if args[0] == config.KeyShortcut {
				c.notice("%s", a.Catalog().Text(messages.SettingsShortcutRestart))
			}
			c.success("%s = %q", args[0], args[1])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the settings file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, a.Store().Path())
			return nil
		},
	})
	return cmd
}
