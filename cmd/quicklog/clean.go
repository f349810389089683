package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/quicklog/internal/app"
	"github.com/dshills/quicklog/internal/messages"
)

// prompter answers delete confirmations on the terminal.
type prompter struct {
	c   *cli
	yes bool
}

func (p *prompter) Notify(title, msg string) {
	p.c.notice("%s: %s", title, msg)
}

func (p *prompter) Confirm(title, msg string) bool {
	if p.yes {
		return true
	}
	if !p.c.isTerminal() {
		p.c.notice("%s: not a terminal, pass --yes to confirm", title)
		return false
	}
	fmt.Fprintf(p.c.errOut, "%s: %s [y/N] ", title, msg)
	answer, _ := bufio.NewReader(p.c.in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func newCleanCmd(c *cli) *cobra.Command {
	var (
		yes    bool
		dryRun bool
		write  bool
	)

	cmd := &cobra.Command{
		Use:   "clean FILE",
		Short: "Remove generated log statements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application()
			if err != nil {
				return err
			}
			doc, err := a.Open(args[0])
			if err != nil {
				return err
			}

			if dryRun {
				return cleanPreview(c, a, doc)
			}

			res, err := a.Clean(doc, &prompter{c: c, yes: yes})
			if err != nil {
				return err
			}
			if res.Deleted == 0 {
				return nil
			}
			if !write {
				fmt.Fprint(c.out, doc.Encoded())
				return nil
			}
			if err := doc.Save(); err != nil {
				return err
			}
			c.success("%s", a.Catalog().Text(messages.DeleteSuccess, res.Deleted))
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&yes, "yes", "y", false, "delete without asking")
	f.BoolVar(&dryRun, "dry-run", false, "list matching lines and print a diff without changing FILE")
	f.BoolVarP(&write, "write", "w", false, "write the result back to FILE")
	return cmd
}

func cleanPreview(c *cli, a *app.Application, doc *app.Document) error {
	set := a.Service().Scanner().Scan(doc.Engine)
	if set.IsEmpty() {
		c.notice("%s: %s", a.Catalog().Text(messages.DeleteTitle), a.Catalog().Text(messages.DeleteNotFound))
		return nil
	}
	for _, line := range set {
		fmt.Fprintf(c.out, "%s:%d: %s\n", doc.Name, line+1, doc.Engine.LineText(uint32(line)))
	}

	if _, err := a.Clean(doc, &prompter{c: c, yes: true}); err != nil {
		return err
	}
	fmt.Fprint(c.out, app.ColorizeDiff(doc.Diff()))
	return nil
}
