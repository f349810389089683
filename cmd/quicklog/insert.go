package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/dshills/quicklog/internal/app"
	"github.com/dshills/quicklog/internal/engine/cursor"
	"github.com/dshills/quicklog/internal/messages"
	"github.com/dshills/quicklog/internal/quicklog"
	"github.com/dshills/quicklog/internal/quicklog/template"
)

// insertReport is the --json output of insert.
type insertReport struct {
	ID     string `json:"id"`
	File   string `json:"file"`
	Line   int    `json:"line"`
	Var    string `json:"var"`
	Mode   string `json:"mode"`
	Offset int64  `json:"offset"`
	Text   string `json:"text"`
	Saved  bool   `json:"saved"`
}

func newInsertCmd(c *cli) *cobra.Command {
	var (
		at       string
		sel      string
		varName  string
		write    bool
		showDiff bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "insert FILE",
		Short: "Insert a log statement after the given position",
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

			pt, err := parsePoint(at)
			if err != nil {
				return err
			}
			eng := doc.Engine
			eng.SetPrimaryCursor(eng.PointToOffset(pt))
			if sel != "" {
				from, to, err := parseSpan(sel)
				if err != nil {
					return err
				}
				eng.SetPrimarySelection(cursor.NewSelection(eng.PointToOffset(from), eng.PointToOffset(to)))
			}

			res, err := insert(a, doc, varName)
			if errors.Is(err, quicklog.ErrNoContext) {
				c.notice("%s", a.Catalog().Text(messages.InsertNoContext))
				return nil
			}
			if err != nil {
				return err
			}

			if write {
				if err := doc.Save(); err != nil {
					return err
				}
			}

			switch {
			case asJSON:
				rep := insertReport{
					ID:     res.ID,
					File:   res.Context.FileName,
					Line:   template.ReportedLine(res.Context),
					Var:    res.Context.SelectionText(),
					Mode:   res.Insertion.Mode().String(),
					Offset: int64(res.Insertion.Offset),
					Text:   strings.TrimLeft(res.Insertion.Text, "\r\n"),
					Saved:  write,
				}
				data, err := json.MarshalIndent(rep, "", "  ")
				if err != nil {
					return fmt.Errorf("encode report: %w", err)
				}
				fmt.Fprintln(c.out, string(data))
			case showDiff:
				fmt.Fprint(c.out, app.ColorizeDiff(doc.Diff()))
			case write:
				c.success("inserted log at line %d of %s", template.ReportedLine(res.Context), doc.Path)
			default:
				fmt.Fprint(c.out, doc.Encoded())
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&at, "at", "", "caret position LINE:COL (1-based)")
	f.StringVar(&sel, "select", "", "selection L:C-L:C to log instead of the word at the caret")
	f.StringVar(&varName, "var", "", "expression to log")
	f.BoolVarP(&write, "write", "w", false, "write the result back to FILE")
	f.BoolVar(&showDiff, "diff", false, "print a unified diff instead of the file")
	f.BoolVar(&asJSON, "json", false, "print a JSON report")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

// insert runs the insert action. A non-empty varName replaces the
// extracted selection.
func insert(a *app.Application, doc *app.Document, varName string) (quicklog.InsertResult, error) {
	if varName == "" {
		return a.Insert(doc, nil)
	}
	ed := a.Editor(doc, nil)
	ctx, err := a.Service().Context(ed)
	if err != nil {
		return quicklog.InsertResult{}, err
	}
	ctx.Selection = &varName
	res, err := a.Service().InsertContext(ed, ctx)
	if err != nil {
		a.Metrics().RecordFailure()
		return res, app.NewOperationError("insert", doc.Name, err)
	}
	a.Metrics().RecordInsert(res.Insertion.Mode(), 0)
	return res, nil
}
