package quicklog

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/quicklog/internal/engine/cursor"
	"github.com/dshills/quicklog/internal/messages"
	"github.com/dshills/quicklog/internal/quicklog/cleanup"
	"github.com/dshills/quicklog/internal/quicklog/extract"
	"github.com/dshills/quicklog/internal/quicklog/placement"
	"github.com/dshills/quicklog/internal/quicklog/template"
)

// Transaction names recorded in undo history.
const (
	InsertActionName = "Insert Quick Log"
	DeleteActionName = "Delete Quick Logs"
)

// Options configures the actions.
type Options struct {
	Template      template.Template
	SelectionMode extract.Mode
	Placement     placement.Options
}

// DefaultOptions returns the out-of-the-box configuration.
func DefaultOptions() Options {
	return Options{
		Template:      template.Default,
		SelectionMode: extract.ModeSmart,
		Placement: placement.Options{
			Insertion:   placement.InsertLineEnd,
			NoSelection: placement.NoSelectionTemplate,
			TabWidth:    4,
		},
	}
}

// Service runs the QuickLog actions. Options may be swapped while the
// service is in use; each action reads them once when it starts.
type Service struct {
	mu      sync.RWMutex
	opts    Options
	planner *placement.Planner
	catalog *messages.Catalog

	scanner *cleanup.Scanner
	log     Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(l Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithCatalog sets the message catalog used for notices.
func WithCatalog(c *messages.Catalog) ServiceOption {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithScanner replaces the cleanup scanner.
func WithScanner(sc *cleanup.Scanner) ServiceOption {
	return func(s *Service) {
		if sc != nil {
			s.scanner = sc
		}
	}
}

// NewService creates a Service.
func NewService(opts Options, options ...ServiceOption) *Service {
	s := &Service{
		catalog: messages.Default(),
		scanner: cleanup.NewScanner(),
		log:     nopLogger{},
	}
	for _, opt := range options {
		opt(s)
	}
	s.SetOptions(opts)
	return s
}

// SetOptions replaces the configuration. An empty template falls back to
// template.Default.
func (s *Service) SetOptions(opts Options) {
	if opts.Template.IsEmpty() {
		opts.Template = template.Default
	}
	planner := placement.New(opts.Placement)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = opts
	s.opts.Placement = planner.Options()
	s.planner = planner
}

// Options returns the current configuration.
func (s *Service) Options() Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}

// SetCatalog replaces the message catalog.
func (s *Service) SetCatalog(c *messages.Catalog) {
	if c == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = c
}

// Catalog returns the message catalog.
func (s *Service) Catalog() *messages.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Scanner returns the cleanup scanner.
func (s *Service) Scanner() *cleanup.Scanner {
	return s.scanner
}

func (s *Service) snapshot() (Options, *placement.Planner, *messages.Catalog) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts, s.planner, s.catalog
}

// InsertResult describes a completed insertion.
type InsertResult struct {
	ID        string
	Context   extract.EditorContext
	Insertion placement.LogInsertion
}

// Context extracts the editor context at the primary caret.
func (s *Service) Context(ed Editor) (extract.EditorContext, error) {
	if !ed.valid() {
		return extract.EditorContext{}, ErrNoContext
	}
	opts, _, _ := s.snapshot()
	sel := ed.Carets.PrimarySelection()
	return extract.Extract(ed.Buffer, sel.Head, sel.Range(), opts.SelectionMode, ed.FileName), nil
}

// InsertLog inserts a log statement for the context at the caret.
func (s *Service) InsertLog(ed Editor) (InsertResult, error) {
	ctx, err := s.Context(ed)
	if err != nil {
		s.log.Debug("insert skipped: %v", err)
		return InsertResult{}, err
	}
	return s.InsertContext(ed, ctx)
}

// InsertContext inserts a log statement for ctx. The caret line is taken
// from the editor's primary caret.
func (s *Service) InsertContext(ed Editor, ctx extract.EditorContext) (InsertResult, error) {
	if !ed.valid() {
		s.log.Debug("insert skipped: %v", ErrNoContext)
		return InsertResult{}, ErrNoContext
	}
	opts, planner, _ := s.snapshot()

	caret := ed.Carets.PrimarySelection().Head
	exp := planner.Expand(opts.Template, ctx)
	li := planner.Plan(placement.TargetAt(ed.Buffer, caret), exp)
	res := InsertResult{ID: uuid.NewString(), Context: ctx, Insertion: li}

	err := ed.transaction(InsertActionName, func() error {
		if _, err := ed.Buffer.Insert(li.Offset, li.Text); err != nil {
			return fmt.Errorf("insert log at %d: %w", li.Offset, err)
		}
		s.placeCarets(ed, li)
		return nil
	})
	if err != nil {
		return InsertResult{}, err
	}

	s.log.Debug("inserted log id=%s file=%s line=%d mode=%s", res.ID, ctx.FileName, template.ReportedLine(ctx), li.Mode())

	if li.Plan != nil && ed.Session != nil {
		if err := ed.Session.Begin(*li.Plan); err != nil {
			s.log.Warn("tab-stop session not started: %v", err)
		}
	}
	return res, nil
}

func (s *Service) placeCarets(ed Editor, li placement.LogInsertion) {
	switch li.Mode() {
	case placement.ModePlaceholder:
		ed.Carets.SetPrimarySelection(cursor.NewRangeSelection(*li.Selection))
	case placement.ModeMulticaret:
		if mc, ok := ed.Carets.(MultiCaretSession); ok {
			mc.SetCarets(li.CaretOffsets())
			return
		}
		ed.Carets.SetPrimaryCursor(li.Collapse())
	case placement.ModeTabStop:
		ed.Carets.SetPrimaryCursor(li.Plan.PrimaryRange("").Start)
	default:
		ed.Carets.SetPrimaryCursor(li.Caret)
	}
}

// DeleteResult reports the outcome of DeleteLogs.
type DeleteResult struct {
	Found    cleanup.DeletionSet
	Deleted  int
	Declined bool
}

// DeleteLogs removes every generated log statement from the buffer after
// the prompter confirms. With nothing to remove it shows a notice; when
// the user declines nothing happens.
func (s *Service) DeleteLogs(ed Editor, p Prompter) (DeleteResult, error) {
	if ed.Buffer == nil || p == nil {
		s.log.Debug("delete skipped: %v", ErrNoContext)
		return DeleteResult{}, ErrNoContext
	}
	_, _, cat := s.snapshot()
	title := cat.Text(messages.DeleteTitle)

	set := s.scanner.Scan(ed.Buffer)
	res := DeleteResult{Found: set}
	if set.IsEmpty() {
		p.Notify(title, cat.Text(messages.DeleteNotFound))
		return res, nil
	}

	if !p.Confirm(title, cat.Text(messages.DeleteConfirm, set.Len())) {
		s.log.Debug("delete declined, %d matches", set.Len())
		res.Declined = true
		return res, nil
	}

	err := ed.transaction(DeleteActionName, func() error {
		return cleanup.Apply(ed.Buffer, set)
	})
	if err != nil {
		return res, err
	}

	res.Deleted = set.Len()
	s.log.Debug("deleted %d logs at lines %v", res.Deleted, set.OneBased())
	p.Notify(title, cat.Text(messages.DeleteSuccess, res.Deleted))
	return res, nil
}
