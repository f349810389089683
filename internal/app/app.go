// Package app wires configuration, logging and documents to the QuickLog
// actions. Front ends (the CLI, the terminal editor and scripts) drive an
// Application rather than the packages underneath it.
package app

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/dshills/quicklog/internal/config"
	"github.com/dshills/quicklog/internal/engine"
	"github.com/dshills/quicklog/internal/messages"
	"github.com/dshills/quicklog/internal/quicklog"
	"github.com/dshills/quicklog/internal/quicklog/extract"
	"github.com/dshills/quicklog/internal/quicklog/placement"
	"github.com/dshills/quicklog/internal/quicklog/template"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the settings file. Empty means config.DefaultPath.
	ConfigPath string

	// LogLevel overrides the logLevel setting when non-empty.
	LogLevel string

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// LogFile appends log lines to a file instead of LogOutput.
	LogFile string

	// Language overrides the language setting when non-empty.
	Language string

	// Overrides are setting values applied after the file and environment.
	Overrides map[string]string

	// StoreOptions are passed to config.NewStore.
	StoreOptions []config.StoreOption
}

// Application holds the state shared by every front end.
type Application struct {
	mu sync.RWMutex

	opts     Options
	store    *config.Store
	settings config.Settings
	watcher  *config.Watcher

	logger    *Logger
	logCloser io.Closer
	catalog   *messages.Catalog
	service *quicklog.Service
	metrics *Metrics
}

// New loads settings and builds the QuickLog service.
func New(opts Options) (*Application, error) {
	path := opts.ConfigPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, &ComponentError{Component: "config", Err: err}
		}
		path = p
	}

	store, err := config.NewStore(path, opts.StoreOptions...)
	if err != nil {
		return nil, &ComponentError{Component: "config", Err: err}
	}

	var (
		logger    *Logger
		logCloser io.Closer
	)
	if opts.LogFile != "" {
		logger, logCloser, err = OpenLogFile(opts.LogFile, LogLevelInfo)
		if err != nil {
			return nil, &ComponentError{Component: "logging", Err: err}
		}
	} else {
		cfg := DefaultLoggerConfig()
		if opts.LogOutput != nil {
			cfg.Output = opts.LogOutput
		}
		logger = NewLogger(cfg)
	}

	settings, loadErr := store.Load()
	if loadErr != nil {
		logger.Warn("settings loaded with errors from %s: %v", path, loadErr)
	}
	if err := applyOverrides(&settings, opts); err != nil {
		closeQuietly(logCloser)
		return nil, &ComponentError{Component: "config", Err: err}
	}
	logger.SetLevel(ParseLogLevel(settings.LogLevel))

	qopts, err := QuickLogOptions(settings)
	if err != nil {
		closeQuietly(logCloser)
		return nil, &ComponentError{Component: "config", Err: err}
	}

	catalog := messages.New(settings.Language)
	a := &Application{
		opts:      opts,
		store:     store,
		settings:  settings,
		logger:    logger,
		logCloser: logCloser,
		catalog:   catalog,
		metrics:   NewMetrics(),
	}
	a.service = quicklog.NewService(qopts,
		quicklog.WithLogger(logger.WithComponent("quicklog")),
		quicklog.WithCatalog(catalog),
	)

	logger.Debug("application ready config=%s language=%s", path, catalog.Language())
	return a, nil
}

func applyOverrides(st *config.Settings, opts Options) error {
	values := make(map[string]string, len(opts.Overrides)+2)
	for k, v := range opts.Overrides {
		values[k] = v
	}
	if opts.LogLevel != "" {
		values[config.KeyLogLevel] = opts.LogLevel
	}
	if opts.Language != "" {
		values[config.KeyLanguage] = opts.Language
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := st.Set(k, values[k]); err != nil {
			return err
		}
	}
	return nil
}

// QuickLogOptions converts settings to service options.
func QuickLogOptions(st config.Settings) (quicklog.Options, error) {
	mode, err := extract.ParseMode(st.SelectionMode)
	if err != nil {
		return quicklog.Options{}, err
	}
	ins, err := placement.ParseInsertion(st.Insertion)
	if err != nil {
		return quicklog.Options{}, err
	}
	nosel, err := placement.ParseNoSelection(st.NoSelection)
	if err != nil {
		return quicklog.Options{}, err
	}
	return quicklog.Options{
		Template:      template.Template(st.LogTemplate),
		SelectionMode: mode,
		Placement: placement.Options{
			Insertion:   ins,
			NoSelection: nosel,
			TabWidth:    st.TabWidth,
		},
	}, nil
}

// Settings returns the settings in effect.
func (a *Application) Settings() config.Settings {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.settings
}

// Store returns the settings store.
func (a *Application) Store() *config.Store { return a.store }

// Service returns the QuickLog service.
func (a *Application) Service() *quicklog.Service { return a.service }

// Logger returns the application logger.
func (a *Application) Logger() *Logger { return a.logger }

// Metrics returns the action metrics.
func (a *Application) Metrics() *Metrics { return a.metrics }

// Catalog returns the message catalog in use.
func (a *Application) Catalog() *messages.Catalog {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.catalog
}

// ApplySettings swaps the settings in effect. The shortcut key is only
// read at startup.
func (a *Application) ApplySettings(st config.Settings) error {
	if err := applyOverrides(&st, a.opts); err != nil {
		return err
	}
	qopts, err := QuickLogOptions(st)
	if err != nil {
		return err
	}

	a.mu.Lock()
	old := a.settings
	a.settings = st
	if old.Language != st.Language {
		a.catalog = messages.New(st.Language)
	}
	catalog := a.catalog
	a.mu.Unlock()

	a.service.SetOptions(qopts)
	a.service.SetCatalog(catalog)
	a.logger.SetLevel(ParseLogLevel(st.LogLevel))

	changed := old.Diff(st)
	for _, key := range changed {
		if key == config.KeyShortcut {
			a.logger.Info("shortcut %q takes effect after restart", st.ShortcutKey)
		}
	}
	if len(changed) > 0 {
		a.logger.Debug("settings applied: %v", changed)
	}
	return nil
}

// StartWatching reloads settings whenever the settings file changes.
func (a *Application) StartWatching() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.watcher != nil {
		return nil
	}

	w, err := config.Watch(a.store, func(_, cur config.Settings) {
		if err := a.ApplySettings(cur); err != nil {
			a.logger.Warn("settings rejected: %v", err)
		}
	}, config.WithErrorHandler(func(err error) {
		a.logger.Warn("settings reload failed: %v", err)
	}))
	if err != nil {
		return NewOperationError("watch", a.store.Path(), err)
	}
	a.watcher = w
	return nil
}

// Close stops the settings watcher and closes the log file.
func (a *Application) Close() error {
	a.mu.Lock()
	w, c := a.watcher, a.logCloser
	a.watcher, a.logCloser = nil, nil
	a.mu.Unlock()

	var err error
	if w != nil {
		err = w.Close()
	}
	if c != nil {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}

// Open loads path as a document using the configured tab width.
func (a *Application) Open(path string) (*Document, error) {
	return OpenDocument(path, a.engineOptions()...)
}

// NewDocument wraps content as a document named path.
func (a *Application) NewDocument(path string, content []byte) *Document {
	return NewDocument(path, content, a.engineOptions()...)
}

func (a *Application) engineOptions() []engine.Option {
	return []engine.Option{engine.WithTabWidth(a.Settings().TabWidth)}
}

// Editor returns the ports of doc. session may be nil.
func (a *Application) Editor(doc *Document, session quicklog.InteractiveEditSession) quicklog.Editor {
	return quicklog.Editor{
		FileName: doc.Name,
		Buffer:   doc.Engine,
		Carets:   doc.Engine,
		Tx:       doc.Engine,
		Session:  session,
	}
}

// Insert runs the insert action on doc and records metrics.
func (a *Application) Insert(doc *Document, session quicklog.InteractiveEditSession) (quicklog.InsertResult, error) {
	timer := StartTimer()
	res, err := a.service.InsertLog(a.Editor(doc, session))
	if err != nil {
		a.metrics.RecordFailure()
		return res, NewOperationError("insert", doc.Name, err)
	}
	a.metrics.RecordInsert(res.Insertion.Mode(), timer.Elapsed())
	return res, nil
}

// Clean runs the delete action on doc and records metrics.
func (a *Application) Clean(doc *Document, p quicklog.Prompter) (quicklog.DeleteResult, error) {
	res, err := a.service.DeleteLogs(a.Editor(doc, nil), p)
	if err != nil {
		a.metrics.RecordFailure()
		return res, NewOperationError("clean", doc.Name, err)
	}
	a.metrics.RecordClean(res.Found.Len(), res.Deleted, res.Declined)
	return res, nil
}

// String describes the application for debug output.
func (a *Application) String() string {
	st := a.Settings()
	return fmt.Sprintf("quicklog(config=%s, language=%s, mode=%s)", a.store.Path(), st.Language, st.SelectionMode)
}
