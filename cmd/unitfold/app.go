// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/unitfold/unitfold/internal/config"
	"github.com/unitfold/unitfold/internal/issue"
	"github.com/unitfold/unitfold/pkg/catalog"
	"github.com/unitfold/unitfold/pkg/interpreter"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type (
	// App is the dependency root for the CLI layer. Command handlers receive
	// an App and reach configuration and catalogs only through it.
	App struct {
		Config   config.Provider
		Catalogs CatalogLoader

		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer
		logger *log.Logger

		// issueStyle forces the glamour style; empty follows ui.color_scheme.
		issueStyle string

		// Values bound to persistent flags.
		verbose    bool
		configPath string
		precision  int
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config   config.Provider
		Catalogs CatalogLoader
		Stdin    io.Reader
		Stdout   io.Writer
		Stderr   io.Writer
		// IssueStyle overrides the glamour style used for issue pages.
		IssueStyle string
	}

	// CatalogLoader builds the unit catalog selected by the configuration.
	CatalogLoader interface {
		Load(ctx context.Context, cfg config.CatalogConfig) (*catalog.Catalog, error)
	}

	fileCatalogLoader struct{}

	// environment is what a command needs after loading config and catalog.
	environment struct {
		cfg     *config.Config
		cfgPath string
		catalog *catalog.Catalog
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Catalogs == nil {
		deps.Catalogs = fileCatalogLoader{}
	}

	return &App{
		Config:     deps.Config,
		Catalogs:   deps.Catalogs,
		stdin:      deps.Stdin,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
		issueStyle: deps.IssueStyle,
		precision:  -1,
		logger: log.NewWithOptions(deps.Stderr, log.Options{
			Prefix: config.AppName,
			Level:  log.InfoLevel,
		}),
	}
}

// Load builds the builtin catalog (when enabled) plus the configured sources.
func (fileCatalogLoader) Load(ctx context.Context, cfg config.CatalogConfig) (*catalog.Catalog, error) {
	return catalog.Load(ctx,
		catalog.WithBuiltin(cfg.Builtin),
		catalog.WithFiles(cfg.Paths()...),
	)
}

// installLogger makes the charm logger the slog default so library packages
// log through it.
func (a *App) installLogger() {
	if a.verbose {
		a.logger.SetLevel(log.DebugLevel)
	} else {
		a.logger.SetLevel(log.InfoLevel)
	}
	slog.SetDefault(slog.New(a.logger))
}

// loadConfig resolves the configuration honoring --config, ui.verbose and
// --precision.
func (a *App) loadConfig(ctx context.Context) (*config.Config, string, error) {
	cfg, path, err := a.Config.Resolve(ctx, config.LoadOptions{ConfigFilePath: a.configPath})
	if err != nil {
		id := classifyError(err)
		if id == 0 {
			id = issue.ConfigLoadFailedId
		}
		return nil, "", newServiceError(err, id, "")
	}

	if cfg.UI.Verbose && !a.verbose {
		a.verbose = true
		a.installLogger()
	}
	if a.precision >= 0 {
		cfg.Output.Precision = a.precision
	}
	if a.issueStyle == "" {
		a.issueStyle = cfg.UI.ColorScheme.GlamourStyle()
	}
	slog.Debug("configuration loaded", "path", path)
	return cfg, path, nil
}

// loadEnvironment loads the configuration and the catalog it selects.
func (a *App) loadEnvironment(ctx context.Context) (*environment, error) {
	cfg, path, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	cat, err := a.loadCatalog(ctx, cfg.Catalog)
	if err != nil {
		return nil, err
	}
	return &environment{cfg: cfg, cfgPath: path, catalog: cat}, nil
}

func (a *App) loadCatalog(ctx context.Context, cc config.CatalogConfig) (*catalog.Catalog, error) {
	cat, err := a.Catalogs.Load(ctx, cc)
	if err != nil {
		id := classifyError(err)
		if id == 0 {
			id = issue.CatalogLoadFailedId
		}
		return nil, issue.NewErrorContext().
			WithOperation("load unit catalog").
			WithIssue(id).
			WithSuggestion("Run 'unitfold catalog validate <file>' on each configured source").
			WithSuggestion("Set catalog.builtin: true unless the sources define every base unit").
			Wrap(err).
			BuildError()
	}
	return cat, nil
}

// formatter returns the result formatter configured by output.*.
func (e *environment) formatter() interpreter.Formatter {
	return interpreter.Formatter{
		Precision:           e.cfg.Output.Precision,
		ScientificThreshold: e.cfg.Output.ScientificThreshold,
	}
}

func (e *environment) interpreter() *interpreter.Interpreter {
	return interpreter.New(e.catalog, interpreter.WithFormatter(e.formatter()))
}

// fail reports err on stderr and returns an ExitError so fang stays quiet.
// Help pages for statement errors are shown in verbose mode only.
func (a *App) fail(cmd *cobra.Command, err error) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	id := classifyError(err)
	if isEvaluationIssue(id) && !a.verbose {
		id = 0
	}
	msg := ErrorStyle.Render("Error:") + " " + formatErrorForDisplay(err, a.verbose) + "\n"
	renderServiceError(a.stderr, newServiceError(err, id, msg), a.style())

	return &ExitError{Code: 1, Err: err}
}

func (a *App) style() string {
	if a.issueStyle == "" {
		return config.ColorSchemeDark.GlamourStyle()
	}
	return a.issueStyle
}
