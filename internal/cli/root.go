package cli

import (
	"context"

	"github.com/alexanderramin/tasktree/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// GlobalFlags are the persistent flags shared by every subcommand. Empty
// values leave the loaded configuration untouched.
type GlobalFlags struct {
	ConfigPath string
	DBPath     string
	Backend    string
	APIURL     string
}

func bindGlobalFlags(fs *pflag.FlagSet, g *GlobalFlags) {
	fs.StringVar(&g.ConfigPath, "config", "", "Config file (default ~/.tasktree/config.yaml)")
	fs.StringVar(&g.DBPath, "db", "", "SQLite database path")
	fs.StringVar(&g.Backend, "backend", "", "Hierarchy backend: sqlite or http")
	fs.StringVar(&g.APIURL, "api-url", "", "Base URL of the task API (http backend)")
}

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Tasks     service.TaskService
	Hierarchy service.HierarchyService
	Import    service.ImportService

	// Init wires the services once flags are parsed. Tests leave it nil and
	// set the services directly.
	Init func(ctx context.Context, flags GlobalFlags) error

	// IsInteractive reports whether stdin/stdout are a terminal.
	IsInteractive func() bool

	// Confirm asks a yes/no question. Defaults to a huh form.
	Confirm func(title string) (bool, error)

	// RunProgram runs a bubbletea model to completion. Defaults to tea.NewProgram.
	RunProgram func(m tea.Model) (tea.Model, error)
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) confirm(title string) (bool, error) {
	if a.Confirm != nil {
		return a.Confirm(title)
	}
	var ok bool
	if err := confirmForm(title, &ok).Run(); err != nil {
		return false, err
	}
	return ok, nil
}

func (a *App) runProgram(m tea.Model) (tea.Model, error) {
	if a.RunProgram != nil {
		return a.RunProgram(m)
	}
	return tea.NewProgram(m).Run()
}

// NewRootCmd creates the top-level "tasktree" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var flags GlobalFlags

	root := &cobra.Command{
		Use:           "tasktree",
		Short:         "Hierarchical task tracker with weighted progress",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Init == nil {
				return nil
			}
			return app.Init(cmd.Context(), flags)
		},
	}
	bindGlobalFlags(root.PersistentFlags(), &flags)

	root.AddCommand(
		newTaskCmd(app),
		newTreeCmd(app),
		newFlatCmd(app),
		newProgressCmd(app),
		newReorderCmd(app),
		newImportCmd(app),
		newLintCmd(app),
	)

	return root
}
