package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/alexanderramin/tasktree/internal/apiclient"
	"github.com/alexanderramin/tasktree/internal/cli"
	"github.com/alexanderramin/tasktree/internal/config"
	"github.com/alexanderramin/tasktree/internal/db"
	"github.com/alexanderramin/tasktree/internal/logging"
	"github.com/alexanderramin/tasktree/internal/priority"
	"github.com/alexanderramin/tasktree/internal/repository"
	"github.com/alexanderramin/tasktree/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var database *sql.DB
	defer func() {
		if database != nil {
			database.Close()
		}
	}()

	app := &cli.App{}

	// Detect interactive terminal for confirmation prompts and the reorder view.
	app.IsInteractive = func() bool {
		in := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		out := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		return in && out
	}

	app.Init = func(ctx context.Context, flags cli.GlobalFlags) error {
		cfg, err := loadConfig(flags)
		if err != nil {
			return err
		}

		level, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		logger := logging.New(os.Stderr, level, cfg.Log.Format)
		observer := service.NewLogUseCaseObserver(logger)

		database, err = db.OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}

		// Wire repositories
		taskRepo := repository.NewSQLiteTaskRepo(database)
		assigneeRepo := repository.NewSQLiteAssigneeRepo(database)

		// Wire unit of work for transactional operations
		uow := db.NewSQLiteUnitOfWork(database)

		// The hierarchy reads from and saves priorities to the selected
		// backend. Task edits and imports always go to the local store.
		var (
			provider  service.TaskListProvider
			persister priority.Persister
		)
		switch cfg.Backend {
		case config.BackendHTTP:
			client := apiclient.New(apiclient.Config{
				BaseURL:    cfg.API.URL,
				Timeout:    cfg.API.Timeout(),
				MaxRetries: cfg.API.MaxRetries,
			}, apiclient.NewLogObserver(logger))
			provider, persister = client, client
		default:
			provider = service.NewLocalProvider(taskRepo)
			persister = service.NewLocalPersister(uow)
		}

		var opts []priority.Option
		if cfg.Priority.RetainOnFailure {
			opts = append(opts, priority.WithRetainOnFailure())
		}

		app.Tasks = service.NewTaskService(taskRepo, assigneeRepo, uow, observer)
		app.Hierarchy = service.NewHierarchyService(provider, persister, opts, observer)
		app.Import = service.NewImportService(uow, observer)

		logger.DebugContext(ctx, "tasktree configured",
			"backend", cfg.Backend,
			"db", cfg.DBPath,
			"retain_on_failure", cfg.Priority.RetainOnFailure,
		)
		return nil
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}

// loadConfig reads the config file and environment, then lets explicit
// command-line flags win.
func loadConfig(flags cli.GlobalFlags) (config.Config, error) {
	path := flags.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.LoadWithOverrides(path, config.Overrides{
		DBPath:  flags.DBPath,
		Backend: flags.Backend,
		APIURL:  flags.APIURL,
	})
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
