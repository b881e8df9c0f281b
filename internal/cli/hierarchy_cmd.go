package cli

import (
	"fmt"

	"github.com/alexanderramin/tasktree/internal/cli/formatter"
	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/progress"
	"github.com/spf13/cobra"
)

func newTreeCmd(app *App) *cobra.Command {
	var scope int

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the task hierarchy",
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, err := app.Hierarchy.Tree(cmd.Context(), scope)
			if err != nil {
				return err
			}
			if len(roots) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTree(formatter.TreeItems(roots, completionBadge)))
			return nil
		},
	}

	cmd.Flags().IntVar(&scope, "scope", 0, "Only show the subtree below this task")

	return cmd
}

// completionBadge shows weighted completion for assigned leaves and the
// completed-children count for parents.
func completionBadge(n *domain.TreeNode) string {
	if !n.IsLeaf() {
		return fmt.Sprintf("%d/%d done", progress.SubtreeCompletionRatio(n), len(n.Children))
	}
	if len(n.Users) == 0 {
		return ""
	}
	return fmt.Sprintf("%d%%", progress.TaskCompletion(n.Task))
}

func newFlatCmd(app *App) *cobra.Command {
	var scope int

	cmd := &cobra.Command{
		Use:   "flat",
		Short: "Print the hierarchy as a depth-first table",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := app.Hierarchy.Flatten(cmd.Context(), scope)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFlatTable(rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&scope, "scope", 0, "Only show the subtree below this task")

	return cmd
}

func newProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress ID",
		Short: "Show weighted per-assignee progress for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task id", args[0])
			if err != nil {
				return err
			}
			p, err := app.Hierarchy.Progress(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProgress(formatter.ProgressData{
				Task:             p.Task,
				Users:            p.Users,
				Completion:       p.Completion,
				SubtreeCompleted: p.SubtreeCompleted,
				ChildCount:       p.ChildCount,
				FullyComplete:    p.FullyComplete,
			}))
			return nil
		},
	}
}

func newLintCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Report orphaned tasks and parent cycles",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			orphans, err := app.Hierarchy.Orphans(ctx)
			if err != nil {
				return err
			}
			cycles, err := app.Hierarchy.Cycles(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLint(orphans, cycles))
			if len(orphans) > 0 || len(cycles) > 0 {
				return fmt.Errorf("found %d orphan(s) and %d cycle(s)", len(orphans), len(cycles))
			}
			return nil
		},
	}
}

func newImportCmd(app *App) *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a JSON or YAML task snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Import.ImportSnapshot(cmd.Context(), args[0], replace)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if res.Replaced > 0 {
				fmt.Fprintf(out, "Replaced %d existing task(s)\n", res.Replaced)
			}
			fmt.Fprintf(out, "Imported %d task(s), %d assignee(s), %d report(s)\n",
				res.TaskCount, res.AssigneeCount, res.ReportCount)
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Delete all existing tasks before importing")

	return cmd
}
