package cli

import (
	"fmt"

	"github.com/alexanderramin/tasktree/internal/cli/formatter"
	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/progress"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks, assignees and progress reports",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskShowCmd(app),
		newTaskUpdateCmd(app),
		newTaskStatusCmd(app),
		newTaskRemoveCmd(app),
		newTaskAssignCmd(app),
		newTaskUnassignCmd(app),
		newTaskReportCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var (
		id, parent         int
		title, description string
		status             domain.TaskStatus
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task as the last child of its parent",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := &domain.Task{
				ID:          id,
				ParentID:    parent,
				Title:       title,
				Description: description,
				Status:      status,
			}
			if err := app.Tasks.Create(cmd.Context(), t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task #%d %s under %s\n", t.ID, t.Title, formatter.ParentRef(t.ParentID))
			return nil
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "Explicit task id (default: next free id)")
	cmd.Flags().IntVar(&parent, "parent", 0, "Parent task id (0 for a top-level task)")
	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().Var(newStatusValue(domain.StatusPending, &status), "status", statusUsage())
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newTaskShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a task with its assignees and reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task id", args[0])
			if err != nil {
				return err
			}
			t, err := app.Tasks.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskDetail(t, progress.TaskCompletion(*t)))
			return nil
		},
	}
}

func newTaskUpdateCmd(app *App) *cobra.Command {
	var (
		parent             int
		title, description string
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Edit a task's title, description or parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task id", args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("title") && !flags.Changed("description") && !flags.Changed("parent") {
				return fmt.Errorf("nothing to update: pass --title, --description or --parent")
			}

			t, err := app.Tasks.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if flags.Changed("title") {
				t.Title = title
			}
			if flags.Changed("description") {
				t.Description = description
			}
			if flags.Changed("parent") {
				t.ParentID = parent
			}
			if err := app.Tasks.Update(cmd.Context(), t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task #%d %s\n", t.ID, t.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().IntVar(&parent, "parent", 0, "Move under this parent (0 for top level)")

	return cmd
}

func newTaskStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Change a task's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task id", args[0])
			if err != nil {
				return err
			}
			status, err := domain.ParseTaskStatus(args[1])
			if err != nil {
				return err
			}
			if err := app.Tasks.SetStatus(cmd.Context(), id, status); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task #%d is now %s\n", id, formatter.StatusPill(status))
			return nil
		},
	}
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	var yes, cascade bool

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task id", args[0])
			if err != nil {
				return err
			}

			if !yes {
				if !app.interactive() {
					return fmt.Errorf("refusing to delete task #%d without --yes on a non-interactive terminal", id)
				}
				title := fmt.Sprintf("Delete task #%d?", id)
				if cascade {
					title = fmt.Sprintf("Delete task #%d and all of its subtasks?", id)
				}
				ok, err := app.confirm(title)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			n, err := app.Tasks.Delete(cmd.Context(), id, cascade)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d task(s)\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&cascade, "cascade", false, "Also delete every descendant")

	return cmd
}

func newTaskAssignCmd(app *App) *cobra.Command {
	var (
		name   string
		weight float64
	)

	cmd := &cobra.Command{
		Use:   "assign TASK USER",
		Short: "Assign a user to a task with a contribution weight",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID("task id", args[0])
			if err != nil {
				return err
			}
			userID, err := parseID("user id", args[1])
			if err != nil {
				return err
			}
			if weight < 0 {
				return fmt.Errorf("invalid weight %v: must not be negative", weight)
			}
			if name == "" {
				name = fmt.Sprintf("user-%d", userID)
			}
			u := domain.TaskUser{ID: userID, Name: name, TaskWeight: weight}
			if err := app.Tasks.Assign(cmd.Context(), taskID, u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assigned %s to task #%d (weight %g)\n", u.Name, taskID, u.TaskWeight)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (default user-ID)")
	cmd.Flags().Float64Var(&weight, "weight", 1, "Relative contribution weight")

	return cmd
}

func newTaskUnassignCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unassign TASK USER",
		Short: "Remove a user from a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID("task id", args[0])
			if err != nil {
				return err
			}
			userID, err := parseID("user id", args[1])
			if err != nil {
				return err
			}
			if err := app.Tasks.Unassign(cmd.Context(), taskID, userID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unassigned user %d from task #%d\n", userID, taskID)
			return nil
		},
	}
}

func newTaskReportCmd(app *App) *cobra.Command {
	var (
		userID int
		points float64
		note   string
	)

	cmd := &cobra.Command{
		Use:   "report TASK",
		Short: "Record progress points for an assignee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID("task id", args[0])
			if err != nil {
				return err
			}
			r := &domain.TaskReport{TaskID: taskID, UserID: userID, Progress: points, Note: note}
			if err := app.Tasks.AddReport(cmd.Context(), r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %g points for user %d on task #%d\n", r.Progress, r.UserID, taskID)
			return nil
		},
	}

	cmd.Flags().IntVar(&userID, "user", 0, "Reporting user id")
	cmd.Flags().Float64Var(&points, "progress", 0, "Progress points (0-100)")
	cmd.Flags().StringVar(&note, "note", "", "Optional note")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("progress")

	return cmd
}
