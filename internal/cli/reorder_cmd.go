package cli

import (
	"fmt"

	"github.com/alexanderramin/tasktree/internal/cli/formatter"
	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/priority"
	"github.com/spf13/cobra"
)

func newReorderCmd(app *App) *cobra.Command {
	var (
		order       []int
		dryRun      bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "reorder PARENT",
		Short: "Change the priority order of a task's children",
		Long: `Change the priority order of the children of PARENT (0 for top-level tasks).

Pass the complete new order with --order, or use -i to rearrange the list
interactively.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parentID, err := parseID("parent id", args[0])
			if err != nil {
				return err
			}
			if interactive && len(order) > 0 {
				return fmt.Errorf("--order and --interactive are mutually exclusive")
			}
			if !interactive && len(order) == 0 {
				return fmt.Errorf("pass the new order with --order or use --interactive")
			}

			ctx := cmd.Context()
			session, err := app.Hierarchy.NewReorderSession(ctx, parentID)
			if err != nil {
				return err
			}
			if len(session.Siblings) == 0 {
				return fmt.Errorf("%s has no children to reorder", formatter.ParentRef(parentID))
			}
			out := cmd.OutOrStdout()

			if interactive {
				final, err := app.runProgram(newReorderView(ctx, session))
				if err != nil {
					return err
				}
				if v, ok := final.(*reorderView); ok {
					fmt.Fprintln(out, v.Summary())
				}
				return nil
			}

			candidate, err := arrangeSiblings(session.Siblings, order)
			if err != nil {
				return err
			}
			session.HandleItemsPriorityUpdate(candidate)
			if !session.ListHasRearranged() {
				fmt.Fprintln(out, "Order unchanged.")
				return nil
			}

			fmt.Fprint(out, formatter.FormatOrder(session.Siblings, session.Pending()))
			if dryRun {
				session.DiscardTaskPriority()
				fmt.Fprintln(out, formatter.Dim("Dry run: order not saved."))
				return nil
			}

			resp, err := session.SaveTaskPriority(ctx)
			if err != nil {
				return fmt.Errorf("saving order: %w", err)
			}
			fmt.Fprintln(out, saveMessage(resp, parentID))
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&order, "order", nil, "Complete new child order, e.g. 3,1,2")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the new order without saving it")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Rearrange the children interactively")

	return cmd
}

func saveMessage(resp *priority.Response, parentID int) string {
	if resp != nil && resp.Message != "" {
		return resp.Message
	}
	return fmt.Sprintf("Saved new order under %s", formatter.ParentRef(parentID))
}

// arrangeSiblings returns siblings in the order given by ids. ids must name
// every sibling exactly once.
func arrangeSiblings(siblings []domain.Task, ids []int) ([]domain.Task, error) {
	byID := make(map[int]domain.Task, len(siblings))
	for _, s := range siblings {
		byID[s.ID] = s
	}

	seen := make(map[int]bool, len(ids))
	out := make([]domain.Task, 0, len(ids))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("task #%d is not a child of this parent", id)
		}
		if seen[id] {
			return nil, fmt.Errorf("task #%d listed more than once", id)
		}
		seen[id] = true
		out = append(out, t)
	}
	if len(out) != len(siblings) {
		return nil, fmt.Errorf("order names %d of %d children; list all of them", len(out), len(siblings))
	}
	return out, nil
}

// orderTasks is arrangeSiblings without validation; unknown ids are skipped.
func orderTasks(siblings []domain.Task, ids []int) []domain.Task {
	byID := make(map[int]domain.Task, len(siblings))
	for _, s := range siblings {
		byID[s.ID] = s
	}
	out := make([]domain.Task, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out
}
