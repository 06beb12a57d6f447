package cmd

import (
	"context"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davidtseymour/personal-productivity-system/internal/app"
	"github.com/davidtseymour/personal-productivity-system/internal/service"
)

func TasksCmd() *cobra.Command {
	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "Inspect logged tasks",
	}

	var n int
	recentCmd := &cobra.Command{
		Use:   "recent",
		Short: "List the acting user's most recent tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				user, err := actingUser(ctx, a)
				if err != nil {
					return err
				}
				tasks, err := a.TaskService.Recent(ctx, user.ID, n)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(tasks)
				}

				tw := newTable(table.Row{"Date", "Start", "End", "Duration", "Category", "Subcategory", "Activity"})
				for _, t := range tasks {
					tw.AppendRow(table.Row{
						t.Date.String(),
						t.StartAt.Format("15:04"),
						t.EndAt.Format("15:04"),
						service.FormatHM(float64(t.DurationMin)),
						t.CategoryName,
						t.Subcategory,
						t.Activity,
					})
				}
				tw.Render()
				return nil
			})
		},
	}
	recentCmd.Flags().IntVarP(&n, "n", "n", service.DefaultRecentTasks, "number of tasks to show")
	tasksCmd.AddCommand(recentCmd)

	return tasksCmd
}
