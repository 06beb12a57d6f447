package cmd

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davidtseymour/personal-productivity-system/internal/app"
	"github.com/davidtseymour/personal-productivity-system/internal/model"
)

func GoalsCmd() *cobra.Command {
	goalsCmd := &cobra.Command{
		Use:   "goals",
		Short: "Inspect goal periods and themes",
	}

	var (
		horizon string
		offset  int
	)
	periodCmd := &cobra.Command{
		Use:   "period",
		Short: "Resolve a goal period to its start date and goal set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := model.ParseHorizon(horizon)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				user, err := actingUser(ctx, a)
				if err != nil {
					return err
				}
				setID, start, err := a.GoalService.ResolveExisting(ctx, user.ID, h, offset)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(map[string]any{
						"horizon":      h,
						"offset":       offset,
						"period_start": start,
						"goal_set_id":  setID,
					})
				}

				id := "-"
				if setID != nil {
					id = *setID
				}
				fmt.Printf("%s %+d starts %s (goal set: %s)\n", h, offset, start, id)
				return nil
			})
		},
	}
	periodCmd.Flags().StringVar(&horizon, "horizon", "WEEK", "WEEK, MONTH or QTR")
	periodCmd.Flags().IntVar(&offset, "offset", 0, "periods relative to the current one")
	goalsCmd.AddCommand(periodCmd)

	goalsCmd.AddCommand(&cobra.Command{
		Use:   "themes",
		Short: "List the acting user's goal themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				user, err := actingUser(ctx, a)
				if err != nil {
					return err
				}
				themes, err := a.GoalService.Themes(ctx, user.ID)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(themes)
				}

				tw := newTable(table.Row{"Name", "ID", "Created"})
				for _, th := range themes {
					tw.AppendRow(table.Row{th.Name, th.ID, th.CreatedAt.Format("2006-01-02")})
				}
				tw.Render()
				return nil
			})
		},
	})

	goalsCmd.AddCommand(&cobra.Command{
		Use:   "board <theme name>",
		Short: "Show the goals board for a theme, creating the theme if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				user, err := actingUser(ctx, a)
				if err != nil {
					return err
				}
				themeID, _, err := a.GoalService.GetOrCreateTheme(ctx, args[0], user.ID)
				if err != nil {
					return err
				}
				board, err := a.GoalService.Board(ctx, user.ID, themeID)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(board)
				}

				tw := newTable(table.Row{"Slot", "Period Start", "Goal"})
				tw.SetTitle(board.Theme.Name)
				for _, e := range board.Entries {
					tw.AppendRow(table.Row{e.Key, e.PeriodStart.String(), e.Text})
				}
				tw.Render()
				return nil
			})
		},
	})

	return goalsCmd
}
