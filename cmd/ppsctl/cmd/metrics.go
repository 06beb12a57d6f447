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

func MetricsCmd() *cobra.Command {
	metricsCmd := &cobra.Command{
		Use:   "metrics",
		Short: "Manage daily metric definitions",
	}

	metricsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the acting user's metric definitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				user, err := actingUser(ctx, a)
				if err != nil {
					return err
				}
				defs, err := a.MetricService.Definitions(ctx, user.ID)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(defs)
				}

				tw := newTable(table.Row{"#", "Key", "Name", "Duration", "Factor"})
				for _, d := range defs {
					factor := ""
					if d.ToMinutesFactor != nil {
						factor = fmt.Sprintf("%g", *d.ToMinutesFactor)
					}
					tw.AppendRow(table.Row{d.SortOrder, d.Key, d.DisplayName, d.IsDuration, factor})
				}
				tw.Render()
				return nil
			})
		},
	})

	var (
		name        string
		isDuration  bool
		sortOrder   int
		category    string
		subcategory string
		factor      float64
	)
	defineCmd := &cobra.Command{
		Use:   "define <key>",
		Short: "Create or replace a metric definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				user, err := actingUser(ctx, a)
				if err != nil {
					return err
				}

				def := &model.MetricDefinition{
					Key:         args[0],
					UserID:      user.ID,
					DisplayName: name,
					IsDuration:  isDuration,
					SortOrder:   sortOrder,
				}
				if subcategory != "" {
					def.Subcategory = &subcategory
				}
				if cmd.Flags().Changed("factor") {
					def.ToMinutesFactor = &factor
				}
				if category != "" {
					categoryID, err := findCategoryID(ctx, a, user.ID, category)
					if err != nil {
						return err
					}
					def.CategoryID = &categoryID
				}

				if err := a.MetricService.Define(ctx, def); err != nil {
					return err
				}
				fmt.Printf("defined metric %s\n", def.Key)
				return nil
			})
		},
	}
	defineCmd.Flags().StringVar(&name, "name", "", "display name (default: the key)")
	defineCmd.Flags().BoolVar(&isDuration, "duration", false, "values are durations entered as h:mm")
	defineCmd.Flags().IntVar(&sortOrder, "sort", 0, "display order")
	defineCmd.Flags().StringVar(&category, "category", "", "category the metric's minutes count toward")
	defineCmd.Flags().StringVar(&subcategory, "subcategory", "", "subcategory the metric's minutes count toward")
	defineCmd.Flags().Float64Var(&factor, "factor", 0, "multiplier converting a value to minutes")
	metricsCmd.AddCommand(defineCmd)

	return metricsCmd
}

// findCategoryID finds the user's active category called name.
func findCategoryID(ctx context.Context, a *app.App, userID, name string) (string, error) {
	categories, err := a.UserService.Categories(ctx, userID)
	if err != nil {
		return "", err
	}
	for _, c := range categories {
		if c.Name == name {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("no active category named %q", name)
}
