package cmd

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davidtseymour/personal-productivity-system/internal/app"
	"github.com/davidtseymour/personal-productivity-system/internal/model"
	"github.com/davidtseymour/personal-productivity-system/internal/service"
)

func SummaryCmd() *cobra.Command {
	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Print time summaries",
	}

	var date string
	dayCmd := &cobra.Command{
		Use:   "day",
		Short: "Minutes per category for one day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				user, err := actingUser(ctx, a)
				if err != nil {
					return err
				}
				d, err := dateOrToday(a, date)
				if err != nil {
					return err
				}
				summary, err := a.SummaryService.Day(ctx, user.ID, d)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(summary)
				}

				if summary.Status == service.SummaryEmpty {
					fmt.Printf("nothing logged on %s\n", d)
					return nil
				}
				tw := newTable(table.Row{"Category", "Time"})
				tw.SetTitle(d.String())
				for _, row := range summary.Rows {
					tw.AppendRow(table.Row{row.Category, service.FormatHM(float64(row.Minutes))})
				}
				tw.AppendFooter(table.Row{"Total", service.FormatHM(float64(summary.Total))})
				tw.Render()

				if summary.ScreenMinutes != nil {
					fmt.Printf("Screen: %s\n", service.FormatHM(float64(*summary.ScreenMinutes)))
				}
				if summary.SleepMinutes != nil {
					fmt.Printf("Sleep: %s\n", service.FormatHM(float64(*summary.SleepMinutes)))
				}
				return nil
			})
		},
	}
	dayCmd.Flags().StringVar(&date, "date", "", "day to summarize, YYYY-MM-DD (default: today)")
	summaryCmd.AddCommand(dayCmd)

	var (
		end  string
		days int
	)
	weekCmd := &cobra.Command{
		Use:   "week",
		Short: "Per-day minutes for the days before --end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				user, err := actingUser(ctx, a)
				if err != nil {
					return err
				}
				d, err := dateOrToday(a, end)
				if err != nil {
					return err
				}
				summary, err := a.SummaryService.Week(ctx, user.ID, d, days)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(summary)
				}

				header := table.Row{""}
				for _, day := range summary.Days {
					header = append(header, day.Time().Format("Mon 01-02"))
				}
				header = append(header, "Avg")

				tw := newTable(header)
				appendRows := func(rows []service.WeekRow, format func(float64) string) {
					for _, row := range rows {
						r := table.Row{row.Name}
						for _, v := range row.Values {
							r = append(r, format(v))
						}
						tw.AppendRow(append(r, format(row.Average)))
					}
				}
				appendRows(summary.Categories, service.FormatHHMM)
				appendRows([]service.WeekRow{summary.Totals}, service.FormatHHMM)
				tw.AppendSeparator()
				appendRows(summary.Context, service.FormatHHMM)
				appendRows(summary.Metrics, func(v float64) string { return fmt.Sprintf("%g", v) })
				tw.Render()
				return nil
			})
		},
	}
	weekCmd.Flags().StringVar(&end, "end", "", "first day after the range, YYYY-MM-DD (default: today)")
	weekCmd.Flags().IntVar(&days, "days", service.DefaultSummaryDays, "number of days")
	summaryCmd.AddCommand(weekCmd)

	return summaryCmd
}

func dateOrToday(a *app.App, raw string) (model.Date, error) {
	if raw == "" {
		return a.Resolver.Today(), nil
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return model.Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	return d, nil
}
