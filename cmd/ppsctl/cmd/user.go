package cmd

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davidtseymour/personal-productivity-system/internal/app"
)

func UserCmd() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var categories []string
	createCmd := &cobra.Command{
		Use:   "create <username> [display name]",
		Short: "Create a user with its initial categories",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			displayName := ""
			if len(args) == 2 {
				displayName = args[1]
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				user, err := a.UserService.CreateWithDefaults(ctx, args[0], displayName, categories)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(user)
				}
				fmt.Printf("created user %s (%s)\n", user.Username, user.ID)
				return nil
			})
		},
	}
	createCmd.Flags().StringSliceVar(&categories, "category", nil, "initial categories, in display order (default: the built-in set)")
	userCmd.AddCommand(createCmd)

	userCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List active users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				users, err := a.UserService.List(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(users)
				}

				tw := newTable(table.Row{"Username", "Display Name", "ID", "Created"})
				for _, u := range users {
					tw.AppendRow(table.Row{u.Username, u.DisplayName, u.ID, u.CreatedAt.Format("2006-01-02")})
				}
				tw.Render()
				return nil
			})
		},
	})

	userCmd.AddCommand(&cobra.Command{
		Use:   "deactivate <username>",
		Short: "Hide a user from the user list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				user, err := a.UserService.ByUsername(ctx, args[0])
				if err != nil {
					return err
				}
				return a.UserService.SetActive(ctx, user.ID, false)
			})
		},
	})

	userCmd.AddCommand(&cobra.Command{
		Use:   "categories",
		Short: "List the acting user's active categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				user, err := actingUser(ctx, a)
				if err != nil {
					return err
				}
				categories, err := a.UserService.Categories(ctx, user.ID)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(categories)
				}

				tw := newTable(table.Row{"#", "Name", "ID"})
				for _, c := range categories {
					tw.AppendRow(table.Row{c.SortOrder, c.Name, c.ID})
				}
				tw.Render()
				return nil
			})
		},
	})

	return userCmd
}
