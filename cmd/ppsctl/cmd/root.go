package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davidtseymour/personal-productivity-system/internal/app"
	"github.com/davidtseymour/personal-productivity-system/internal/config"
	"github.com/davidtseymour/personal-productivity-system/internal/db"
	"github.com/davidtseymour/personal-productivity-system/internal/logger"
	"github.com/davidtseymour/personal-productivity-system/internal/model"
)

// InitConfig binds PPS_* environment variables, e.g. PPS_DB_CONNECTION.
func InitConfig() {
	viper.SetEnvPrefix("PPS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if viper.GetBool("verbose") {
		slog.SetDefault(logger.New(os.Stderr, true, ""))
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
	}
}

func AddPersistentFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.String("db-driver", "sqlite", "database driver (sqlite or pgx)")
	flags.String("db-connection", config.DefaultDBConnection, "database connection string")
	flags.String("timezone", config.DefaultTimezone, "timezone goal periods are computed in")
	flags.Int("week-start", 0, "first day of the goal week (0=Monday .. 6=Sunday)")
	flags.StringP("user", "u", "", "username to act as")
	flags.Bool("json", false, "output JSON")
	flags.BoolP("verbose", "v", false, "log debug output to stderr")

	for _, name := range []string{"db-driver", "db-connection", "timezone", "week-start", "user", "json", "verbose"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}

func loadConfig() (*config.Config, error) {
	cfg := &config.Config{
		AppName:        "ppsctl",
		AppEnv:         "development",
		DBDriver:       viper.GetString("db-driver"),
		DBConnection:   viper.GetString("db-connection"),
		GoalsWeekStart: viper.GetInt("week-start"),
	}
	if cfg.GoalsWeekStart < 0 || cfg.GoalsWeekStart > 6 {
		return nil, fmt.Errorf("--week-start must be between 0 and 6, got %d", cfg.GoalsWeekStart)
	}
	if err := cfg.SetTimezone(viper.GetString("timezone")); err != nil {
		return nil, fmt.Errorf("invalid --timezone: %w", err)
	}
	return cfg, nil
}

// withApp opens the database and runs fn with the wired services. The
// schema is expected to be migrated already.
func withApp(ctx context.Context, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer db.Close(database)

	return fn(ctx, app.Wire(cfg, database, nil))
}

// actingUser resolves --user (or PPS_USER).
func actingUser(ctx context.Context, a *app.App) (*model.User, error) {
	username := viper.GetString("user")
	if username == "" {
		return nil, fmt.Errorf("--user is required")
	}
	return a.UserService.ByUsername(ctx, username)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(header table.Row) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(header)
	return tw
}
