package main

import (
	"context"
	"fmt"
	"os"

	"bookstore/config"
	"bookstore/internal"
	"bookstore/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	envFile string
	v       *viper.Viper
)

var rootCmd = &cobra.Command{
	Use:          "bookstore",
	Short:        "Typed access to the plp_bookstore books collection",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v = config.NewViper(envFile)
		for key, flag := range map[string]string{
			"MONGODB_URI":      "mongodb-uri",
			"MONGODB_DATABASE": "database",
			"LOG_LEVEL":        "log-level",
		} {
			if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flags.String("mongodb-uri", "", "MongoDB connection string (overrides MONGODB_URI)")
	flags.String("database", "", "database name (overrides MONGODB_DATABASE)")
	flags.String("log-level", "", "log level (overrides LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd(), seedCmd(), reportCmd(), indexesCmd())
}

// withApp connects with the loaded configuration, runs fn and closes
// every connection afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *internal.App) error) error {
	cfg := config.Load(v)
	log := logger.New(cfg.Log)

	ctx := cmd.Context()
	app, err := internal.NewApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close(context.Background())

	return fn(ctx, app)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
