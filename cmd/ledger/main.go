package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/expense-ledger/internal/cli"
	"github.com/Veraticus/expense-ledger/internal/common"
	"github.com/Veraticus/expense-ledger/internal/config"
)

var version = "dev"

// rootState is what PersistentPreRunE builds once per invocation.
type rootState struct {
	v       *viper.Viper
	cfg     *config.Config
	cfgFile string
	envFile string
}

func newRootCmd() *cobra.Command {
	st := &rootState{v: viper.New()}

	root := &cobra.Command{
		Use:   "ledger",
		Short: "💸 Personal expense ledger",
		Long: `ledger keeps a record of your expenses by category and currency,
answers reporting questions about them and exports them for a spreadsheet.

Run "ledger menu" for the interactive console.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return st.load()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&st.cfgFile, "config", "", "config file (default: $HOME/.config/ledger/config.yaml)")
	flags.StringVar(&st.envFile, "env-file", ".env", "dotenv file with DB_* settings")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.String("driver", "", "store driver (sqlite, postgres)")
	flags.String("db", "", "sqlite database path")

	_ = st.v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = st.v.BindPFlag("logging.format", flags.Lookup("log-format"))
	_ = st.v.BindPFlag("database.driver", flags.Lookup("driver"))
	_ = st.v.BindPFlag("database.path", flags.Lookup("db"))

	root.AddCommand(
		migrateCmd(st),
		categoriesCmd(st),
		expensesCmd(st),
		reportCmd(st),
		exportCmd(st),
		importCmd(st),
		seedCmd(st),
		menuCmd(st),
		browseCmd(st),
		versionCmd(),
	)

	return root
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Debug("received interrupt signal, shutting down")
		cancel()
	}()

	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(errorMessage(err)))
		os.Exit(1)
	}
}

// errorMessage prefers the message of a *common.UserError and keeps the cause
// in the debug log.
func errorMessage(err error) string {
	var ue *common.UserError
	if errors.As(err, &ue) {
		slog.Debug("command failed", "error", err)
		return ue.UserMessage
	}
	return err.Error()
}

func (st *rootState) load() error {
	if err := config.LoadDotEnv(st.envFile); err != nil {
		return err
	}

	config.SetDefaults(st.v)

	if st.cfgFile != "" {
		st.v.SetConfigFile(config.ExpandPath(st.cfgFile))
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		st.v.AddConfigPath(filepath.Join(home, ".config", "ledger"))
		st.v.AddConfigPath(".")
		st.v.SetConfigName("config")
		st.v.SetConfigType("yaml")
	}

	if err := st.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg, err := config.Load(st.v)
	if err != nil {
		return err
	}

	level, err := common.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	if err := common.SetupLogger(level, cfg.Logging.Format); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	st.cfg = cfg
	slog.Debug("configuration loaded",
		"driver", cfg.Database.Driver,
		"config_file", st.v.ConfigFileUsed())

	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ledger %s\n", version)
		},
	}
}
