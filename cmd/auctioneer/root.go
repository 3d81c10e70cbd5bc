package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cloudx-io/auctioneer/config"
)

// app carries the loaded configuration from the root command to its subcommands.
type app struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "auctioneer",
		Short: "Draft auction ledger for fantasy sports leagues",
		Long: `Auctioneer keeps the ledger of a live player auction: team budgets,
rosters, retentions, unsold players and the player currently on the floor.

The session is saved after every operation, optionally sealed with the
operator's signing key so participants can audit it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd)
		},
	}

	// Global flags
	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.config/auctioneer/config.yaml)")
	flags.String("session", "", "session name (default \"default\")")
	flags.String("pool", "", "player list (.csv or .xlsx)")
	flags.String("password", "", "operator password for commands that change the ledger")
	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("session.name", flags.Lookup("session"))
	_ = viper.BindPFlag("pool.path", flags.Lookup("pool"))
	_ = viper.BindPFlag("password", flags.Lookup("password"))

	root.AddCommand(
		newSetupCmd(a),
		newRetainCmd(a),
		newReleaseCmd(a),
		newSellCmd(a),
		newUnsoldCmd(a),
		newRemoveCmd(a),
		newNextCmd(a),
		newStatusCmd(a),
		newRostersCmd(a),
		newPlayersCmd(a),
		newShortlistCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newKeygenCmd(),
		newPasswdCmd(),
		newVerifyCmd(a),
	)
	return root
}

func (a *app) loadConfig(cmd *cobra.Command) error {
	config.LoadEnv()
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("AUCTIONEER")
	// e.g., AUCTIONEER_STORE_BACKEND for store.backend
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return invalidInputf("failed to read config: %w", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return invalidInput(fmt.Errorf("invalid configuration: %w", err))
	}
	config.SetupLogging(cfg.Logging, cmd.ErrOrStderr())
	a.cfg = cfg
	return nil
}
