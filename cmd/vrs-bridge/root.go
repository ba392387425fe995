package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/clinbio/vrs-bridge/internal/seqrepo"
)

var (
	cfgFile  string
	repoPath string
	verbose  bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "vrs-bridge",
		Short:        "Translate genomic alleles between VRS and FHIR",
		Long:         "vrs-bridge normalizes genomic alleles and translates them between the GA4GH VRS model and the FHIR MolecularDefinition Allele profile.",
		Version:      fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.vrs-bridge.yaml)")
	cmd.PersistentFlags().StringVar(&repoPath, "repository", "", "DuckDB sequence store path (default in-memory)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	cobra.OnInitialize(initConfig)
	viper.BindPFlag("repository.path", cmd.PersistentFlags().Lookup("repository"))

	cmd.AddCommand(newTranslateCmd())
	cmd.AddCommand(newParseCmd())
	cmd.AddCommand(newCreateCmd())
	cmd.AddCommand(newLoadCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".vrs-bridge")
			viper.SetConfigType("yaml")
		}
	}

	viper.SetEnvPrefix("VRS_BRIDGE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Warning: cannot read config: %v\n", err)
		}
	}
}

// openStore opens the configured sequence store.
func openStore() (*seqrepo.Store, error) {
	path := viper.GetString("repository.path")
	if path != "" {
		path = filepath.Clean(path)
	}
	return seqrepo.OpenStore(path)
}

// newLogger builds the command logger; verbose switches to the
// development encoder.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
