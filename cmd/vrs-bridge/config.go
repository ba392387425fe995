package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// knownConfigKeys are the settings the bridge actually reads. Writes to
// other keys are rejected so typos do not silently persist.
var knownConfigKeys = map[string]string{
	"repository.path":  "path of the DuckDB sequence store",
	"batch.workers":    "worker count for batch translation (0 = all CPUs)",
	"create.normalize": "canonicalize alleles built by create (default true)",
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vrs-bridge configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.vrs-bridge.yaml.",
		Example: `  vrs-bridge config                                   # show all config
  vrs-bridge config set repository.path ~/seq.duckdb  # point at a sequence store
  vrs-bridge config get repository.path               # get a value
  vrs-bridge config unset batch.workers               # drop a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigUnsetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(args[0])
		},
	}
}

func newConfigUnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigUnset(args[0])
		},
	}
}

func runConfigShow() error {
	settings := viper.AllSettings()
	if len(settings) == 0 {
		fmt.Println("# No configuration set. Config file: ~/.vrs-bridge.yaml")
		for _, key := range sortedConfigKeys() {
			fmt.Printf("# %-18s %s\n", key, knownConfigKeys[key])
		}
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

func runConfigSet(key, value string) error {
	if _, ok := knownConfigKeys[key]; !ok {
		return fmt.Errorf("unknown key %q (known keys: %s)", key, strings.Join(sortedConfigKeys(), ", "))
	}
	viper.Set(key, parseConfigValue(key, value))

	path, err := configFilePath()
	if err != nil {
		return err
	}
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Set %s = %s in %s\n", key, value, path)
	return nil
}

func runConfigGet(key string) error {
	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Println(val)
	return nil
}

func runConfigUnset(key string) error {
	settings := viper.AllSettings()
	section, leaf, found := strings.Cut(key, ".")
	if !found {
		delete(settings, key)
	} else if sub, ok := settings[section].(map[string]any); ok {
		delete(sub, leaf)
		if len(sub) == 0 {
			delete(settings, section)
		}
	}

	path, err := configFilePath()
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Unset %s in %s\n", key, path)
	return nil
}

// parseConfigValue coerces string input into the value type the key
// expects so the YAML file stays typed.
func parseConfigValue(key, value string) any {
	switch {
	case strings.HasSuffix(key, ".normalize"):
		switch value {
		case "true", "yes", "on":
			return true
		case "false", "no", "off":
			return false
		}
	case strings.HasSuffix(key, ".workers"):
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	case strings.HasSuffix(key, ".path"):
		if strings.HasPrefix(value, "~/") {
			if home, err := os.UserHomeDir(); err == nil {
				return filepath.Join(home, value[2:])
			}
		}
	}
	return value
}

func configFilePath() (string, error) {
	if path := viper.ConfigFileUsed(); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".vrs-bridge.yaml"), nil
}

func sortedConfigKeys() []string {
	keys := make([]string, 0, len(knownConfigKeys))
	for key := range knownConfigKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
