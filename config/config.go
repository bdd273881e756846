package config

import (
	"fmt"
	"os"

	"github.com/sketchrun/livepreview/constants/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ResolverWeights tunes the fuzzy reference scoring. The defaults are
// empirically tuned against AI-generated project corpora; they are
// configuration, not settled semantics.
type ResolverWeights struct {
	SameRootBonus  int `mapstructure:"same_root_bonus"`
	SuffixBonus    int `mapstructure:"suffix_bonus"`
	ExtensionBonus int `mapstructure:"extension_bonus"`
	IconsDirBonus  int `mapstructure:"icons_dir_bonus"`
	AssetsDirBonus int `mapstructure:"assets_dir_bonus"`
	SourceDirBonus int `mapstructure:"source_dir_bonus"`
}

// Config represents the structure of the configuration file.
type Config struct {
	Version           string           `mapstructure:"version"`
	Theme             string           `mapstructure:"theme"`
	OutputPath        string           `mapstructure:"output_path"`
	PublishDir        string           `mapstructure:"publish_dir"`
	DebounceMs        int              `mapstructure:"debounce_ms"`
	MaxUnresolvedRefs int              `mapstructure:"max_unresolved_refs"`
	ResolverWeights   *ResolverWeights `mapstructure:"resolver_weights"`
}

// DefaultConfig values.
var DefaultConfig = Config{
	Version:           "0.3.0",
	Theme:             "dracula",
	OutputPath:        "preview.html",
	PublishDir:        "",
	DebounceMs:        240,
	MaxUnresolvedRefs: 25,
	ResolverWeights: &ResolverWeights{
		SameRootBonus:  22,
		SuffixBonus:    14,
		ExtensionBonus: 10,
		IconsDirBonus:  16,
		AssetsDirBonus: 10,
		SourceDirBonus: 4,
	},
}

// cfgFile holds the path to the configuration file (set via CLI).
var cfgFile string

// LoadConfigs initializes the configuration from file, flags, and
// environment variables, and returns the final config.
func LoadConfigs(rootCmd *cobra.Command, cwd string) *Config {
	var config *Config

	setDefaults()

	viper.AutomaticEnv()
	bindEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error reading config file: %v", err)))
			os.Exit(1)
		}
	} else {
		viper.SetConfigName("livepreview-config")
		viper.AddConfigPath(cwd)

		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			viper.SetConfigType("json")
			_ = viper.ReadInConfig()
		}
	}

	bindFlags(rootCmd)

	if err := viper.Unmarshal(&config); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Unable to decode into struct: %v", err)))
		os.Exit(1)
	}

	if config.ResolverWeights == nil {
		config.ResolverWeights = DefaultConfig.ResolverWeights
	}

	return config
}

// setDefaults sets all default configuration values.
func setDefaults() {
	viper.SetDefault("version", DefaultConfig.Version)
	viper.SetDefault("theme", DefaultConfig.Theme)
	viper.SetDefault("output_path", DefaultConfig.OutputPath)
	viper.SetDefault("publish_dir", DefaultConfig.PublishDir)
	viper.SetDefault("debounce_ms", DefaultConfig.DebounceMs)
	viper.SetDefault("max_unresolved_refs", DefaultConfig.MaxUnresolvedRefs)
	viper.SetDefault("resolver_weights.same_root_bonus", DefaultConfig.ResolverWeights.SameRootBonus)
	viper.SetDefault("resolver_weights.suffix_bonus", DefaultConfig.ResolverWeights.SuffixBonus)
	viper.SetDefault("resolver_weights.extension_bonus", DefaultConfig.ResolverWeights.ExtensionBonus)
	viper.SetDefault("resolver_weights.icons_dir_bonus", DefaultConfig.ResolverWeights.IconsDirBonus)
	viper.SetDefault("resolver_weights.assets_dir_bonus", DefaultConfig.ResolverWeights.AssetsDirBonus)
	viper.SetDefault("resolver_weights.source_dir_bonus", DefaultConfig.ResolverWeights.SourceDirBonus)
}

// bindEnv explicitly binds environment variables to configuration keys.
func bindEnv() {
	_ = viper.BindEnv("theme", "THEME")
	_ = viper.BindEnv("output_path", "OUTPUT_PATH")
	_ = viper.BindEnv("publish_dir", "PUBLISH_DIR")
	_ = viper.BindEnv("debounce_ms", "DEBOUNCE_MS")
	_ = viper.BindEnv("max_unresolved_refs", "MAX_UNRESOLVED_REFS")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(rootCmd *cobra.Command) {
	_ = viper.BindPFlag("theme", rootCmd.PersistentFlags().Lookup("theme"))
	_ = viper.BindPFlag("output_path", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("publish_dir", rootCmd.PersistentFlags().Lookup("publish_dir"))
	_ = viper.BindPFlag("debounce_ms", rootCmd.PersistentFlags().Lookup("debounce_ms"))
	_ = viper.BindPFlag("max_unresolved_refs", rootCmd.PersistentFlags().Lookup("max_unresolved_refs"))
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Specifies the path to a configuration file (JSON or YAML) that contains all the settings for the application.")

	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Syntax highlighting theme for the terminal report (e.g., 'dracula', 'light', 'dark')")
	rootCmd.PersistentFlags().StringP("output", "o", DefaultConfig.OutputPath, "Path the assembled preview document is written to")
	rootCmd.PersistentFlags().String("publish_dir", DefaultConfig.PublishDir, "Directory the preview snapshot (html + metadata) is published to; empty disables publishing")
	rootCmd.PersistentFlags().Int("debounce_ms", DefaultConfig.DebounceMs, "Quiet period in milliseconds before a file change triggers a rebuild")
	rootCmd.PersistentFlags().Int("max_unresolved_refs", DefaultConfig.MaxUnresolvedRefs, "Upper bound on unresolved references kept in the report")

	rootCmd.Flags().BoolP("version", "v", false, "Specifies the version of the application.")
}
