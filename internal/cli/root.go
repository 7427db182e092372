// internal/cli/root.go
package quantbench

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mwiater/quantbench/internal/appconfig"
	"github.com/mwiater/quantbench/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quantbench",
	Short: "quantbench — quantization sweep harness for local llama.cpp models",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		usedPath, err := ensureConfigLoaded()
		if err != nil {
			return err
		}

		for _, name := range []string{"debug", "continueOnError"} {
			if !cmd.Flags().Changed(name) {
				val := viper.GetBool(name)
				_ = cmd.Flags().Set(name, strconv.FormatBool(val))
			}
		}
		for _, name := range []string{"logFile", "promptFile"} {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, viper.GetString(name))
			}
		}
		if !cmd.Flags().Changed("gpuLayers") {
			_ = cmd.Flags().Set("gpuLayers", strconv.Itoa(viper.GetInt("run.gpuLayers")))
		}

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ApplyDefaults()
		cfg.ConfigPath = usedPath
		currentConfig = &cfg

		if err := logging.Init(currentConfig.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., quantbench.config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("continueOnError", false, "skip failed variants instead of aborting the sweep")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")
	rootCmd.PersistentFlags().String("promptFile", "", "path to the newline-delimited prompt list")
	rootCmd.PersistentFlags().Int("gpuLayers", 0, "layers to offload to the GPU (0 = CPU only)")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("continueOnError", rootCmd.PersistentFlags().Lookup("continueOnError"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
	_ = viper.BindPFlag("promptFile", rootCmd.PersistentFlags().Lookup("promptFile"))
	_ = viper.BindPFlag("run.gpuLayers", rootCmd.PersistentFlags().Lookup("gpuLayers"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config file when one exists and returns the
// path that was actually loaded. A missing file is not an error: flags and
// defaults still produce a usable configuration.
func ensureConfigLoaded() (string, error) {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return "", nil
		}
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	usedPath := viper.ConfigFileUsed()
	data, err := os.ReadFile(usedPath)
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	if err := appconfig.ValidateDocument(data); err != nil {
		return "", fmt.Errorf("config %s: %w", usedPath, err)
	}
	return usedPath, nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
