package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/frahmantamala/mvd-portal/internal"
	"github.com/frahmantamala/mvd-portal/internal/core/common/validation"
	"github.com/frahmantamala/mvd-portal/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configPath string
	clearData  bool
)

var rootCmd = &cobra.Command{
	Use:   "mvd-portal",
	Short: "MVD intranet portal",
	Long:  `Backend for the MVD role-play intranet portal: news, citizen applications, the violator database, staff and fleet.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional; real environment variables win.
		_ = godotenv.Load()
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*internal.Config, error) {
	// Check if we're running in Docker environment
	if os.Getenv("APP_ENV") == "production" || os.Getenv("DOCKER_ENV") == "true" {
		cfg := internal.LoadConfigFromEnv()
		if err := validateConfig(cfg); err != nil {
			return nil, fmt.Errorf("error validating config from environment: %w", err)
		}
		return cfg, nil
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("ENV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("store.seed_defaults", true)
	v.SetDefault("http_server.openapi_file", "./api/openapi.yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.ApplyDefaults()

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}
	return &cfg, nil
}

func validateConfig(cfg *internal.Config) error {
	if verr := validation.Struct(cfg); verr != nil {
		return verr
	}
	return cfg.Validate()
}

// initLogger installs the process logger from the observability settings.
func initLogger(cfg *internal.Config) {
	logger.Configure(os.Stdout, cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "directory holding config.yml")
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Replace the stored state with the defaults")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(dataCmd)
}
