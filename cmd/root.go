package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/ai/gemini"
	"github.com/spigell/jobmatch/internal/cache"
	"github.com/spigell/jobmatch/internal/filtering"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/logger"
	"github.com/spigell/jobmatch/internal/scheduler"
	"github.com/spigell/jobmatch/internal/store/postgres"
)

const (
	app       = "jobmatch"
	envPrefix = "JOBMATCH"

	SourceSeed     = "seed"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

type Config struct {
	Search   filtering.Criteria `mapstructure:"search"`
	Source   string             `mapstructure:"source"`
	SeedFile string             `mapstructure:"seed-file"`
	User     string             `mapstructure:"user"`
	Profile  *jobs.Profile      `mapstructure:"profile"`
	Output   string             `mapstructure:"output"`
	Debounce time.Duration      `mapstructure:"debounce"`
	Postgres *postgres.Config   `mapstructure:"postgres"`
	Redis    *cache.Config      `mapstructure:"redis"`
	Cleanup  *scheduler.Config  `mapstructure:"cleanup"`
	AI       *AIConfig          `mapstructure:"ai"`
}

type AIConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Provider string         `mapstructure:"provider"`
	Gemini   *gemini.Config `mapstructure:"gemini"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobmatch searches job postings and ranks them against your CV skills",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobmatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("user", "u", "", "user id to sign in with")
	rootCmd.PersistentFlags().StringP("source", "s", SourceSeed, "where postings come from: seed, file or postgres")
	rootCmd.PersistentFlags().String("seed-file", "", "yaml or json file with postings for the file source")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("user", rootCmd.PersistentFlags().Lookup("user"))
	viper.BindPFlag("source", rootCmd.PersistentFlags().Lookup("source"))
	viper.BindPFlag("seed-file", rootCmd.PersistentFlags().Lookup("seed-file"))

	viper.SetDefault("search.job-type", filtering.AllJobTypes)
	viper.SetDefault("search.experience-level", filtering.AllJobTypes)
	viper.SetDefault("output", "table")
	viper.SetDefault("debounce", "300ms")
}

func initConfig() {
	// A missing .env is fine, a broken one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Only an explicitly requested config must exist.
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.Postgres == nil {
		config.Postgres = &postgres.Config{}
	}
	if config.Redis == nil {
		config.Redis = &cache.Config{}
	}
	if config.Cleanup == nil {
		config.Cleanup = &scheduler.Config{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &gemini.Config{}
	}

	return config, nil
}

// setup builds the logger and reads the config the way every command needs them.
func setup() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return logger, config
}
