package cmd

import (
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "fraudscan"

	defaultListenAddr = ":5000"
)

type Config struct {
	Listen    string         `mapstructure:"listen"`
	UserAgent string         `mapstructure:"user-agent"`
	Predict   *PredictConfig `mapstructure:"predict"`
	AI        *AIConfig      `mapstructure:"ai"`
}

type PredictConfig struct {
	Script      string `mapstructure:"script"`
	Interpreter string `mapstructure:"interpreter"`
	Dir         string `mapstructure:"dir"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string   `mapstructure:"api-key-file"`
	Models       []string `mapstructure:"models"`
	MaxLogLength int      `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "fraudscan scores job offers and companies for employment-fraud risk",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// .env is optional, real environments set variables directly.
	_ = godotenv.Load()

	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("listen", "FRAUDSCAN_LISTEN"); err != nil {
		log.Fatalf("binding FRAUDSCAN_LISTEN environment variable: %v", err)
	}

	viper.SetDefault("listen", defaultListenAddr)
	viper.SetDefault("predict.script", "predict.py")

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is fraudscan.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// The config file is optional unless one was named explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Listen == "" {
		config.Listen = viper.GetString("listen")
	}
	if config.Predict == nil {
		config.Predict = &PredictConfig{Script: viper.GetString("predict.script")}
	}

	return config, nil
}
