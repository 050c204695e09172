package cmd

import (
	"log"

	"NeuraFlow/pkg/config"
	"NeuraFlow/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const app = "neuraflow"

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "neuraflow serves résumé and job description analysis with saved chat history",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (yaml, json or toml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	if err := viper.BindPFlag("log_debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		log.Fatalf("binding debug flag: %v", err)
	}
	if err := viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("json")); err != nil {
		log.Fatalf("binding json flag: %v", err)
	}
}

// bootstrap loads the configuration and builds the logger every command shares.
func bootstrap() (*config.Config, *zap.Logger) {
	cfg, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	l, err := logger.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return cfg, l
}
