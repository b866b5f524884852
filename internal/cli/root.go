package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/witch-agent/vibe-coder/internal/config"
	"github.com/witch-agent/vibe-coder/internal/logging"
)

type Options struct {
	Config   string
	LogLevel string
}

func NewRootCmd() *cobra.Command {
	opts := &Options{}
	root := &cobra.Command{
		Use:          "vibe-coder",
		Short:        "vibe-coder - prompt relay for LLM project specs",
		SilenceUsage: true,
	}

	cobra.OnInitialize(func() {
		initConfig(opts.Config)
	})

	root.PersistentFlags().StringVar(
		&opts.Config,
		"config",
		"",
		"config file (default: ./vibe-coder.yaml)",
	)
	root.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override log.level")
	_ = viper.BindPFlag("config", root.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(newServeCmd())
	root.AddCommand(newLambdaCmd())
	root.AddCommand(newGenerateCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newStylesCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func initConfig(configFile string) {
	if err := config.Init(configFile); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
	}
}

// loadConfig reads the merged configuration and installs the logger it
// describes.
func loadConfig() (config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, err
	}
	log, err := logging.Configure(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}
