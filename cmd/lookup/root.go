package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"snapshop_backend/internal/platform/config"
	"snapshop_backend/internal/platform/logger"
)

const app = "snapshop-lookup"

// rootOptions はすべてのサブコマンドで共有するフラグです。
type rootOptions struct {
	cfgFile string
	debug   bool
	json    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           app,
		Short:         app + " runs the screenshot lookup pipeline from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "a config file (default is config.yaml in current directory)")
	cmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "verbose/debug output")
	cmd.PersistentFlags().BoolVarP(&opts.json, "json", "j", false, "json format for logging")

	cmd.AddCommand(newImageCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))
	cmd.AddCommand(newCacheCmd(opts))

	return cmd
}

// load は .env・設定・ロガーを読み込みます。フラグは設定ファイルの値より優先されます。
func (o *rootOptions) load() (*config.Config, *zap.Logger, error) {
	_ = godotenv.Load(".env")

	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	cfg.Log.Debug = cfg.Log.Debug || o.debug
	cfg.Log.JSON = cfg.Log.JSON || o.json

	zl, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("creating a logger: %w", err)
	}
	return cfg, zl, nil
}
