package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/azzeddinezrarqi1/lacaravella/internal/config"
)

// app carries the state shared by every command: global flags, the loaded
// configuration and the logger built in PersistentPreRunE.
type app struct {
	configPath string
	verbose    bool
	baseURL    string

	cfg     config.Config
	logger  *zap.Logger
	logFile *os.File
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "caravela",
		Short: "La Caravela storefront customizer",
		Long: `caravela talks to the La Caravela storefront: browse customization
options, price a customized product, add it to the cart, or build one
interactively with "caravela customize".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (default $"+config.EnvConfigFile+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "storefront base URL (overrides config)")

	root.AddCommand(
		newOptionsCmd(a),
		newPriceCmd(a),
		newAddCmd(a),
		newSearchCmd(a),
		newCustomizeCmd(a),
		newDraftsCmd(a),
		newHealthCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.baseURL != "" {
		cfg.BaseURL = a.baseURL
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}
	a.cfg = cfg

	// The interactive UI owns the terminal, so it only logs to a file.
	var sink io.Writer = cmd.ErrOrStderr()
	if cmd.Name() == "customize" {
		sink = io.Discard
	}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.logFile = f
		sink = f
	}

	a.logger, err = buildLogger(sink, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger.Debug("config loaded",
		zap.String("base_url", cfg.BaseURL),
		zap.String("api_base", cfg.APIBase),
		zap.Duration("timeout", cfg.Timeout),
	)
	return nil
}

func (a *app) teardown() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

func buildLogger(w io.Writer, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if w == io.Discard {
		return zap.NewNop(), nil
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(w), lvl)
	return zap.New(core, zap.AddCaller()).Named("caravela"), nil
}
