package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tsarna/gpmdp-rc/pkg/gpmdp/command"
	"github.com/tsarna/gpmdp-rc/pkg/gpmdp/config"
	"github.com/tsarna/gpmdp-rc/pkg/gpmdp/render"
	"github.com/tsarna/gpmdp-rc/pkg/gpmdp/session"
	"github.com/tsarna/gpmdp-rc/pkg/gpmdp/websockets/client"
	"go.uber.org/zap"
)

// runRemote executes one verb against the server.
func runRemote(cmd *cobra.Command, argv []string) error {
	parsed, err := command.Parse(argv)
	if err != nil {
		return err
	}

	logger, err := setupLogger()
	if err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := loadConfig(cmd, logger)
	if err != nil {
		return err
	}
	if err := cfg.Validate(parsed.Kind != command.Pair); err != nil {
		return err
	}

	renderer := render.NewRenderer(cmd.OutOrStdout()).WithLogger(logger)
	if queryFlag != "" {
		query, err := render.CompileQuery(queryFlag)
		if err != nil {
			return err
		}
		renderer = renderer.WithQuery(query)
	}

	wsClient, err := client.NewClient().
		WithURL(cfg.URL).
		WithLogger(logger).
		WithDialTimeout(dialTimeout).
		Build()
	if err != nil {
		return fmt.Errorf("failed to create WebSocket client: %w", err)
	}

	s, err := session.NewSession().
		WithLogger(logger).
		WithCommand(parsed).
		WithAppName(cfg.AppName).
		WithToken(cfg.Token).
		WithTimeout(cfg.Timeout).
		WithSender(wsClient).
		WithPrompter(newLinePrompter(cmd.InOrStdin(), cmd.ErrOrStderr())).
		WithRenderer(renderer).
		Build()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger.Info("Connecting",
		zap.String("url", cfg.URL),
		zap.String("command", parsed.Verb),
		zap.Duration("dial-timeout", dialTimeout),
	)

	if err := wsClient.Connect(ctx); err != nil {
		return err
	}
	defer wsClient.Disconnect()

	return s.Run(ctx, wsClient)
}

// loadConfig reads the config file and applies flag overrides. A missing
// default file is not an error, since --url and --token may be enough.
func loadConfig(cmd *cobra.Command, logger *zap.Logger) (*config.Config, error) {
	path := configPath
	explicit := cmd.Flags().Changed("config")
	if !explicit {
		defaultPath, err := config.DefaultPath()
		if err == nil {
			path = defaultPath
		}
	}

	builder := config.NewConfig().WithLogger(logger)
	if path != "" {
		if _, err := os.Stat(path); err == nil || explicit {
			builder = builder.WithSources(path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg, err := builder.Build()
	if err != nil {
		return nil, err
	}

	if urlFlag != "" {
		cfg.URL = urlFlag
	}
	if tokenFlag != "" {
		cfg.Token = tokenFlag
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = timeout
	}

	return cfg, nil
}
