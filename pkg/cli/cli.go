package cli

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/studynotes-lab/grimoire/pkg/cli/config"
	"github.com/studynotes-lab/grimoire/pkg/utils/errutil"
	"github.com/studynotes-lab/grimoire/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func Run(ctx context.Context, args []string, version string) error {
	var loggerCfg config.Logger
	var closer func()

	app := &cli.Command{
		Name:    "grimoire",
		Usage:   "AI study note generation and PDF export service",
		Version: version,
		Flags:   loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Missing .env is fine, flags and real env vars still apply
			_ = godotenv.Load()

			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closer = f

			logging.Default().Info("Starting grimoire", "logger", loggerCfg)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if closer != nil {
				closer()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdGenerate(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		return errutil.Handle(ctx, err, "failed to run app")
	}

	return nil
}
