package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/studynotes-lab/grimoire/pkg/cli/config"
	httpctrl "github.com/studynotes-lab/grimoire/pkg/controller/http"
	"github.com/studynotes-lab/grimoire/pkg/repository/memory"
	"github.com/studynotes-lab/grimoire/pkg/service/diagram"
	"github.com/studynotes-lab/grimoire/pkg/service/notes"
	"github.com/studynotes-lab/grimoire/pkg/usecase"
	"github.com/studynotes-lab/grimoire/pkg/utils/logging"
	"github.com/studynotes-lab/grimoire/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var geminiCfg config.Gemini
	var profileCfg config.Profile

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("GRIMOIRE_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, profileCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := profileCfg.Configure(); err != nil {
				return goerr.Wrap(err, "failed to load generation profile")
			}

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}

			notesSvc, err := notes.New(llmClient)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize notes service")
			}

			genaiClient, err := geminiCfg.ConfigureImage(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini image client")
			}

			var diagramOpts []diagram.Option
			if geminiCfg.ImageModel() != "" {
				diagramOpts = append(diagramOpts, diagram.WithModel(geminiCfg.ImageModel()))
			}
			diagramSvc, err := diagram.New(genaiClient, diagramOpts...)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize diagram service")
			}

			repo := memory.New()
			defer safe.Close(ctx, repo)

			uc := usecase.New(repo, notesSvc,
				usecase.WithDiagramService(diagramSvc),
			)

			server := httpctrl.New(uc)

			httpServer := &http.Server{
				Addr:              addr,
				Handler:           server,
				ReadHeaderTimeout: 10 * time.Second,
			}

			serveCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("HTTP server starting", "addr", addr)
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return goerr.Wrap(err, "HTTP server failed")
			case <-serveCtx.Done():
			}

			logging.Default().Info("Shutting down HTTP server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shut down HTTP server")
			}

			return nil
		},
	}
}
