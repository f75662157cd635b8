package cli

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/studynotes-lab/grimoire/pkg/cli/config"
	"github.com/studynotes-lab/grimoire/pkg/repository/memory"
	"github.com/studynotes-lab/grimoire/pkg/service/diagram"
	"github.com/studynotes-lab/grimoire/pkg/service/notes"
	"github.com/studynotes-lab/grimoire/pkg/usecase"
	"github.com/studynotes-lab/grimoire/pkg/utils/logging"
	"github.com/studynotes-lab/grimoire/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdGenerate() *cli.Command {
	var topic string
	var level string
	var requirements string
	var output string
	var placeholderDiagrams bool
	var geminiCfg config.Gemini
	var profileCfg config.Profile

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "topic",
			Usage:       "Study topic to generate notes for",
			Required:    true,
			Destination: &topic,
		},
		&cli.StringFlag{
			Name:        "level",
			Usage:       "Education level (basic, intermediate, advanced)",
			Destination: &level,
		},
		&cli.StringFlag{
			Name:        "requirements",
			Usage:       "Additional free-form generation requirements",
			Destination: &requirements,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output PDF path (default: derived from topic)",
			Destination: &output,
		},
		&cli.BoolFlag{
			Name:        "placeholder-diagrams",
			Usage:       "Render a local placeholder image when diagram generation fails",
			Destination: &placeholderDiagrams,
		},
	}
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, profileCfg.Flags()...)

	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"g"},
		Usage:   "Generate study notes for a topic and export them as a PDF",
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

			ucOpts := []usecase.Option{
				usecase.WithDiagramService(diagramSvc),
			}
			if placeholderDiagrams {
				ucOpts = append(ucOpts, usecase.WithImageFallback(diagram.Placeholder))
			}
			uc := usecase.New(repo, notesSvc, ucOpts...)

			logging.Default().Info("Generating study notes", "topic", topic)

			doc, err := uc.GenerateNote(ctx, topic,
				profileCfg.Level(level), profileCfg.Requirements(requirements))
			if err != nil {
				return goerr.Wrap(err, "note generation failed")
			}

			resolved := 0
			for _, d := range doc.Diagrams {
				if d.Resolved() {
					resolved++
				}
			}
			logging.Default().Info("Note generated",
				"sections", len(doc.Sections),
				"diagrams", len(doc.Diagrams),
				"resolvedDiagrams", resolved,
			)

			result, err := uc.ExportNote(ctx, doc.ID)
			if err != nil {
				return goerr.Wrap(err, "PDF export failed")
			}

			path := output
			if path == "" {
				path = result.Filename
			}
			if err := os.WriteFile(path, result.Data, 0644); err != nil {
				return goerr.Wrap(err, "failed to write PDF", goerr.V("path", path))
			}

			color.New(color.FgGreen).Printf("Exported %s (%d bytes)\n", path, len(result.Data))
			return nil
		},
	}
}
