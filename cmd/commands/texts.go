package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/quickprompt/internal/texts"
)

// NewTextsCommand returns the texts subcommand.
func NewTextsCommand() *cli.Command {
	return &cli.Command{
		Name:  "texts",
		Usage: "Inspect the predefined texts",
		Commands: []*cli.Command{
			{
				Name:   "check",
				Usage:  "Load the dataset and verify every variant is complete",
				Flags:  sourceFlags(),
				Action: runTextsCheck,
			},
			{
				Name:  "keys",
				Usage: "List the topic keys of a language",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "lang",
						Usage: "Language code or name",
						Value: string(texts.DefaultLanguage),
					},
				}, sourceFlags()...),
				Action: runTextsKeys,
			},
		},
		DefaultCommand: "check",
	}
}

func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "file",
			Usage: "Load a local JSON or YAML dataset",
		},
		&cli.StringFlag{
			Name:  "url",
			Usage: "Fetch the dataset from this URL",
		},
	}
}

// textsSource applies --file and --url over the configured source.
func textsSource(cmd *cli.Command) (texts.Source, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return texts.Source{}, err
	}
	src := cfg.TextsSource()
	if cmd.IsSet("url") {
		src.URL = cmd.String("url")
		src.File = ""
	}
	if cmd.IsSet("file") {
		src.File = cmd.String("file")
	}
	return src, nil
}

func loadDataset(ctx context.Context, cmd *cli.Command) (*texts.Dataset, texts.Source, error) {
	src, err := textsSource(cmd)
	if err != nil {
		return nil, src, err
	}
	dataset, err := texts.Load(ctx, src)
	if err != nil {
		return nil, src, fmt.Errorf("load %s: %w", src, err)
	}
	return dataset, src, nil
}

func runTextsCheck(ctx context.Context, cmd *cli.Command) error {
	dataset, src, err := loadDataset(ctx, cmd)
	if err != nil {
		return err
	}

	fmt.Printf("Source: %s\n", src)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VARIANT\tLANGUAGE\tTOPICS")
	for _, v := range texts.Variants {
		table := dataset.Table(v)
		for _, lang := range dataset.Languages() {
			fmt.Fprintf(w, "%s\t%s\t%d\n", v, lang, len(table[lang]))
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if err := dataset.Validate(); err != nil {
		return err
	}
	fmt.Println("Dataset: complete")
	return nil
}

func runTextsKeys(ctx context.Context, cmd *cli.Command) error {
	lang, err := texts.ParseLanguage(cmd.String("lang"))
	if err != nil {
		return err
	}
	dataset, _, err := loadDataset(ctx, cmd)
	if err != nil {
		return err
	}
	keys, err := dataset.Keys(lang)
	if err != nil {
		return err
	}
	for _, k := range keys {
		fmt.Println(k)
	}
	return nil
}
