package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/gearcatalog-backend/internal/service/extractor"
)

type extractOptions struct {
	radius     int
	max        int
	brandsFile string
}

// newExtractCmd creates the extract subcommand.
func newExtractCmd(opts *rootOptions) *cobra.Command {
	var eo extractOptions

	cmd := &cobra.Command{
		Use:   "extract [message]",
		Short: "Extract ranked gear candidates from a chat message",
		Long: `Extract finds gear-like phrases in free text and ranks them.

The message is taken from the arguments, or from stdin when none are given.
The embedded brand vocabulary is used unless --brands points to a YAML file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := messageFrom(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			ex, err := newExtractor(eo.brandsFile)
			if err != nil {
				return err
			}

			var xopts []extractor.Option
			if cmd.Flags().Changed("radius") {
				xopts = append(xopts, extractor.WithRadius(eo.radius))
			}
			if cmd.Flags().Changed("max") {
				xopts = append(xopts, extractor.WithMaxCandidates(eo.max))
			}

			candidates := ex.ExtractScored(message, xopts...)
			opts.logger.Debug("extracted", "candidates", len(candidates))

			if opts.outputJSON {
				if candidates == nil {
					candidates = []extractor.Candidate{}
				}
				return opts.ui.JSON(map[string]any{"candidates": candidates})
			}

			if len(candidates) == 0 {
				opts.ui.Warning("no gear candidates found")
				return nil
			}

			rows := make([][]string, 0, len(candidates))
			for i, c := range candidates {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					c.Text,
					strconv.FormatFloat(c.Score, 'f', 2, 64),
				})
			}
			opts.ui.Table([]string{"#", "Candidate", "Score"}, rows)
			return nil
		},
	}

	cmd.Flags().IntVar(&eo.radius, "radius", 3, "tokens taken on each side of a gear-like token")
	cmd.Flags().IntVar(&eo.max, "max", 8, "maximum number of candidates")
	cmd.Flags().StringVar(&eo.brandsFile, "brands", "", "brand vocabulary YAML file")

	return cmd
}

func newExtractor(brandsFile string, opts ...extractor.Option) (*extractor.Extractor, error) {
	if brandsFile == "" {
		return extractor.New(extractor.DefaultVocabulary(), opts...), nil
	}
	brands, err := extractor.LoadBrandsFile(brandsFile)
	if err != nil {
		return nil, fmt.Errorf("load brands: %w", err)
	}
	return extractor.New(extractor.NewVocabulary(brands), opts...), nil
}

// messageFrom joins the arguments, or reads all of stdin when there are none.
func messageFrom(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	msg := strings.TrimSpace(string(data))
	if msg == "" {
		return "", errors.New("no message given")
	}
	return msg, nil
}
