package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var batchConcurrency int

// batchFile is the YAML input for the batch command. Each snippet carries
// either inline code or a file path.
type batchFile struct {
	Snippets []batchSnippet `yaml:"snippets"`
}

type batchSnippet struct {
	File     string `yaml:"file"`
	Code     string `yaml:"code"`
	Language string `yaml:"language"`
}

var batchCmd = &cobra.Command{
	Use:   "batch <manifest.yaml>",
	Short: "Submit multiple snippets from a YAML manifest",
	Long: `Reads a YAML manifest listing snippets and submits them concurrently.

Manifest format:

    snippets:
      - file: scripts/cleanup.py
        language: python
      - code: |
          console.log("hello");
        language: javascript`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading manifest: %w", err)
		}

		var manifest batchFile
		if err := yaml.Unmarshal(raw, &manifest); err != nil {
			return fmt.Errorf("parsing manifest: %w", err)
		}
		if len(manifest.Snippets) == 0 {
			return fmt.Errorf("manifest contains no snippets")
		}

		client := newAPIClient()

		var mu sync.Mutex
		var failed int

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(batchConcurrency)

		for i, snippet := range manifest.Snippets {
			g.Go(func() error {
				code := snippet.Code
				if code == "" && snippet.File != "" {
					raw, err := os.ReadFile(snippet.File)
					if err != nil {
						mu.Lock()
						failed++
						color.Red("snippet %d: %v", i+1, err)
						mu.Unlock()
						return nil
					}
					code = string(raw)
				}

				review, err := client.submitReview(ctx, code, snippet.Language)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					failed++
					color.Red("snippet %d (%s): %v", i+1, snippet.Language, err)
					return nil
				}
				color.Green("snippet %d (%s): review #%d, score %.1f", i+1, review.Language, review.ID, review.QualityScore)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}

		fmt.Printf("\n%d submitted, %d failed\n", len(manifest.Snippets)-failed, failed)
		if failed > 0 {
			return fmt.Errorf("%d snippet(s) failed", failed)
		}
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 4, "number of concurrent submissions")
	rootCmd.AddCommand(batchCmd)
}
