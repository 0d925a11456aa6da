package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sevigo/code-critic/internal/core"
)

var submitLanguage string

var submitCmd = &cobra.Command{
	Use:   "submit [file]",
	Short: "Submit a code snippet for review",
	Long:  `Reads a code snippet from a file (or stdin when no file is given) and submits it for an AI review.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var code []byte
		var err error

		if len(args) == 1 {
			code, err = os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading snippet file: %w", err)
			}
		} else {
			code, err = io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading snippet from stdin: %w", err)
			}
		}

		review, err := newAPIClient().submitReview(cmd.Context(), string(code), submitLanguage)
		if err != nil {
			return err
		}

		printReview(review)
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	submitCmd.Flags().StringVarP(&submitLanguage, "language", "l", "", "snippet language (python, javascript, java, cpp)")
	_ = submitCmd.MarkFlagRequired("language")
	rootCmd.AddCommand(submitCmd)
}

func printReview(review *core.Review) {
	heading := color.New(color.FgCyan, color.Bold)
	heading.Printf("Review #%d (%s)\n", review.ID, review.Language)

	scoreColor := color.New(color.FgRed)
	switch {
	case review.QualityScore >= 7:
		scoreColor = color.New(color.FgGreen)
	case review.QualityScore >= 4:
		scoreColor = color.New(color.FgYellow)
	}
	fmt.Print("Quality score: ")
	scoreColor.Printf("%.1f/10\n\n", review.QualityScore)

	fmt.Println(review.ReviewText)

	if len(review.PotentialBugs) > 0 {
		fmt.Println()
		color.New(color.FgRed, color.Bold).Println("Potential bugs:")
		for _, bug := range review.PotentialBugs {
			fmt.Println("  - " + bug)
		}
	}
	if len(review.Suggestions) > 0 {
		fmt.Println()
		color.New(color.FgYellow, color.Bold).Println("Suggestions:")
		for _, suggestion := range review.Suggestions {
			fmt.Println("  - " + suggestion)
		}
	}
	fmt.Println()
	fmt.Println("Created: " + review.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Println(strings.Repeat("-", 60))
}
