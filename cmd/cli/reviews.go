package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	listPage     int
	listPerPage  int
	listLanguage string
	listDate     string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored reviews",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := newAPIClient().listReviews(cmd.Context(), listPage, listPerPage, listLanguage, listDate)
		if err != nil {
			return err
		}

		if len(page.Reviews) == 0 {
			fmt.Println("No reviews found.")
			return nil
		}

		for _, review := range page.Reviews {
			color.New(color.FgCyan).Printf("#%-5d ", review.ID)
			fmt.Printf("%-12s %.1f/10  %s\n", review.Language, review.QualityScore, review.CreatedAt.Format("2006-01-02 15:04"))
		}
		fmt.Printf("\nPage %d of %d (%d reviews total)\n", page.Page, page.TotalPages, page.Total)
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseReviewID(args[0])
		if err != nil {
			return err
		}

		review, err := newAPIClient().getReview(cmd.Context(), id)
		if err != nil {
			return err
		}

		printReview(review)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseReviewID(args[0])
		if err != nil {
			return err
		}

		message, err := newAPIClient().deleteReview(cmd.Context(), id)
		if err != nil {
			return err
		}

		fmt.Println(message)
		return nil
	},
}

func parseReviewID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid review id %q", raw)
	}
	return id, nil
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	listCmd.Flags().IntVar(&listPage, "page", 1, "page number")
	listCmd.Flags().IntVar(&listPerPage, "per-page", 10, "reviews per page (max 50)")
	listCmd.Flags().StringVar(&listLanguage, "language", "", "filter by language")
	listCmd.Flags().StringVar(&listDate, "date", "", "filter by creation date (YYYY-MM-DD)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(deleteCmd)
}
