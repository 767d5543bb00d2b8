package handlers

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewGenerateCmd creates the generate command for a one-off pipeline run
func NewGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Run the generation pipeline once",
		Long: `Run one full generation cycle against the stored configuration and
print the outcome. Useful for testing a configuration without going through
the HTTP trigger.

Examples:
  # Generate one article
  autopress generate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()

			coordinator, backend := buildCoordinator(st)
			defer backend.Close()

			result, err := coordinator.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("generation run failed: %w", err)
			}

			fmt.Printf("Article created: %s\n", result.Article.ID)
			fmt.Printf("  Title:    %s\n", result.Article.Title)
			fmt.Printf("  Category: %s\n", result.Article.Category)
			fmt.Printf("  Status:   %s\n", result.Article.Status)
			if len(result.Article.Tags) > 0 {
				fmt.Printf("  Tags:     %v\n", result.Article.Tags)
			}
			if result.Checklist != nil {
				fmt.Printf("  Keyword density: %.2f%%, readability: %.0f\n",
					result.Checklist.KeywordDensity, result.Checklist.ReadabilityScore)
			}
			fmt.Printf("  Duration: %s\n", result.Stats.ProcessingTime)

			return nil
		},
	}
}
