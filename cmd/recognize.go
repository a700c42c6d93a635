package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CORREAK18/Biometrico-App/internal/config"
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize <photo>",
	Short: "Match a photo against the enrolled identities",
	Long: `Match a photo containing exactly one face against the enrolled set.

Examples:
  # Recognize a face
  biometrico recognize photo.jpg

  # Output as JSON
  biometrico recognize photo.jpg --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRecognize,
}

func init() {
	rootCmd.AddCommand(recognizeCmd)

	recognizeCmd.Flags().Bool("json", false, "Output as JSON")
}

func runRecognize(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	ctx := context.Background()
	repo, closeStore, err := openEnrollmentStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	recognizer, err := newRecognizer(cfg, repo, nil)
	if err != nil {
		return err
	}

	image, err := os.ReadFile(args[0]) //nolint:gosec // path comes from the CLI user
	if err != nil {
		return fmt.Errorf("could not read photo: %w", err)
	}

	result, err := recognizer.Recognize(ctx, image)
	if err != nil {
		return fmt.Errorf("recognition failed: %w", err)
	}

	if mustGetBool(cmd, "json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if !result.Matched {
		fmt.Printf("No match: %s\n", result.Reason)
		return nil
	}
	fmt.Printf("Matched %s (%s) with similarity %.3f\n",
		result.Identity.DisplayName, result.Identity.ExternalID, result.Score)
	return nil
}
