package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/CORREAK18/Biometrico-App/internal/config"
	"github.com/CORREAK18/Biometrico-App/internal/imaging"
	"github.com/CORREAK18/Biometrico-App/internal/recognition"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll [photo]",
	Short: "Enroll an identity from a photo",
	Long: `Enroll a new identity from a photo containing exactly one face.

Single photo mode requires --external-id and --display-name:

  biometrico enroll photo.jpg --external-id emp-001 --display-name "Jan Novak"

Directory mode enrolls every image in a directory, deriving the
external ID and display name from the file name:

  biometrico enroll --dir ./photos`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)

	enrollCmd.Flags().String("external-id", "", "External identifier for the enrolled identity")
	enrollCmd.Flags().String("display-name", "", "Display name for the enrolled identity")
	enrollCmd.Flags().String("dir", "", "Enroll all images in a directory")
}

func runEnroll(cmd *cobra.Command, args []string) error {
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

	if dir := mustGetString(cmd, "dir"); dir != "" {
		return enrollDirectory(ctx, recognizer, dir)
	}

	if len(args) != 1 {
		return errors.New("a photo path or --dir is required")
	}
	externalID := mustGetString(cmd, "external-id")
	displayName := mustGetString(cmd, "display-name")
	if externalID == "" || displayName == "" {
		return errors.New("--external-id and --display-name are required")
	}

	image, err := os.ReadFile(args[0]) //nolint:gosec // path comes from the CLI user
	if err != nil {
		return fmt.Errorf("could not read photo: %w", err)
	}
	outcome, err := recognizer.Enroll(ctx, recognition.EnrollRequest{
		ExternalID:  externalID,
		DisplayName: displayName,
		Image:       image,
	})
	if err != nil {
		return err
	}
	printEnrollOutcome(args[0], image, outcome)
	return nil
}

func enrollFile(ctx context.Context, r *recognition.Recognizer, path, externalID, displayName string) (*recognition.EnrollOutcome, error) {
	image, err := os.ReadFile(path) //nolint:gosec // path comes from the CLI user
	if err != nil {
		return nil, fmt.Errorf("could not read photo: %w", err)
	}
	return r.Enroll(ctx, recognition.EnrollRequest{
		ExternalID:  externalID,
		DisplayName: displayName,
		Image:       image,
	})
}

// enrollDirectory enrolls every image file in a directory. The file
// name stem becomes the external ID, with dashes and underscores
// turned into spaces for the display name.
func enrollDirectory(ctx context.Context, r *recognition.Recognizer, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("could not read directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png":
			files = append(files, entry.Name())
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no images found in %s", dir)
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Enrolling"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("photos"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)

	var enrolled, skipped, failed int
	for _, name := range files {
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		displayName := strings.NewReplacer("-", " ", "_", " ").Replace(stem)

		outcome, err := enrollFile(ctx, r, filepath.Join(dir, name), stem, displayName)
		switch {
		case err != nil:
			failed++
			fmt.Printf("\n%s: %v\n", name, err)
		case outcome.State == recognition.StateSuccess:
			enrolled++
		default:
			skipped++
			fmt.Printf("\n%s: %s\n", name, outcome.Reason)
		}
		_ = bar.Add(1)
	}
	fmt.Printf("\nEnrolled %d, skipped %d, failed %d\n", enrolled, skipped, failed)
	return nil
}

func printEnrollOutcome(path string, image []byte, outcome *recognition.EnrollOutcome) {
	switch outcome.State {
	case recognition.StateSuccess:
		fmt.Printf("Enrolled %s as %s (%s)\n", path, outcome.Identity.DisplayName, outcome.Identity.ID)
		if w, h, err := imaging.Dimensions(image); err == nil {
			fmt.Printf("  Photo: %dx%d px\n", w, h)
		}
	case recognition.StateAlreadyExists:
		fmt.Printf("Not enrolled: %s (conflicts with %s)\n", outcome.Reason, outcome.Identity.DisplayName)
	default:
		fmt.Printf("Not enrolled: %s\n", outcome.Reason)
	}
}
