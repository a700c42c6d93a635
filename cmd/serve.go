package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/CORREAK18/Biometrico-App/internal/config"
	"github.com/CORREAK18/Biometrico-App/internal/detector"
	"github.com/CORREAK18/Biometrico-App/internal/recognition"
	"github.com/CORREAK18/Biometrico-App/internal/store"
	"github.com/CORREAK18/Biometrico-App/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recognition API server",
	Long: `Start the Biometrico API server.
The server exposes identity enrollment, recognition queries and
statistics over HTTP. Recognition requires a running face landmark
detection service (DETECTOR_URL).`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// buildIdentityIndex loads the enrolled set and indexes it for the
// similar-identities query.
func buildIdentityIndex(ctx context.Context, repo store.EnrollmentReader, indexPath string) (*store.IdentityIndex, error) {
	records, err := repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not load enrolled identities: %w", err)
	}

	index := store.NewIdentityIndex()
	if err := index.Build(records); err != nil {
		return nil, fmt.Errorf("could not build identity index: %w", err)
	}
	if indexPath != "" {
		index.SetPath(indexPath)
		fmt.Printf("Identity index built with %d identities (persisted to %s)\n", index.Count(), indexPath)
	} else {
		fmt.Printf("Identity index built with %d identities (in-memory only)\n", index.Count())
	}
	return index, nil
}

// newRecognizer wires the detector client and the geometric embedding
// pipeline into a recognizer over the given store.
func newRecognizer(cfg *config.Config, repo store.EnrollmentWriter, index *store.IdentityIndex) (*recognition.Recognizer, error) {
	det, err := detector.NewClient(cfg.Detector.URL)
	if err != nil {
		return nil, fmt.Errorf("could not create detector client: %w", err)
	}
	return recognition.New(det, recognition.GeometricEmbedder{}, repo, index, cfg.Matching), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	ctx := context.Background()
	repo, closeStore, err := openEnrollmentStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	index, err := buildIdentityIndex(ctx, repo, cfg.Database.HNSWIndexPath)
	if err != nil {
		return err
	}

	recognizer, err := newRecognizer(cfg, repo, index)
	if err != nil {
		return err
	}

	server := web.NewServer(cfg, recognizer, repo)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		if err := index.Save(); err != nil {
			fmt.Printf("Warning: failed to save identity index: %v\n", err)
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting Biometrico API on %s\n", cfg.Server.Addr)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
