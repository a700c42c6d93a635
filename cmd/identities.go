package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/CORREAK18/Biometrico-App/internal/config"
	"github.com/CORREAK18/Biometrico-App/internal/store"
)

var identitiesCmd = &cobra.Command{
	Use:   "identities",
	Short: "Manage enrolled identities",
}

var identitiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List enrolled identities",
	RunE:  runIdentitiesList,
}

var identitiesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an enrolled identity",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentitiesDelete,
}

func init() {
	rootCmd.AddCommand(identitiesCmd)
	identitiesCmd.AddCommand(identitiesListCmd)
	identitiesCmd.AddCommand(identitiesDeleteCmd)

	identitiesListCmd.Flags().String("name", "", "Filter by display name (diacritics insensitive)")
	identitiesListCmd.Flags().Bool("json", false, "Output as JSON")
}

func runIdentitiesList(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	ctx := context.Background()
	repo, closeStore, err := openEnrollmentStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var records []store.EnrollmentRecord
	if name := mustGetString(cmd, "name"); name != "" {
		records, err = repo.SearchByDisplayName(ctx, name)
	} else {
		records, err = repo.All(ctx)
	}
	if err != nil {
		return fmt.Errorf("could not list identities: %w", err)
	}

	if mustGetBool(cmd, "json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEXTERNAL ID\tNAME\tENROLLED")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			rec.ID, rec.ExternalID, rec.DisplayName, rec.CreatedAt.Format("2006-01-02 15:04"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d identities enrolled\n", len(records))
	return nil
}

func runIdentitiesDelete(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid identity id %q: %w", args[0], err)
	}

	cfg := config.Load()

	ctx := context.Background()
	repo, closeStore, err := openEnrollmentStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	deleted, err := repo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("could not delete identity: %w", err)
	}
	if !deleted {
		return fmt.Errorf("identity %s not found", id)
	}
	fmt.Printf("Deleted identity %s\n", id)
	return nil
}
