package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage ingested documents",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested documents",
	RunE:  runDocsList,
}

var docsRemoveCmd = &cobra.Command{
	Use:   "remove [doc_id]",
	Short: "Remove a document with its pages and chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsRemove,
}

var docsClearCmd = &cobra.Command{
	Use:   "clear [policy]",
	Short: "Remove every chunk cut under a policy, keeping documents and pages",
	Long: `Remove every chunk cut under the given policy (structural or semantic).

Documents and page text stay in place, so re-running ingest under that
policy rebuilds its chunk set from the source PDFs. The other policy's
chunks are not touched.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocsClear,
}

func init() {
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsRemoveCmd)
	docsCmd.AddCommand(docsClearCmd)
	rootCmd.AddCommand(docsCmd)
}

func runDocsList(cmd *cobra.Command, _ []string) error {
	store, err := deps.OpenStore()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	docs, err := store.ListDocuments(cmd.Context())
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		cmd.Println("No documents ingested.")
		return nil
	}

	for _, doc := range docs {
		cmd.Printf("%-30s %s  %d pages  ingested %s\n",
			doc.ID, doc.Filename, doc.NumPages, doc.IngestedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runDocsClear(cmd *cobra.Command, args []string) error {
	policy := domain.ChunkPolicy(args[0])
	if !policy.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownPolicy, args[0])
	}

	store, err := deps.OpenStore()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	if err := store.DeleteChunks(cmd.Context(), policy); err != nil {
		return err
	}
	cmd.Printf("Cleared %s chunks\n", policy)
	return nil
}

func runDocsRemove(cmd *cobra.Command, args []string) error {
	store, err := deps.OpenStore()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	if err := store.DeleteDocument(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Removed %s\n", args[0])
	return nil
}
