package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// ingestTextFile optionally points at pre-extracted text for formats
// the caller has already converted (PDF, DOCX).
var ingestTextFile string

var ingestCmd = &cobra.Command{
	Use:   "ingest [course-id] [file]",
	Short: "Upload and index a course document",
	Long: `Stores the raw file, registers it under the course, splits its text
into overlapping chunks and indexes them. The file itself is treated as
plain text unless --text points at a separately extracted text file.
Re-ingesting the same course and filename replaces the previous content.`,
	Args: cobra.ExactArgs(2),
	RunE: runIngest,
}

var attachCmd = &cobra.Command{
	Use:   "attach [course-id] [filename] [text-file]",
	Short: "Attach extracted text to an uploaded document",
	Long: `Chunks and indexes the text for a document that was already uploaded.
Use this when text extraction happens after the upload.`,
	Args: cobra.ExactArgs(3),
	RunE: runAttach,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestTextFile, "text", "", "path to pre-extracted text for the document")
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(attachCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	courseID := args[0]
	path := args[1]
	filename := filepath.Base(path)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	text, err := ingestText(path)
	if err != nil {
		return err
	}

	ctx := context.Background()
	doc, err := ingestService.Ingest(ctx, courseID, filename, f, text)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Indexed %s: %d chunks\n", doc.ID, len(doc.Chunks))
	return nil
}

// ingestText resolves the document text: the --text file when given,
// otherwise the uploaded file read as plain text.
func ingestText(uploadPath string) (string, error) {
	path := uploadPath
	if ingestTextFile != "" {
		path = ingestTextFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading text from %s: %w", path, err)
	}
	return string(data), nil
}

func runAttach(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	courseID := args[0]
	filename := args[1]

	data, err := os.ReadFile(args[2])
	if err != nil {
		return fmt.Errorf("reading text from %s: %w", args[2], err)
	}

	ctx := context.Background()
	doc, err := ingestService.Attach(ctx, courseID, filename, string(data))
	if err != nil {
		return fmt.Errorf("attach failed: %w", err)
	}

	cmd.Printf("Indexed %s: %d chunks\n", doc.ID, len(doc.Chunks))
	return nil
}
