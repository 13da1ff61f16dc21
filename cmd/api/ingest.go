package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"helpdesk-automation/config"
	"helpdesk-automation/internal/retrieval"
)

var ingestExtensions = map[string]bool{".md": true, ".txt": true}

func newIngestCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "ingest <dir>",
		Short: "Index a directory of .md and .txt files into the knowledge base",
		Long: `Walks dir, splits each .md or .txt file into paragraph chunks and
indexes them with the configured embedder and retrieval backend. The chunk
source is the file path relative to dir.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			docs, err := collectDocuments(args[0])
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "dry-run: would ingest %d chunks from %s\n", len(docs), args[0])
				return nil
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			n, err := ingest(ctx, cfg, docs)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ingested %d chunks from %s\n", n, args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "count chunks without indexing")
	return cmd
}

func ingest(ctx context.Context, cfg *config.Config, docs []retrieval.Document) (int, error) {
	logger := newLogger(cfg)

	embedder, closeEmbedder, err := newEmbedder(cfg)
	if err != nil {
		return 0, err
	}
	defer closeEmbedder()

	uc, err := newRetrieval(ctx, cfg, logger, embedder)
	if err != nil {
		return 0, err
	}
	return uc.Ingest(ctx, docs)
}

// collectDocuments splits every supported file under root into chunks.
func collectDocuments(root string) ([]retrieval.Document, error) {
	var docs []retrieval.Document
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !ingestExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		docs = append(docs, retrieval.Split(filepath.ToSlash(rel), string(raw))...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return docs, nil
}
