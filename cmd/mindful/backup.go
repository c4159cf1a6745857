package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/mindful/internal/backup"
)

var backupLink bool

// newUploader is replaced in tests.
var newUploader = backup.NewUploader

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Upload the journal and snapshot archive to S3-compatible storage",
	Long: "Upload the journal file and, when it exists, the snapshot archive to " +
		"the configured bucket. Without a bucket the journal stays local-only " +
		"and nothing is uploaded.",
	Args: cobra.NoArgs,
	RunE: runBackup,
}

func init() {
	backupCmd.Flags().BoolVar(&backupLink, "link", false, "Print pre-signed download URLs")
	rootCmd.AddCommand(backupCmd)
}

type backupFile struct {
	kind backup.Kind
	path string
}

// backupResult is one uploaded object.
type backupResult struct {
	Kind backup.Kind `json:"kind"`
	File string      `json:"file"`
	Key  string      `json:"key"`
	URL  string      `json:"url,omitempty"`
}

func runBackup(cmd *cobra.Command, args []string) error {
	u, err := newUploader(cfg.Backup)
	if err != nil {
		return err
	}
	if _, ok := u.(*backup.NoopUploader); ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Backup storage not configured; nothing uploaded.")
		return nil
	}

	// A journal that does not load is not uploaded.
	adapter, _, err := openJournal()
	if err != nil {
		return err
	}
	if _, err := os.Stat(adapter.Path()); err != nil {
		return fmt.Errorf("journal %s: %w", adapter.Path(), err)
	}

	files := []backupFile{{backup.KindJournal, adapter.Path()}}
	if _, err := os.Stat(cfg.Archive.Path); err == nil {
		files = append(files, backupFile{backup.KindArchive, cfg.Archive.Path})
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("archive %s: %w", cfg.Archive.Path, err)
	}

	results := make([]backupResult, 0, len(files))
	for _, f := range files {
		key, err := u.Upload(cmd.Context(), f.kind, f.path)
		if err != nil {
			return err
		}
		r := backupResult{Kind: f.kind, File: f.path, Key: key}
		if backupLink {
			link, _, err := u.PresignedURL(cmd.Context(), key)
			if err != nil {
				return err
			}
			r.URL = link
		}
		slog.Info("backup uploaded", "component", "backup", "kind", f.kind, "key", key)
		results = append(results, r)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{"uploads": results})
	}
	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "KIND\tFILE\tKEY")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Kind, r.File, r.Key)
	}
	w.Flush()
	for _, r := range results {
		if r.URL != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", r.Kind, r.URL)
		}
	}
	return nil
}
