package commands

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/sqlsift/internal/cli/config"
	"github.com/leapstack-labs/sqlsift/internal/index"
	"github.com/leapstack-labs/sqlsift/pkg/extract"
	"github.com/spf13/cobra"
)

// scanExtensions are the file extensions treated as SQL scripts.
var scanExtensions = map[string]bool{
	".sql": true,
	".hql": true,
}

// NewScanCommand creates the scan command.
func NewScanCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Scan a directory of SQL files into the index",
		Long: `Walk a directory tree, extract the source tables of every .sql and
.hql file, and persist the file-to-table edges into the scan index.
The tables command queries the result.`,
		Example: `  # Scan the current directory
  sqlsift scan

  # Scan a models directory and re-scan on change
  sqlsift scan models --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runScan(cmd, root, watch)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-scan when files change")

	return cmd
}

func runScan(cmd *cobra.Command, root string, watch bool) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	logger := config.GetLogger(ctx)

	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("cannot scan %s: %w", root, err)
	}

	store, err := index.Open(cfg.IndexPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	opts := extract.Options{DefaultDatabase: cfg.DefaultDatabase}

	files, tables, err := scanOnce(ctx, store, root, opts, logger)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "scanned %d files, %d source tables\n", files, tables)

	if !watch {
		return nil
	}
	return watchAndRescan(ctx, store, root, opts, logger)
}

// scanOnce walks root and records one complete scan in the store.
func scanOnce(ctx context.Context, store *index.Store, root string, opts extract.Options, logger *slog.Logger) (files, tables int, err error) {
	scanID, err := store.BeginScan(ctx, root)
	if err != nil {
		return 0, 0, err
	}

	seen := map[string]bool{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Skip hidden directories (.git, .sqlsift, ...)
			if name := d.Name(); path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !scanExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		report := extract.Extract(string(content), opts)
		logger.Debug("scanned file", "path", path, "tables", len(report.Tables))

		if err := store.RecordFile(ctx, scanID, path, report.Tables); err != nil {
			return err
		}
		for _, name := range report.Tables {
			seen[strings.ToLower(name)] = true
		}
		files++
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("scan failed: %w", err)
	}

	if err := store.FinishScan(ctx, scanID, files); err != nil {
		return 0, 0, err
	}
	return files, len(seen), nil
}

// watchAndRescan blocks, re-running the scan whenever a SQL file under
// root is written or created. Events are debounced so editors that fire
// several writes per save trigger one re-scan.
func watchAndRescan(ctx context.Context, store *index.Store, root string, opts extract.Options, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}
	logger.Info("watching for changes", "root", root)

	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// New directories need to be added to the watch set
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				_ = watchDirRecursive(watcher, event.Name)
				continue
			}
			if !scanExtensions[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				logger.Debug("file changed, re-scanning", "file", event.Name)
				if _, _, err := scanOnce(ctx, store, root, opts, logger); err != nil {
					logger.Error("re-scan failed", "error", err)
				}
			})

		case err := <-watcher.Errors:
			logger.Error("watcher error", "error", err)
		}
	}
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); path != dir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}
