package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/grovetools/rulegen/pkg/builder"
	"github.com/grovetools/rulegen/pkg/config"
	"github.com/grovetools/rulegen/pkg/watcher"
)

func newWatchCmd() *cobra.Command {
	var debounceMs int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch prompt sources and recompile on changes",
		Long: `Watches the configured source directory and recompiles when a prompt
document or fragment changes. A fragment change recompiles the whole source
directory, since fragments may be spliced into any document.

Example:
  rulegen watch --debounce 200`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(time.Duration(debounceMs) * time.Millisecond)
		},
	}

	cmd.Flags().IntVar(&debounceMs, "debounce", 100, "Debounce interval in milliseconds")
	return cmd
}

func runWatch(debounce time.Duration) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		cfg = config.Default()
	}

	w, err := watcher.New()
	if err != nil {
		return err
	}
	defer w.Close()

	sourceDir := filepath.Join(cwd, cfg.SourceDir)
	if err := w.AddRecursive(sourceDir); err != nil {
		return err
	}
	log.Infof("Watching %s", sourceDir)

	b := builder.New(getLogger())
	if _, err := b.Build(cfg, cwd); err != nil {
		log.WithError(err).Error("Initial build failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var timer *time.Timer
	rebuild := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			log.Info("Shutting down")
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if w.HandleNewDirectory(event, isDirectory) {
				continue
			}
			if !watcher.IsPromptFile(event.Name) {
				continue
			}
			log.Debugf("Change detected: %s", event.Name)
			// Debounce: editors fire bursts of events per save.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case rebuild <- struct{}{}:
				default:
				}
			})
		case <-rebuild:
			if _, err := b.Build(cfg, cwd); err != nil {
				log.WithError(err).Error("Rebuild failed")
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("Watcher error")
		}
	}
}

func isDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
