package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sketchrun/livepreview/constants/lipgloss"
	"github.com/sketchrun/livepreview/preview_engine"
	"github.com/sketchrun/livepreview/preview_engine/models"
	"github.com/sketchrun/livepreview/publish"
	"github.com/sketchrun/livepreview/utils"
	"github.com/spf13/cobra"
)

// watchCmd: livepreview watch [dir]
var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Rebuild the preview document as generated files change",
	Long: `The 'watch' subcommand observes a project directory and feeds every file
change into the recompute scheduler: changes are hashed and debounced so a
streaming AI write retriggers the pipeline once per quiet period, not once
per chunk. Each committed run rewrites the preview document in full.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies := handleRootCommand(cmd)
		if rootDependencies == nil {
			return fmt.Errorf("failed to initialize")
		}

		dir := rootDependencies.Cwd
		if len(args) > 0 {
			dir = args[0]
		}
		return handleWatchCommand(rootDependencies, dir)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func handleWatchCommand(deps *RootDependencies, dir string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	outputPath := deps.Config.OutputPath
	if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(deps.Cwd, outputPath)
	}

	var publisher = func(result *models.PreviewResult) {}
	if deps.Config.PublishDir != "" {
		p := publish.NewFilePublisher(deps.Config.PublishDir)
		publisher = func(result *models.PreviewResult) {
			go func() {
				if err := p.Publish(result); err != nil {
					fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Publish failed: %v", err)))
				}
			}()
		}
	}

	scheduler := preview_engine.NewScheduler(
		time.Duration(deps.Config.DebounceMs)*time.Millisecond,
		func(files []models.ProjectFile) {
			result, err := deps.Engine.Render(files)
			if err != nil {
				fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
				return
			}
			if err := os.WriteFile(outputPath, []byte(result.HTML), 0644); err != nil {
				fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Failed to write preview: %v", err)))
				return
			}
			fmt.Println(lipgloss.Green.Render(fmt.Sprintf(
				"✔ %s rebuilt (%d files, %d resolved, %d auto-mapped, %d unresolved)",
				filepath.Base(outputPath), result.Metadata.FileCount,
				result.Metadata.ResolvedRefs, result.Metadata.AutoMappedRefs,
				len(result.Metadata.UnresolvedRefs))))
			publisher(result)
		},
	)
	defer scheduler.Stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, dir); err != nil {
		return err
	}

	notify := func() {
		files, err := utils.LoadProjectFiles(dir)
		if err != nil {
			fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Scan failed: %v", err)))
			return
		}
		scheduler.Notify(files)
	}

	// Initial build before any change arrives.
	notify()
	fmt.Println(lipgloss.BlueSky.Render(fmt.Sprintf("Watching %s (Ctrl+C to stop)", dir)))

	for {
		select {
		case <-ctx.Done():
			fmt.Println(lipgloss.Yellow.Render("\n🔄 Exiting..."))
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// New directories must be added to the watch set.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addWatchDirs(watcher, event.Name)
				}
			}
			notify()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Watch error: %v", err)))
		}
	}
}

// addWatchDirs registers root and every non-ignored subdirectory.
func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err == nil && rel != "." && utils.IsDefaultIgnored(rel) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
