package cmd

import (
	"fmt"
	"os"

	"github.com/sketchrun/livepreview/config"
	"github.com/sketchrun/livepreview/constants/lipgloss"
	"github.com/sketchrun/livepreview/preview_engine"
	"github.com/sketchrun/livepreview/preview_engine/contracts"
	"github.com/spf13/cobra"
)

// RootDependencies holds the wiring shared by all subcommands.
type RootDependencies struct {
	Cwd    string
	Config *config.Config
	Engine contracts.IPreviewEngine
}

var rootCmd = &cobra.Command{
	Use:   "livepreview",
	Short: "Instant sandboxed previews of AI-generated web projects",
	Long: `livepreview assembles an AI-generated multi-file web project into one
self-contained HTML document: wrong asset paths are fuzzy-resolved, every
resource is inlined as a data URL, and broken SVG or script content is
repaired so the preview always renders. No build step, no network access to
the project's original structure.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Println(config.DefaultConfig.Version)
			return
		}
		_ = cmd.Help()
	},
}

// handleRootCommand loads configuration and constructs the engine.
func handleRootCommand(cmd *cobra.Command) *RootDependencies {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error getting current directory: %v", err)))
		return nil
	}

	cfg := config.LoadConfigs(cmd.Root(), cwd)

	return &RootDependencies{
		Cwd:    cwd,
		Config: cfg,
		Engine: preview_engine.NewPreviewEngine(cfg),
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd)
}
