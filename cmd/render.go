package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/sketchrun/livepreview/constants/lipgloss"
	"github.com/sketchrun/livepreview/publish"
	"github.com/sketchrun/livepreview/utils"
	"github.com/spf13/cobra"
)

// renderCmd: livepreview render [dir]
var renderCmd = &cobra.Command{
	Use:   "render [dir]",
	Short: "Assemble a one-shot preview document from a project directory",
	Long: `The 'render' subcommand scans a generated project directory, runs the
resolution and sanitization pipeline once, writes the self-contained preview
document, and prints the resolution report.`,
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
		showExcerpt, _ := cmd.Flags().GetBool("excerpt")

		return handleRenderCommand(rootDependencies, dir, showExcerpt)
	},
}

func init() {
	renderCmd.Flags().Bool("excerpt", false, "Print a highlighted excerpt of the assembled document")
	rootCmd.AddCommand(renderCmd)
}

func handleRenderCommand(deps *RootDependencies, dir string, showExcerpt bool) error {
	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100).WithRemoveWhenDone(true)

	spinnerScan, _ := spinner.Start("Scanning project...")
	files, err := utils.LoadProjectFiles(dir)
	spinnerScan.Stop()
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	result, err := deps.Engine.Render(files)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		fmt.Println(lipgloss.Gray.Render("Fix the input and re-run; the pipeline is idempotent."))
		return err
	}

	outputPath := deps.Config.OutputPath
	if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(deps.Cwd, outputPath)
	}
	if err := os.WriteFile(outputPath, []byte(result.HTML), 0644); err != nil {
		return fmt.Errorf("failed to write preview document: %w", err)
	}

	fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✔ Preview written to %s", outputPath)))
	utils.RenderResolutionReport(result.Metadata)

	if showExcerpt {
		utils.RenderDocumentExcerpt(result.HTML, 40, deps.Config.Theme)
	}

	if deps.Config.PublishDir != "" {
		publisher := publish.NewFilePublisher(deps.Config.PublishDir)
		if err := publisher.Publish(result); err != nil {
			fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Publish failed: %v", err)))
		}
	}

	return nil
}
