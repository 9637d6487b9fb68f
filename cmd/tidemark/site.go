package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/akordas/tidemark/internal/server"
)

func newBuildSiteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build-site",
		Short: "Regenerate the static report site from database state",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			indexPath, err := a.report.BuildSite()
			if err != nil {
				return err
			}
			fmt.Println("Site built:", indexPath)
			return nil
		},
	}
}

func newOpenSiteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open-site",
		Short: "Open the generated report site in the default browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			indexPath := filepath.Join(cfg.DocsDir, "index.html")
			if _, err := os.Stat(indexPath); err != nil {
				return fmt.Errorf("site not built yet, run build-site first: %w", err)
			}
			return openBrowser(indexPath)
		},
	}
}

// openBrowser launches the platform opener for a local file.
func openBrowser(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	return nil
}

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated report site over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if port == 0 {
				port = cfg.Port
			}
			return server.New(a.db, cfg.DocsDir, port, log).Run()
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Listen port (default from TIDEMARK_PORT)")
	return cmd
}
