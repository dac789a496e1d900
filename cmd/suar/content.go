package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"text/template"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/suarindonesia/website/internal/content"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Manage the static site content",
}

var contentInitCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write the default content file and an example config",
	Long: `init writes site.yaml with the built-in default content into dir
(default "content") and suar.example.yaml into the current directory.
Existing files are never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "content"
		if len(args) == 1 {
			dir = args[0]
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}

		site, err := yaml.Marshal(content.DefaultContent())
		if err != nil {
			return fmt.Errorf("encode content: %w", err)
		}
		sitePath := filepath.Join(dir, content.StaticFile)
		if err := writeNew(sitePath, site); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  created %s\n", sitePath)

		f, err := os.OpenFile("suar.example.yaml", os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			fmt.Fprintln(cmd.OutOrStdout(), "  kept suar.example.yaml")
			return nil
		}
		if err != nil {
			return err
		}
		defer f.Close()
		if err := configTemplate.Execute(f, struct{ ContentDir string }{dir}); err != nil {
			return fmt.Errorf("write suar.example.yaml: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "  created suar.example.yaml")
		return nil
	},
}

var configTemplate = template.Must(template.New("config").Parse(`name: Suar Indonesia
url: https://suar.or.id
description: Mendampingi komunitas untuk hidup sehat dan setara.
addr: ":3000"

store:
  dir: data

remote:
  url: ""   # SUAR_REMOTE_URL
  key: ""   # SUAR_REMOTE_KEY

content:
  dir: {{.ContentDir}}
  watch: false

client: true  # needs "suar client build"
cache_ttl: 5m

admin:
  password: ""   # SUAR_ADMIN_PASSWORD, empty disables /admin
session:
  secret: ""     # SUAR_SESSION_SECRET

log:
  level: info
`))

func writeNew(path string, data []byte) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	return os.WriteFile(path, data, 0o644)
}

func init() {
	contentCmd.AddCommand(contentInitCmd)
	rootCmd.AddCommand(contentCmd)
}
