package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	suar "github.com/suarindonesia/website"
)

//go:generate go run . client build --pkg ../suar-client --out ../../public

const wasmName = "suar.wasm"

var (
	clientOut string
	clientPkg string
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage the WebAssembly client",
}

var clientBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the WebAssembly client into the static directory",
	Long: `Build compiles the browser client for js/wasm and copies the Go
runtime loader next to it:

  <static_dir>/suar.wasm
  <static_dir>/wasm_exec.js

The server loads the client only when both files are present.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := clientOut
		if out == "" {
			cfg, err := suar.LoadConfig(cfgFile)
			if err != nil {
				return err
			}
			out = cfg.StaticDir
		}
		goBin, err := exec.LookPath("go")
		if err != nil {
			return errors.New("go command not found; the client is built with the Go toolchain")
		}
		return buildClient(cmd.Context(), goBin, clientPkg, out, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	clientBuildCmd.Flags().StringVar(&clientOut, "out", "", "output directory (default static_dir)")
	clientBuildCmd.Flags().StringVar(&clientPkg, "pkg", "./cmd/suar-client", "client package to build")
	clientCmd.AddCommand(clientBuildCmd)
	rootCmd.AddCommand(clientCmd)
}

func buildClient(ctx context.Context, goBin, pkg, outDir string, stdout, stderr io.Writer) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", outDir, err)
	}

	build := wasmBuildCommand(ctx, goBin, pkg, filepath.Join(outDir, wasmName))
	build.Stdout = stdout
	build.Stderr = stderr
	if err := build.Run(); err != nil {
		return fmt.Errorf("build client: %w", err)
	}

	goroot, err := exec.CommandContext(ctx, goBin, "env", "GOROOT").Output()
	if err != nil {
		return fmt.Errorf("go env GOROOT: %w", err)
	}
	loader, err := installWasmExec(strings.TrimSpace(string(goroot)), outDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s\nwrote %s\n", filepath.Join(outDir, wasmName), loader)
	return nil
}

func wasmBuildCommand(ctx context.Context, goBin, pkg, out string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, goBin, "build", "-trimpath", "-ldflags", "-s -w", "-o", out, pkg)
	cmd.Env = append(os.Environ(), "GOOS=js", "GOARCH=wasm")
	return cmd
}

// installWasmExec copies the wasm_exec.js shipped with the toolchain at
// goroot into outDir. Go 1.24 moved it from misc/wasm to lib/wasm.
func installWasmExec(goroot, outDir string) (string, error) {
	for _, dir := range []string{"lib/wasm", "misc/wasm"} {
		src := filepath.Join(goroot, filepath.FromSlash(dir), "wasm_exec.js")
		data, err := os.ReadFile(src)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		dst := filepath.Join(outDir, "wasm_exec.js")
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", dst, err)
		}
		return dst, nil
	}
	return "", fmt.Errorf("wasm_exec.js not found under %s", goroot)
}
