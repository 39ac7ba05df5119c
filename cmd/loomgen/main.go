// Command loomgen rewrites marked procedures into registrable coroutine
// bodies. It is intended to run via go:generate:
//
//	//go:generate loomgen anim.go
//
// For each input file containing //loom:proc functions it writes a sibling
// *_loom.go file with the generated bodies, identity constants, and
// registration helpers. Files without marked procedures are skipped.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/loom/rewrite"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	flagStdout    bool
	flagVerbose   bool
	flagNamespace string
	flagMarker    string
)

var rootCmd = &cobra.Command{
	Use:   "loomgen [flags] file.go ...",
	Short: "Generate resumable coroutine bodies from marked procedures",
	Long: `Loomgen scans the given Go source files for functions marked with a
//loom:proc directive and rewrites each one into a resumable coroutine
body. Suspension expressions in the original become yield points; the
generated body re-derives its parameters after every resume.

Output goes to <file>_loom.go next to each input unless --stdout is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("loomgen version {{.Version}}\n")
	rootCmd.Flags().BoolVar(&flagStdout, "stdout", false, "print generated code instead of writing files")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "log transformation details")
	rootCmd.Flags().StringVar(&flagNamespace, "namespace", "", "identity namespace (defaults to the file's package name)")
	rootCmd.Flags().StringVar(&flagMarker, "marker", rewrite.DefaultMarker, "import path of the suspension marker package")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := rewrite.Config{
		Marker:    flagMarker,
		Namespace: flagNamespace,
	}
	if flagVerbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()
		cfg.Logger = log
	}

	for _, path := range args {
		out, outPath, err := rewrite.Path(path, cfg)
		if err != nil {
			return err
		}
		if out == nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: no marked procedures, skipped\n", path)
			continue
		}
		if flagStdout {
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			continue
		}
		if err := os.WriteFile(outPath, out, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s -> %s\n", path, outPath)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
