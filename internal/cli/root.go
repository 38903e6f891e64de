package cli

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/gamozolabs/fzero-fuzzer/pkg/fzero"
)

const (
	appName    = "fzero-go"
	appVersion = "0.1.0"
)

func NewRootCmd() *cobra.Command {
	opts := fzero.Defaults()
	showVersion := false

	cmd := &cobra.Command{
		Use:           appName + " <grammar file>",
		Short:         "Compile a grammar into a specialized random-input generator",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", appName, appVersion)
				return err
			}
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one grammar file, got %d arguments", len(args))
			}

			grammar, err := fzero.LoadGrammarFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Loaded grammar %s\n", args[0])

			artifact, err := fzero.Compile(grammar, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Compiled grammar (%d routines)\n", artifact.Routines())

			ran := false

			if opts.OutputPath != "" {
				if err := artifact.EmitSource(opts.OutputPath); err != nil {
					return fmt.Errorf("write source: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Generated Go source file %s\n", opts.OutputPath)
				ran = true
			}

			if opts.BinaryPath != "" {
				if err := goBuild(cmd, opts.BinaryPath, opts.OutputPath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Created fuzzer binary %s\n", opts.BinaryPath)
				ran = true
			}

			if opts.Count > 0 {
				out := cmd.OutOrStdout()
				for i := 0; i < opts.Count; i++ {
					if _, err := out.Write(artifact.GenerateOne()); err != nil {
						return err
					}
					if _, err := fmt.Fprintln(out); err != nil {
						return err
					}
				}
				ran = true
			}

			if opts.Bench {
				artifact.Bench(cmd.OutOrStdout(), opts.BenchIters)
				ran = true
			}

			if !ran {
				_, err := fmt.Fprint(cmd.OutOrStdout(), artifact.Source())
				return err
			}
			return nil
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.Flags().BoolVarP(&showVersion, "version", "v", false, "print version")
	cmd.Flags().Uint64VarP(&opts.Seed, "seed", "s", opts.Seed, "seed for deterministic generation")
	cmd.Flags().IntVarP(&opts.MaxDepth, "max-depth", "d", opts.MaxDepth, "maximum expansion depth")
	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "", "write the generated Go fuzzer source to file")
	cmd.Flags().StringVar(&opts.BinaryPath, "bin", "", "build the emitted source into a binary (requires --output)")
	cmd.Flags().IntVarP(&opts.Count, "count", "n", 0, "generate N cases to stdout instead of emitting source")
	cmd.Flags().BoolVar(&opts.Bench, "bench", false, "run the embedded benchmarking loop")
	cmd.Flags().Uint64Var(&opts.BenchIters, "bench-iters", 0, "stop the benchmarking loop after N iterations (0 = run forever)")

	_ = cmd.MarkFlagFilename("output", "go")

	return cmd
}

// goBuild hands the emitted source to the external Go toolchain.
func goBuild(cmd *cobra.Command, binPath, srcPath string) error {
	build := exec.Command("go", "build", "-o", binPath, srcPath)
	build.Stdout = cmd.OutOrStdout()
	build.Stderr = cmd.ErrOrStderr()
	if err := build.Run(); err != nil {
		return fmt.Errorf("go build %s: %w", srcPath, err)
	}
	return nil
}
