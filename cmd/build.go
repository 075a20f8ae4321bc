package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.cinder.dev/pkg"
)

var printIR bool

// build: compile a source file into LLVM IR
var BuildCmd = &cobra.Command{
	Use:   "build <source.c>",
	Short: "Compile a source file into an LLVM IR artifact",
	Args:  cobra.ExactArgs(1),
	RunE:  buildRun,
}

func init() {
	BuildCmd.Flags().BoolVar(&printIR, "print", false, "also print the generated IR")
}

func buildRun(cmd *cobra.Command, args []string) error {
	src := args[0]
	c := cinder.NewCompiler(cinder.Options{OutDir: outDir})

	progress(cmd.ErrOrStderr(), "building %q → %q ...", src, outDir+"/")

	res, err := c.Compile(src)
	if err != nil {
		return err
	}

	progress(cmd.ErrOrStderr(), "%d tokens, %d top-level constructs, %d globals",
		len(res.Tokens), len(res.Tree.Roots), len(res.Program.Globals.Names()))

	if printIR {
		fmt.Fprint(cmd.OutOrStdout(), res.Program)
	}

	outFile, err := c.WriteArtifact(res)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✔︎ wrote LLVM IR to %s\n", outFile)
	return nil
}
