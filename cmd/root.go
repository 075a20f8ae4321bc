package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var (
	outDir  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "cinder",
	Short: "cinder: a C-like language front end emitting LLVM IR",
	Long: `cinder lexes, parses and lowers C-like source files into LLVM IR.

Commands:
  build   Compile a source file into an .ll artifact
  tokens  Print the token stream of a source file
  ast     Print the AST forest of a source file, or write it as a dot graph
`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", "out", "output directory for build artifacts")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print progress for every phase")

	rootCmd.AddCommand(BuildCmd, TokensCmd, AstCmd)
}

// progress prints a phase line when --verbose is set.
func progress(w io.Writer, format string, args ...interface{}) {
	if !verbose {
		return
	}

	fmt.Fprintf(w, "↪ "+format+"\n", args...)
}
