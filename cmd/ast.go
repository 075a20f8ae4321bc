package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.cinder.dev/pkg"
)

var writeDot bool

// ast: dump the parser output
var AstCmd = &cobra.Command{
	Use:   "ast <source.c>",
	Short: "Print the AST forest of a source file",
	Args:  cobra.ExactArgs(1),
	RunE:  astRun,
}

func init() {
	AstCmd.Flags().BoolVar(&writeDot, "dot", false, "write a Graphviz dot file to the output directory")
}

func astRun(cmd *cobra.Command, args []string) error {
	src := args[0]

	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	progress(cmd.ErrOrStderr(), "parsing %q ...", src)

	toks, err := cinder.Tokenize(string(data))
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	tree, err := cinder.Parse(toks)
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	if !writeDot {
		for _, root := range tree.Roots {
			fmt.Fprintln(cmd.OutOrStdout(), tree.Format(root))
		}

		return nil
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	path := filepath.Join(outDir, base+".dot")

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := cinder.WriteDot(f, tree); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✔︎ wrote AST graph to %s\n", path)
	return nil
}
