package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.cinder.dev/pkg"
)

// tokens: dump the lexer output
var TokensCmd = &cobra.Command{
	Use:   "tokens <source.c>",
	Short: "Print the token stream of a source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		progress(cmd.ErrOrStderr(), "lexing %q ...", args[0])

		toks, err := cinder.NewLexer(f).Run()
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		for _, tok := range toks {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", tok.Loc, tok)
		}

		return nil
	},
}
