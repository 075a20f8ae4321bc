package cinder

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type Options struct {
	// OutDir receives one .ll artifact per compiled file.
	OutDir string
}

type Compiler struct {
	opts Options
}

func NewCompiler(opts Options) *Compiler {
	if opts.OutDir == "" {
		opts.OutDir = "out"
	}

	return &Compiler{opts: opts}
}

// Result holds the output of every phase of one compilation.
type Result struct {
	Filename string
	Tokens   []Token
	Tree     *Tree
	Program  *Program
}

func (c *Compiler) Compile(filename string) (*Result, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	res, err := c.CompileFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	res.Filename = filename
	return res, nil
}

func (c *Compiler) CompileFromReader(reader io.Reader) (*Result, error) {
	tokens, err := NewLexer(reader).Run()
	if err != nil {
		return nil, err
	}

	tree, err := NewParser(tokens).Run()
	if err != nil {
		return nil, err
	}

	prog, err := NewLLVMGenerator(tree).Do()
	if err != nil {
		return nil, err
	}

	return &Result{
		Tokens:  tokens,
		Tree:    tree,
		Program: prog,
	}, nil
}

// ArtifactPath returns where the IR of filename is written.
func (c *Compiler) ArtifactPath(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		base = "a"
	}

	return filepath.Join(c.opts.OutDir, base+".ll")
}

// WriteArtifact writes the IR of res, replacing any previous artifact.
func (c *Compiler) WriteArtifact(res *Result) (string, error) {
	if err := os.MkdirAll(c.opts.OutDir, 0755); err != nil {
		return "", err
	}

	path := c.ArtifactPath(res.Filename)
	if err := os.WriteFile(path, []byte(res.Program.String()), 0644); err != nil {
		return "", err
	}

	return path, nil
}
