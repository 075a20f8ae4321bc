package test

import (
	"math/rand"
	"strings"
)

var validTokens = []string{
	"int", "float", "void", "main", "x", "y", "counter",
	"(", ")", "{", "}", "[", "]", ",", ";",
	"=", "==", "!=", "<", "<=", ">", ">=", "&&", "||", "!",
	"+", "-", "*", "/",
	"return", "if", "while",
	"123", "3.14", "0",
	"//comment\n", "/* block\ncomment */", "\n",
}

func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

func GetRandomTokensWithSep(size int, sep string) string {
	var toks []string
	for len(toks) < size {
		toks = append(toks, validTokens[rand.Intn(len(validTokens))])
	}

	return strings.Join(toks, sep)
}

// GetGlobals returns a source made of size global declarations preceded by
// a macro definition they all use.
func GetGlobals(size int) string {
	var src strings.Builder
	src.WriteString("#define SEED 7\n")

	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	types := []string{"int", "float"}
	for i := 0; i < size; i++ {
		src.WriteString(types[rand.Intn(len(types))])
		src.WriteString(" ")
		src.WriteString(names[rand.Intn(len(names))])
		src.WriteString(" = SEED * (1 + 2) - -3;\n")
	}

	return src.String()
}
