package cinder

import (
	"strings"
	"unicode"
)

type Macro struct {
	Name  string
	Value string

	// Lines (1-based, inclusive) the substitution applies to.
	FirstLine int
	LastLine  int
}

// Preprocess strips comments, expands #define macros and removes every
// directive line. Line boundaries are preserved.
func Preprocess(src string) (string, error) {
	lines := strings.Split(stripComments(src), "\n")

	macros, err := scanMacros(lines)
	if err != nil {
		return "", err
	}

	for i, line := range lines {
		if isDirective(line) {
			lines[i] = ""
			continue
		}

		lines[i] = substitute(line, i+1, macros)
	}

	return strings.Join(lines, "\n"), nil
}

// stripComments removes // and /* */ comments. Newlines inside removed
// comments are kept so positions stay meaningful.
func stripComments(src string) string {
	var out strings.Builder
	out.Grow(len(src))

	for i := 0; i < len(src); {
		switch {
		case strings.HasPrefix(src[i:], "//"):
			end := strings.IndexByte(src[i:], '\n')
			if end == -1 {
				return out.String()
			}

			i += end // The newline itself is kept
		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			body := src[i+2:]
			if end != -1 {
				body = body[:end]
			}

			out.WriteString(strings.Repeat("\n", strings.Count(body, "\n")))

			if end == -1 {
				return out.String()
			}

			i += 2 + end + 2
		default:
			out.WriteByte(src[i])
			i++
		}
	}

	return out.String()
}

func isDirective(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "#")
}

func scanMacros(lines []string) ([]Macro, error) {
	var macros []Macro
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if !strings.HasPrefix(trimmed, "#define") {
			continue
		}

		col := len(line) - len(trimmed) + 1
		loc := Location{Line: i + 1, Column: col}

		rest := strings.TrimPrefix(trimmed, "#define")
		if rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
			return nil, &LexError{loc, "malformed macro directive: expected a name after #define"}
		}

		rest = strings.TrimLeft(rest, " \t")
		nameEnd := strings.IndexAny(rest, " \t")
		if nameEnd == -1 {
			return nil, &LexError{loc, "malformed macro directive: missing value for " + rest}
		}

		name := rest[:nameEnd]
		if !isIdentifier(name) {
			return nil, &LexError{loc, "malformed macro directive: invalid name " + name}
		}

		value := strings.TrimSpace(rest[nameEnd+1:])
		if value == "" {
			return nil, &LexError{loc, "malformed macro directive: missing value for " + name}
		}

		macros = append(macros, Macro{
			Name:      name,
			Value:     value,
			FirstLine: i + 2,
			LastLine:  len(lines),
		})
	}

	return macros, nil
}

// substitute replaces, for every macro in scope on the given line, the first
// occurrence of its name that stands as a whole identifier.
func substitute(line string, lineNo int, macros []Macro) string {
	for _, m := range macros {
		if lineNo < m.FirstLine || lineNo > m.LastLine {
			continue
		}

		if at := findWord(line, m.Name); at != -1 {
			line = line[:at] + m.Value + line[at+len(m.Name):]
		}
	}

	return line
}

func findWord(line, word string) int {
	for from := 0; from < len(line); {
		at := strings.Index(line[from:], word)
		if at == -1 {
			return -1
		}

		at += from
		end := at + len(word)
		if (at == 0 || !isWordByte(line[at-1])) && (end == len(line) || !isWordByte(line[end])) {
			return at
		}

		from = at + 1
	}

	return -1
}

func isWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func isIdentifier(s string) bool {
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}

		if i > 0 && unicode.IsDigit(r) {
			continue
		}

		return false
	}

	return s != ""
}
