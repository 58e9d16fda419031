package sqlfile

import (
	"fmt"
	"os"
	"strings"
)

// Statement is one executable statement extracted from a SQL script,
// with the 1-based line number of its first token in the original file.
type Statement struct {
	Text string
	Line int
}

// Load reads a SQL script from disk.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading SQL file: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("SQL file %s is empty", path)
	}
	return string(data), nil
}

const (
	stateNormal = iota
	stateSingleQuote
	stateDoubleQuote
	stateLineComment
	stateBlockComment
)

// Split divides script content into statements on semicolons, dropping
// comments and empty statements. Semicolons inside quoted strings do
// not split; dollar-quoted function bodies are not recognized.
func Split(content string) []Statement {
	var stmts []Statement
	var buf strings.Builder

	line := 1
	startLine := 0

	flush := func() {
		text := strings.TrimSpace(buf.String())
		buf.Reset()
		if text != "" {
			stmts = append(stmts, Statement{Text: text, Line: startLine})
		}
		startLine = 0
	}

	state := stateNormal
	for i := 0; i < len(content); i++ {
		c := content[i]
		if c == '\n' {
			line++
		}

		switch state {
		case stateLineComment:
			if c == '\n' {
				buf.WriteByte(c)
				state = stateNormal
			}
		case stateBlockComment:
			if c == '*' && i+1 < len(content) && content[i+1] == '/' {
				i++
				state = stateNormal
			}
		case stateSingleQuote:
			buf.WriteByte(c)
			if c == '\'' {
				// A doubled quote escapes itself.
				if i+1 < len(content) && content[i+1] == '\'' {
					buf.WriteByte(content[i+1])
					i++
				} else {
					state = stateNormal
				}
			}
		case stateDoubleQuote:
			buf.WriteByte(c)
			if c == '"' {
				state = stateNormal
			}
		default:
			switch {
			case c == '-' && i+1 < len(content) && content[i+1] == '-':
				i++
				state = stateLineComment
			case c == '/' && i+1 < len(content) && content[i+1] == '*':
				i++
				state = stateBlockComment
			case c == ';':
				flush()
			default:
				if startLine == 0 && !isSpace(c) {
					startLine = line
				}
				buf.WriteByte(c)
				switch c {
				case '\'':
					state = stateSingleQuote
				case '"':
					state = stateDoubleQuote
				}
			}
		}
	}
	flush()
	return stmts
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// QueryType classifies a statement by its leading keyword. CTEs count
// as SELECT; DDL groups CREATE, ALTER, DROP and TRUNCATE.
func QueryType(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "OTHER"
	}

	switch keyword := strings.ToUpper(strings.TrimLeft(fields[0], "(")); keyword {
	case "SELECT", "INSERT", "UPDATE", "DELETE":
		return keyword
	case "WITH":
		return "SELECT"
	case "CREATE", "ALTER", "DROP", "TRUNCATE":
		return "DDL"
	case "BEGIN", "COMMIT", "ROLLBACK", "START":
		return "TRANSACTION"
	case "SET":
		return "SET"
	case "EXPLAIN":
		return "EXPLAIN"
	default:
		return "OTHER"
	}
}

// Truncate collapses whitespace runs and shortens query text for
// display, marking the cut with an ellipsis.
func Truncate(query string, maxLen int) string {
	collapsed := strings.Join(strings.Fields(query), " ")
	runes := []rune(collapsed)
	if len(runes) <= maxLen {
		return collapsed
	}
	return string(runes[:maxLen]) + "..."
}
