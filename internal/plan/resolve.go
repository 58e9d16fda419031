package plan

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// ReadPlanText loads saved EXPLAIN output for offline analysis. input
// names a file, "-" reads stdin, and an empty string prompts for an
// interactive paste.
func ReadPlanText(input string) (string, error) {
	data, err := readInput(input)
	if err != nil {
		return "", err
	}

	if looksLikeSQL(data) {
		return "", fmt.Errorf("input looks like a SQL query, not EXPLAIN output - run it through your database's EXPLAIN first, or use the analyze command to execute it")
	}

	return string(data), nil
}

func readInput(input string) ([]byte, error) {
	switch input {
	case "":
		return readInteractive()
	case "-":
		return io.ReadAll(os.Stdin)
	default:
		return os.ReadFile(input)
	}
}

func readInteractive() ([]byte, error) {
	fmt.Print("Paste EXPLAIN output")
	if runtime.GOOS == "windows" {
		fmt.Print(" (Ctrl+Z, Enter to submit)\n")
	} else {
		fmt.Print(" (Ctrl+D to submit)\n")
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(data))

	if (strings.HasPrefix(trimmed, "[") ||
		strings.HasPrefix(trimmed, "{")) &&
		!json.Valid(data) {
		return nil, fmt.Errorf("input appears truncated; for large inputs use: sqlpulse plan <file>")
	}

	return data, nil
}

// looksLikeSQL reports whether the input starts with a SQL statement
// keyword, meaning the user pasted a query instead of a plan. Text
// plans for DML open with headers like "Update on t" that collide with
// statement keywords, so only unambiguous prefixes are checked.
func looksLikeSQL(data []byte) bool {
	trimmed := strings.ToUpper(strings.TrimSpace(string(data)))
	for _, kw := range [...]string{"SELECT ", "WITH ", "EXPLAIN "} {
		if strings.HasPrefix(trimmed, kw) {
			return true
		}
	}
	return false
}
