package analysis

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/nordkart/kvitt/internal/ledger"
)

// Querier is the read surface the runner needs; *store.Store satisfies it.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Result holds the rows a saved query produced. All values are rendered
// to strings; NULL renders as the empty string.
type Result struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Run executes a saved query and collects its result.
// Only SELECT statements are accepted, with or without a leading WITH
// clause; anything else fails with VALIDATION before touching the database.
func Run(ctx context.Context, db Querier, q Query) (*Result, error) {
	if err := checkReadOnly(q.SQL); err != nil {
		return nil, err
	}

	rows, err := db.Query(ctx, q.SQL)
	if err != nil {
		return nil, fmt.Errorf("run query %q: %w", q.Name, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query %q: columns: %w", q.Name, err)
	}

	result := &Result{Columns: columns, Rows: [][]string{}}
	for rows.Next() {
		raw := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("query %q: scan: %w", q.Name, err)
		}
		row := make([]string, len(columns))
		for i, v := range raw {
			if v.Valid {
				row[i] = v.String
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query %q: iterate: %w", q.Name, err)
	}

	return result, nil
}

// checkReadOnly rejects statements whose top-level verb is not SELECT.
// A leading WITH clause is skipped: SQLite allows WITH ... DELETE/UPDATE/
// INSERT, so the prefix alone says nothing about what the statement does.
// Saved queries are trusted local files; this guards against mistakes,
// not adversaries.
func checkReadOnly(stmt string) error {
	if statementVerb(stmt) == "SELECT" {
		return nil
	}
	return ledger.NewValidationError("query", "sql", "only SELECT statements are allowed")
}

// verbKeywords are the keywords that can open a statement body. CTE bodies
// sit inside parentheses, so the first of these at paren depth zero is the
// statement's verb.
var verbKeywords = map[string]bool{
	"SELECT": true, "VALUES": true,
	"INSERT": true, "REPLACE": true, "UPDATE": true, "DELETE": true,
	"CREATE": true, "DROP": true, "ALTER": true,
	"PRAGMA": true, "ATTACH": true, "DETACH": true, "VACUUM": true,
	"BEGIN": true, "COMMIT": true, "ROLLBACK": true, "REINDEX": true,
}

// statementVerb scans a SQL statement and returns its top-level verb in
// upper case, or "" if none is found. Quoted literals, quoted identifiers,
// and comments are skipped so their contents cannot masquerade as keywords.
func statementVerb(stmt string) string {
	depth := 0
	for i := 0; i < len(stmt); {
		c := stmt[i]
		switch {
		case c == '(':
			depth++
			i++
		case c == ')':
			if depth > 0 {
				depth--
			}
			i++
		case c == '\'' || c == '"' || c == '`':
			i = skipQuoted(stmt, i, c)
		case c == '[':
			i = skipUntil(stmt, i+1, ']')
		case c == '-' && i+1 < len(stmt) && stmt[i+1] == '-':
			i = skipUntil(stmt, i+2, '\n')
		case c == '/' && i+1 < len(stmt) && stmt[i+1] == '*':
			i = skipBlockComment(stmt, i+2)
		case isWordByte(c):
			j := i
			for j < len(stmt) && isWordByte(stmt[j]) {
				j++
			}
			if depth == 0 {
				if word := strings.ToUpper(stmt[i:j]); verbKeywords[word] {
					return word
				}
			}
			i = j
		default:
			i++
		}
	}
	return ""
}

// skipQuoted advances past a quoted region opened at i. SQLite escapes the
// delimiter by doubling it.
func skipQuoted(stmt string, i int, quote byte) int {
	for i++; i < len(stmt); i++ {
		if stmt[i] == quote {
			if i+1 < len(stmt) && stmt[i+1] == quote {
				i++
				continue
			}
			return i + 1
		}
	}
	return i
}

func skipUntil(stmt string, i int, stop byte) int {
	for i < len(stmt) && stmt[i] != stop {
		i++
	}
	if i < len(stmt) {
		i++
	}
	return i
}

func skipBlockComment(stmt string, i int) int {
	for i+1 < len(stmt) {
		if stmt[i] == '*' && stmt[i+1] == '/' {
			return i + 2
		}
		i++
	}
	return len(stmt)
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}
