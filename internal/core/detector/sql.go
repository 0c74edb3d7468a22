package detector

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"textguard/internal/core/policy"

	"github.com/xwb1989/sqlparser"
)

// SQLStructure runs the text through a SQL tokenizer and flags dangerous
// command keywords and inline comments. Quoted strings are never flagged; a
// lexing error skips the offending byte and scanning resumes
type SQLStructure struct {
	defaults []string
}

// NewSQLStructure uses commands when a policy does not list its own
func NewSQLStructure(commands []string) *SQLStructure {
	return &SQLStructure{defaults: commands}
}

// Scan implements Scanner
func (s *SQLStructure) Scan(ctx context.Context, text string, rules policy.Rules) (Score, error) {
	commands := rules.SQL.Commands
	if len(commands) == 0 {
		commands = s.defaults
	}

	ix := NewOffsets(text)
	tkn := sqlparser.NewStringTokenizer(text)
	var reasons []Reason

	// every Scan consumes at least one byte
	for steps := 0; steps <= len(text)+1; steps++ {
		typ, val := tkn.Scan()
		if typ == 0 {
			return Counted(reasons, ix.Len()), nil
		}
		// the tokenizer holds one byte of lookahead
		end := min(tkn.Position-1, len(text))
		start := max(end-len(val), 0)

		switch {
		case typ == sqlparser.STRING, typ == sqlparser.LEX_ERROR:
		case typ == sqlparser.COMMENT:
			if strings.HasPrefix(string(val), "--") || strings.HasPrefix(string(val), "/*") {
				reasons = append(reasons, ix.Reason(start, end))
			}
		default:
			if slices.Contains(commands, strings.ToLower(string(val))) {
				reasons = append(reasons, ix.Reason(start, end))
			}
		}

		if err := ctx.Err(); err != nil {
			return Score{}, err
		}
	}
	return Score{}, fmt.Errorf("sql tokenizer did not terminate after %d tokens", len(text)+1)
}
