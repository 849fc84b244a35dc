package router

import "strings"

// PatternToken is one compiled segment of a route expression.
type PatternToken struct {
	// Text is the segment as written in the expression.
	Text string

	// Variable reports whether the segment is a capture point of the
	// form {name}. Variable segments match any request segment.
	Variable bool
}

// Compile splits a route expression into pattern tokens. A segment is a
// variable when it is entirely wrapped in braces with a non-empty interior;
// the name inside the braces is not retained. Malformed placeholders such
// as "{}" or "{id" are kept as literal segments.
func Compile(expression string) []PatternToken {
	segments := Split(expression)
	tokens := make([]PatternToken, len(segments))

	for i, s := range segments {
		tokens[i] = PatternToken{Text: s, Variable: isVariable(s)}
	}

	return tokens
}

func isVariable(segment string) bool {
	if len(segment) < 3 || segment[0] != '{' || segment[len(segment)-1] != '}' {
		return false
	}

	return strings.TrimSpace(segment[1:len(segment)-1]) != ""
}

// MatchPath compares compiled tokens against request segments. The segment
// counts must be equal, literal tokens must equal their segment exactly
// (case-sensitive) and variable tokens capture their segment. Captured
// values are returned in left-to-right order. Zero tokens match zero
// segments, which is how the root route matches the root path.
func MatchPath(tokens []PatternToken, segments []string) ([]string, bool) {
	if len(tokens) != len(segments) {
		return nil, false
	}

	if len(tokens) == 0 {
		return []string{}, true
	}

	var args []string

	for i, tok := range tokens {
		if tok.Variable {
			args = append(args, segments[i])
			continue
		}
		if tok.Text != segments[i] {
			return nil, false
		}
	}

	if args == nil {
		args = []string{}
	}

	return args, true
}
