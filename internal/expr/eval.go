// Package expr resolves the macros embedded in definition scalars:
// RANDOM(min, max), ADD(a, b) and TIME(n<unit>). Evaluation happens in
// declaration order, depth first, so a key's resolved value is visible to
// later keys in the same block but never to earlier ones or to sibling
// blocks.
package expr

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/missionctl/engine/internal/tree"
)

// UnresolvedReferenceError reports a forward or missing reference inside an
// expression.
type UnresolvedReferenceError struct {
	Ref string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved reference %q", e.Ref)
}

// Evaluator resolves macros using one explicit RNG. The RNG is threaded in
// by the caller so randomized missions can reproduce identical values from a
// persisted seed.
type Evaluator struct {
	rng *rand.Rand
}

// New creates an evaluator around the given RNG. A nil RNG gets a
// time-seeded one, for contexts where reproducibility is not required.
func New(rng *rand.Rand) *Evaluator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Evaluator{rng: rng}
}

// EvaluateTree resolves every scalar under the given nodes, in declaration
// order. Already-resolved scalars are left untouched, so re-evaluating a
// tree never re-draws random values.
func (e *Evaluator) EvaluateTree(nodes ...*tree.Node) error {
	for _, n := range nodes {
		if err := e.evaluateBlock(n); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) evaluateBlock(n *tree.Node) error {
	scope := make(map[string]string)
	for _, c := range n.Children {
		if c.Scalar {
			if !c.Resolved {
				v, err := e.evalValue(c.Value, scope)
				if err != nil {
					return err
				}
				c.Value = v
				c.Resolved = true
			}
			scope[c.Name] = c.Value
			continue
		}
		if err := e.evaluateBlock(c); err != nil {
			return err
		}
	}
	return nil
}

var macroNames = []string{"RANDOM", "ADD", "TIME"}

// evalValue expands macro calls in a scalar value until none remain. Nested
// calls are handled by evaluating each argument recursively before the
// enclosing call, so the innermost call resolves first.
func (e *Evaluator) evalValue(s string, scope map[string]string) (string, error) {
	for {
		name, start, end := findMacro(s)
		if name == "" {
			return s, nil
		}
		inner := s[start+len(name)+1 : end] // argument text between the parens
		args := splitArgs(inner)
		for i, a := range args {
			v, err := e.evalValue(strings.TrimSpace(a), scope)
			if err != nil {
				return "", err
			}
			args[i] = v
		}
		result, err := e.call(name, args, scope)
		if err != nil {
			return "", err
		}
		s = s[:start] + result + s[end+1:]
	}
}

func (e *Evaluator) call(name string, args []string, scope map[string]string) (string, error) {
	switch name {
	case "RANDOM":
		if len(args) != 2 {
			return "", fmt.Errorf("RANDOM expects 2 arguments, got %d", len(args))
		}
		min, minInt, err := resolveNumber(args[0], scope)
		if err != nil {
			return "", err
		}
		max, maxInt, err := resolveNumber(args[1], scope)
		if err != nil {
			return "", err
		}
		if min > max {
			return "", fmt.Errorf("RANDOM bounds reversed: %s > %s", args[0], args[1])
		}
		if minInt && maxInt {
			lo, hi := int64(min), int64(max)
			return strconv.FormatInt(lo+e.rng.Int63n(hi-lo+1), 10), nil
		}
		return formatNumber(min + e.rng.Float64()*(max-min)), nil

	case "ADD":
		if len(args) != 2 {
			return "", fmt.Errorf("ADD expects 2 arguments, got %d", len(args))
		}
		a, aInt, err := resolveNumber(args[0], scope)
		if err != nil {
			return "", err
		}
		b, bInt, err := resolveNumber(args[1], scope)
		if err != nil {
			return "", err
		}
		if aInt && bInt {
			return strconv.FormatInt(int64(a)+int64(b), 10), nil
		}
		return formatNumber(a + b), nil

	case "TIME":
		if len(args) != 1 {
			return "", fmt.Errorf("TIME expects 1 argument, got %d", len(args))
		}
		secs, err := ParseTimeLiteral(args[0])
		if err != nil {
			return "", err
		}
		return formatNumber(secs), nil
	}
	return "", fmt.Errorf("unknown macro %q", name)
}

// ParseTimeLiteral converts a literal with a unit suffix (s, m, h, d, y)
// into seconds. A bare number is already seconds.
func ParseTimeLiteral(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty time literal")
	}
	mult := 1.0
	switch s[len(s)-1] {
	case 's':
		s = s[:len(s)-1]
	case 'm':
		mult, s = 60, s[:len(s)-1]
	case 'h':
		mult, s = 3600, s[:len(s)-1]
	case 'd':
		mult, s = 86400, s[:len(s)-1]
	case 'y':
		mult, s = 365*86400, s[:len(s)-1]
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad time literal %q", s)
	}
	return f * mult, nil
}

// resolveNumber turns a macro argument into a number. The argument is either
// a numeric literal or the name of a sibling scalar resolved earlier in the
// same block; anything else is an unresolved reference.
func resolveNumber(arg string, scope map[string]string) (val float64, isInt bool, err error) {
	if v, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return float64(v), true, nil
	}
	if v, err := strconv.ParseFloat(arg, 64); err == nil {
		return v, false, nil
	}
	ref, ok := scope[arg]
	if !ok {
		return 0, false, &UnresolvedReferenceError{Ref: arg}
	}
	if v, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return float64(v), true, nil
	}
	v, perr := strconv.ParseFloat(ref, 64)
	if perr != nil {
		return 0, false, fmt.Errorf("reference %q is not numeric: %q", arg, ref)
	}
	return v, false, nil
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// findMacro locates the first macro call in s, returning its name, the
// offset of the name and the offset of the matching close paren. Empty name
// means no call remains.
func findMacro(s string) (name string, start, end int) {
	best := -1
	for _, m := range macroNames {
		idx := indexMacro(s, m)
		if idx >= 0 && (best < 0 || idx < best) {
			best, name = idx, m
		}
	}
	if best < 0 {
		return "", 0, 0
	}
	depth := 0
	for i := best + len(name); i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return name, best, i
			}
		}
	}
	// Unbalanced parens: leave the value alone rather than guessing.
	return "", 0, 0
}

// indexMacro finds NAME( preceded by a non-identifier character, so a key
// named e.g. "myRANDOM" is never mistaken for a call.
func indexMacro(s, name string) int {
	from := 0
	for {
		idx := strings.Index(s[from:], name+"(")
		if idx < 0 {
			return -1
		}
		idx += from
		if idx == 0 || !isIdent(s[idx-1]) {
			return idx
		}
		from = idx + 1
	}
}

func isIdent(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// splitArgs splits macro argument text on top-level commas.
func splitArgs(s string) []string {
	var args []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, s[start:i])
				start = i + 1
			}
		}
	}
	return append(args, s[start:])
}
