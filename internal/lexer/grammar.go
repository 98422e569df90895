package lexer

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Grammar is an immutable, indexed transition table. Rules of a state are
// matched in table order: specific bytes first, then the state's wildcard.
type Grammar struct {
	name   string
	rules  []Rule
	states []State
	used   [numStates]bool
	index  [numStates][256]int16
	eof    [numStates]int16
}

// NewGrammar indexes rules and checks totality: every state named by a rule
// (as source or target) must match every byte exactly once.
func NewGrammar(name string, rules []Rule) (*Grammar, error) {
	g := &Grammar{name: name, rules: append([]Rule(nil), rules...)}
	var wildcard [numStates]bool
	for i, r := range g.rules {
		if !r.State.Valid() || !r.Next.Valid() {
			return nil, fmt.Errorf("lexer: grammar %s: rule %d: invalid state", name, i)
		}
		g.use(r.State)
		g.use(r.Next)
		n := int16(i + 1)
		switch r.Input.Kind {
		case InputByte:
			if wildcard[r.State] {
				return nil, fmt.Errorf("lexer: grammar %s: rule %d (%s %s) is shadowed by the wildcard", name, i, r.State, r.Input)
			}
			if prev := g.index[r.State][r.Input.Byte]; prev != 0 {
				return nil, fmt.Errorf("lexer: grammar %s: rules %d and %d both match %s %s", name, prev-1, i, r.State, r.Input)
			}
			g.index[r.State][r.Input.Byte] = n
		case InputAny:
			if wildcard[r.State] {
				return nil, fmt.Errorf("lexer: grammar %s: state %s has two wildcard rules", name, r.State)
			}
			wildcard[r.State] = true
			for b := 0; b < 256; b++ {
				if g.index[r.State][b] == 0 {
					g.index[r.State][b] = n
				}
			}
		case InputEOF:
			if g.eof[r.State] != 0 {
				return nil, fmt.Errorf("lexer: grammar %s: state %s has two end-of-input rules", name, r.State)
			}
			if !r.Next.Terminal() {
				return nil, fmt.Errorf("lexer: grammar %s: end-of-input rule for %s must end in %s", name, r.State, Code)
			}
			g.eof[r.State] = n
		default:
			return nil, fmt.Errorf("lexer: grammar %s: rule %d: unknown input kind %d", name, i, r.Input.Kind)
		}
	}
	if !g.used[Code] {
		return nil, fmt.Errorf("lexer: grammar %s: no rules for %s", name, Code)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func mustGrammar(name string, rules []Rule) *Grammar {
	g, err := NewGrammar(name, rules)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Grammar) use(s State) {
	if !g.used[s] {
		g.used[s] = true
		g.states = append(g.states, s)
	}
}

// Validate reports the first (state, byte) pair that no rule matches.
func (g *Grammar) Validate() error {
	for _, s := range g.states {
		for b := 0; b < 256; b++ {
			if g.index[s][b] == 0 {
				return fmt.Errorf("lexer: grammar %s: no rule for %s %s", g.name, s, On(byte(b)))
			}
		}
	}
	return nil
}

func (g *Grammar) Name() string { return g.name }

// States returns the states the grammar uses, in first-mention order.
func (g *Grammar) States() []State { return append([]State(nil), g.states...) }

// Has reports whether s is a state of this grammar.
func (g *Grammar) Has(s State) bool { return s.Valid() && g.used[s] }

// Rules returns a copy of the table in priority order.
func (g *Grammar) Rules() []Rule { return append([]Rule(nil), g.rules...) }

// Lookup returns the rule matching (s, b).
func (g *Grammar) Lookup(s State, b byte) (Rule, bool) {
	if !g.Has(s) {
		return Rule{}, false
	}
	return g.rules[g.index[s][b]-1], true
}

// Step is the pure transition function. It panics if s is not a state of g,
// which can only happen when a state from another grammar is passed in.
func (g *Grammar) Step(s State, b byte) Transition {
	r, ok := g.Lookup(s, b)
	if !ok {
		panic(fmt.Sprintf("lexer: grammar %s has no state %s", g.name, s))
	}
	return Transition{From: s, To: r.Next, Byte: b, Emit: r.Emit, Warning: r.Warning}
}

// End applies the end-of-input rule for s. States without one are malformed
// at end of input and yield an *UnterminatedError.
func (g *Grammar) End(s State) (Transition, error) {
	if !g.Has(s) || g.eof[s] == 0 {
		return Transition{From: s, To: s, EOF: true}, &UnterminatedError{State: s}
	}
	r := g.rules[g.eof[s]-1]
	return Transition{From: s, To: r.Next, EOF: true, Emit: r.Emit, Warning: r.Warning}, nil
}

// WriteTable renders the table, one rule per line.
func (g *Grammar) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "# grammar %s\n", g.name)
	fmt.Fprintln(tw, "STATE\tINPUT\tNEXT\tEMIT\tWARNING")
	for _, r := range g.rules {
		emits := make([]string, 0, len(r.Emit))
		for _, e := range r.Emit {
			emits = append(emits, e.String())
		}
		emit := strings.Join(emits, " ")
		if emit == "" {
			emit = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.State, r.Input, r.Next, emit, r.Warning)
	}
	return tw.Flush()
}

// UnterminatedError reports a stream that ended outside Code.
type UnterminatedError struct {
	State State
}

func (e *UnterminatedError) Error() string {
	return fmt.Sprintf("input ends inside %s (state %s)", e.State.Describe(), e.State)
}
