package lexer

// Classifier holds the state of one input stream.
type Classifier struct {
	g     *Grammar
	state State
}

// NewClassifier returns a classifier for g positioned at Code.
func NewClassifier(g *Grammar) *Classifier {
	return &Classifier{g: g, state: Code}
}

func (c *Classifier) State() State { return c.state }

func (c *Classifier) Grammar() *Grammar { return c.g }

// Step consumes one byte.
func (c *Classifier) Step(b byte) Transition {
	t := c.g.Step(c.state, b)
	c.state = t.To
	return t
}

// End consumes end of input. On error the state is left unchanged so the
// caller can report it.
func (c *Classifier) End() (Transition, error) {
	t, err := c.g.End(c.state)
	if err != nil {
		return t, err
	}
	c.state = t.To
	return t, nil
}

// Reset returns the classifier to Code for a new stream.
func (c *Classifier) Reset() { c.state = Code }
