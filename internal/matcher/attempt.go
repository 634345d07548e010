package matcher

// Attempt holds the in-progress input for one target.
type Attempt struct {
	target string
	input  string
	result []Mark
}

// NewAttempt starts an empty attempt for target.
func NewAttempt(target string) *Attempt {
	return &Attempt{target: target}
}

// Target returns the string being typed.
func (a *Attempt) Target() string {
	return a.target
}

// Input returns the normalized input evaluated last.
func (a *Attempt) Input() string {
	return a.input
}

// Result returns the marks of the last evaluation.
func (a *Attempt) Result() []Mark {
	return a.result
}

// Update evaluates the full field value and stores the normalized state.
func (a *Attempt) Update(m *Matcher, value string) Outcome {
	out := m.Evaluate(a.target, a.input, value)
	a.input = out.Input
	a.result = out.Result
	return out
}

// Reset clears input and result after the caller consumed a completion or overflow.
func (a *Attempt) Reset() {
	a.input = ""
	a.result = nil
}
