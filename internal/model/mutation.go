// Package model defines the data structures for mutation testing.
package model

// Operator identifies the category of edit a mutation performs.
type Operator string

const (
	// OpBoundary swaps a relational operator with its adjacent inclusive/exclusive form.
	OpBoundary Operator = "boundary"
	// OpNegateCmp replaces a relational operator with its logical inverse.
	OpNegateCmp Operator = "negate_cmp"
	// OpNegateEq flips equality/inequality operators.
	OpNegateEq Operator = "negate_eq"
	// OpNegateIs flips Python identity operators (is / is not).
	OpNegateIs Operator = "negate_is"
	// OpNegateIn flips Python membership operators (in / not in).
	OpNegateIn Operator = "negate_in"
	// OpLogicFlip swaps logical connectives (and/or, &&/||).
	OpLogicFlip Operator = "logic_flip"
	// OpNegateRemove removes a unary negation, leaving the bare operand.
	OpNegateRemove Operator = "negate_remove"
	// OpBoolFlip flips a boolean literal.
	OpBoolFlip Operator = "bool_flip"
	// OpArith swaps an arithmetic operator for an adjacent one.
	OpArith Operator = "arith"
	// OpReturnVal substitutes a return expression with an idiomatic inverse.
	OpReturnVal Operator = "return_val"
	// OpBlockRemove replaces a statement block with an empty block.
	OpBlockRemove Operator = "block_remove"
)

// Mutation is an immutable, self-describing edit proposal against one source
// buffer. StartByte/EndByte form a half-open range into the original buffer,
// and source[StartByte:EndByte] always equals Original.
type Mutation struct {
	Line          int      `json:"line"`
	Column        int      `json:"column"`
	StartByte     int      `json:"start_byte"`
	EndByte       int      `json:"end_byte"`
	Operator      Operator `json:"operator"`
	Original      string   `json:"original"`
	Replacement   string   `json:"replacement"`
	ContextBefore []string `json:"context_before"`
	ContextAfter  []string `json:"context_after"`
}

// MutantStatus is the terminal classification of one mutant's test run.
type MutantStatus string

const (
	// StatusKilled means the test suite detected the mutation (tests failed).
	StatusKilled MutantStatus = "killed"
	// StatusSurvived means the tests passed despite the mutation.
	StatusSurvived MutantStatus = "survived"
	// StatusTimeout means the test run exceeded its budget and was terminated.
	StatusTimeout MutantStatus = "timeout"
	// StatusUnviable means the mutation broke parsing/importing rather than
	// behavior; it is excluded from the score denominator.
	StatusUnviable MutantStatus = "unviable"
)

// String implements fmt.Stringer.
func (s MutantStatus) String() string { return string(s) }

// MutantResult pairs a mutation with the outcome of its test run.
type MutantResult struct {
	Mutation   Mutation     `json:"mutation"`
	Status     MutantStatus `json:"status"`
	DurationMS int64        `json:"duration_ms"`
	Diff       string       `json:"diff"`
}
