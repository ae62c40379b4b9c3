package harness

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Documents holds the canonical JSON of each expanded document, in
	// enumeration order.
	Documents []string `json:"documents"`

	Leaves        int  `json:"leaves"`
	MutableLeaves int  `json:"mutable_leaves"`
	Bound         int  `json:"bound"`
	Truncated     bool `json:"truncated"`

	// Errors contains assertion failure messages.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:      true,
		Documents: []string{},
		Errors:    []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
