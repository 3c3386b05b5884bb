package questionnaire

import "fmt"

// InvariantViolation is the panic value raised when a caller drives the
// engine into a state the UI layer must never allow, such as recording an
// option that does not belong to the visible question.
type InvariantViolation struct {
	Op     string
	Detail string
}

func (v InvariantViolation) Error() string {
	return fmt.Sprintf("questionnaire: invariant violated in %s: %s", v.Op, v.Detail)
}

func violate(op, format string, args ...any) {
	panic(InvariantViolation{Op: op, Detail: fmt.Sprintf(format, args...)})
}
