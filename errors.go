package gfx

import "fmt"

// ContractError is the panic value raised when a caller breaks an API
// contract: writing past the end of a buffer, freeing a resource twice,
// executing a command whose resource was never found, nesting a context
// scope. These are programming errors, not runtime conditions, so they
// are reported by panicking rather than through an error return.
type ContractError struct {
	Op  string // operation that detected the violation, e.g. "gpu.Buffer.WriteAt"
	Msg string
}

func (e *ContractError) Error() string {
	return e.Op + ": " + e.Msg
}

// Failf logs the violation at error level and panics with a *ContractError.
func Failf(op, format string, args ...any) {
	err := &ContractError{Op: op, Msg: fmt.Sprintf(format, args...)}
	Logger().Error("contract violation", "op", op, "msg", err.Msg)
	panic(err)
}

// Assert calls Failf when cond is false.
func Assert(cond bool, op, format string, args ...any) {
	if !cond {
		Failf(op, format, args...)
	}
}
