package panicerr

import "github.com/sourcegraph/conc/panics"

// Safe wraps fn so that a panic comes back as an error carrying the panic value
// and stack instead of unwinding the caller.
func Safe(fn func() error) func() error {
	return func() error {
		var (
			catcher panics.Catcher
			err     error
		)
		catcher.Try(func() {
			err = fn()
		})
		if r := catcher.Recovered(); r != nil {
			return r.AsError()
		}
		return err
	}
}
