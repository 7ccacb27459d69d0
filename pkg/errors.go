package pkg

import "fmt"

type ErrStoreProcedure struct {
	Cause string
	Info  string
	Err   error
}

func (e *ErrStoreProcedure) Error() string {
	if e.Info == "" {
		return fmt.Sprintf("%s; got error: %v", e.Cause, e.Err)
	}
	return fmt.Sprintf("%s; got error: %v; info: %s", e.Cause, e.Err, e.Info)
}

func (e *ErrStoreProcedure) Unwrap() error {
	return e.Err
}
