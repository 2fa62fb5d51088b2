package db

import "fmt"

// Command names used in Error.Op.
const (
	OpPing = "PING"
	OpMGet = "MGET"
)

// Error tags a driver failure with the command and how many keys it carried.
type Error struct {
	Op   string
	Keys int
	Err  error
}

func (e *Error) Error() string {
	if e.Keys > 0 {
		return fmt.Sprintf("db %s (%d keys): %v", e.Op, e.Keys, e.Err)
	}
	return fmt.Sprintf("db %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
