package verification

import "fmt"

// Result is the outcome of a single verification call. Error is set only
// when Success is false; Data carries decoded evidence (event fields,
// linked-account details) for the caller to persist.
type Result struct {
	Success bool                   `json:"success"`
	Error   string                 `json:"error,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

func Ok(data map[string]interface{}) Result {
	return Result{Success: true, Data: data}
}

func Fail(msg string) Result {
	return Result{Success: false, Error: msg}
}

func Failf(format string, args ...interface{}) Result {
	return Result{Success: false, Error: fmt.Sprintf(format, args...)}
}
