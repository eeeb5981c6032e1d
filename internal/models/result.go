package models

// Result is the tagged outcome of a repository or engine operation.
// Expected failures (network, not-found) fold into it instead of
// surfacing as errors; only contract misuse returns a hard error.
type Result struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

func OK(id, message string) Result {
	return Result{Success: true, ID: id, Message: message}
}

func Fail(message string) Result {
	return Result{Success: false, Message: message}
}
