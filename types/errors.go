package types

// TransientError marks a step failure as retryable: simulated gateway
// timeouts, inventory service errors, and retryable notification faults.
// Anything else a step reports comes back as a populated outcome with a
// nil error and is never retried.
type TransientError struct {
	Msg string
}

func (e *TransientError) Error() string {
	return e.Msg
}
