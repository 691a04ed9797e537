package normalize

import "errors"

// FailureKind separates server-reported errors from transport problems.
type FailureKind int

const (
	// FailureStructured is a non-2xx response with a parseable error body.
	FailureStructured FailureKind = iota
	// FailureConnectivity is a transport error or an undecodable body.
	FailureConnectivity
)

// Failure is a classified API failure carrying a single human-readable
// message. It is the only error shape callers of the gateway ever see.
type Failure struct {
	Message string
	Kind    FailureKind
}

// Error implements the error interface.
func (f *Failure) Error() string { return f.Message }

// Structured builds a server-reported failure.
func Structured(message string) *Failure {
	return &Failure{Message: message, Kind: FailureStructured}
}

// Connectivity builds a transport-level failure.
func Connectivity(message string) *Failure {
	return &Failure{Message: message, Kind: FailureConnectivity}
}

// MessageOf returns the classified message when err is a Failure, and the
// plain error text otherwise.
func MessageOf(err error) string {
	var f *Failure
	if errors.As(err, &f) {
		return f.Message
	}
	return err.Error()
}
