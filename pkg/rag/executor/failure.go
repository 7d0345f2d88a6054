package executor

import (
	"fmt"

	"bayan-ai-be/pkg/rag/response"
)

// Failure is a turn that ended without results. The service turns it into
// user-facing text with response.FailureText.
type Failure struct {
	Kind   response.FailureKind
	Reason string
	// Total is the size of the result list the user was choosing from
	Total int
	Err   error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Reason, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Reason)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Text is the reply shown for this failure
func (f *Failure) Text() string {
	return response.FailureText(f.Kind, f.Total)
}

func fail(kind response.FailureKind, reason string) *Failure {
	return &Failure{Kind: kind, Reason: reason}
}

func retrievalFailure(reason string, err error) *Failure {
	return &Failure{Kind: response.FailureRetrieval, Reason: reason, Err: err}
}
