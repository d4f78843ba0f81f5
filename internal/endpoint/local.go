package endpoint

import "context"

// Local calls a Generator in-process with the same error contract as
// Client, so callers can run without a server.
type Local struct {
	Gen Generator
}

// Complete runs the generator. Failures are reported as *RemoteError.
func (l Local) Complete(ctx context.Context, p Payload) (*Envelope, error) {
	env, err := l.Gen.Generate(ctx, p)
	if err != nil {
		return nil, &RemoteError{Message: err.Error()}
	}
	return env, nil
}
