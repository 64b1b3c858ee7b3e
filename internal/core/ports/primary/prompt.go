package primary

import "context"

// Prompter is the console collaborator of the client request loop.
type Prompter interface {
	// NextCount asks how many jobs to request next. Zero means exit.
	NextCount(ctx context.Context) (int, error)

	// ConfirmRetry is called after a failed connection attempt. Returning
	// nil retries, an error gives up.
	ConfirmRetry(ctx context.Context, cause error) error
}
