package ports

import "context"

type MarkerForm struct {
	Title       string
	Description string
}

// Prompter asks the user for input. A false ok means the dialog was
// cancelled.
type Prompter interface {
	AskDisplayName(ctx context.Context) (name string, ok bool, err error)
	AskMarker(ctx context.Context) (form MarkerForm, ok bool, err error)
	// Notify shows a transient notice.
	Notify(message string)
}
