package greeting

import "errors"

var (
	// ErrNotOwner is returned when a member other than the one who added the
	// bot to a group attempts to change that group's welcome template.
	ErrNotOwner = errors.New("member is not the group owner")

	// ErrEmptyTemplate is returned when a template change carries no text.
	ErrEmptyTemplate = errors.New("template text is empty")
)
