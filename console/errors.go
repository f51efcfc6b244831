package console

import "errors"

var (
	ErrUnknownItem   = errors.New("unknown menu item")
	ErrUnknownAction = errors.New("unknown action")
)
