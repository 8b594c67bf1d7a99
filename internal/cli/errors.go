package cli

import (
	"fmt"

	"daylist-cli/internal/client"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

// taskErr turns a server 404 for id into a notFoundError.
func taskErr(id string, err error) error {
	if client.IsNotFound(err) {
		return errNotFound("task", id)
	}
	return err
}
