package cli

import (
	"errors"
	"fmt"

	"smarttodo-cli/internal/binder"
	"smarttodo-cli/internal/client"
	"smarttodo-cli/internal/timefmt"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitGeneral = 1
	ExitNetwork = 2
	ExitAuth    = 3
	ExitUsage   = 4
)

type usageError struct {
	msg string
}

func (e usageError) Error() string { return e.msg }

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

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	var ue usageError
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, client.ErrUnauthenticated), errors.Is(err, client.ErrBadCredentials):
		return ExitAuth
	case errors.Is(err, client.ErrNetwork):
		return ExitNetwork
	case errors.As(err, &ue),
		errors.Is(err, timefmt.ErrInvalidTimestamp),
		errors.Is(err, binder.ErrInvalidDate),
		errors.Is(err, binder.ErrEmptyMessage),
		errors.Is(err, client.ErrEmptyQuery):
		return ExitUsage
	default:
		return ExitGeneral
	}
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, client.ErrUnauthenticated):
		return "run `smarttodo login --user <name>` first"
	case errors.Is(err, client.ErrNetwork):
		return "check --server / `smarttodo config show`; GET requests were retried"
	case errors.Is(err, timefmt.ErrFutureTimestamp):
		return "the timestamp is later than the current time; check --tz"
	}
	var nf notFoundError
	if errors.As(err, &nf) {
		switch nf.kind {
		case "notification":
			return "smarttodo notifications list"
		case "user":
			return "smarttodo users search <part of the name>"
		}
	}
	return ""
}
