package infra

import (
	"context"
	"errors"
	"log/slog"

	"booking-reconciler/internal/pkg/errs"
)

type RepositoryErrorKind string

type RepositoryError struct {
	Kind RepositoryErrorKind
	msg  string
	err  error // wrapped low-level error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

// WrapRepoErr builds a RepositoryError and logs it. Expected outcomes
// (not found, conflict) log below error level.
func WrapRepoErr(slogger *slog.Logger, kind RepositoryErrorKind, msg string, err error) error {
	logArgs := []any{
		slog.String("kind", string(kind)),
	}
	if err != nil {
		logArgs = append(logArgs, slog.String("cause", err.Error()))
	}

	slogger.Log(context.Background(), kind.logLevel(), "Repository error: "+msg, logArgs...)

	if err != nil {
		err = errs.Wrap(err, msg)
	}

	return RepositoryError{Kind: kind, msg: msg, err: err}
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func (k RepositoryErrorKind) logLevel() slog.Level {
	switch k {
	case KindNotFound, KindConflict:
		return slog.LevelDebug
	default:
		return slog.LevelError
	}
}

// Infrastructure-specific error kinds
const (
	KindNotFound  RepositoryErrorKind = "NOT_FOUND"
	KindDBFailure RepositoryErrorKind = "DB_FAILURE"
	KindConflict  RepositoryErrorKind = "CONFLICT"
	KindPublish   RepositoryErrorKind = "PUBLISH_FAILURE"
)
