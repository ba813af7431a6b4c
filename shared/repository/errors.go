package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"todoapp/shared/constant"
	"todoapp/shared/failure"

	"github.com/lib/pq"
)

// ClassifyError maps a database error onto the failure taxonomy: unreachable or timed out
// stores become Unavailable, constraint violations become BadRequest or Conflict, anything
// else is wrapped and reported as internal.
func ClassifyError(err error, entity, action string) error {
	if err == nil {
		return nil
	}

	var fail *failure.Failure
	if errors.As(err, &fail) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("failed to %s (%s): %w", action, entity, failure.Unavailable("database unavailable"))
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)

		switch code {
		case constant.PqErrorCodeUniqueViolation:
			return failure.Conflict(entity + " already exists") //nolint:wrapcheck
		case constant.PqErrorCodeCheckViolation,
			constant.PqErrorCodeStringTooLong,
			constant.PqErrorCodeNotNullViolation,
			constant.PqErrorCodeInvalidTextRepr,
			constant.PqErrorCodeFkViolation:
			return failure.BadRequestFromString(constraintMessage(pqErr)) //nolint:wrapcheck
		}

		switch pqErr.Code.Class() {
		case constant.PqErrorClassConnection,
			constant.PqErrorClassInsufficientRes,
			constant.PqErrorClassOperatorIntervened:
			return fmt.Errorf("failed to %s (%s): %w", action, entity, failure.Unavailable("database unavailable"))
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("failed to %s (%s): %w", action, entity, failure.Unavailable("database unavailable"))
	}

	return fmt.Errorf("failed to %s (%s): %w", action, entity, err)
}

func constraintMessage(pqErr *pq.Error) string {
	switch string(pqErr.Code) {
	case constant.PqErrorCodeStringTooLong:
		return "value too long"
	case constant.PqErrorCodeNotNullViolation:
		if pqErr.Column != "" {
			return pqErr.Column + " is required"
		}

		return "missing required value"
	case constant.PqErrorCodeCheckViolation:
		if pqErr.Constraint != "" {
			return "constraint violated: " + pqErr.Constraint
		}
	case constant.PqErrorCodeFkViolation:
		return "referenced record does not exist"
	}

	return "invalid value"
}
