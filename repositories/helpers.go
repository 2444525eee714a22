package repositories

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

// pqConstraint returns the violated constraint name when err is a
// unique or foreign key violation, or "" otherwise.
func pqConstraint(err error) string {
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505", "23503": // unique_violation, foreign_key_violation
			return pqErr.Constraint
		}
	}
	return ""
}
