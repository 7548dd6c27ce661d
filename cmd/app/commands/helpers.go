// Package commands contains CLI command implementations for the application.
package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"

	permissionDomain "github.com/allisson/credstore/internal/permission/domain"
)

// closeMigrate closes the migration instance and logs any errors.
func closeMigrate(migrate *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := migrate.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close the migrate",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}

// parseOperations converts a comma-separated operation list into the domain
// operation set. Returns an error on the first unknown operation.
func parseOperations(raw string) ([]permissionDomain.Operation, error) {
	var operations []permissionDomain.Operation
	for part := range strings.SplitSeq(raw, ",") {
		operation := permissionDomain.Operation(strings.TrimSpace(part))
		if !operation.Valid() {
			return nil, fmt.Errorf("invalid operation: %q", part)
		}
		operations = append(operations, operation)
	}
	if len(operations) == 0 {
		return nil, fmt.Errorf("no operations given")
	}
	return operations, nil
}
