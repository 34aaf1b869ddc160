package repository

import (
	"context"

	"healthtrack/internal/domain/entity"
)

// TransactionManager defines the interface for managing database transactions.
// This allows the use case layer to handle transactions without depending on a specific DB driver like GORM.
type TransactionManager interface {
	// Execute runs a function within a database transaction.
	// If the function returns an error, the transaction is rolled back. Otherwise, it's committed.
	// All repository operations within the function will use the same database transaction.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides repository instances bound to one database handle,
// either the shared connection pool or a single transaction.
type RepositoryFactory interface {
	// UserRepo returns a UserRepository bound to the factory's handle.
	UserRepo() UserRepository

	// ProfileRepo returns a ProfileRepository bound to the factory's handle.
	ProfileRepo() ProfileRepository

	// RecordRepo returns the RecordRepository for one measurement collection.
	RecordRepo(kind entity.RecordKind) RecordRepository
}
