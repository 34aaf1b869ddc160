package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"healthtrack/internal/domain/repository"
	mockRepo "healthtrack/internal/mocks/repository"

	"github.com/stretchr/testify/mock"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// expectTransaction makes txManager run the callback against factory and return its error.
func expectTransaction(txManager *mockRepo.MockTransactionManager, factory repository.RepositoryFactory) {
	txManager.EXPECT().
		Execute(mock.Anything, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(factory)
		})
}

func ptr[T any](v T) *T {
	return &v
}

func newFactory(t *testing.T) *mockRepo.MockRepositoryFactory {
	return mockRepo.NewMockRepositoryFactory(t)
}
