package impl

import (
	"context"
	"testing"

	"healthtrack/internal/domain/entity"
	domainerrors "healthtrack/internal/domain/errors"
	"healthtrack/internal/domain/repository"
	mockRepo "healthtrack/internal/mocks/repository"
	mockSvc "healthtrack/internal/mocks/service"
	"healthtrack/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userServiceFixtures struct {
	service     usecase.UserUsecase
	txManager   *mockRepo.MockTransactionManager
	repoFactory *mockRepo.MockRepositoryFactory
	userRepo    *mockRepo.MockUserRepository
	hasher      *mockSvc.MockPasswordHasher
	principal   *entity.Principal
}

func createTestUserService(t *testing.T) userServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	repoFactory := mockRepo.NewMockRepositoryFactory(t)
	hasher := mockSvc.NewMockPasswordHasher(t)

	return userServiceFixtures{
		service: NewUserService(UserServiceParams{
			TxManager:   txManager,
			RepoFactory: repoFactory,
			Hasher:      hasher,
			Logger:      newDiscardLogger(),
		}),
		txManager:   txManager,
		repoFactory: repoFactory,
		userRepo:    mockRepo.NewMockUserRepository(t),
		hasher:      hasher,
		principal:   &entity.Principal{UserID: 1, Email: "a@x.com"},
	}
}

func TestUserService_ListUsers(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	user := &entity.User{ID: 1, Email: "a@x.com"}

	fx.repoFactory.EXPECT().UserRepo().Return(fx.userRepo)
	fx.userRepo.EXPECT().FindByID(ctx, uint64(1)).Return(user, nil)

	users, err := fx.service.ListUsers(ctx, fx.principal)

	require.NoError(t, err)
	assert.Equal(t, []*entity.User{user}, users)
}

func TestUserService_GetUser(t *testing.T) {
	t.Run("another user", func(t *testing.T) {
		fx := createTestUserService(t)

		_, err := fx.service.GetUser(context.Background(), fx.principal, 2)

		assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	})

	t.Run("deleted account", func(t *testing.T) {
		fx := createTestUserService(t)
		ctx := context.Background()

		fx.repoFactory.EXPECT().UserRepo().Return(fx.userRepo)
		fx.userRepo.EXPECT().FindByID(ctx, uint64(1)).Return(nil, repository.ErrUserNotFound)

		_, err := fx.service.GetUser(ctx, fx.principal, 1)

		assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
	})
}

func TestUserService_UpdateUser(t *testing.T) {
	t.Run("patch password re-hashes", func(t *testing.T) {
		fx := createTestUserService(t)
		ctx := context.Background()
		txFactory := newFactory(t)
		txUserRepo := mockRepo.NewMockUserRepository(t)
		existing := &entity.User{ID: 1, Email: "a@x.com", PasswordHash: "old"}

		fx.hasher.EXPECT().ValidatePasswordStrength("new-password").Return(nil)
		fx.hasher.EXPECT().Hash("new-password").Return("new-hash", nil)
		expectTransaction(fx.txManager, txFactory)
		txFactory.EXPECT().UserRepo().Return(txUserRepo)
		txUserRepo.EXPECT().FindByID(ctx, uint64(1)).Return(existing, nil)
		txUserRepo.EXPECT().Update(ctx, existing).Return(nil)

		user, err := fx.service.UpdateUser(ctx, fx.principal, 1, &usecase.UpdateUserInput{
			Password: ptr("new-password"),
		}, true)

		require.NoError(t, err)
		assert.Equal(t, "a@x.com", user.Email)
		assert.Equal(t, "new-hash", user.PasswordHash)
	})

	t.Run("patch email only", func(t *testing.T) {
		fx := createTestUserService(t)
		ctx := context.Background()
		txFactory := newFactory(t)
		txUserRepo := mockRepo.NewMockUserRepository(t)
		existing := &entity.User{ID: 1, Email: "a@x.com", PasswordHash: "old"}

		expectTransaction(fx.txManager, txFactory)
		txFactory.EXPECT().UserRepo().Return(txUserRepo)
		txUserRepo.EXPECT().FindByID(ctx, uint64(1)).Return(existing, nil)
		txUserRepo.EXPECT().Update(ctx, existing).Return(nil)

		user, err := fx.service.UpdateUser(ctx, fx.principal, 1, &usecase.UpdateUserInput{
			Email: ptr("b@EXAMPLE.com"),
		}, true)

		require.NoError(t, err)
		assert.Equal(t, "b@example.com", user.Email)
		assert.Equal(t, "old", user.PasswordHash)
	})

	t.Run("put requires email and password", func(t *testing.T) {
		fx := createTestUserService(t)

		_, err := fx.service.UpdateUser(context.Background(), fx.principal, 1, &usecase.UpdateUserInput{
			Email: ptr("b@x.com"),
		}, false)

		require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
		var baseErr *domainerrors.BaseError
		require.ErrorAs(t, err, &baseErr)
		assert.Equal(t, "password: this field is required", baseErr.Details())
	})

	t.Run("email already taken", func(t *testing.T) {
		fx := createTestUserService(t)
		ctx := context.Background()
		txFactory := newFactory(t)
		txUserRepo := mockRepo.NewMockUserRepository(t)
		existing := &entity.User{ID: 1, Email: "a@x.com", PasswordHash: "old"}

		expectTransaction(fx.txManager, txFactory)
		txFactory.EXPECT().UserRepo().Return(txUserRepo)
		txUserRepo.EXPECT().FindByID(ctx, uint64(1)).Return(existing, nil)
		txUserRepo.EXPECT().Update(ctx, existing).Return(domainerrors.ErrUserAlreadyExists.WrapMessage("email already exists"))

		_, err := fx.service.UpdateUser(ctx, fx.principal, 1, &usecase.UpdateUserInput{
			Email: ptr("taken@x.com"),
		}, true)

		assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
	})

	t.Run("another user", func(t *testing.T) {
		fx := createTestUserService(t)

		_, err := fx.service.UpdateUser(context.Background(), fx.principal, 3, &usecase.UpdateUserInput{}, true)

		assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fx := createTestUserService(t)
		ctx := context.Background()
		txFactory := newFactory(t)
		txUserRepo := mockRepo.NewMockUserRepository(t)

		expectTransaction(fx.txManager, txFactory)
		txFactory.EXPECT().UserRepo().Return(txUserRepo)
		txUserRepo.EXPECT().Delete(ctx, uint64(1)).Return(nil)

		assert.NoError(t, fx.service.DeleteUser(ctx, fx.principal, 1))
	})

	t.Run("another user", func(t *testing.T) {
		fx := createTestUserService(t)

		err := fx.service.DeleteUser(context.Background(), fx.principal, 2)

		assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	})
}
