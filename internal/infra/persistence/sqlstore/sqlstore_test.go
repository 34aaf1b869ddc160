package sqlstore

import (
	"context"
	"testing"
	"time"

	"healthtrack/internal/domain/entity"
	domainerrors "healthtrack/internal/domain/errors"
	"healthtrack/internal/domain/repository"
	"healthtrack/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := OpenSQLite(sqliteDSN(":memory:"), logger.Discard)
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(context.Background(), db))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *entity.User {
	t.Helper()

	user := &entity.User{Email: email, PasswordHash: "hash"}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	require.NotZero(t, user.ID)

	return user
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()

	date, err := entity.ParseDate(value)
	require.NoError(t, err)

	return date
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?_foreign_keys=on", sqliteDSN(""))
	assert.Equal(t, "file::memory:?_foreign_keys=on", sqliteDSN(":memory:"))
	assert.Equal(t, "file:custom.db?mode=ro", sqliteDSN("file:custom.db?mode=ro"))
	assert.Equal(t, "file:data/app.db?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", sqliteDSN("data/app.db"))
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com")

	byEmail, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	_, err = repo.FindByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	_, err = repo.FindByID(ctx, user.ID+100)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "dup@example.com")

	err := NewUserRepository(db).Create(context.Background(), &entity.User{Email: "dup@example.com", PasswordHash: "other"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestUserRepository_DeleteRemovesOwnedRows(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "bob@example.com")

	require.NoError(t, NewProfileRepository(db).Create(ctx, &entity.UserProfile{UserID: user.ID}))
	_, _, err := NewRecordRepository(db, entity.RecordKindWeight).Upsert(ctx, user.ID, mustDate(t, "2024-01-15"), 70)
	require.NoError(t, err)
	require.NoError(t, NewRecordRepository(db, entity.RecordKindCalorie).Create(ctx, &entity.Record{
		UserID: user.ID, RecordedAt: mustDate(t, "2024-01-15"), Value: 1800,
	}))

	require.NoError(t, NewUserRepository(db).Delete(ctx, user.ID))

	var count int64
	require.NoError(t, db.Model(&model.WeightRecordModel{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&model.CalorieRecordModel{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)

	_, err = NewProfileRepository(db).FindByUserID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrProfileNotFound)

	err = NewUserRepository(db).Delete(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestProfileRepository_CreateFindUpdate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewProfileRepository(db)
	user := createTestUser(t, db, "carol@example.com")

	require.NoError(t, repo.Create(ctx, &entity.UserProfile{UserID: user.ID}))

	profile, err := repo.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, profile.Nickname)
	assert.Nil(t, profile.Height)

	height := 172.5
	profile.Nickname = "carol"
	profile.Height = &height
	profile.Goal = "run a marathon"
	require.NoError(t, repo.Update(ctx, profile))

	updated, err := repo.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "carol", updated.Nickname)
	require.NotNil(t, updated.Height)
	assert.InDelta(t, 172.5, *updated.Height, 1e-9)
	assert.Equal(t, "run a marathon", updated.Goal)

	err = repo.Update(ctx, &entity.UserProfile{UserID: user.ID + 100})
	assert.ErrorIs(t, err, repository.ErrProfileNotFound)
}

func TestProfileRepository_CreateForUnknownUser(t *testing.T) {
	db := newTestDB(t)

	err := NewProfileRepository(db).Create(context.Background(), &entity.UserProfile{UserID: 999})
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestRecordRepository_UpsertCreatesThenUpdates(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "dave@example.com")
	repo := NewRecordRepository(db, entity.RecordKindWeight)

	first, created, err := repo.Upsert(ctx, user.ID, mustDate(t, "2024-01-15"), 70.5)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, first.ID)
	assert.Equal(t, entity.RecordKindWeight, first.Kind)
	assert.InDelta(t, 70.5, first.Value, 1e-9)

	second, created, err := repo.Upsert(ctx, user.ID, mustDate(t, "2024-01-15"), 71)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.InDelta(t, 71, second.Value, 1e-9)
	assert.Equal(t, "2024-01-15", second.RecordedAt.Format(entity.DateLayout))

	var count int64
	require.NoError(t, db.Model(&model.WeightRecordModel{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecordRepository_UpsertIsScopedPerUserAndKind(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	date := mustDate(t, "2024-02-01")

	_, created, err := NewRecordRepository(db, entity.RecordKindWeight).Upsert(ctx, alice.ID, date, 60)
	require.NoError(t, err)
	assert.True(t, created)

	_, created, err = NewRecordRepository(db, entity.RecordKindWeight).Upsert(ctx, bob.ID, date, 80)
	require.NoError(t, err)
	assert.True(t, created)

	sleep, created, err := NewRecordRepository(db, entity.RecordKindSleep).Upsert(ctx, alice.ID, date, 7.5)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, entity.RecordKindSleep, sleep.Kind)
}

func TestRecordRepository_UpsertRejectsCalorie(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "erin@example.com")

	_, _, err := NewRecordRepository(db, entity.RecordKindCalorie).Upsert(context.Background(), user.ID, mustDate(t, "2024-01-01"), 100)
	assert.Error(t, err)
}

func TestRecordRepository_CreateDuplicateDate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "frank@example.com")
	repo := NewRecordRepository(db, entity.RecordKindSleep)

	require.NoError(t, repo.Create(ctx, &entity.Record{UserID: user.ID, RecordedAt: mustDate(t, "2024-03-03"), Value: 8}))

	err := repo.Create(ctx, &entity.Record{UserID: user.ID, RecordedAt: mustDate(t, "2024-03-03"), Value: 6})
	assert.ErrorIs(t, err, domainerrors.ErrRecordAlreadyExists)
}

func TestRecordRepository_CalorieAllowsSeveralPerDay(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "gina@example.com")
	repo := NewRecordRepository(db, entity.RecordKindCalorie)

	require.NoError(t, repo.Create(ctx, &entity.Record{UserID: user.ID, RecordedAt: mustDate(t, "2024-03-03"), Value: 500}))
	require.NoError(t, repo.Create(ctx, &entity.Record{UserID: user.ID, RecordedAt: mustDate(t, "2024-03-03"), Value: 700}))

	records, err := repo.List(ctx, repository.RecordFilter{UserID: user.ID})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestRecordRepository_ListFiltersAndOrders(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "hank@example.com")
	other := createTestUser(t, db, "ivy@example.com")
	repo := NewRecordRepository(db, entity.RecordKindWeight)

	for _, date := range []string{"2024-01-03", "2024-01-01", "2024-01-02", "2024-01-05"} {
		_, _, err := repo.Upsert(ctx, user.ID, mustDate(t, date), 70)
		require.NoError(t, err)
	}
	_, _, err := repo.Upsert(ctx, other.ID, mustDate(t, "2024-01-02"), 90)
	require.NoError(t, err)

	all, err := repo.List(ctx, repository.RecordFilter{UserID: user.ID})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "2024-01-01", all[0].RecordedAt.Format(entity.DateLayout))
	assert.Equal(t, "2024-01-05", all[3].RecordedAt.Format(entity.DateLayout))

	ranged, err := repo.List(ctx, repository.RecordFilter{
		UserID: user.ID,
		From:   mustDate(t, "2024-01-02"),
		To:     mustDate(t, "2024-01-03"),
	})
	require.NoError(t, err)
	require.Len(t, ranged, 2)
	assert.Equal(t, "2024-01-02", ranged[0].RecordedAt.Format(entity.DateLayout))
	assert.Equal(t, "2024-01-03", ranged[1].RecordedAt.Format(entity.DateLayout))
}

func TestRecordRepository_OwnershipScoping(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner@example.com")
	intruder := createTestUser(t, db, "intruder@example.com")
	repo := NewRecordRepository(db, entity.RecordKindWeight)

	record := &entity.Record{UserID: owner.ID, RecordedAt: mustDate(t, "2024-04-01"), Value: 65}
	require.NoError(t, repo.Create(ctx, record))

	_, err := repo.FindByID(ctx, intruder.ID, record.ID)
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)

	err = repo.Update(ctx, &entity.Record{ID: record.ID, UserID: intruder.ID, RecordedAt: mustDate(t, "2024-04-01"), Value: 1})
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)

	err = repo.Delete(ctx, intruder.ID, record.ID)
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)

	found, err := repo.FindByID(ctx, owner.ID, record.ID)
	require.NoError(t, err)
	assert.InDelta(t, 65, found.Value, 1e-9)
}

func TestRecordRepository_UpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "jack@example.com")
	repo := NewRecordRepository(db, entity.RecordKindSleep)

	record := &entity.Record{UserID: user.ID, RecordedAt: mustDate(t, "2024-05-01"), Value: 6}
	require.NoError(t, repo.Create(ctx, record))
	taken := &entity.Record{UserID: user.ID, RecordedAt: mustDate(t, "2024-05-02"), Value: 7}
	require.NoError(t, repo.Create(ctx, taken))

	record.Value = 8.25
	record.RecordedAt = mustDate(t, "2024-05-03")
	require.NoError(t, repo.Update(ctx, record))

	found, err := repo.FindByID(ctx, user.ID, record.ID)
	require.NoError(t, err)
	assert.InDelta(t, 8.25, found.Value, 1e-9)
	assert.Equal(t, "2024-05-03", found.RecordedAt.Format(entity.DateLayout))

	record.RecordedAt = mustDate(t, "2024-05-02")
	err = repo.Update(ctx, record)
	assert.ErrorIs(t, err, domainerrors.ErrRecordAlreadyExists)

	require.NoError(t, repo.Delete(ctx, user.ID, record.ID))
	_, err = repo.FindByID(ctx, user.ID, record.ID)
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
}

func TestTransactionManager_CommitAndRollback(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	txManager := NewTransactionManager(db)

	err := txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		user := &entity.User{Email: "tx@example.com", PasswordHash: "hash"}
		if err := repoFactory.UserRepo().Create(ctx, user); err != nil {
			return err
		}

		return repoFactory.ProfileRepo().Create(ctx, &entity.UserProfile{UserID: user.ID})
	})
	require.NoError(t, err)

	committed, err := NewUserRepository(db).FindByEmail(ctx, "tx@example.com")
	require.NoError(t, err)

	rollbackErr := errors.New("boom")
	err = txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, _, err := repoFactory.RecordRepo(entity.RecordKindWeight).Upsert(ctx, committed.ID, mustDate(t, "2024-06-01"), 70); err != nil {
			return err
		}

		return rollbackErr
	})
	assert.ErrorIs(t, err, rollbackErr)

	records, err := NewRepositoryFactory(db).RecordRepo(entity.RecordKindWeight).List(ctx, repository.RecordFilter{UserID: committed.ID})
	require.NoError(t, err)
	assert.Empty(t, records)
}
