package sqlstore

import (
	"context"
	"time"

	"healthtrack/internal/domain/entity"
	domainerrors "healthtrack/internal/domain/errors"
	"healthtrack/internal/domain/repository"
	"healthtrack/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// recordMapper binds one record table to the domain Record type.
type recordMapper[M any] struct {
	valueColumn string
	toDomain    func(*M) *entity.Record
	fromDomain  func(*entity.Record) *M
}

// recordRepository implements repository.RecordRepository for a single record table.
type recordRepository[M any] struct {
	db     *gorm.DB
	kind   entity.RecordKind
	mapper recordMapper[M]
}

// NewRecordRepository returns the repository that stores records of the given kind.
func NewRecordRepository(db *gorm.DB, kind entity.RecordKind) repository.RecordRepository {
	switch kind {
	case entity.RecordKindSleep:
		return &recordRepository[model.SleepRecordModel]{db: db, kind: kind, mapper: sleepMapper}
	case entity.RecordKindCalorie:
		return &recordRepository[model.CalorieRecordModel]{db: db, kind: kind, mapper: calorieMapper}
	default:
		return &recordRepository[model.WeightRecordModel]{db: db, kind: entity.RecordKindWeight, mapper: weightMapper}
	}
}

// Upsert inserts the row for (userID, recordedAt) or overwrites its value when the date is taken.
// The insert uses ON CONFLICT DO NOTHING so the outcome is decided by the database, not a prior read.
func (repo *recordRepository[M]) Upsert(ctx context.Context, userID uint64, recordedAt time.Time, value float64) (*entity.Record, bool, error) {
	if !repo.kind.UniquePerDay() {
		return nil, false, errors.Errorf("upsert is not supported for %s records", repo.kind)
	}

	db := repo.db.WithContext(ctx)
	date := entity.TruncateDate(recordedAt)

	row := repo.mapper.fromDomain(&entity.Record{UserID: userID, RecordedAt: date, Value: value})
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recorded_at"}},
		DoNothing: true,
	}).Create(row)
	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return nil, false, repository.ErrUserNotFound
		}

		return nil, false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to insert "+string(repo.kind)+" record")
	}
	if result.RowsAffected == 1 {
		return repo.toDomain(row), true, nil
	}

	result = db.Model(new(M)).
		Where("user_id = ? AND recorded_at = ?", userID, date).
		Updates(map[string]any{repo.mapper.valueColumn: value})
	if result.Error != nil {
		return nil, false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to update "+string(repo.kind)+" record")
	}

	existing := new(M)
	if err := db.Where("user_id = ? AND recorded_at = ?", userID, date).First(existing).Error; err != nil {
		return nil, false, errors.Wrapf(err, "failed to reload %s record", repo.kind)
	}

	return repo.toDomain(existing), false, nil
}

// FindByID retrieves a record owned by userID.
func (repo *recordRepository[M]) FindByID(ctx context.Context, userID, id uint64) (*entity.Record, error) {
	row := new(M)
	err := repo.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRecordNotFound
		}

		return nil, errors.Wrapf(err, "failed to find %s record", repo.kind)
	}

	return repo.toDomain(row), nil
}

// List returns the user's records within the optional date range, oldest first.
func (repo *recordRepository[M]) List(ctx context.Context, filter repository.RecordFilter) ([]*entity.Record, error) {
	query := repo.db.WithContext(ctx).Where("user_id = ?", filter.UserID)
	if !filter.From.IsZero() {
		query = query.Where("recorded_at >= ?", entity.TruncateDate(filter.From))
	}
	if !filter.To.IsZero() {
		query = query.Where("recorded_at <= ?", entity.TruncateDate(filter.To))
	}

	var rows []M
	if err := query.Order("recorded_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to list %s records", repo.kind)
	}

	records := make([]*entity.Record, 0, len(rows))
	for i := range rows {
		records = append(records, repo.toDomain(&rows[i]))
	}

	return records, nil
}

// Create inserts a new record. Weight and sleep reject a second record for the same date.
func (repo *recordRepository[M]) Create(ctx context.Context, record *entity.Record) error {
	record.RecordedAt = entity.TruncateDate(record.RecordedAt)
	row := repo.mapper.fromDomain(record)

	if err := repo.db.WithContext(ctx).Create(row).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrRecordAlreadyExists
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrUserNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create "+string(repo.kind)+" record")
	}

	created := repo.toDomain(row)
	record.ID = created.ID
	record.CreatedAt = created.CreatedAt
	record.UpdatedAt = created.UpdatedAt

	return nil
}

// Update overwrites the date and value of a record owned by record.UserID.
func (repo *recordRepository[M]) Update(ctx context.Context, record *entity.Record) error {
	db := repo.db.WithContext(ctx)
	record.RecordedAt = entity.TruncateDate(record.RecordedAt)

	result := db.Model(new(M)).
		Where("id = ? AND user_id = ?", record.ID, record.UserID).
		Updates(map[string]any{
			"recorded_at":           record.RecordedAt,
			repo.mapper.valueColumn: record.Value,
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return domainerrors.ErrRecordAlreadyExists
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update "+string(repo.kind)+" record")
	}
	if result.RowsAffected == 0 {
		return repository.ErrRecordNotFound
	}

	updated, err := repo.FindByID(ctx, record.UserID, record.ID)
	if err != nil {
		return err
	}
	record.CreatedAt = updated.CreatedAt
	record.UpdatedAt = updated.UpdatedAt

	return nil
}

// Delete removes a record owned by userID.
func (repo *recordRepository[M]) Delete(ctx context.Context, userID, id uint64) error {
	result := repo.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(new(M))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete "+string(repo.kind)+" record")
	}
	if result.RowsAffected == 0 {
		return repository.ErrRecordNotFound
	}

	return nil
}

func (repo *recordRepository[M]) toDomain(row *M) *entity.Record {
	record := repo.mapper.toDomain(row)
	record.Kind = repo.kind
	record.RecordedAt = entity.TruncateDate(record.RecordedAt)

	return record
}

// --- Mapper Functions ---

var weightMapper = recordMapper[model.WeightRecordModel]{
	valueColumn: "weight",
	toDomain: func(m *model.WeightRecordModel) *entity.Record {
		return &entity.Record{
			ID:         m.ID,
			UserID:     m.UserID,
			RecordedAt: m.RecordedAt,
			Value:      m.Weight,
			CreatedAt:  m.CreatedAt,
			UpdatedAt:  m.UpdatedAt,
		}
	},
	fromDomain: func(r *entity.Record) *model.WeightRecordModel {
		return &model.WeightRecordModel{
			ID:         r.ID,
			UserID:     r.UserID,
			RecordedAt: r.RecordedAt,
			Weight:     r.Value,
			CreatedAt:  r.CreatedAt,
			UpdatedAt:  r.UpdatedAt,
		}
	},
}

var sleepMapper = recordMapper[model.SleepRecordModel]{
	valueColumn: "sleep_time",
	toDomain: func(m *model.SleepRecordModel) *entity.Record {
		return &entity.Record{
			ID:         m.ID,
			UserID:     m.UserID,
			RecordedAt: m.RecordedAt,
			Value:      m.SleepTime,
			CreatedAt:  m.CreatedAt,
			UpdatedAt:  m.UpdatedAt,
		}
	},
	fromDomain: func(r *entity.Record) *model.SleepRecordModel {
		return &model.SleepRecordModel{
			ID:         r.ID,
			UserID:     r.UserID,
			RecordedAt: r.RecordedAt,
			SleepTime:  r.Value,
			CreatedAt:  r.CreatedAt,
			UpdatedAt:  r.UpdatedAt,
		}
	},
}

var calorieMapper = recordMapper[model.CalorieRecordModel]{
	valueColumn: "calorie",
	toDomain: func(m *model.CalorieRecordModel) *entity.Record {
		return &entity.Record{
			ID:         m.ID,
			UserID:     m.UserID,
			RecordedAt: m.RecordedAt,
			Value:      m.Calorie,
			CreatedAt:  m.CreatedAt,
			UpdatedAt:  m.UpdatedAt,
		}
	},
	fromDomain: func(r *entity.Record) *model.CalorieRecordModel {
		return &model.CalorieRecordModel{
			ID:         r.ID,
			UserID:     r.UserID,
			RecordedAt: r.RecordedAt,
			Calorie:    r.Value,
			CreatedAt:  r.CreatedAt,
			UpdatedAt:  r.UpdatedAt,
		}
	},
}
