// Package adapters provides repository implementations for the tasks feature.
package adapters

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"task_backend/internal/feature/tasks/domain/entity"
	"task_backend/internal/feature/tasks/usecase"
	"task_backend/internal/shared/apperr"
)

// likeEscape is the ESCAPE character used in title searches.
const likeEscape = "!"

var likeReplacer = strings.NewReplacer(
	likeEscape, likeEscape+likeEscape,
	"%", likeEscape+"%",
	"_", likeEscape+"_",
)

// taskGorm is the SQL implementation of the TaskRepository interface.
// Every query is scoped by owner_id, so a foreign task is indistinguishable from a missing one.
type taskGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure taskGorm implements TaskRepository.
var _ usecase.TaskRepository = (*taskGorm)(nil)

// NewTaskGorm creates a new instance of taskGorm.
func NewTaskGorm(db *gorm.DB) *taskGorm {
	return &taskGorm{db: db}
}

// Create inserts task and writes the generated ID and timestamps back into it.
func (r *taskGorm) Create(ctx context.Context, task *entity.Task) error {
	if task == nil {
		return errors.New("task must not be nil")
	}
	model := TaskModelFromEntity(task)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return apperr.Store(err)
	}
	*task = model.ToEntity()
	return nil
}

// ListByOwner returns the owner's tasks oldest first.
func (r *taskGorm) ListByOwner(ctx context.Context, ownerID string) ([]entity.Task, error) {
	var models []TaskModel
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at, id").
		Find(&models).Error
	if err != nil {
		return nil, apperr.Store(err)
	}
	return toEntities(models), nil
}

// FindByID retrieves the task matching id and ownerID, or usecase.ErrTaskNotFound.
func (r *taskGorm) FindByID(ctx context.Context, ownerID, id string) (*entity.Task, error) {
	model, err := first(r.db.WithContext(ctx), ownerID, id)
	if err != nil {
		return nil, err
	}
	task := model.ToEntity()
	return &task, nil
}

// Update overwrites title, description, due date and status inside one transaction.
func (r *taskGorm) Update(ctx context.Context, ownerID, id string, upd entity.TaskUpdate) (*entity.Task, error) {
	var updated TaskModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model, err := first(tx, ownerID, id)
		if err != nil {
			return err
		}
		model.Title = upd.Title
		model.Description = upd.Description
		model.DueDate = upd.DueDate
		model.Status = upd.Status
		if err := tx.Save(model).Error; err != nil {
			return apperr.Store(err)
		}
		updated = *model
		return nil
	})
	if err != nil {
		return nil, err
	}
	task := updated.ToEntity()
	return &task, nil
}

// Delete removes the task matching id and ownerID.
func (r *taskGorm) Delete(ctx context.Context, ownerID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&TaskModel{})
	if res.Error != nil {
		return apperr.Store(res.Error)
	}
	if res.RowsAffected == 0 {
		return usecase.ErrTaskNotFound
	}
	return nil
}

// SearchByTitle matches fragment as a literal, case-insensitive substring of the title.
func (r *taskGorm) SearchByTitle(ctx context.Context, ownerID, fragment string) ([]entity.Task, error) {
	var models []TaskModel
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Where("title_folded LIKE ? ESCAPE '"+likeEscape+"'", likePattern(fragment)).
		Order("created_at, id").
		Find(&models).Error
	if err != nil {
		return nil, apperr.Store(err)
	}
	return toEntities(models), nil
}

// likePattern lowercases fragment, escapes LIKE wildcards and wraps it in %.
func likePattern(fragment string) string {
	return "%" + likeReplacer.Replace(strings.ToLower(fragment)) + "%"
}

func first(db *gorm.DB, ownerID, id string) (*TaskModel, error) {
	var model TaskModel
	if err := db.Where("id = ? AND owner_id = ?", id, ownerID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrTaskNotFound
		}
		return nil, apperr.Store(err)
	}
	return &model, nil
}
