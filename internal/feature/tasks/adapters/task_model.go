package adapters

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task_backend/internal/feature/tasks/domain/entity"
)

// TaskModel is the GORM model for the tasks table.
type TaskModel struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Title       string    `gorm:"size:255;not null"`
	TitleFolded string    `gorm:"size:255;not null;default:''"`
	Description string    `gorm:"type:text;not null"`
	DueDate     time.Time `gorm:"not null"`
	Status      bool      `gorm:"not null;default:false"`
	OwnerID     string    `gorm:"size:36;not null;index:idx_tasks_owner"`
	CreatedAt   time.Time `gorm:"index:idx_tasks_owner"`
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM.
func (TaskModel) TableName() string {
	return "tasks"
}

// BeforeCreate assigns a random UUID when the caller did not provide an ID.
func (m *TaskModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave stores the Unicode lower-cased title that SearchByTitle matches against.
// SQL LOWER only folds ASCII on SQLite, so folding happens here.
func (m *TaskModel) BeforeSave(*gorm.DB) error {
	m.TitleFolded = strings.ToLower(m.Title)
	return nil
}

// BackfillTitleFolded fills title_folded for rows written before the column existed.
func BackfillTitleFolded(db *gorm.DB) error {
	var batch []TaskModel
	return db.Where("title_folded = ? AND title <> ?", "", "").
		FindInBatches(&batch, 500, func(tx *gorm.DB, _ int) error {
			for i := range batch {
				err := tx.Model(&batch[i]).
					UpdateColumn("title_folded", strings.ToLower(batch[i].Title)).Error
				if err != nil {
					return err
				}
			}
			return nil
		}).Error
}

// ToEntity converts the GORM model to a domain entity.
func (m *TaskModel) ToEntity() entity.Task {
	return entity.Task{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		DueDate:     m.DueDate,
		Status:      m.Status,
		OwnerID:     m.OwnerID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// TaskModelFromEntity converts a domain entity to a GORM model.
func TaskModelFromEntity(t *entity.Task) *TaskModel {
	return &TaskModel{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Status:      t.Status,
		OwnerID:     t.OwnerID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toEntities(models []TaskModel) []entity.Task {
	out := make([]entity.Task, 0, len(models))
	for i := range models {
		out = append(out, models[i].ToEntity())
	}
	return out
}
