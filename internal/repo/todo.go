package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/todo_app/internal/models"
)

func (r *GormRepo) ListTodos(ctx context.Context, ownerID uint) ([]models.Todo, error) {
	items := make([]models.Todo, 0)
	if err := r.DB.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListAllTodos(ctx context.Context) ([]models.Todo, error) {
	items := make([]models.Todo, 0)
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetTodo(ctx context.Context, ownerID, id uint) (*models.Todo, error) {
	var todo models.Todo
	if err := r.DB.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).First(&todo).Error; err != nil {
		return nil, err
	}
	return &todo, nil
}

func (r *GormRepo) CreateTodo(ctx context.Context, todo *models.Todo) error {
	return r.DB.WithContext(ctx).Create(todo).Error
}

// UpdateTodo writes every column, including zero values like complete=false.
func (r *GormRepo) UpdateTodo(ctx context.Context, todo *models.Todo) error {
	return r.DB.WithContext(ctx).Save(todo).Error
}

func (r *GormRepo) DeleteTodo(ctx context.Context, ownerID, id uint) error {
	res := r.DB.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&models.Todo{}, id)
	return rowsOrNotFound(res)
}

// DeleteAnyTodo ignores ownership and returns the removed row.
func (r *GormRepo) DeleteAnyTodo(ctx context.Context, id uint) (*models.Todo, error) {
	var todo models.Todo
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&todo).Error; err != nil {
			return err
		}
		return rowsOrNotFound(tx.Delete(&models.Todo{}, id))
	})
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchTodos is the database fallback used when no search index is configured.
// Wildcards in q match literally.
func (r *GormRepo) SearchTodos(ctx context.Context, ownerID uint, q string) ([]models.Todo, error) {
	like := "%" + likeEscaper.Replace(q) + "%"
	items := make([]models.Todo, 0)
	if err := r.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Where(`title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\'`, like, like).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) TodosByIDs(ctx context.Context, ownerID uint, ids []uint) ([]models.Todo, error) {
	items := make([]models.Todo, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.DB.WithContext(ctx).
		Where("owner_id = ? AND id IN ?", ownerID, ids).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func rowsOrNotFound(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
