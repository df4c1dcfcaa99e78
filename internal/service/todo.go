package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/todo_app/internal/events"
	"github.com/Skotchmaster/todo_app/internal/logging"
	"github.com/Skotchmaster/todo_app/internal/models"
	"github.com/Skotchmaster/todo_app/internal/repo"
	"github.com/Skotchmaster/todo_app/internal/search"
	"github.com/Skotchmaster/todo_app/internal/transport"
)

// TodoService keeps todos scoped to their owner. Index may be nil, in which
// case search falls back to the database.
type TodoService struct {
	Repo   *repo.GormRepo
	Index  search.Index
	Events events.Publisher
}

func todoErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTodoNotFound
	}
	return err
}

func (s *TodoService) publish(ctx context.Context, typ string, todo models.Todo) {
	if s.Events == nil {
		return
	}
	event := events.New(typ, todo.OwnerID)
	event.TodoID = todo.ID
	if err := s.Events.PublishEvent(ctx, events.TopicTodos, fmt.Sprint(todo.OwnerID), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "topic", events.TopicTodos, "type", typ, "error", err)
	}
}

func (s *TodoService) index(ctx context.Context, todo models.Todo) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexTodo(ctx, todo); err != nil {
		logging.FromContext(ctx).Error("search_index_error", "todo_id", todo.ID, "error", err)
	}
}

func (s *TodoService) unindex(ctx context.Context, id uint) {
	if s.Index == nil {
		return
	}
	if err := s.Index.DeleteTodo(ctx, id); err != nil {
		logging.FromContext(ctx).Error("search_delete_error", "todo_id", id, "error", err)
	}
}

func (s *TodoService) List(ctx context.Context, ownerID uint) ([]models.Todo, error) {
	return s.Repo.ListTodos(ctx, ownerID)
}

func (s *TodoService) Get(ctx context.Context, ownerID, id uint) (*models.Todo, error) {
	todo, err := s.Repo.GetTodo(ctx, ownerID, id)
	if err != nil {
		return nil, todoErr(err)
	}
	return todo, nil
}

func (s *TodoService) Create(ctx context.Context, ownerID uint, req transport.TodoRequest) (*models.Todo, error) {
	todo := &models.Todo{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Complete:    req.Complete != nil && *req.Complete,
		OwnerID:     ownerID,
	}
	if err := s.Repo.CreateTodo(ctx, todo); err != nil {
		return nil, err
	}
	s.index(ctx, *todo)
	s.publish(ctx, events.TodoCreated, *todo)
	return todo, nil
}

func (s *TodoService) Update(ctx context.Context, ownerID, id uint, req transport.TodoRequest) error {
	todo, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	todo.Title = req.Title
	todo.Description = req.Description
	todo.Priority = req.Priority
	todo.Complete = req.Complete != nil && *req.Complete

	if err := s.Repo.UpdateTodo(ctx, todo); err != nil {
		return err
	}
	s.index(ctx, *todo)
	s.publish(ctx, events.TodoUpdated, *todo)
	return nil
}

func (s *TodoService) Delete(ctx context.Context, ownerID, id uint) error {
	if err := s.Repo.DeleteTodo(ctx, ownerID, id); err != nil {
		return todoErr(err)
	}
	s.unindex(ctx, id)
	s.publish(ctx, events.TodoDeleted, models.Todo{ID: id, OwnerID: ownerID})
	return nil
}

// Search asks the index for matching ids, then loads them from the database so
// results never outlive a deleted row.
func (s *TodoService) Search(ctx context.Context, ownerID uint, q string) ([]models.Todo, error) {
	if s.Index == nil {
		return s.Repo.SearchTodos(ctx, ownerID, q)
	}
	ids, err := s.Index.SearchTodos(ctx, ownerID, q)
	if err != nil {
		return nil, err
	}
	return s.Repo.TodosByIDs(ctx, ownerID, ids)
}

func (s *TodoService) ListAll(ctx context.Context) ([]models.Todo, error) {
	return s.Repo.ListAllTodos(ctx)
}

func (s *TodoService) DeleteAny(ctx context.Context, id uint) error {
	todo, err := s.Repo.DeleteAnyTodo(ctx, id)
	if err != nil {
		return todoErr(err)
	}
	s.unindex(ctx, id)
	s.publish(ctx, events.TodoDeleted, *todo)
	return nil
}
