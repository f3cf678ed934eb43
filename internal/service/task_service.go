package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/vladaframchuk/event-planning-app-sub001/internal/cache"
	dom "github.com/vladaframchuk/event-planning-app-sub001/internal/domain"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/realtime"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

var ErrAssigneeNotParticipant = errors.New("assignee is not an event participant")

// TaskService handles the per-event task board. Every participant may
// edit the board; all mutations invalidate the board cache and publish
// a realtime message to the event room.
type TaskService struct {
	tasks  repo.TaskRepo
	events *EventService
	cache  *cache.PlanCache
	pub    realtime.Publisher
	sf     singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(tasks repo.TaskRepo, events *EventService, c *cache.PlanCache, pub realtime.Publisher) *TaskService {
	return &TaskService{tasks: tasks, events: events, cache: c, pub: pub}
}

// Board returns the event's lists and tasks.
func (s *TaskService) Board(ctx context.Context, userID, eventID int64) (dom.Board, error) {
	if err := s.events.RequireParticipant(ctx, eventID, userID); err != nil {
		return dom.Board{}, err
	}
	if s.cache != nil {
		key := "board:" + strconv.FormatInt(eventID, 10)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if b, err := s.cache.GetBoard(ctx, eventID); err == nil && b != nil {
				return *b, nil
			}
			b, err := s.tasks.Board(ctx, eventID)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetBoard(ctx, eventID, b)
			return b, nil
		})
		if err != nil {
			return dom.Board{}, err
		}
		return v.(dom.Board), nil
	}
	return s.tasks.Board(ctx, eventID)
}

func (s *TaskService) CreateList(ctx context.Context, userID, eventID int64, title string) (dom.TaskList, error) {
	if err := s.events.RequireParticipant(ctx, eventID, userID); err != nil {
		return dom.TaskList{}, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return dom.TaskList{}, ErrTitleRequired
	}
	l, err := s.tasks.CreateList(ctx, eventID, title)
	if err != nil {
		return dom.TaskList{}, err
	}
	s.afterBoardChange(ctx, eventID, realtime.TypeListCreated, l)
	return l, nil
}

func (s *TaskService) RenameList(ctx context.Context, userID, listID int64, title string) (dom.TaskList, error) {
	l, err := s.listForMember(ctx, userID, listID)
	if err != nil {
		return dom.TaskList{}, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return dom.TaskList{}, ErrTitleRequired
	}
	out, err := s.tasks.RenameList(ctx, listID, title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.TaskList{}, ErrNotFound
		}
		return dom.TaskList{}, err
	}
	s.afterBoardChange(ctx, l.EventID, realtime.TypeListUpdated, out)
	return out, nil
}

func (s *TaskService) MoveList(ctx context.Context, userID, listID int64, position int) (dom.TaskList, error) {
	l, err := s.listForMember(ctx, userID, listID)
	if err != nil {
		return dom.TaskList{}, err
	}
	out, err := s.tasks.MoveList(ctx, listID, position)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.TaskList{}, ErrNotFound
		}
		return dom.TaskList{}, err
	}
	s.afterBoardChange(ctx, l.EventID, realtime.TypeListUpdated, out)
	return out, nil
}

func (s *TaskService) DeleteList(ctx context.Context, userID, listID int64) error {
	l, err := s.listForMember(ctx, userID, listID)
	if err != nil {
		return err
	}
	if err := s.tasks.DeleteList(ctx, listID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.afterBoardChange(ctx, l.EventID, realtime.TypeListDeleted, map[string]int64{"id": listID})
	return nil
}

func (s *TaskService) CreateTask(ctx context.Context, userID, listID int64, title, notes string, assigneeID *int64, dueAt *time.Time) (dom.Task, error) {
	l, err := s.listForMember(ctx, userID, listID)
	if err != nil {
		return dom.Task{}, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return dom.Task{}, ErrTitleRequired
	}
	if err := s.checkAssignee(ctx, l.EventID, assigneeID); err != nil {
		return dom.Task{}, err
	}
	t, err := s.tasks.CreateTask(ctx, dom.Task{
		ListID:     listID,
		EventID:    l.EventID,
		Title:      title,
		Notes:      strings.TrimSpace(notes),
		AssigneeID: assigneeID,
		DueAt:      dueAt,
	})
	if err != nil {
		return dom.Task{}, err
	}
	s.afterBoardChange(ctx, l.EventID, realtime.TypeTaskCreated, t)
	return t, nil
}

// UpdateTask patches task fields (nil = keep).
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID int64, title, notes *string, assigneeID *int64, clearAssignee bool, dueAt *time.Time, isDone *bool) (dom.Task, error) {
	existing, err := s.taskForMember(ctx, userID, taskID)
	if err != nil {
		return dom.Task{}, err
	}
	patch := existing
	if title != nil {
		patch.Title = strings.TrimSpace(*title)
		if patch.Title == "" {
			return dom.Task{}, ErrTitleRequired
		}
	}
	if notes != nil {
		patch.Notes = strings.TrimSpace(*notes)
	}
	if clearAssignee {
		patch.AssigneeID = nil
	} else if assigneeID != nil {
		if err := s.checkAssignee(ctx, existing.EventID, assigneeID); err != nil {
			return dom.Task{}, err
		}
		patch.AssigneeID = assigneeID
	}
	if dueAt != nil {
		patch.DueAt = dueAt
	}
	if isDone != nil {
		patch.IsDone = *isDone
	}
	t, err := s.tasks.UpdateTask(ctx, taskID, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.afterBoardChange(ctx, t.EventID, realtime.TypeTaskUpdated, t)
	return t, nil
}

func (s *TaskService) MoveTask(ctx context.Context, userID, taskID, toListID int64, position int) (dom.Task, error) {
	existing, err := s.taskForMember(ctx, userID, taskID)
	if err != nil {
		return dom.Task{}, err
	}
	t, err := s.tasks.MoveTask(ctx, taskID, toListID, position)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		if errors.Is(err, repo.ErrCrossEventMove) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.afterBoardChange(ctx, existing.EventID, realtime.TypeTaskMoved, t)
	return t, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID int64) error {
	existing, err := s.taskForMember(ctx, userID, taskID)
	if err != nil {
		return err
	}
	if err := s.tasks.DeleteTask(ctx, taskID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.afterBoardChange(ctx, existing.EventID, realtime.TypeTaskDeleted, map[string]int64{"id": taskID})
	return nil
}

func (s *TaskService) listForMember(ctx context.Context, userID, listID int64) (dom.TaskList, error) {
	l, err := s.tasks.GetList(ctx, listID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.TaskList{}, ErrNotFound
		}
		return dom.TaskList{}, err
	}
	if err := s.events.RequireParticipant(ctx, l.EventID, userID); err != nil {
		return dom.TaskList{}, err
	}
	return l, nil
}

func (s *TaskService) taskForMember(ctx context.Context, userID, taskID int64) (dom.Task, error) {
	t, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	if err := s.events.RequireParticipant(ctx, t.EventID, userID); err != nil {
		return dom.Task{}, err
	}
	return t, nil
}

func (s *TaskService) checkAssignee(ctx context.Context, eventID int64, assigneeID *int64) error {
	if assigneeID == nil {
		return nil
	}
	ok, err := s.events.IsParticipant(ctx, eventID, *assigneeID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAssigneeNotParticipant
	}
	return nil
}

func (s *TaskService) afterBoardChange(ctx context.Context, eventID int64, msgType string, data any) {
	if s.cache != nil {
		_ = s.cache.InvalidateBoard(ctx, eventID)
	}
	s.pub.Publish(ctx, realtime.Message{Type: msgType, EventID: eventID, Data: data})
}
