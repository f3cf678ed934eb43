package service

import (
	"context"
	"sort"
	"testing"
	"time"

	dom "github.com/vladaframchuk/event-planning-app-sub001/internal/domain"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/realtime"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/repo"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTaskRepo keeps positions 1-based and contiguous like the Postgres
// implementation.
type fakeTaskRepo struct {
	lists    map[int64]*dom.TaskList
	tasks    map[int64]*dom.Task
	nextList int64
	nextTask int64
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{lists: map[int64]*dom.TaskList{}, tasks: map[int64]*dom.Task{}}
}

func (r *fakeTaskRepo) Board(_ context.Context, eventID int64) (dom.Board, error) {
	var b dom.Board
	for _, l := range r.lists {
		if l.EventID == eventID {
			b.Lists = append(b.Lists, *l)
		}
	}
	for _, t := range r.tasks {
		if t.EventID == eventID {
			b.Tasks = append(b.Tasks, *t)
		}
	}
	sort.Slice(b.Lists, func(i, j int) bool { return b.Lists[i].Position < b.Lists[j].Position })
	sort.Slice(b.Tasks, func(i, j int) bool {
		if b.Tasks[i].ListID != b.Tasks[j].ListID {
			return b.Tasks[i].ListID < b.Tasks[j].ListID
		}
		return b.Tasks[i].Position < b.Tasks[j].Position
	})
	return b, nil
}

func (r *fakeTaskRepo) CreateList(_ context.Context, eventID int64, title string) (dom.TaskList, error) {
	r.nextList++
	pos := 1
	for _, l := range r.lists {
		if l.EventID == eventID {
			pos++
		}
	}
	l := dom.TaskList{ID: r.nextList, EventID: eventID, Title: title, Position: pos, CreatedAt: time.Now()}
	r.lists[l.ID] = &l
	return l, nil
}

func (r *fakeTaskRepo) GetList(_ context.Context, listID int64) (dom.TaskList, error) {
	l, ok := r.lists[listID]
	if !ok {
		return dom.TaskList{}, pgx.ErrNoRows
	}
	return *l, nil
}

func (r *fakeTaskRepo) RenameList(_ context.Context, listID int64, title string) (dom.TaskList, error) {
	l, ok := r.lists[listID]
	if !ok {
		return dom.TaskList{}, pgx.ErrNoRows
	}
	l.Title = title
	return *l, nil
}

func (r *fakeTaskRepo) MoveList(_ context.Context, listID int64, position int) (dom.TaskList, error) {
	l, ok := r.lists[listID]
	if !ok {
		return dom.TaskList{}, pgx.ErrNoRows
	}
	var siblings []*dom.TaskList
	for _, s := range r.lists {
		if s.EventID == l.EventID && s.ID != listID {
			siblings = append(siblings, s)
		}
	}
	sort.Slice(siblings, func(i, j int) bool { return siblings[i].Position < siblings[j].Position })
	if position < 1 {
		position = 1
	}
	if position > len(siblings)+1 {
		position = len(siblings) + 1
	}
	pos := 1
	for i := 0; i <= len(siblings); i++ {
		if i+1 == position {
			l.Position = pos
			pos++
		}
		if i < len(siblings) {
			siblings[i].Position = pos
			pos++
		}
	}
	return *l, nil
}

func (r *fakeTaskRepo) DeleteList(_ context.Context, listID int64) error {
	l, ok := r.lists[listID]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(r.lists, listID)
	for id, t := range r.tasks {
		if t.ListID == listID {
			delete(r.tasks, id)
		}
	}
	for _, s := range r.lists {
		if s.EventID == l.EventID && s.Position > l.Position {
			s.Position--
		}
	}
	return nil
}

func (r *fakeTaskRepo) CreateTask(_ context.Context, t dom.Task) (dom.Task, error) {
	r.nextTask++
	t.ID = r.nextTask
	t.Position = 1
	for _, x := range r.tasks {
		if x.ListID == t.ListID {
			t.Position++
		}
	}
	t.CreatedAt = time.Now()
	cp := t
	r.tasks[t.ID] = &cp
	return t, nil
}

func (r *fakeTaskRepo) GetTask(_ context.Context, taskID int64) (dom.Task, error) {
	t, ok := r.tasks[taskID]
	if !ok {
		return dom.Task{}, pgx.ErrNoRows
	}
	return *t, nil
}

func (r *fakeTaskRepo) UpdateTask(_ context.Context, taskID int64, patch dom.Task) (dom.Task, error) {
	t, ok := r.tasks[taskID]
	if !ok {
		return dom.Task{}, pgx.ErrNoRows
	}
	patch.ID = taskID
	patch.ListID = t.ListID
	patch.Position = t.Position
	*t = patch
	return *t, nil
}

func (r *fakeTaskRepo) MoveTask(_ context.Context, taskID, toListID int64, position int) (dom.Task, error) {
	t, ok := r.tasks[taskID]
	if !ok {
		return dom.Task{}, pgx.ErrNoRows
	}
	to, ok := r.lists[toListID]
	if !ok {
		return dom.Task{}, pgx.ErrNoRows
	}
	if to.EventID != t.EventID {
		return dom.Task{}, repo.ErrCrossEventMove
	}
	for _, x := range r.tasks {
		if x.ListID == t.ListID && x.Position > t.Position {
			x.Position--
		}
	}
	n := 0
	for _, x := range r.tasks {
		if x.ListID == toListID && x.ID != taskID {
			n++
		}
	}
	if position < 1 {
		position = 1
	}
	if position > n+1 {
		position = n + 1
	}
	for _, x := range r.tasks {
		if x.ListID == toListID && x.ID != taskID && x.Position >= position {
			x.Position++
		}
	}
	t.ListID = toListID
	t.Position = position
	return *t, nil
}

func (r *fakeTaskRepo) DeleteTask(_ context.Context, taskID int64) error {
	t, ok := r.tasks[taskID]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(r.tasks, taskID)
	for _, x := range r.tasks {
		if x.ListID == t.ListID && x.Position > t.Position {
			x.Position--
		}
	}
	return nil
}

func newTaskFixture(t *testing.T) (*TaskService, *fakeTaskRepo, *fakeEventRepo, *capturePub, dom.Event) {
	t.Helper()
	events := newFakeEventRepo()
	e := events.seed(organizerID)
	_, err := events.AddParticipant(context.Background(), e.ID, memberID, dom.RoleMember)
	require.NoError(t, err)
	tasks := newFakeTaskRepo()
	pub := &capturePub{}
	eventSvc := NewEventService(events, pub)
	return NewTaskService(tasks, eventSvc, nil, pub), tasks, events, pub, e
}

func TestCreateListAppendsPosition(t *testing.T) {
	svc, _, _, pub, e := newTaskFixture(t)
	ctx := context.Background()

	l1, err := svc.CreateList(ctx, memberID, e.ID, "Todo")
	require.NoError(t, err)
	l2, err := svc.CreateList(ctx, memberID, e.ID, "Done")
	require.NoError(t, err)
	assert.Equal(t, 1, l1.Position)
	assert.Equal(t, 2, l2.Position)

	msg, ok := pub.last()
	require.True(t, ok)
	assert.Equal(t, realtime.TypeListCreated, msg.Type)

	_, err = svc.CreateList(ctx, strangerID, e.ID, "Nope")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestBoardTitlesRequired(t *testing.T) {
	svc, _, _, _, e := newTaskFixture(t)
	ctx := context.Background()

	_, err := svc.CreateList(ctx, memberID, e.ID, "  ")
	assert.ErrorIs(t, err, ErrTitleRequired)

	l, err := svc.CreateList(ctx, memberID, e.ID, "Todo")
	require.NoError(t, err)
	_, err = svc.RenameList(ctx, memberID, l.ID, " \t")
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = svc.CreateTask(ctx, memberID, l.ID, "   ", "", nil, nil)
	assert.ErrorIs(t, err, ErrTitleRequired)

	task, err := svc.CreateTask(ctx, memberID, l.ID, "Buy food", "", nil, nil)
	require.NoError(t, err)
	blank := "  "
	_, err = svc.UpdateTask(ctx, memberID, task.ID, &blank, nil, nil, false, nil, nil)
	assert.ErrorIs(t, err, ErrTitleRequired)
}

func TestCreateTaskChecksAssignee(t *testing.T) {
	svc, _, _, _, e := newTaskFixture(t)
	ctx := context.Background()

	l, err := svc.CreateList(ctx, memberID, e.ID, "Todo")
	require.NoError(t, err)

	outsider := strangerID
	_, err = svc.CreateTask(ctx, memberID, l.ID, "Buy food", "", &outsider, nil)
	assert.ErrorIs(t, err, ErrAssigneeNotParticipant)

	assignee := organizerID
	task, err := svc.CreateTask(ctx, memberID, l.ID, "Buy food", "", &assignee, nil)
	require.NoError(t, err)
	require.NotNil(t, task.AssigneeID)
	assert.Equal(t, organizerID, *task.AssigneeID)
}

func TestUpdateTaskClearAssignee(t *testing.T) {
	svc, _, _, _, e := newTaskFixture(t)
	ctx := context.Background()

	l, err := svc.CreateList(ctx, memberID, e.ID, "Todo")
	require.NoError(t, err)
	assignee := memberID
	task, err := svc.CreateTask(ctx, memberID, l.ID, "Buy food", "", &assignee, nil)
	require.NoError(t, err)

	got, err := svc.UpdateTask(ctx, memberID, task.ID, nil, nil, nil, true, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, got.AssigneeID)

	done := true
	got, err = svc.UpdateTask(ctx, memberID, task.ID, nil, nil, nil, false, nil, &done)
	require.NoError(t, err)
	assert.True(t, got.IsDone)
}

func TestMoveTaskRenumbers(t *testing.T) {
	svc, _, _, pub, e := newTaskFixture(t)
	ctx := context.Background()

	todo, err := svc.CreateList(ctx, memberID, e.ID, "Todo")
	require.NoError(t, err)
	doing, err := svc.CreateList(ctx, memberID, e.ID, "Doing")
	require.NoError(t, err)

	a, err := svc.CreateTask(ctx, memberID, todo.ID, "a", "", nil, nil)
	require.NoError(t, err)
	b, err := svc.CreateTask(ctx, memberID, todo.ID, "b", "", nil, nil)
	require.NoError(t, err)
	c, err := svc.CreateTask(ctx, memberID, todo.ID, "c", "", nil, nil)
	require.NoError(t, err)

	moved, err := svc.MoveTask(ctx, memberID, a.ID, doing.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, doing.ID, moved.ListID)
	assert.Equal(t, 1, moved.Position)

	msg, ok := pub.last()
	require.True(t, ok)
	assert.Equal(t, realtime.TypeTaskMoved, msg.Type)

	// Source list closed the gap.
	board, err := svc.Board(ctx, memberID, e.ID)
	require.NoError(t, err)
	positions := map[int64]int{}
	for _, task := range board.Tasks {
		if task.ListID == todo.ID {
			positions[task.ID] = task.Position
		}
	}
	assert.Equal(t, map[int64]int{b.ID: 1, c.ID: 2}, positions)
}

func TestMoveTaskToForeignEvent(t *testing.T) {
	svc, _, events, _, e := newTaskFixture(t)
	ctx := context.Background()

	other := events.seed(organizerID)
	foreign, err := svc.CreateList(ctx, organizerID, other.ID, "Elsewhere")
	require.NoError(t, err)

	l, err := svc.CreateList(ctx, memberID, e.ID, "Todo")
	require.NoError(t, err)
	task, err := svc.CreateTask(ctx, memberID, l.ID, "a", "", nil, nil)
	require.NoError(t, err)

	_, err = svc.MoveTask(ctx, memberID, task.ID, foreign.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteListCascades(t *testing.T) {
	svc, _, _, _, e := newTaskFixture(t)
	ctx := context.Background()

	l, err := svc.CreateList(ctx, memberID, e.ID, "Todo")
	require.NoError(t, err)
	task, err := svc.CreateTask(ctx, memberID, l.ID, "a", "", nil, nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteList(ctx, memberID, l.ID))

	_, err = svc.UpdateTask(ctx, memberID, task.ID, nil, nil, nil, false, nil, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMoveListClampsPosition(t *testing.T) {
	svc, _, _, _, e := newTaskFixture(t)
	ctx := context.Background()

	l1, err := svc.CreateList(ctx, memberID, e.ID, "One")
	require.NoError(t, err)
	_, err = svc.CreateList(ctx, memberID, e.ID, "Two")
	require.NoError(t, err)

	moved, err := svc.MoveList(ctx, memberID, l1.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, 2, moved.Position)
}
