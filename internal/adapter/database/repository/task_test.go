package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"taskhub/internal/adapter/database"
	"taskhub/internal/adapter/database/repository"
	"taskhub/internal/core/domain"
	"taskhub/internal/core/port"
	. "taskhub/pkg/test"
	"taskhub/pkg/test/factory"
)

type TaskRepositoryTestSuite struct {
	suite.Suite
	db    *database.DB
	repo  port.TaskRepository
	owner domain.User
	other domain.User
}

func (s *TaskRepositoryTestSuite) SetupTest() {
	s.db = InitTestDB()
	s.repo = repository.NewTaskRepository(s.db, nil)

	users := repository.NewUserRepository(s.db, nil)
	s.owner, _ = users.Create(context.Background(), factory.NewUser())
	s.other, _ = users.Create(context.Background(), factory.NewUser())
}

func (s *TaskRepositoryTestSuite) TearDownTest() {
	s.db.Close()
}

func TestTaskRepositoryTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TaskRepositoryTestSuite))
}

func (s *TaskRepositoryTestSuite) TestCreate_AndGetOwned() {
	ctx := context.Background()
	due := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	task := factory.NewTask(s.owner.ID, map[string]any{
		"Title":         "Buy milk",
		"DueDate":       &due,
		"Collaborators": []uuid.UUID{s.other.ID},
	})

	_, err := s.repo.Create(ctx, task)
	require.NoError(s.T(), err)

	found, err := s.repo.GetOwned(ctx, task.ID, s.owner.ID)
	require.NoError(s.T(), err)

	Expect(found.Title).To(Equal("Buy milk"))
	Expect(*found.Status).To(Equal(domain.TaskStatusToDo))
	Expect(*found.Priority).To(Equal(domain.TaskPriorityMedium))
	Expect(*found.Points).To(Equal(0))
	Expect(found.Collaborators).To(Equal([]uuid.UUID{s.other.ID}))
	Expect(found.DueDate.Equal(due)).To(BeTrue())
}

func (s *TaskRepositoryTestSuite) TestGetOwned_OtherOwnerIsNotFound() {
	ctx := context.Background()
	task := factory.NewTask(s.owner.ID)
	_, _ = s.repo.Create(ctx, task)

	_, err := s.repo.GetOwned(ctx, task.ID, s.other.ID)
	Expect(err).To(MatchError(port.ErrNotFound))
}

func (s *TaskRepositoryTestSuite) TestCreate_StoresNulls() {
	ctx := context.Background()
	task := factory.NewTask(s.owner.ID, map[string]any{
		"Description": (*string)(nil),
		"Priority":    (*domain.TaskPriority)(nil),
		"Points":      (*int)(nil),
	})
	_, err := s.repo.Create(ctx, task)
	require.NoError(s.T(), err)

	found, err := s.repo.GetOwned(ctx, task.ID, s.owner.ID)
	require.NoError(s.T(), err)
	Expect(found.Description).To(BeNil())
	Expect(found.Priority).To(BeNil())
	Expect(found.Points).To(BeNil())
	Expect(found.Collaborators).To(BeEmpty())
	Expect(found.Collaborators).NotTo(BeNil())
}

func (s *TaskRepositoryTestSuite) TestListByOwner_NewestFirst() {
	ctx := context.Background()
	now := time.Now().UTC()

	older := factory.NewTask(s.owner.ID, map[string]any{"Title": "older", "CreatedAt": now.Add(-time.Hour)})
	newer := factory.NewTask(s.owner.ID, map[string]any{"Title": "newer", "CreatedAt": now})
	foreign := factory.NewTask(s.other.ID)

	for _, task := range []domain.Task{older, newer, foreign} {
		_, err := s.repo.Create(ctx, task)
		require.NoError(s.T(), err)
	}

	tasks, err := s.repo.ListByOwner(ctx, s.owner.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), tasks, 2)
	assert.Equal(s.T(), "newer", tasks[0].Title)
	assert.Equal(s.T(), "older", tasks[1].Title)
}

func (s *TaskRepositoryTestSuite) TestListCollaborative_UnionWithoutDuplicates() {
	ctx := context.Background()

	users := repository.NewUserRepository(s.db, nil)
	third, _ := users.Create(ctx, factory.NewUser())

	owned := factory.NewTask(s.owner.ID, map[string]any{"Collaborators": []uuid.UUID{s.other.ID, third.ID}})
	shared := factory.NewTask(s.other.ID, map[string]any{"Collaborators": []uuid.UUID{s.owner.ID, third.ID}})
	unrelated := factory.NewTask(s.other.ID)

	for _, task := range []domain.Task{owned, shared, unrelated} {
		_, err := s.repo.Create(ctx, task)
		require.NoError(s.T(), err)
	}

	tasks, err := s.repo.ListCollaborative(ctx, s.owner.ID)
	require.NoError(s.T(), err)

	ids := []uuid.UUID{}
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}

	Expect(ids).To(ConsistOf(owned.ID, shared.ID))
}

func (s *TaskRepositoryTestSuite) TestUpdate_ReplacesColumnsAndCollaborators() {
	ctx := context.Background()
	task := factory.NewTask(s.owner.ID, map[string]any{"Collaborators": []uuid.UUID{s.other.ID}})
	_, _ = s.repo.Create(ctx, task)

	high := domain.TaskPriorityHigh
	task.Title = "Renamed"
	task.Priority = &high
	task.Description = nil
	task.Collaborators = []uuid.UUID{}

	_, err := s.repo.Update(ctx, task)
	require.NoError(s.T(), err)

	found, err := s.repo.GetOwned(ctx, task.ID, s.owner.ID)
	require.NoError(s.T(), err)
	Expect(found.Title).To(Equal("Renamed"))
	Expect(*found.Priority).To(Equal(domain.TaskPriorityHigh))
	Expect(found.Description).To(BeNil())
	Expect(found.Collaborators).To(BeEmpty())
}

func (s *TaskRepositoryTestSuite) TestUpdate_WrongOwner() {
	ctx := context.Background()
	task := factory.NewTask(s.owner.ID)
	_, _ = s.repo.Create(ctx, task)

	task.UserID = s.other.ID
	_, err := s.repo.Update(ctx, task)
	Expect(err).To(MatchError(port.ErrNotFound))
}

func (s *TaskRepositoryTestSuite) TestDelete() {
	ctx := context.Background()
	task := factory.NewTask(s.owner.ID, map[string]any{"Collaborators": []uuid.UUID{s.other.ID}})
	_, _ = s.repo.Create(ctx, task)

	Expect(s.repo.Delete(ctx, task.ID, s.other.ID)).To(MatchError(port.ErrNotFound))
	Expect(s.repo.Delete(ctx, task.ID, s.owner.ID)).To(Succeed())

	_, err := s.repo.GetOwned(ctx, task.ID, s.owner.ID)
	Expect(err).To(MatchError(port.ErrNotFound))

	tasks, err := s.repo.ListCollaborative(ctx, s.other.ID)
	require.NoError(s.T(), err)
	Expect(tasks).To(BeEmpty())
}
