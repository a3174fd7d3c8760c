package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"

	"taskhub/pkg/optional"
)

func TestTask_ApplyDefaults(t *testing.T) {
	RegisterTestingT(t)

	task := NewTask(uuid.New(), "Buy milk", time.Now())
	task.ApplyDefaults()

	Expect(*task.Status).To(Equal(TaskStatusToDo))
	Expect(*task.Priority).To(Equal(TaskPriorityMedium))
	Expect(*task.Category).To(Equal(TaskCategoryGeneral))
	Expect(*task.Points).To(Equal(0))
	Expect(task.Description).To(BeNil())
	Expect(task.DueDate).To(BeNil())
}

func TestTask_ApplyDefaults_KeepsProvidedValues(t *testing.T) {
	RegisterTestingT(t)

	priority := TaskPriorityHigh
	points := 7
	task := NewTask(uuid.New(), "Run", time.Now())
	task.Priority = &priority
	task.Points = &points

	task.ApplyDefaults()

	Expect(*task.Priority).To(Equal(TaskPriorityHigh))
	Expect(*task.Points).To(Equal(7))
}

func TestTask_SetCollaborators_DropsOwnerAndDuplicates(t *testing.T) {
	owner := uuid.New()
	friend := uuid.New()
	other := uuid.New()

	task := NewTask(owner, "Picnic", time.Now())
	task.SetCollaborators([]uuid.UUID{friend, owner, friend, other})

	assert.Equal(t, []uuid.UUID{friend, other}, task.Collaborators)
	assert.True(t, task.IsVisibleTo(owner))
	assert.True(t, task.IsVisibleTo(friend))
	assert.False(t, task.IsVisibleTo(uuid.New()))
}

func TestTaskPatch_Apply(t *testing.T) {
	t.Run("should keep absent fields", func(t *testing.T) {
		RegisterTestingT(t)

		task := NewTask(uuid.New(), "Original", time.Now())
		task.ApplyDefaults()

		TaskPatch{Title: optional.Of("Renamed")}.Apply(&task, time.Now())

		Expect(task.Title).To(Equal("Renamed"))
		Expect(*task.Priority).To(Equal(TaskPriorityMedium))
	})

	t.Run("should clear null fields", func(t *testing.T) {
		RegisterTestingT(t)

		task := NewTask(uuid.New(), "Original", time.Now())
		task.ApplyDefaults()

		TaskPatch{
			Priority: optional.Null[TaskPriority](),
			Points:   optional.Null[int](),
		}.Apply(&task, time.Now())

		Expect(task.Priority).To(BeNil())
		Expect(task.Points).To(BeNil())
		Expect(*task.Status).To(Equal(TaskStatusToDo))
	})

	t.Run("should replace and clear collaborators", func(t *testing.T) {
		RegisterTestingT(t)

		owner := uuid.New()
		friend := uuid.New()
		task := NewTask(owner, "Original", time.Now())
		task.SetCollaborators([]uuid.UUID{uuid.New()})

		TaskPatch{Collaborators: optional.Of([]uuid.UUID{friend, owner})}.Apply(&task, time.Now())
		Expect(task.Collaborators).To(Equal([]uuid.UUID{friend}))

		TaskPatch{Collaborators: optional.Null[[]uuid.UUID]()}.Apply(&task, time.Now())
		Expect(task.Collaborators).To(BeEmpty())
	})

	t.Run("should reject a null title", func(t *testing.T) {
		RegisterTestingT(t)

		err := TaskPatch{Title: optional.Null[string]()}.Validate()

		Expect(err).To(MatchError(ErrTaskTitleCannotBeEmpty))
		Expect(KindOf(err)).To(Equal(KindValidation))
	})

	t.Run("should reject a blank or short title", func(t *testing.T) {
		RegisterTestingT(t)

		Expect(TaskPatch{Title: optional.Of("")}.Validate()).To(MatchError(ErrTaskTitleTooShort))
		Expect(TaskPatch{Title: optional.Of("     ")}.Validate()).To(MatchError(ErrTaskTitleTooShort))
		Expect(TaskPatch{Title: optional.Of(" ab ")}.Validate()).To(MatchError(ErrTaskTitleTooShort))
		Expect(TaskPatch{Title: optional.Of("abc")}.Validate()).To(Succeed())
		Expect(TaskPatch{}.Validate()).To(Succeed())
	})
}
