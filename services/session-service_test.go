package services

import (
	"testing"

	"tracker-bot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCreatesSessionLazily(t *testing.T) {
	store := NewSessionStore()

	session := store.Get(42)
	require.NotNil(t, session)
	assert.Equal(t, int64(42), session.ChatID)
	assert.Nil(t, session.Flow)

	assert.Same(t, session, store.Get(42))
}

func TestAtMostOneFlowPerSession(t *testing.T) {
	store := NewSessionStore()

	store.BeginFlow(1, &models.AddTaskFlow{TaskForm: models.TaskForm{ProjectID: "P1"}})
	store.BeginFlow(1, &models.EditProjectFieldFlow{ProjectID: "P2", Field: models.FieldNotes})

	flow, ok := store.ActiveFlow(1).(*models.EditProjectFieldFlow)
	require.True(t, ok, "the newer flow silently replaces the stale one")
	assert.Equal(t, "P2", flow.ProjectID)
}

func TestClearFlowRemovesEverything(t *testing.T) {
	store := NewSessionStore()
	store.BeginFlow(1, &models.AddTaskFlow{TaskForm: models.TaskForm{
		ProjectID:   "P1",
		Description: "half collected",
	}})

	store.ClearFlow(1)

	assert.Nil(t, store.ActiveFlow(1), "no field survives a clear")
}

func TestResetKeepsSessionButDropsFlow(t *testing.T) {
	store := NewSessionStore()
	store.SetSection(1, models.SectionNone)
	store.BeginFlow(1, &models.AddTaskFlow{})

	store.Reset(1, models.SectionProject)

	session := store.Get(1)
	assert.Equal(t, models.SectionProject, session.Section)
	assert.Nil(t, session.Flow)
}

func TestFlowsAreIsolatedPerChat(t *testing.T) {
	store := NewSessionStore()
	store.BeginFlow(1, &models.AddTaskFlow{})

	assert.Nil(t, store.ActiveFlow(2))
	store.ClearFlow(2)
	assert.NotNil(t, store.ActiveFlow(1))
}
