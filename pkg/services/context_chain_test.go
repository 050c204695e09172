package services

import (
	"context"
	"errors"
	"testing"

	"NeuraFlow/models"
	"NeuraFlow/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFinder struct {
	conv  *models.Conversation
	err   error
	calls int
}

func (f *fakeFinder) LatestForOwner(_ context.Context, _ uint) (*models.Conversation, error) {
	f.calls++
	return f.conv, f.err
}

func strPtr(s string) *string { return &s }
func uintPtr(u uint) *uint    { return &u }

func TestResolveExplicitWins(t *testing.T) {
	finder := &fakeFinder{conv: &models.Conversation{Messages: []models.Message{{Role: models.RoleAssistant, Content: "stored"}}}}
	chain := NewContextChain(finder, nil)

	for _, explicit := range []string{"client held", ""} {
		got := chain.ResolvePreviousOutput(context.Background(), strPtr(explicit), uintPtr(1))
		require.NotNil(t, got)
		assert.Equal(t, explicit, *got)
	}
	assert.Zero(t, finder.calls, "fallback must not run when previous output is explicit")
}

func TestResolveFallsBackToLatestAssistantMessage(t *testing.T) {
	finder := &fakeFinder{conv: &models.Conversation{Messages: []models.Message{
		{Role: models.RoleAssistant, Content: "first"},
		{Role: models.RoleAssistant, Content: "C"},
		{Role: models.RoleUser, Content: "follow-up question"},
	}}}
	got := NewContextChain(finder, nil).ResolvePreviousOutput(context.Background(), nil, uintPtr(1))
	require.NotNil(t, got)
	assert.Equal(t, "C", *got)
	assert.Equal(t, 1, finder.calls)
}

func TestResolveNone(t *testing.T) {
	tests := []struct {
		name      string
		finder    *fakeFinder
		requester *uint
	}{
		{name: "anonymous", finder: &fakeFinder{}, requester: nil},
		{name: "no conversation", finder: &fakeFinder{err: store.ErrNotFound}, requester: uintPtr(1)},
		{name: "lookup failure swallowed", finder: &fakeFinder{err: errors.New("db down")}, requester: uintPtr(1)},
		{name: "no assistant message", finder: &fakeFinder{conv: &models.Conversation{Messages: []models.Message{{Role: models.RoleUser, Content: "hi"}}}}, requester: uintPtr(1)},
		{name: "empty conversation", finder: &fakeFinder{conv: &models.Conversation{}}, requester: uintPtr(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewContextChain(tt.finder, nil).ResolvePreviousOutput(context.Background(), nil, tt.requester)
			assert.Nil(t, got)
		})
	}
}
