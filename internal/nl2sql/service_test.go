package nl2sql

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChat struct {
	answer     string
	lastPrompt string
	failWith   error
}

func (f *fakeChat) Complete(_ context.Context, prompt string) (string, error) {
	if f.failWith != nil {
		return "", f.failWith
	}
	f.lastPrompt = prompt
	return f.answer, nil
}

func (f *fakeChat) Name() string { return "fake" }

func TestService_Translate(t *testing.T) {
	chat := &fakeChat{answer: "SELECT name FROM users WHERE age > 30;"}
	svc := NewService(chat)

	result, err := svc.Translate(context.Background(), "List users older than 30")
	require.NoError(t, err)

	assert.Equal(t, "SELECT name FROM users WHERE age > 30;", result.SQL)
	assert.Equal(t, "[MOCKED] DB results would appear here.", result.Result)
	assert.Contains(t, chat.lastPrompt, "Question: List users older than 30")
}

func TestService_Translate_ChatFailure(t *testing.T) {
	svc := NewService(&fakeChat{failWith: errors.New("model unavailable")})

	_, err := svc.Translate(context.Background(), "anything")
	assert.Error(t, err)
}
