package user

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thenoetrevino/studio/internal/models"
)

func TestCurrentName(t *testing.T) {
	t.Setenv(Env, "  alice ")
	assert.Equal(t, "alice", CurrentName())

	t.Setenv(Env, "")
	assert.NotEmpty(t, CurrentName())
}

func TestFind(t *testing.T) {
	users := []*models.User{
		{ID: 1, Name: "Alice", Email: "alice@example.com"},
		{ID: 2, Name: "Bob Stone", Email: "bstone@example.com"},
		{ID: 3, Name: "NoMail"},
	}

	tests := []struct {
		login string
		want  int
	}{
		{"alice", 1},
		{"ALICE", 1},
		{"bob stone", 2},
		{"bstone", 2},
		{"nomail", 3},
		{"carol", 0},
		{"", 0},
		{"example.com", 0},
	}
	for _, tt := range tests {
		t.Run(tt.login, func(t *testing.T) {
			got := Find(users, tt.login)
			if tt.want == 0 {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.Equal(t, tt.want, got.ID)
			}
		})
	}
}
