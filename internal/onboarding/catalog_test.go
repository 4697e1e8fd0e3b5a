package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, "welcome", c.Head())
	assert.Equal(t, 10, c.Len())
	assert.Equal(t, 8, c.FieldCount())

	t.Run("chain order", func(t *testing.T) {
		want := []string{
			"welcome",
			"programming_level",
			"languages_known",
			"ai_experience",
			"web_dev_experience",
			"robotics_experience",
			"electronics_familiarity",
			"hardware_access",
			"learning_goals",
			"summary",
		}
		var got []string
		for id := c.Head(); id != ""; id = c.Get(id).NextID {
			got = append(got, id)
		}
		assert.Equal(t, want, got)
	})

	t.Run("terminal is confirmation", func(t *testing.T) {
		q := c.Get("summary")
		require.NotNil(t, q)
		assert.Equal(t, KindConfirmation, q.Kind)
		assert.Empty(t, q.NextID)
		assert.False(t, q.HasField())
	})

	t.Run("boolean transform only on robotics_experience", func(t *testing.T) {
		for id := c.Head(); id != ""; id = c.Get(id).NextID {
			q := c.Get(id)
			assert.Equal(t, id == "robotics_experience", q.BoolValue, "question %s", id)
		}
	})

	t.Run("select questions declare options and a field", func(t *testing.T) {
		for id := c.Head(); id != ""; id = c.Get(id).NextID {
			q := c.Get(id)
			switch q.Kind {
			case KindSingleSelect, KindMultiSelect:
				assert.NotEmpty(t, q.Options, "question %s", id)
				assert.True(t, q.HasField(), "question %s", id)
			case KindGreeting, KindConfirmation:
				assert.False(t, q.HasField(), "question %s", id)
			}
		}
	})
}

func TestCatalogGet(t *testing.T) {
	c := DefaultCatalog()

	assert.NotNil(t, c.Get("programming_level"))
	assert.Nil(t, c.Get("no_such_question"))
}

func TestNewCatalogValidation(t *testing.T) {
	tests := []struct {
		name      string
		questions []Question
		wantErr   string
	}{
		{
			name:    "empty catalog",
			wantErr: "must not be empty",
		},
		{
			name: "dangling next pointer",
			questions: []Question{
				{ID: "a", Kind: KindGreeting, NextID: "missing"},
				{ID: "b", Kind: KindConfirmation},
			},
			wantErr: "unknown next id",
		},
		{
			name: "two terminals",
			questions: []Question{
				{ID: "a", Kind: KindGreeting},
				{ID: "b", Kind: KindConfirmation},
			},
			wantErr: "exactly one terminal",
		},
		{
			name: "duplicate id",
			questions: []Question{
				{ID: "a", Kind: KindGreeting, NextID: "a"},
				{ID: "a", Kind: KindConfirmation},
			},
			wantErr: "duplicate question id",
		},
		{
			name: "cycle",
			questions: []Question{
				{ID: "a", Kind: KindGreeting, NextID: "b"},
				{ID: "b", Kind: KindSingleSelect, NextID: "a"},
				{ID: "c", Kind: KindConfirmation},
			},
			wantErr: "cycle",
		},
		{
			name: "disconnected terminal",
			questions: []Question{
				{ID: "a", Kind: KindGreeting, NextID: "b"},
				{ID: "b", Kind: KindSingleSelect, NextID: "a"},
				{ID: "c", Kind: KindConfirmation},
			},
			wantErr: "cycle",
		},
		{
			name: "valid chain",
			questions: []Question{
				{ID: "a", Kind: KindGreeting, NextID: "b"},
				{ID: "b", Kind: KindConfirmation},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCatalog(tt.questions)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.NotNil(t, c)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Nil(t, c)
		})
	}
}
