package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dekcal/internal/models"
)

// fakeRunner captures scripts instead of shelling out to osascript.
type fakeRunner struct {
	scripts []string
	out     string
	err     error
}

func (f *fakeRunner) run(_ context.Context, script string) (string, error) {
	f.scripts = append(f.scripts, script)
	return f.out, f.err
}

func TestAppleScriptStore_EventExists(t *testing.T) {
	start := time.Date(2024, time.December, 15, 18, 0, 0, 0, time.Local)

	t.Run("true output", func(t *testing.T) {
		r := &fakeRunner{out: "true"}
		s := &AppleScriptStore{runner: r}

		exists, err := s.EventExists(context.Background(), "Dek St-Aug", "game Hockey", start)
		require.NoError(t, err)
		assert.True(t, exists)

		require.Len(t, r.scripts, 1)
		script := r.scripts[0]
		assert.Contains(t, script, `tell calendar "Dek St-Aug"`)
		assert.Contains(t, script, `date "12/15/2024 06:00:00 PM"`)
		assert.Contains(t, script, `if summary of evt is "game Hockey"`)
	})

	t.Run("false output", func(t *testing.T) {
		r := &fakeRunner{out: "false"}
		s := &AppleScriptStore{runner: r}

		exists, err := s.EventExists(context.Background(), "Dek St-Aug", "game Hockey", start)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("runner failure", func(t *testing.T) {
		r := &fakeRunner{err: errors.New("osascript: execution error")}
		s := &AppleScriptStore{runner: r}

		_, err := s.EventExists(context.Background(), "Dek St-Aug", "game Hockey", start)
		assert.Error(t, err)
	})
}

func TestAppleScriptStore_CreateEvent(t *testing.T) {
	r := &fakeRunner{}
	s := &AppleScriptStore{runner: r}

	start := time.Date(2024, time.December, 15, 18, 0, 0, 0, time.Local)
	game := models.Game{
		Title:    "game Hockey",
		Start:    start,
		End:      start.Add(50 * time.Minute),
		Calendar: "Dek St-Aug",
		Notes:    "Team A @ Team B\nArena",
	}

	require.NoError(t, s.CreateEvent(context.Background(), &game))

	require.Len(t, r.scripts, 1)
	script := r.scripts[0]
	assert.Contains(t, script, `tell calendar "Dek St-Aug"`)
	assert.Contains(t, script, `summary:"game Hockey"`)
	assert.Contains(t, script, `start date:date "12/15/2024 06:00:00 PM"`)
	assert.Contains(t, script, `end date:date "12/15/2024 06:50:00 PM"`)
	assert.Contains(t, script, `location:""`)
	assert.Contains(t, script, "description:\"Team A @ Team B\nArena\"")
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain`, `plain`},
		{`Les "Bleus"`, `Les \"Bleus\"`},
		{`back\slash`, `back\\slash`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, escape(tt.in), "escape(%q)", tt.in)
	}
}

func TestAppleScriptDateFormat_MorningHour(t *testing.T) {
	start := time.Date(2025, time.January, 2, 9, 5, 0, 0, time.Local)
	assert.Equal(t, "01/02/2025 09:05:00 AM", start.Format(appleScriptDateLayout))
}
