package calendar

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"dekcal/internal/models"
)

// appleScriptDateLayout is the date literal format the Calendar scripting
// dictionary accepts.
const appleScriptDateLayout = "01/02/2006 03:04:05 PM"

// runner executes one AppleScript and returns its trimmed stdout.
type runner interface {
	run(ctx context.Context, script string) (string, error)
}

type osascriptRunner struct {
	bin string
}

func (r osascriptRunner) run(ctx context.Context, script string) (string, error) {
	out, err := exec.CommandContext(ctx, r.bin, "-e", script).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("osascript: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("osascript: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// AppleScriptStore talks to the macOS Calendar app through osascript.
type AppleScriptStore struct {
	runner runner
}

// NewAppleScriptStore creates a store backed by the given osascript binary.
func NewAppleScriptStore(bin string) *AppleScriptStore {
	return &AppleScriptStore{runner: osascriptRunner{bin: bin}}
}

// EventExists queries the named calendar for an event with the given start
// and title.
func (s *AppleScriptStore) EventExists(ctx context.Context, calendarName, title string, start time.Time) (bool, error) {
	out, err := s.runner.run(ctx, existsScript(calendarName, title, start))
	if err != nil {
		return false, err
	}
	return out == "true", nil
}

// CreateEvent creates a new event for the game in its calendar bucket.
func (s *AppleScriptStore) CreateEvent(ctx context.Context, game *models.Game) error {
	_, err := s.runner.run(ctx, createScript(game))
	return err
}

func existsScript(calendarName, title string, start time.Time) string {
	return fmt.Sprintf(`tell application "Calendar"
	tell calendar "%s"
		set eventExists to false
		set checkDate to date "%s"
		repeat with evt in (every event whose start date is checkDate)
			if summary of evt is "%s" then
				set eventExists to true
				exit repeat
			end if
		end repeat
		return eventExists
	end tell
end tell`, escape(calendarName), start.Format(appleScriptDateLayout), escape(title))
}

func createScript(game *models.Game) string {
	return fmt.Sprintf(`tell application "Calendar"
	tell calendar "%s"
		make new event with properties {summary:"%s", start date:date "%s", end date:date "%s", location:"%s", description:"%s"}
	end tell
end tell`,
		escape(game.Calendar),
		escape(game.Title),
		game.Start.Format(appleScriptDateLayout),
		game.End.Format(appleScriptDateLayout),
		escape(game.Location),
		escape(game.Notes),
	)
}

// escape backslash-escapes AppleScript string literal metacharacters.
// Team and venue names come straight off the website.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}
