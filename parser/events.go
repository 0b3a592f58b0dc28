package parser

import (
	"strconv"
	"strings"

	"github.com/kestrel-play/taskcheck/evaluate"
	"github.com/kestrel-play/taskcheck/lex"
	"github.com/kestrel-play/taskcheck/log"
	"github.com/kestrel-play/taskcheck/matrix"
	"github.com/kestrel-play/taskcheck/model"
	"github.com/kestrel-play/taskcheck/scene"
)

const (
	gameOverPrefix     = "Game Over: "
	sessionEndedPrefix = "Session ended"
	attackPrefix       = "attack "
	attackedPrefix     = "attacked "
	positionKeyword    = "position:"
)

// RunEvents drives the event stream (spec.md §4.F) against sc, testing
// every configured condition after each recognized event and crediting
// m accordingly. It stops at EOF or a "Session ended" line, whichever
// comes first — both are a normal (non-error) end of the loop.
func RunEvents(sc *scene.Scene, task *model.Task, lines []string, startLineNo int) (*matrix.SatisfactionMatrix, error) {
	m := matrix.New(len(task.Conditions), len(sc.Objects))

	for i, raw := range lines {
		lineNo := startLineNo + i
		line := lex.BoundedCopy(raw)
		if strings.TrimSpace(line) == "" {
			continue
		}

		if strings.HasPrefix(strings.TrimSpace(line), sessionEndedPrefix) {
			log.Debug("session ended", log.F("line", lineNo))
			return m, nil
		}

		tail, ok := stripTimestamp(line)
		if !ok {
			return nil, lineErrorf(lineNo, "expected a [timestamp] prefix, got %q", line)
		}
		tail = strings.TrimSpace(tail)

		ev, err := dispatch(sc, tail, lineNo)
		if err != nil {
			return nil, err
		}
		if ev == nil {
			// Game Over with a non-"Win" value: ignored, no evaluation.
			continue
		}

		evaluateAll(task, sc, m, *ev)
	}

	return m, nil
}

// stripTimestamp recognizes the leading "[t]" token and returns the
// trimmed remainder of the line.
func stripTimestamp(line string) (string, bool) {
	if len(line) == 0 || line[0] != '[' {
		return "", false
	}
	end := strings.IndexByte(line, ']')
	if end < 0 {
		return "", false
	}
	if _, err := strconv.ParseUint(line[1:end], 10, 64); err != nil {
		return "", false
	}
	return line[end+1:], true
}

// dispatch recognizes the event kind from tail's leading token and
// resolves it into an evaluate.Event, mutating sc for position
// updates. A nil, nil return means the line was recognized but
// produces no evaluation (an ignored Game Over).
func dispatch(sc *scene.Scene, tail string, lineNo int) (*evaluate.Event, error) {
	switch {
	case strings.Contains(tail, positionKeyword) || isPlayerOnlyPositionLine(tail):
		if err := applyPositions(sc, tail, lineNo); err != nil {
			return nil, err
		}
		return &evaluate.Event{}, nil

	case strings.HasPrefix(tail, attackedPrefix):
		return dispatchAttacked(sc, tail, lineNo)

	case strings.HasPrefix(tail, attackPrefix):
		return dispatchAttack(sc, tail, lineNo)

	case strings.Contains(tail, "died"):
		return dispatchDied(sc, tail, lineNo)

	case strings.HasPrefix(tail, gameOverPrefix):
		value := strings.TrimSpace(tail[len(gameOverPrefix):])
		if value != "Win" {
			return nil, nil
		}
		return &evaluate.Event{Won: true}, nil

	default:
		return nil, lineErrorf(lineNo, "unrecognized event line %q", tail)
	}
}

// isPlayerOnlyPositionLine recognizes a position line consisting
// solely of the Player's bare "Player (x,y)" entry, which carries no
// "position:" keyword at all.
func isPlayerOnlyPositionLine(tail string) bool {
	return strings.HasPrefix(strings.TrimSpace(tail), "Player (")
}

// applyPositions parses a ';'-separated list of "ID position: (x,y)"
// or "Player (x,y)" entries and updates the matching scene objects.
func applyPositions(sc *scene.Scene, tail string, lineNo int) error {
	for _, entry := range strings.Split(tail, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		var id, posStr string
		if idx := strings.Index(entry, positionKeyword); idx >= 0 {
			id = strings.TrimSpace(entry[:idx])
			posStr = strings.TrimSpace(entry[idx+len(positionKeyword):])
		} else if strings.HasPrefix(entry, "Player") {
			id = "Player"
			posStr = strings.TrimSpace(entry[len("Player"):])
		} else {
			return lineErrorf(lineNo, "malformed position entry %q", entry)
		}

		pos, err := lex.ParseCoords(posStr)
		if err != nil {
			return lineErrorf(lineNo, "invalid position in %q: %v", entry, err)
		}

		idx, ok := sc.IndexByID(id)
		if !ok {
			return lineErrorf(lineNo, "unknown object id %q", id)
		}
		obj := &sc.Objects[idx]
		obj.PrevPos = obj.Pos
		obj.Pos = pos
	}
	return nil
}

// dispatchAttack parses "attack attacker target dmg target_name...".
func dispatchAttack(sc *scene.Scene, tail string, lineNo int) (*evaluate.Event, error) {
	fields := strings.Fields(strings.TrimPrefix(tail, attackPrefix))
	if len(fields) < 3 {
		return nil, lineErrorf(lineNo, "malformed attack event %q", tail)
	}
	attackerIdx, ok := sc.IndexByID(fields[0])
	if !ok {
		return nil, lineErrorf(lineNo, "unknown object id %q", fields[0])
	}
	targetIdx, ok := sc.IndexByID(fields[1])
	if !ok {
		return nil, lineErrorf(lineNo, "unknown object id %q", fields[1])
	}
	dmg, err := lex.ParseFloatOrZero(fields[2])
	if err != nil {
		return nil, lineErrorf(lineNo, "invalid damage %q: %v", fields[2], err)
	}

	return &evaluate.Event{
		Primary: attackerIdx, HasPrimary: true,
		Secondary: targetIdx, HasSecondary: true,
		Arg: dmg,
	}, nil
}

// dispatchAttacked parses "attacked target..., dmg, ...".
func dispatchAttacked(sc *scene.Scene, tail string, lineNo int) (*evaluate.Event, error) {
	payload := strings.TrimPrefix(tail, attackedPrefix)
	parts := strings.Split(payload, ",")
	if len(parts) < 2 {
		return nil, lineErrorf(lineNo, "malformed attacked event %q", tail)
	}

	targetField := strings.Fields(strings.TrimSpace(parts[0]))
	if len(targetField) == 0 {
		return nil, lineErrorf(lineNo, "malformed attacked event %q", tail)
	}
	targetIdx, ok := sc.IndexByID(targetField[0])
	if !ok {
		return nil, lineErrorf(lineNo, "unknown object id %q", targetField[0])
	}

	dmg, err := lex.ParseFloatOrZero(parts[1])
	if err != nil {
		return nil, lineErrorf(lineNo, "invalid damage %q: %v", parts[1], err)
	}

	return &evaluate.Event{Primary: targetIdx, HasPrimary: true, Arg: dmg}, nil
}

// dispatchDied resolves the victim id, the first whitespace-delimited
// token of tail.
func dispatchDied(sc *scene.Scene, tail string, lineNo int) (*evaluate.Event, error) {
	fields := strings.Fields(tail)
	if len(fields) == 0 {
		return nil, lineErrorf(lineNo, "malformed died event %q", tail)
	}
	victimIdx, ok := sc.IndexByID(fields[0])
	if !ok {
		return nil, lineErrorf(lineNo, "unknown object id %q", fields[0])
	}
	return &evaluate.Event{Primary: victimIdx, HasPrimary: true}, nil
}

// evaluateAll runs every configured condition, in n-order, against ev
// and credits m per spec.md §4.H's no-later-wins rule.
func evaluateAll(task *model.Task, sc *scene.Scene, m *matrix.SatisfactionMatrix, ev evaluate.Event) {
	for i, cond := range task.Conditions {
		matched, actor := evaluate.Test(cond, sc, ev)
		if !matched {
			continue
		}
		if cond.Kind == model.GameWon {
			m.CreditAll(i)
		} else {
			m.Credit(i, actor)
		}
	}
}
