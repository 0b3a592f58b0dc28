package parser

import (
	"strings"

	"github.com/kestrel-play/taskcheck/lex"
	"github.com/kestrel-play/taskcheck/log"
	"github.com/kestrel-play/taskcheck/model"
	"github.com/kestrel-play/taskcheck/scene"
)

const (
	playerStartPrefix = "Player Start Position"
	sceneHeaderLine   = "ID | Name | Object ID | Type | Position | HP | Damage"
)

// sceneState is the first three states of the four-state log state
// machine (spec.md §4.E): AwaitPlayerStart → AwaitSceneHeader →
// ReadScene. The fourth state, ReadEvents, is driven by RunEvents.
type sceneState int

const (
	stateAwaitPlayerStart sceneState = iota
	stateAwaitSceneHeader
	stateAwaitFirstDash
	stateReadSceneRows
	stateDone
)

// SceneSection is the result of parsing a log's header and scene
// table: the player start position, the materialized data rows, and
// the remaining lines (the event stream, still to be processed by
// RunEvents).
type SceneSection struct {
	PlayerStart model.Point
	Rows        []scene.Row
	EventLines  []string
	EventLineNo int // 1-based line number of EventLines[0] in the original file
}

// ParseSceneSection drives the header/scene portion of the state
// machine over lines already buffered in memory. Per spec.md §9's
// design note, this buffers rather than rewinding-and-rereading a
// file handle: the scene rows are collected in a single pass and
// materialized once the second "---" delimiter is seen.
func ParseSceneSection(lines []string) (*SceneSection, error) {
	state := stateAwaitPlayerStart
	var playerStart model.Point
	var rawRows []string
	var rawRowLineNos []int

	i := 0
scan:
	for ; i < len(lines); i++ {
		lineNo := i + 1
		line := lex.BoundedCopy(lines[i])
		trimmed := strings.TrimSpace(line)

		switch state {
		case stateAwaitPlayerStart:
			if trimmed == "" {
				continue
			}
			if !strings.HasPrefix(trimmed, playerStartPrefix) {
				return nil, lineErrorf(lineNo, "expected %q, got %q", playerStartPrefix, trimmed)
			}
			p, err := parseTrailingCoords(trimmed, playerStartPrefix)
			if err != nil {
				return nil, lineErrorf(lineNo, "invalid player start position: %v", err)
			}
			playerStart = p
			state = stateAwaitSceneHeader

		case stateAwaitSceneHeader:
			if trimmed == "" {
				continue
			}
			if trimmed != sceneHeaderLine {
				return nil, lineErrorf(lineNo, "expected scene header %q, got %q", sceneHeaderLine, trimmed)
			}
			state = stateAwaitFirstDash

		case stateAwaitFirstDash:
			if !isDashLine(trimmed) {
				continue
			}
			state = stateReadSceneRows

		case stateReadSceneRows:
			if isDashLine(trimmed) {
				state = stateDone
				i++
				break scan
			}
			if trimmed == "" {
				continue
			}
			rawRows = append(rawRows, line)
			rawRowLineNos = append(rawRowLineNos, lineNo)
		}
	}

	if state != stateDone {
		return nil, lineErrorf(len(lines), "log ended before scene table was closed")
	}

	rows := make([]scene.Row, 0, len(rawRows))
	for idx, raw := range rawRows {
		row, err := parseSceneRow(raw)
		if err != nil {
			return nil, lineErrorf(rawRowLineNos[idx], "invalid scene row: %v", err)
		}
		rows = append(rows, row)
	}

	log.Debug("scene section parsed", log.F("rows", len(rows)))

	return &SceneSection{
		PlayerStart: playerStart,
		Rows:        rows,
		EventLines:  lines[i:],
		EventLineNo: i + 1,
	}, nil
}

func isDashLine(s string) bool {
	return len(s) > 0 && strings.Trim(s, "-") == ""
}

// parseTrailingCoords extracts and parses the "(x,y)" suffix of a
// line that begins with prefix.
func parseTrailingCoords(line, prefix string) (model.Point, error) {
	tail := strings.TrimSpace(line[len(prefix):])
	tail = strings.TrimPrefix(tail, ":")
	return lex.ParseCoords(strings.TrimSpace(tail))
}

// parseSceneRow parses one "id | class | objectNodeId | type |
// (x,y) | hp | dmg" row.
func parseSceneRow(line string) (scene.Row, error) {
	fields, ok := lex.SplitBar(line, 7)
	if !ok {
		return scene.Row{}, lineErrorf(0, "expected 7 '|'-separated fields, got %q", line)
	}

	pos, err := lex.ParseCoords(fields[4])
	if err != nil {
		return scene.Row{}, err
	}
	hp, err := lex.ParseFloatOrZero(fields[5])
	if err != nil {
		return scene.Row{}, err
	}
	dmg, err := lex.ParseFloatOrZero(fields[6])
	if err != nil {
		return scene.Row{}, err
	}

	return scene.Row{
		ID:     fields[0],
		Class:  fields[1],
		Type:   model.ObjectTypeFromLog(fields[3]),
		Pos:    pos,
		HP:     hp,
		Damage: dmg,
	}, nil
}
