// Package checker is the public facade for the task-checking library
// (spec.md §6 Library API): Init loads a configuration once, Check
// evaluates a single log against a named task and returns the result
// byte plus its signature code.
package checker

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/kestrel-play/taskcheck/config"
	"github.com/kestrel-play/taskcheck/digest"
	"github.com/kestrel-play/taskcheck/lex"
	"github.com/kestrel-play/taskcheck/log"
	"github.com/kestrel-play/taskcheck/model"
	"github.com/kestrel-play/taskcheck/parser"
	"github.com/kestrel-play/taskcheck/scene"
)

// ErrBadParameters and ErrFormat are the two error kinds spec.md §7
// defines beyond success. Errors returned by Init and Check wrap one
// of these via fmt.Errorf("...: %w", ...); use errors.Is or Code to
// classify them.
var (
	ErrBadParameters = errors.New("bad parameters")
	ErrFormat        = errors.New("format error")
)

// Code maps an error returned by Init/Check to the three-way exit
// code spec.md §6/§7 describes: 0 (no error), 1 (bad parameters), or
// 2 (format error).
func Code(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrFormat):
		return 2
	default:
		return 1
	}
}

// Handle is an opaque, loaded checker configuration. Check never
// mutates it: each call snapshots the task's mutable scratch state
// (spec.md §5) and builds its own scene, so concurrent Check calls,
// against the same task or different ones, share nothing — see
// checkTask.
type Handle struct {
	state *model.CheckerState
}

// Init loads the top-level manifest at configPath and every task CSV
// it references, returning a Handle for use with Check.
func Init(configPath string) (*Handle, error) {
	state, err := config.Load(configPath)
	if err != nil {
		log.Error("config load failed", log.F("path", configPath), log.F("error", err))
		return nil, fmt.Errorf("%w: %v", ErrBadParameters, err)
	}
	if state.Secret == "" {
		return nil, fmt.Errorf("%w: manifest has no secret", ErrBadParameters)
	}
	if len(state.Tasks) == 0 {
		return nil, fmt.Errorf("%w: manifest names no tasks", ErrBadParameters)
	}
	return &Handle{state: state}, nil
}

// Free releases h. It exists to mirror spec.md §6's Library API
// (init/check/free); in Go, Handle holds no resources beyond normal
// garbage-collected memory, so Free is a no-op retained for parity
// with the C-shaped API callers may be porting from.
func Free(h *Handle) {
	_ = h
}

// Check evaluates the log at logPath against taskID using salt, and
// returns the 7-bit result byte plus its signature code. On any
// error, the result is forced to 0 and no signature is produced
// (spec.md §7).
func Check(h *Handle, taskID string, salt int32, logPath string) (byte, string, error) {
	task, ok := h.state.TaskByName(taskID)
	if !ok {
		return 0, "", fmt.Errorf("%w: unknown task %q", ErrBadParameters, taskID)
	}

	lines, err := readAllLines(logPath)
	if err != nil {
		return 0, "", fmt.Errorf("%w: cannot read log: %v", ErrBadParameters, err)
	}

	result, err := checkTask(task, lines)
	if err != nil {
		return 0, "", err
	}

	sig := digest.Sign(h.state.Secret, task.Name, salt, int(result))
	log.Info("check completed", log.F("task", task.Name), log.F("result", int(result)))
	return result, sig, nil
}

// checkTask runs one check in isolation: it snapshots the task's base
// objects and requirements (spec.md §5 option (b): snapshot rather
// than lock) so the shared *model.Task is never mutated, builds and
// validates the scene, then drives the event stream.
func checkTask(task *model.Task, lines []string) (byte, error) {
	section, err := parser.ParseSceneSection(lines)
	if err != nil {
		return 0, wrapFormatOrBad(err)
	}

	sc := scene.Build(section.Rows, section.PlayerStart)

	bases := append([]model.BaseObject(nil), task.BaseObjects...)
	reqs := append([]model.ObjectRequirement(nil), task.Requirements...)
	if err := scene.Validate(sc, bases, reqs); err != nil {
		log.Warn("scene validation failed", log.F("task", task.Name), log.F("error", err))
		return 0, fmt.Errorf("%w: %v", ErrBadParameters, err)
	}

	m, err := parser.RunEvents(sc, task, section.EventLines, section.EventLineNo)
	if err != nil {
		return 0, wrapFormatOrBad(err)
	}

	return m.ResultByte(), nil
}

// wrapFormatOrBad classifies a parser error: a *parser.LineError is a
// syntactic log-grammar violation (FormatError); anything else
// encountered while parsing the header/scene section is a semantic
// configuration problem (BadParameters).
func wrapFormatOrBad(err error) error {
	var lineErr *parser.LineError
	if errors.As(err, &lineErr) {
		return fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return fmt.Errorf("%w: %v", ErrBadParameters, err)
}

func readAllLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, lex.BoundedCopy(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
