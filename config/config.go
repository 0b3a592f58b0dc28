// Package config loads the two-level textual configuration described
// in spec.md §4.C: a top-level manifest naming a checker secret and a
// set of tasks, and one CSV-like file per task describing its base
// objects, object requirements, and conditions.
package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/kestrel-play/taskcheck/lex"
	"github.com/kestrel-play/taskcheck/log"
	"github.com/kestrel-play/taskcheck/model"
)

const reservedSecretKey = "secret"

// Load reads the top-level manifest at path and every task CSV it
// references, returning a fully populated CheckerState. Any parse
// failure aborts the whole load; Load never returns a partially
// populated state.
func Load(path string) (*model.CheckerState, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fieldErrorf(path, 0, "cannot open manifest: %v", err)
	}
	defer f.Close()

	dir := filepath.Dir(path)

	state := &model.CheckerState{}
	haveSecret := false

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := lex.BoundedCopy(scanner.Text())
		if strings.TrimSpace(line) == "" {
			continue
		}

		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if value == "" {
			continue
		}

		if key == reservedSecretKey {
			if haveSecret {
				return nil, fieldErrorf(path, lineNo, "secret specified more than once")
			}
			state.Secret = value
			haveSecret = true
			continue
		}

		taskPath := value
		if !filepath.IsAbs(taskPath) {
			taskPath = filepath.Join(dir, taskPath)
		}

		task, err := LoadTask(taskPath, key)
		if err != nil {
			return nil, err
		}
		state.Tasks = append(state.Tasks, *task)
		log.Debug("task loaded", log.F("task", key), log.F("conditions", len(task.Conditions)))
	}
	if err := scanner.Err(); err != nil {
		return nil, fieldErrorf(path, lineNo, "read error: %v", err)
	}

	log.Info("config loaded", log.F("tasks", len(state.Tasks)))
	return state, nil
}
