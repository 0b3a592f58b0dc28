package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/kestrel-play/taskcheck/lex"
	"github.com/kestrel-play/taskcheck/model"
)

// LoadTask reads a single task CSV file and returns the populated
// Task named name. It follows the "two-pass" algorithm from spec.md
// §4.C: a first pass over the buffered lines counts base objects,
// requirements, and distinct condition numbers (rejecting the task if
// there are zero or more than model.MaxConditions), then a second pass
// materializes the Task now that the sizes are known to be valid.
func LoadTask(path, name string) (*model.Task, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, fieldErrorf(path, 0, "cannot read task file: %v", err)
	}

	if err := countConditions(path, lines); err != nil {
		return nil, err
	}

	task := &model.Task{Name: name}
	var lastN uint8
	haveLast := false

	for i, raw := range lines {
		lineNo := i + 1
		line := lex.BoundedCopy(raw)
		if isHeaderOrBlank(line) {
			continue
		}

		fields, ok := lex.SplitColon(line, 7)
		if !ok {
			return nil, fieldErrorf(path, lineNo, "expected 7 colon-separated fields, got %q", line)
		}

		switch fields[0] {
		case "base":
			base, err := parseBaseRow(path, lineNo, fields)
			if err != nil {
				return nil, err
			}
			task.BaseObjects = append(task.BaseObjects, base)

		case "req":
			req, err := parseReqRow(path, lineNo, fields)
			if err != nil {
				return nil, err
			}
			task.Requirements = append(task.Requirements, req)

		default:
			n, cond, err := parseConditionRow(path, lineNo, fields)
			if err != nil {
				return nil, err
			}
			if haveLast && n == lastN {
				last := &task.Conditions[len(task.Conditions)-1]
				if last.Second != nil {
					return nil, fieldErrorf(path, lineNo, "condition %d already has an AND branch", n)
				}
				last.Second = &cond
			} else {
				if haveLast && n <= lastN {
					return nil, fieldErrorf(path, lineNo, "condition number %d must be strictly greater than %d", n, lastN)
				}
				task.Conditions = append(task.Conditions, cond)
			}
			lastN = n
			haveLast = true
		}
	}

	return task, nil
}

// countConditions performs the first pass: it walks the buffered
// lines purely to validate structure and count distinct condition
// numbers, without allocating the final Task.
func countConditions(path string, lines []string) error {
	var lastN uint8
	haveLast := false
	distinct := 0

	for i, raw := range lines {
		lineNo := i + 1
		line := lex.BoundedCopy(raw)
		if isHeaderOrBlank(line) {
			continue
		}
		fields, ok := lex.SplitColon(line, 7)
		if !ok {
			return fieldErrorf(path, lineNo, "expected 7 colon-separated fields, got %q", line)
		}
		if fields[0] == "base" || fields[0] == "req" {
			continue
		}

		n, err := strconv.ParseUint(strings.TrimSpace(fields[0]), 10, 8)
		if err != nil || n == 0 {
			return fieldErrorf(path, lineNo, "condition number must be a positive integer, got %q", fields[0])
		}
		nn := uint8(n)

		if haveLast && nn == lastN {
			// AND branch of the previous condition; not a new distinct one.
		} else {
			if haveLast && nn <= lastN {
				return fieldErrorf(path, lineNo, "condition number %d must be strictly greater than %d", nn, lastN)
			}
			distinct++
		}
		lastN = nn
		haveLast = true
	}

	if distinct == 0 || distinct > model.MaxConditions {
		return fieldErrorf(path, 0, "task must have between 1 and %d conditions, got %d", model.MaxConditions, distinct)
	}
	return nil
}

func isHeaderOrBlank(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}
	idx := strings.IndexByte(trimmed, ':')
	first := trimmed
	if idx >= 0 {
		first = trimmed[:idx]
	}
	return first == "id" || first == "obj"
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// parseBaseRow parses: base:type:class:x,y-or-empty:hp:dmg:
func parseBaseRow(path string, lineNo int, fields []string) (model.BaseObject, error) {
	if fields[6] != "" {
		return model.BaseObject{}, fieldErrorf(path, lineNo, "base row's 7th field must be empty")
	}

	typ, ok := model.ParseObjectTypeConfig(strings.TrimSpace(fields[1]))
	if !ok {
		return model.BaseObject{}, fieldErrorf(path, lineNo, "unknown object type %q", fields[1])
	}

	base := model.BaseObject{
		Type:  typ,
		Class: strings.TrimSpace(fields[2]),
	}

	posField := strings.TrimSpace(fields[3])
	if posField != "" {
		pos, err := lex.ParseCoords(posField)
		if err != nil {
			return model.BaseObject{}, fieldErrorf(path, lineNo, "invalid position %q: %v", posField, err)
		}
		base.Pos = pos
		base.HasPos = true
	}

	hp, err := lex.ParseFloatOrZero(fields[4])
	if err != nil {
		return model.BaseObject{}, fieldErrorf(path, lineNo, "invalid hp %q: %v", fields[4], err)
	}
	base.HP = hp

	dmg, err := lex.ParseFloatOrZero(fields[5])
	if err != nil {
		return model.BaseObject{}, fieldErrorf(path, lineNo, "invalid damage %q: %v", fields[5], err)
	}
	base.Damage = dmg

	return base, nil
}

// parseReqRow parses: req:type:class:minimum:limit::
func parseReqRow(path string, lineNo int, fields []string) (model.ObjectRequirement, error) {
	if fields[5] != "" || fields[6] != "" {
		return model.ObjectRequirement{}, fieldErrorf(path, lineNo, "req row's 6th and 7th fields must be empty")
	}

	typ, ok := model.ParseObjectTypeConfig(strings.TrimSpace(fields[1]))
	if !ok {
		return model.ObjectRequirement{}, fieldErrorf(path, lineNo, "unknown object type %q", fields[1])
	}

	minimum, err := strconv.ParseUint(strings.TrimSpace(fields[3]), 10, 8)
	if err != nil || minimum < 1 {
		return model.ObjectRequirement{}, fieldErrorf(path, lineNo, "invalid minimum %q", fields[3])
	}
	limit, err := strconv.ParseUint(strings.TrimSpace(fields[4]), 10, 8)
	if err != nil {
		return model.ObjectRequirement{}, fieldErrorf(path, lineNo, "invalid limit %q", fields[4])
	}
	if limit < minimum || limit > 255 {
		return model.ObjectRequirement{}, fieldErrorf(path, lineNo, "limit %d must be >= minimum %d and <= 255", limit, minimum)
	}

	return model.ObjectRequirement{
		Type:    typ,
		Class:   strings.TrimSpace(fields[2]),
		Minimum: uint8(minimum),
		Limit:   uint8(limit),
	}, nil
}

// parseConditionRow parses: n:kind:prim_type:prim_class:sec_type:sec_class:arg
func parseConditionRow(path string, lineNo int, fields []string) (uint8, model.Condition, error) {
	n64, err := strconv.ParseUint(strings.TrimSpace(fields[0]), 10, 8)
	if err != nil || n64 == 0 {
		return 0, model.Condition{}, fieldErrorf(path, lineNo, "condition number must be a positive integer, got %q", fields[0])
	}
	n := uint8(n64)

	kind, ok := model.ConditionKindFromString(strings.TrimSpace(fields[1]))
	if !ok {
		return 0, model.Condition{}, fieldErrorf(path, lineNo, "unknown condition kind %q", fields[1])
	}

	primary, err := parseMatcher(fields[2], fields[3])
	if err != nil {
		return 0, model.Condition{}, fieldErrorf(path, lineNo, "invalid primary object: %v", err)
	}
	secondary, err := parseMatcher(fields[4], fields[5])
	if err != nil {
		return 0, model.Condition{}, fieldErrorf(path, lineNo, "invalid secondary object: %v", err)
	}

	arg, err := lex.ParseFloatOrZero(fields[6])
	if err != nil {
		return 0, model.Condition{}, fieldErrorf(path, lineNo, "invalid arg %q: %v", fields[6], err)
	}

	return n, model.Condition{
		N:         n,
		Kind:      kind,
		Primary:   primary,
		Secondary: secondary,
		Arg:       arg,
	}, nil
}

// parseMatcher parses an (object-type, class) pair. An empty type
// field is allowed for kinds that don't need one; it parses as the
// zero ObjectMatcher.
func parseMatcher(typeField, classField string) (model.ObjectMatcher, error) {
	typeField = strings.TrimSpace(typeField)
	if typeField == "" {
		return model.ObjectMatcher{}, nil
	}
	typ, ok := model.ParseObjectTypeConfig(typeField)
	if !ok {
		return model.ObjectMatcher{}, &FieldError{Msg: "unknown object type " + strconv.Quote(typeField)}
	}
	return model.ObjectMatcher{Type: typ, Class: strings.TrimSpace(classField)}, nil
}
