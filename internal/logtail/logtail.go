package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. maxLines <= 0
// returns every line. A missing file yields no lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one parsed slog record.
type Entry struct {
	Time    string
	Level   string
	Message string
	Attrs   []Attr
	Raw     string
}

// Attr is a key/value pair after the message.
type Attr struct {
	Key   string
	Value string
}

// Parse splits a line written by slog's text or JSON handler. Lines in
// neither form come back with only Raw and Message set.
func Parse(line string) Entry {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "{") {
		if e, ok := parseJSON(trimmed); ok {
			e.Raw = line
			return e
		}
	}
	pairs, ok := splitPairs(trimmed)
	if !ok {
		return Entry{Message: line, Raw: line}
	}
	e := Entry{Raw: line}
	for _, p := range pairs {
		switch p.Key {
		case "time":
			e.Time = p.Value
		case "level":
			e.Level = p.Value
		case "msg":
			e.Message = p.Value
		default:
			e.Attrs = append(e.Attrs, p)
		}
	}
	return e
}

func parseJSON(line string) (Entry, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, false
	}
	e := Entry{}
	e.Time, _ = raw["time"].(string)
	e.Level, _ = raw["level"].(string)
	e.Message, _ = raw["msg"].(string)
	for k, v := range raw {
		switch k {
		case "time", "level", "msg":
			continue
		}
		e.Attrs = append(e.Attrs, Attr{Key: k, Value: fmt.Sprint(v)})
	}
	slices.SortFunc(e.Attrs, func(a, b Attr) int { return strings.Compare(a.Key, b.Key) })
	return e, true
}

// splitPairs parses key=value and key="quoted value" tokens. It fails when the
// line does not start with a key.
func splitPairs(line string) ([]Attr, bool) {
	var out []Attr
	for len(line) > 0 {
		eq := strings.IndexByte(line, '=')
		if eq <= 0 || strings.ContainsAny(line[:eq], " \t\"") {
			return nil, false
		}
		key := line[:eq]
		line = line[eq+1:]

		var value string
		if strings.HasPrefix(line, `"`) {
			end := closingQuote(line)
			if end < 0 {
				return nil, false
			}
			var err error
			if value, err = strconv.Unquote(line[:end+1]); err != nil {
				return nil, false
			}
			line = line[end+1:]
		} else {
			sp := strings.IndexByte(line, ' ')
			if sp < 0 {
				sp = len(line)
			}
			value = line[:sp]
			line = line[sp:]
		}
		out = append(out, Attr{Key: key, Value: value})
		line = strings.TrimLeft(line, " ")
	}
	return out, len(out) > 0
}

func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}
