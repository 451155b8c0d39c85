// Package tasks fetches task definitions from the Universal Controller and
// maps them onto the canonical record served to the frontend.
package tasks

import (
	"bytes"
	"encoding/json"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Mode selects which list operation of the platform is used.
type Mode string

const (
	ModeBasic    Mode = "basic"
	ModeAdvanced Mode = "advanced"
)

// Label is the title-cased mode name used in log lines.
func (m Mode) Label() string {
	return cases.Title(language.English).String(string(m))
}

// Task is the canonical task record. A nil field is serialized as null.
type Task struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Agent       *string `json:"agent"`
	Command     *string `json:"command"`
}

// rawTask is one record as returned by the platform.
type rawTask map[string]json.RawMessage

// envelope covers the object form of a list response.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// decodeRecords accepts either a bare JSON array of records or an object
// carrying them under "data". A missing or null "data" yields no records.
func decodeRecords(body json.RawMessage) ([]rawTask, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response")
	}

	list := trimmed
	switch trimmed[0] {
	case '[':
	case '{':
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("failed to decode response envelope: %w", err)
		}
		if len(env.Data) == 0 || string(env.Data) == "null" {
			return []rawTask{}, nil
		}
		list = env.Data
	default:
		return nil, fmt.Errorf("unexpected response shape: expected array or object")
	}

	var records []rawTask
	if err := json.Unmarshal(list, &records); err != nil {
		return nil, fmt.Errorf("failed to decode task records: %w", err)
	}
	if records == nil {
		records = []rawTask{}
	}
	return records, nil
}

// toTask maps a raw record. withExecution controls whether agent and command
// are taken over; the basic list never provides them.
func toTask(raw rawTask, withExecution bool) Task {
	task := Task{
		Name:        raw.field("name"),
		Description: raw.field("description"),
	}
	if task.Description == nil || *task.Description == "" {
		task.Description = raw.field("summary")
	}
	if withExecution {
		task.Agent = raw.field("agent")
		task.Command = raw.field("command")
	}
	return task
}

// field returns the value under key as a string. Absent keys, null, objects
// and arrays give nil; numbers and booleans keep their JSON text.
func (r rawTask) field(key string) *string {
	value, ok := r[key]
	if !ok {
		return nil
	}
	value = bytes.TrimSpace(value)
	if len(value) == 0 {
		return nil
	}

	switch value[0] {
	case 'n', '{', '[':
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return nil
		}
		return &s
	default:
		s := string(value)
		return &s
	}
}
