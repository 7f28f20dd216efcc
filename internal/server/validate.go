package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/claude/workouttracker/internal/models"
)

// fieldErrors collects per-field validation messages keyed by field path,
// e.g. "exercises[1].actual_reps".
type fieldErrors map[string]string

func (fe fieldErrors) add(key, msg string) {
	if _, ok := fe[key]; !ok {
		fe[key] = msg
	}
}

// decodeObject decodes a JSON object keeping numbers as json.Number.
func decodeObject(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, fmt.Errorf("expected a JSON object")
	}
	return obj, nil
}

// presentKeys reports which of keys appear in obj, null values included.
func presentKeys(obj map[string]any, keys ...string) map[string]bool {
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		if _, ok := obj[k]; ok {
			present[k] = true
		}
	}
	return present
}

func fieldKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// datetime checks an optional timestamp field.
func (fe fieldErrors) datetime(obj map[string]any, prefix, name string) {
	v, ok := obj[name]
	if !ok || v == nil {
		return
	}
	key := fieldKey(prefix, name)
	s, ok := v.(string)
	if !ok {
		fe.add(key, fmt.Sprintf("'%s' must be a valid datetime.", key))
		return
	}
	if _, err := models.ParseFlexTime(s); err != nil {
		fe.add(key, fmt.Sprintf("'%s' must be a valid datetime.", key))
	}
}

// integer checks an optional non-negative whole number field that fits an
// INTEGER column.
func (fe fieldErrors) integer(obj map[string]any, prefix, name string) {
	v, ok := obj[name]
	if !ok || v == nil {
		return
	}
	key := fieldKey(prefix, name)
	n, ok := v.(json.Number)
	if !ok {
		fe.add(key, fmt.Sprintf("'%s' must be a valid int.", key))
		return
	}
	i, err := n.Int64()
	if err != nil || i > math.MaxInt32 || i < math.MinInt32 {
		fe.add(key, fmt.Sprintf("'%s' must be a valid int.", key))
		return
	}
	if i < 0 {
		fe.add(key, fmt.Sprintf("'%s' must not be negative.", key))
	}
}

// float checks an optional non-negative number field.
func (fe fieldErrors) float(obj map[string]any, prefix, name string) {
	v, ok := obj[name]
	if !ok || v == nil {
		return
	}
	key := fieldKey(prefix, name)
	n, ok := v.(json.Number)
	if !ok {
		fe.add(key, fmt.Sprintf("'%s' must be a valid float.", key))
		return
	}
	f, err := n.Float64()
	if err != nil {
		fe.add(key, fmt.Sprintf("'%s' must be a valid float.", key))
		return
	}
	if f < 0 {
		fe.add(key, fmt.Sprintf("'%s' must not be negative.", key))
	}
}

// text checks an optional string field.
func (fe fieldErrors) text(obj map[string]any, prefix, name string) {
	v, ok := obj[name]
	if !ok || v == nil {
		return
	}
	if _, ok := v.(string); !ok {
		key := fieldKey(prefix, name)
		fe.add(key, fmt.Sprintf("'%s' must be a valid string.", key))
	}
}

// required flags a missing or null field.
func (fe fieldErrors) required(obj map[string]any, prefix, name string) {
	if v, ok := obj[name]; !ok || v == nil {
		key := fieldKey(prefix, name)
		fe.add(key, fmt.Sprintf("'%s' is required.", key))
	}
}

// entries validates an optional array of objects with fn, one prefix per entry.
func (fe fieldErrors) entries(obj map[string]any, name string, fn func(entry map[string]any, prefix string)) {
	v, ok := obj[name]
	if !ok || v == nil {
		return
	}
	list, ok := v.([]any)
	if !ok {
		fe.add(name, fmt.Sprintf("'%s' must be a list.", name))
		return
	}
	for i, item := range list {
		prefix := fmt.Sprintf("%s[%d]", name, i)
		entry, ok := item.(map[string]any)
		if !ok {
			fe.add(prefix, fmt.Sprintf("'%s' must be an object.", prefix))
			continue
		}
		fn(entry, prefix)
	}
}

// validatePlanBody checks a plan create or update body.
func validatePlanBody(obj map[string]any) fieldErrors {
	fe := fieldErrors{}
	fe.text(obj, "", "name")
	fe.entries(obj, "exercises", func(e map[string]any, prefix string) {
		fe.required(e, prefix, "exercise_id")
		fe.integer(e, prefix, "exercise_id")
		fe.integer(e, prefix, "target_sets")
		fe.integer(e, prefix, "target_reps")
		fe.float(e, prefix, "target_weight")
	})
	return fe
}

// validateSessionBody checks a session create or update body.
func validateSessionBody(obj map[string]any) fieldErrors {
	fe := fieldErrors{}
	fe.datetime(obj, "", "scheduled_at")
	fe.datetime(obj, "", "started_at")
	fe.datetime(obj, "", "completed_at")
	fe.entries(obj, "exercises", func(e map[string]any, prefix string) {
		fe.required(e, prefix, "workout_plan_exercise_id")
		fe.integer(e, prefix, "workout_plan_exercise_id")
		fe.integer(e, prefix, "actual_sets")
		fe.integer(e, prefix, "actual_reps")
		fe.float(e, prefix, "actual_weight")
		fe.text(e, prefix, "notes")
	})
	return fe
}
