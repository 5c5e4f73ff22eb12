package domain

import (
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mitchellh/mapstructure"
)

var timeType = reflect.TypeOf(time.Time{})

// stringToTimeHook accepts any date layout dateparse understands.
func stringToTimeHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != timeType {
		return data, nil
	}
	s := strings.TrimSpace(data.(string))
	if s == "" {
		return time.Time{}, nil
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return nil, NewValidationError("date", "cannot parse %q", s)
	}
	return t, nil
}

// applyPatch decodes fields onto target using json tag names. Keys outside
// allowed are rejected. Slices named in fields are replaced, not merged.
func applyPatch(target interface{}, fields map[string]interface{}, allowed map[string]bool) error {
	if len(fields) == 0 {
		return NewValidationError("fields", "no fields to update")
	}
	var unknown []string
	for k := range fields {
		if !allowed[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return NewValidationError(unknown[0], "field cannot be updated")
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ZeroFields:       true,
		ErrorUnused:      true,
		Result:           target,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToTimeHook,
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(fields); err != nil {
		if IsValidation(err) {
			return err
		}
		return &ValidationError{Reason: err.Error()}
	}
	return nil
}
