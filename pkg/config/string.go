package config

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// StringSlice accepts either a single string or a list of strings. Items are trimmed,
// upper-cased and de-duplicated, keeping the first occurrence.
type StringSlice []string

func (s *StringSlice) add(items ...string) {
	for _, item := range items {
		item = strings.ToUpper(strings.TrimSpace(item))
		if item == "" {
			continue
		}

		exists := false
		for _, existing := range *s {
			if existing == item {
				exists = true
				break
			}
		}

		if !exists {
			*s = append(*s, item)
		}
	}
}

func (s *StringSlice) decode(a interface{}) error {
	switch d := a.(type) {
	case string:
		s.add(strings.Split(d, ",")...)

	case []interface{}:
		for _, de := range d {
			if err := s.decode(de); err != nil {
				return err
			}
		}

	default:
		return errors.Errorf("unexpected type %T for StringSlice: %+v", d, d)
	}

	return nil
}

func (s *StringSlice) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var a interface{}
	if err := unmarshal(&a); err != nil {
		return err
	}

	*s = nil
	return s.decode(a)
}

func (s *StringSlice) UnmarshalJSON(b []byte) error {
	var a interface{}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}

	*s = nil
	return s.decode(a)
}
