package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// enumValue is a pflag value restricted to a fixed set of choices, so
// bad --format arguments fail at parse time instead of mid-run.
type enumValue struct {
	value   *string
	choices []string
}

var _ pflag.Value = (*enumValue)(nil)

func newEnumValue(value *string, def string, choices ...string) *enumValue {
	*value = def
	return &enumValue{value: value, choices: choices}
}

func (e *enumValue) String() string { return *e.value }

func (e *enumValue) Set(s string) error {
	for _, c := range e.choices {
		if s == c {
			*e.value = s
			return nil
		}
	}
	return fmt.Errorf("must be one of: %s", strings.Join(e.choices, ", "))
}

func (e *enumValue) Type() string { return "format" }
