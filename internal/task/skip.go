package task

import (
	"github.com/mrz1836/transit/internal/constants"
	"github.com/mrz1836/transit/internal/domain"
)

// SkipPolicy decides whether a task is skipped. It is evaluated before any hook.
type SkipPolicy func(tc *Context) bool

// SkipPropertyKey returns the environment property that disables a task by default.
func SkipPropertyKey(name domain.TaskName) string {
	return name.Base() + constants.SkipPropertySuffix
}

// SkipIfDefaultPropertySet skips when the task's "<name>.skip" property is true.
func SkipIfDefaultPropertySet() SkipPolicy {
	return func(tc *Context) bool {
		return tc.Environment().GetBool(SkipPropertyKey(tc.TaskName()))
	}
}

// SkipIfPropertySet skips when the given boolean property is true.
func SkipIfPropertySet(key string) SkipPolicy {
	return func(tc *Context) bool {
		return tc.Environment().GetBool(key)
	}
}

// SkipIfAny skips when any of the policies skips.
func SkipIfAny(policies ...SkipPolicy) SkipPolicy {
	return func(tc *Context) bool {
		for _, p := range policies {
			if p != nil && p(tc) {
				return true
			}
		}
		return false
	}
}

// NeverSkip never skips.
func NeverSkip() SkipPolicy {
	return func(*Context) bool { return false }
}
