package stats

import (
	"bytes"
	"fmt"
	"testing"
)

/*
Utilities for validating the contents of a stats receiver in tests.
*/

// RuleChecker compares a 'got' value against an 'expected' value.
type RuleChecker struct {
	name    string
	checker func(got, expected interface{}) bool
}

// Int64EqTest passes if the stat is an int64 equal to the expected int.
var Int64EqTest = RuleChecker{name: "Int64EqTest", checker: func(got, expected interface{}) bool {
	g, ok := got.(int64)
	return ok && g == int64(expected.(int))
}}

// Int64GTTest passes if the stat is an int64 greater than the expected int.
var Int64GTTest = RuleChecker{name: "Int64GTTest", checker: func(got, expected interface{}) bool {
	g, ok := got.(int64)
	return ok && g > int64(expected.(int))
}}

// DoesNotExistTest passes if no stat is registered under the key.
var DoesNotExistTest = RuleChecker{name: "NotExistCheck", checker: func(got, _ interface{}) bool {
	return got == nil
}}

// Rule pairs a checker with the expected value for one stat.
type Rule struct {
	Checker RuleChecker
	Value   interface{}
}

// VerifyStats fails t if any stat named in contains does not satisfy its rule.
// Only receivers backed by the Finagle registry can be verified.
func VerifyStats(t *testing.T, tag string, stat StatsReceiver, contains map[string]Rule) {
	t.Helper()
	s, ok := stat.(*defaultStatsReceiver)
	if !ok {
		t.Fatalf("%s: cannot verify stats of %T", tag, stat)
	}
	reg, ok := s.registry.(*finagleStatsRegistry)
	if !ok {
		t.Fatalf("%s: cannot verify registry of %T", tag, s.registry)
	}

	all := reg.MarshalAll()
	var msg bytes.Buffer
	for key, rule := range contains {
		got := all[key]
		if rule.Checker.checker(got, rule.Value) {
			continue
		}
		if rule.Checker.name == DoesNotExistTest.name {
			fmt.Fprintf(&msg, "%s: found stat entry when there should not be one\n", key)
		} else {
			fmt.Fprintf(&msg, "%s: got %v, expected to pass %s with %v\n", key, got, rule.Checker.name, rule.Value)
		}
	}
	if msg.Len() > 0 {
		pretty, _ := reg.MarshalJSONPretty()
		t.Errorf("%s: stats registry error:\n%s%s", tag, msg.String(), pretty)
	}
}
