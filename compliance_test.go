package jmespath

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSuite mirrors the upstream JMESPath compliance fixture shape: a
// shared "given" document with a list of expression/result (or
// expression/error) cases.
type TestSuite struct {
	Given     json.RawMessage
	TestCases []TestCase `json:"cases"`
	Comment   string
}

type TestCase struct {
	Comment    string
	Expression string
	Result     json.RawMessage
	Error      string
}

var complianceFiles = []string{
	"compliance/basic.json",
	"compliance/boolean.json",
	"compliance/current.json",
	"compliance/escape.json",
	"compliance/filters.json",
	"compliance/functions.json",
	"compliance/identifiers.json",
	"compliance/indices.json",
	"compliance/literal.json",
	"compliance/multiselect.json",
	"compliance/pipe.json",
	"compliance/slice.json",
	"compliance/syntax.json",
	"compliance/unicode.json",
	"compliance/wildcard.json",
}

func TestCompliance(t *testing.T) {
	for _, filename := range complianceFiles {
		if _, err := os.Stat(filename); err != nil {
			t.Fatalf("missing compliance fixture %s: %v", filename, err)
		}
		runComplianceFile(t, filename)
	}
}

func runComplianceFile(t *testing.T, filename string) {
	t.Helper()
	data, err := os.ReadFile(filepath.Clean(filename))
	if err != nil {
		t.Fatalf("reading %s: %v", filename, err)
	}
	var suites []TestSuite
	if err := json.Unmarshal(data, &suites); err != nil {
		t.Fatalf("decoding %s: %v", filename, err)
	}
	for _, suite := range suites {
		for _, tc := range suite.TestCases {
			runCase(t, filename, suite.Given, tc)
		}
	}
}

func runCase(t *testing.T, filename string, given json.RawMessage, tc TestCase) {
	t.Helper()
	a := assert.New(t)
	name := fmt.Sprintf("%s: %s", filename, tc.Expression)

	givenValue, err := DecodeBytes(given)
	if err != nil {
		t.Fatalf("%s: decoding given: %v", name, err)
	}

	p := newParser()
	node, parseErr := p.Parse(tc.Expression)

	if tc.Error != "" {
		if parseErr != nil {
			return
		}
		_, execErr := newInterpreter().Execute(node, givenValue)
		a.NotNil(execErr, name)
		return
	}

	if !a.Nil(parseErr, name) {
		return
	}
	actual, execErr := newInterpreter().Execute(node, givenValue)
	if !a.Nil(execErr, name) {
		return
	}
	expected, err := DecodeBytes(tc.Result)
	if err != nil {
		t.Fatalf("%s: decoding expected result: %v", name, err)
	}
	a.True(equalValues(expected, actual), fmt.Sprintf("%s: expected %v, got %v", name, expected, actual))
}
