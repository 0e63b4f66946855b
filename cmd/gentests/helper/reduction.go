package gentests

import (
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vic/gosk/pkg/lambda"
	"github.com/vic/gosk/pkg/reduce"
	"github.com/vic/gosk/pkg/termdoc"
)

// CheckReduction decodes a YAML term node, reduces it and compares the
// flat rendering of its normal form with outputStr. It also checks that
// the normal form is a fixpoint of the reducer.
func CheckReduction(t *testing.T, testName string, inputStr string, outputStr string) {
	t.Helper()
	expected := strings.TrimSpace(outputStr)

	var node termdoc.Node
	if err := yaml.Unmarshal([]byte(inputStr), &node); err != nil {
		t.Fatalf("%s: decoding input: %v", testName, err)
	}
	term, err := termdoc.Decode(node, lambda.StandardRegistry())
	if err != nil {
		t.Fatalf("%s: resolving input: %v", testName, err)
	}

	r := reduce.NewReducer(reduce.Options{Fuel: 10000})
	start := time.Now()
	normal, err := r.Reduce(term)
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("%s: reduce: %v", testName, err)
	}

	if actual := lambda.Render(normal); actual != expected {
		t.Errorf("Mismatch in %s:\nInput: %s\nExpected: %s\nActual:   %s", testName, lambda.Render(term), expected, actual)
	}

	again, err := r.Reduce(normal)
	if err != nil {
		t.Fatalf("%s: reducing normal form: %v", testName, err)
	}
	if !lambda.Equal(again, normal) {
		t.Errorf("%s: normal form %s is not a fixpoint, got %s", testName, normal, again)
	}

	stats := r.GetStats()
	t.Logf("%s: %d steps in %v", testName, stats.TotalSteps, elapsed)
}
