package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vic/gosk/pkg/lambda"
	"github.com/vic/gosk/pkg/termdoc"
)

type TestCase struct {
	Name   string
	Input  lambda.Term
	Output string
}

const testTemplate = `
package gentests
import _ "embed"
import "testing"
import "github.com/vic/gosk/cmd/gentests/helper"
//go:embed input.yaml
var input string
//go:embed output.txt
var output string
func Test_%s_Reduction(t *testing.T) {
	gentests.CheckReduction(t, "%s", input, output)
}
`

func main() {
	var (
		app, abs   = lambda.NewApp, lambda.NewAbs
		S, K, I    = lambda.S, lambda.K, lambda.I
		B, C, W    = lambda.B, lambda.C, lambda.W
		a, b, f, g = lambda.NewVar("a"), lambda.NewVar("b"), lambda.NewVar("f"), lambda.NewVar("g")
		x, y, z    = lambda.NewVar("x"), lambda.NewVar("y"), lambda.NewVar("z")
	)

	tests := []TestCase{
		// Reference scenarios
		{"001_skk", app(S, K, K, x), "x"},
		{"002_k_capture", app(abs("x", abs("y", app(x, y, z))), app(K, z)), "(Ly.((K z) y z))"},

		// Beta
		{"003_id", app(abs("x", x), a), "a"},
		{"007_church_two", app(abs("f", abs("x", app(f, app(f, x)))), g, a), "(g (g a))"},
		{"014_shadow", app(abs("x", abs("x", x)), a, b), "b"},

		// Atoms
		{"004_k_1", app(K, a, b), "a"},
		{"005_k_stuck", app(K, a), "(K a)"},
		{"006_s_partial", app(S, K), "(S K)"},
		{"008_b", app(B, f, g, x), "(f (g x))"},
		{"009_c", app(C, f, a, b), "(f b a)"},
		{"010_w_k", app(W, K, a), "a"},
		{"011_excess_args", app(I, K, a, b), "a"},

		// Structure
		{"012_empty_app", app(), "()"},
		{"013_under_binder", abs("x", app(I, x)), "(Lx.x)"},
		{"015_arg_progress", app(f, app(I, a)), "(f a)"},
		{"016_head_progress", app(app(abs("x", x), f), app(I, a)), "(f a)"},
	}

	baseDir := "cmd/gentests/generated"
	os.MkdirAll(baseDir, 0755)

	for _, tc := range tests {
		dir := filepath.Join(baseDir, tc.Name)
		os.MkdirAll(dir, 0755)

		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(termdoc.Encode(tc.Input)); err != nil {
			fmt.Printf("Error encoding input for %s: %v\n", tc.Name, err)
			continue
		}
		enc.Close()

		testGo := fmt.Sprintf(testTemplate, tc.Name, tc.Name)

		os.WriteFile(filepath.Join(dir, "input.yaml"), buf.Bytes(), 0644)
		os.WriteFile(filepath.Join(dir, "output.txt"), []byte(tc.Output+"\n"), 0644)
		os.WriteFile(filepath.Join(dir, "reduction_test.go"), []byte(testGo), 0644)
	}

	fmt.Printf("Generated %d tests\n", len(tests))
}
