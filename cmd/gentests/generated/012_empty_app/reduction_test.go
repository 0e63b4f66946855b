
package gentests
import _ "embed"
import "testing"
import "github.com/vic/gosk/cmd/gentests/helper"
//go:embed input.yaml
var input string
//go:embed output.txt
var output string
func Test_012_empty_app_Reduction(t *testing.T) {
	gentests.CheckReduction(t, "012_empty_app", input, output)
}
