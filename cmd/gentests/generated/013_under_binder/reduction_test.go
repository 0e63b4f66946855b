
package gentests
import _ "embed"
import "testing"
import "github.com/vic/gosk/cmd/gentests/helper"
//go:embed input.yaml
var input string
//go:embed output.txt
var output string
func Test_013_under_binder_Reduction(t *testing.T) {
	gentests.CheckReduction(t, "013_under_binder", input, output)
}
