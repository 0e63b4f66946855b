package main

import (
	"github.com/spf13/cobra"

	"github.com/vic/gosk/pkg/lambda"
	"github.com/vic/gosk/pkg/termdoc"
)

// demoDocument holds the reference scenarios: S K K x, and a K partial
// application substituted under a binder.
func demoDocument() *termdoc.Document {
	x, y, z := lambda.NewVar("x"), lambda.NewVar("y"), lambda.NewVar("z")
	skk := lambda.NewApp(lambda.S, lambda.K, lambda.K, x)
	os1 := lambda.NewApp(
		lambda.NewAbs("x", lambda.NewAbs("y", lambda.NewApp(x, y, z))),
		lambda.NewApp(lambda.K, z),
	)
	return &termdoc.Document{Terms: []termdoc.Entry{
		{Name: "y", Term: termdoc.Encode(skk)},
		{Name: "o1", Term: termdoc.Encode(os1)},
	}}
}

func newDemoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Reduce the built-in sample terms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), a.cfg, demoDocument(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}
