package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/cropyield/internal/form"
	"github.com/abhisek/cropyield/internal/submission"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Submit one prediction and print the result",
	Long: "Submit one prediction. Each field takes raw text exactly as typed into the form; " +
		"values that are not numbers are sent as null unless --strict is set.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fs := form.NewFieldSet()
		for _, f := range form.Fields() {
			raw, _ := cmd.Flags().GetString(fieldFlag(f))
			fs.UpdateField(f, raw)
		}
		req := fs.ToPredictionRequest()

		out := cmd.OutOrStdout()
		if dry, _ := cmd.Flags().GetBool("dry-run"); dry {
			strict, err := resolveStrict(cmd)
			if err != nil {
				return err
			}
			if strict {
				if err := req.Validate(); err != nil {
					return fmt.Errorf("prediction rejected: %w", err)
				}
			}
			body, err := req.MarshalJSON()
			if err != nil {
				return fmt.Errorf("encode request: %w", err)
			}
			fmt.Fprintln(out, string(body))
			return nil
		}

		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		st, err := d.ctrl.Submit(ctx, req)
		if err != nil {
			return fmt.Errorf("prediction failed: %w", err)
		}

		fmt.Fprintf(out, "Predicted Yield: %s %s\n", st.Display(), submission.YieldUnit)
		return nil
	},
}

// fieldFlag maps a field name to its flag, e.g. Annual_Rainfall to
// annual-rainfall.
func fieldFlag(f form.Field) string {
	return strings.ToLower(strings.ReplaceAll(f.String(), "_", "-"))
}

func init() {
	for _, f := range form.Fields() {
		predictCmd.Flags().String(fieldFlag(f), "", f.Label())
	}
	predictCmd.Flags().Bool("dry-run", false, "Print the request body without sending it")
}
