package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ahrav/go-verdict/internal/application"
	"github.com/ahrav/go-verdict/internal/domain"
)

var evalJSON bool

var evalCmd = &cobra.Command{
	Use:   "eval <case-file>",
	Short: "Evaluate a case file and print the assessment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := application.NewCaseLoader()
		cf, err := loader.LoadFile(args[0])
		if err != nil {
			return err
		}

		assessor, err := application.NewAssessor()
		if err != nil {
			return err
		}
		assessment, err := assessor.Assess(context.Background(), cf)
		if err != nil {
			return err
		}
		zap.L().Info("assessment complete",
			zap.String("id", assessment.ID),
			zap.String("method", string(assessment.Method)))

		if evalJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(assessment)
		}
		printAssessment(cmd, assessment)
		return nil
	},
}

func init() {
	evalCmd.Flags().BoolVar(&evalJSON, "json", false, "emit the assessment as JSON")
	rootCmd.AddCommand(evalCmd)
}

func printAssessment(cmd *cobra.Command, a *application.Assessment) {
	out := cmd.OutOrStdout()

	if a.CaseName != "" {
		fmt.Fprintf(out, "Case:   %s\n", a.CaseName)
	}
	fmt.Fprintf(out, "Method: %s\n", a.Method)
	if a.FinalLabel != "" {
		fmt.Fprintf(out, "Result: %s%% (%s)\n\n", domain.FormatAuto(a.FinalPct), a.FinalLabel)
	} else {
		fmt.Fprintf(out, "Result: %s%%\n\n", domain.FormatAuto(a.FinalPct))
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	switch {
	case len(a.Rows) > 0:
		fmt.Fprintln(w, "STEP\tEVIDENCE\tP(B|G)%\tP(B|I)%\tOLD%\tNEW%\tDELTA\tTIER")
		for _, row := range a.Rows {
			desc := row.Description
			if row.Counter {
				desc = "[counter] " + desc
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				row.Step, desc, row.Guilty, row.Innocent,
				row.OldPercent, row.NewPercent, row.Delta, row.Label)
		}
	case len(a.Interval) > 0:
		fmt.Fprintln(w, "STEP\tMIN%\tMEDIAN%\tMAX%")
		for _, row := range a.Interval {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", row.Step, row.Min, row.Median, row.Max)
		}
	case a.MonteCarlo != nil:
		mc := a.MonteCarlo
		fmt.Fprintf(w, "samples\t%d\n", len(mc.Samples))
		fmt.Fprintf(w, "mean\t%s%%\n", domain.FormatAuto(mc.Mean))
		fmt.Fprintf(w, "median\t%s%%\n", domain.FormatAuto(mc.Median))
		fmt.Fprintf(w, "std dev\t%s\n", domain.FormatAuto(mc.StdDev))
		fmt.Fprintf(w, "min\t%s%%\n", domain.FormatAuto(mc.Min))
		fmt.Fprintf(w, "q1\t%s%%\n", domain.FormatAuto(mc.Summary.Q1))
		fmt.Fprintf(w, "q3\t%s%%\n", domain.FormatAuto(mc.Summary.Q3))
		fmt.Fprintf(w, "max\t%s%%\n", domain.FormatAuto(mc.Max))
	case a.Dempster != nil:
		ds := a.Dempster
		fmt.Fprintf(w, "m(guilt)\t%s\n", domain.FormatAuto(ds.Guilt))
		fmt.Fprintf(w, "m(innocence)\t%s\n", domain.FormatAuto(ds.Innocence))
		fmt.Fprintf(w, "m(unknown)\t%s\n", domain.FormatAuto(ds.Unknown))
		fmt.Fprintf(w, "conflict\t%s\n", domain.FormatAuto(ds.Conflict))
		fmt.Fprintf(w, "K\t%s\n", domain.FormatAuto(ds.K))
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}
