package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/MimeLyc/subtitle-batch-translator/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Translate every caption file in the input directory once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()

			driver, err := ctx.newDriver()
			if err != nil {
				return err
			}

			report, err := driver.Run(cmd.Context())
			if report != nil {
				printReport(cmd.OutOrStdout(), report)
			}
			if err != nil {
				pipeline.NewDefaultErrorHandler().Handle(err)
				return err
			}
			if report.Failed() > 0 {
				return errFilesFailed
			}
			return nil
		},
	}
}

func printReport(w io.Writer, report *pipeline.Report) {
	rows := make([][]string, 0, len(report.Files))
	for _, f := range report.Files {
		detail := f.OutputPath
		if f.Err != nil {
			detail = f.Err.Error()
		} else if len(f.Mismatches) > 0 {
			detail = fmt.Sprintf("%s (%d misaligned batches)", f.OutputPath, len(f.Mismatches))
		}
		rows = append(rows, []string{
			filepath.Base(f.InputPath),
			string(f.Status),
			strconv.Itoa(f.Units),
			strconv.Itoa(f.Batches),
			strconv.Itoa(f.CachedBatches),
			f.Duration.Round(time.Millisecond).String(),
			detail,
		})
	}

	fmt.Fprintln(w, renderTable(w,
		[]string{"File", "Status", "Lines", "Batches", "Cached", "Time", "Output"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
	))
	fmt.Fprintf(w, "%s -> %s via %s: %d succeeded, %d failed, %d skipped in %s\n",
		report.SourceLang, report.TargetLang, report.Backend,
		report.Succeeded(), report.Failed(), report.Skipped(),
		report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
}
