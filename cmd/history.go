package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recent runs, or the files of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				files, err := store.LoadRunFiles(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if len(files) == 0 {
					fmt.Fprintf(out, "No files recorded for run %s\n", args[0])
					return nil
				}
				rows := make([][]string, 0, len(files))
				for _, f := range files {
					detail := f.OutputPath
					if f.Error != "" {
						detail = f.Error
					}
					rows = append(rows, []string{
						filepath.Base(f.InputPath),
						f.Status,
						strconv.Itoa(f.Units),
						strconv.Itoa(f.Batches),
						strconv.Itoa(f.CachedBatches),
						f.Duration.String(),
						detail,
					})
				}
				fmt.Fprintln(out, renderTable(out,
					[]string{"File", "Status", "Lines", "Batches", "Cached", "Time", "Output"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
				))
				return nil
			}

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, r := range runs {
				took := ""
				if !r.FinishedAt.IsZero() {
					took = r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String()
				}
				rows = append(rows, []string{
					r.ID,
					r.StartedAt.Local().Format("2006-01-02 15:04:05"),
					string(r.Status),
					r.SourceLang + " -> " + r.TargetLang,
					r.Backend,
					strconv.Itoa(r.FilesTotal),
					strconv.Itoa(r.FilesFailed),
					took,
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Run", "Started", "Status", "Languages", "Backend", "Files", "Failed", "Took"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "last", 20, "Number of runs to show")
	return cmd
}
