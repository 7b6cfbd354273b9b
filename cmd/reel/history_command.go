package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reel/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent deliveries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("limit must be positive")
			}

			var payload struct {
				Deliveries []history.Delivery `json:"deliveries"`
			}
			if err := ctx.apiGet(fmt.Sprintf("/api/history?limit=%d", limit), &payload); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(payload.Deliveries) == 0 {
				fmt.Fprintln(out, "No deliveries recorded")
				return nil
			}

			rows := make([][]string, 0, len(payload.Deliveries))
			for _, delivery := range payload.Deliveries {
				rows = append(rows, []string{
					delivery.CreatedAt.Local().Format("2006-01-02 15:04"),
					fmt.Sprintf("%d", delivery.UserID),
					delivery.Kind,
					formatSize(delivery.SizeBytes),
					string(delivery.Outcome),
					delivery.Title,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"When", "User", "Kind", "Size", "Outcome", "Title"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of deliveries to show")
	return cmd
}

func formatSize(sizeBytes int64) string {
	if sizeBytes <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f MB", float64(sizeBytes)/(1024*1024))
}
