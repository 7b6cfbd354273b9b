package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reel/internal/daemon"
)

const (
	ansiBlue  = "\x1b[34m"
	ansiReset = "\x1b[0m"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status and active sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			var status daemon.Status
			if err := ctx.apiGet("/api/status", &status); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			heading := "Reel daemon"
			if isTerminal(out) {
				heading = ansiBlue + heading + ansiReset
			}
			fmt.Fprintln(out, heading)
			fmt.Fprintf(out, "Running:      %v\n", status.Running)
			fmt.Fprintf(out, "Scratch dir:  %s\n", status.ScratchDir)
			fmt.Fprintf(out, "History db:   %s\n", status.HistoryDBPath)
			fmt.Fprintf(out, "Lock file:    %s\n", status.LockFilePath)
			fmt.Fprintln(out)

			if len(status.Sessions) == 0 {
				fmt.Fprintln(out, "No active sessions")
				return nil
			}

			rows := make([][]string, 0, len(status.Sessions))
			for _, sess := range status.Sessions {
				title := sess.Title
				if strings.TrimSpace(title) == "" {
					title = "-"
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", sess.UserID),
					sess.State,
					title,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"User", "State", "Title"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
