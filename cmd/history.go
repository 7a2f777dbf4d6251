package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/cropyield/internal/store"
	"github.com/abhisek/cropyield/internal/submission"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded prediction requests",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent prediction events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		failedOnly, _ := cmd.Flags().GetBool("failed")

		s, err := openHistoryStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.PredictionRepo().QueryPredictions(context.Background(), store.QueryOpts{Limit: limit, FailedOnly: failedOnly})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No prediction events found.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-36s  %-6s  %-12s  %-7s  %s\n",
			"ID", "Timestamp", "Submission", "Status", "Yield", "Ms", "OK")
		fmt.Fprintln(out, strings.Repeat("─", 102))

		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			yield := "-"
			if e.PredictedYield != nil {
				yield = submission.FormatYield(*e.PredictedYield)
			}
			status := "-"
			if e.StatusCode != 0 {
				status = strconv.Itoa(e.StatusCode)
			}
			fmt.Fprintf(out, "%-5d  %-19s  %-36s  %-6s  %-12s  %-7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.SubmissionID,
				status,
				yield,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var historyViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View full request/response for a prediction event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openHistoryStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.PredictionRepo().GetPrediction(context.Background(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		out := cmd.OutOrStdout()
		sep := strings.Repeat("─", 60)

		fmt.Fprintf(out, "ID:         %d\n", e.ID)
		fmt.Fprintf(out, "Time:       %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Submission: %s\n", e.SubmissionID)
		fmt.Fprintf(out, "Endpoint:   %s\n", e.Endpoint)
		fmt.Fprintf(out, "Status:     %d\n", e.StatusCode)
		fmt.Fprintf(out, "Latency:    %dms\n", e.LatencyMs)
		fmt.Fprintf(out, "Success:    %v\n", e.Success)
		if e.PredictedYield != nil {
			fmt.Fprintf(out, "Yield:      %s %s\n", submission.FormatYield(*e.PredictedYield), submission.YieldUnit)
		}
		if e.ErrorMessage != "" {
			fmt.Fprintf(out, "Error:      %s\n", e.ErrorMessage)
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, "REQUEST")
		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, orNotCaptured(e.RequestBody))

		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, "RESPONSE")
		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, orNotCaptured(e.ResponseBody))

		return nil
	},
}

func openHistoryStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func orNotCaptured(s string) string {
	if s == "" {
		return "(not captured)"
	}
	return s
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	historyListCmd.Flags().Bool("failed", false, "Show only failed requests")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyViewCmd)
}
