package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"scheduling-assistant/internal/model"
	"scheduling-assistant/internal/task"
	"scheduling-assistant/internal/task/usecase"
	"scheduling-assistant/pkg/response"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Inspect stored tasks",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE:  runTasksList,
}

var tasksStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count tasks by status",
	RunE:  runTasksStats,
}

var (
	listFrom   string
	listTo     string
	listStatus string
	listQuery  string
)

func init() {
	tasksCmd.AddCommand(tasksListCmd, tasksStatsCmd)

	tasksListCmd.Flags().StringVar(&listFrom, "from", "", "First date: YYYY-MM-DD or a phrase such as \"next monday\"")
	tasksListCmd.Flags().StringVar(&listTo, "to", "", "Last date: YYYY-MM-DD or a phrase")
	tasksListCmd.Flags().StringVar(&listStatus, "status", "", "pending, completed or cancelled")
	tasksListCmd.Flags().StringVar(&listQuery, "q", "", "Text in title or description")
}

func runTasksList(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	input := task.ListInput{Status: model.TaskStatus(listStatus), Query: listQuery}
	if input.From, err = e.resolveDate(listFrom); err != nil {
		return err
	}
	if input.To, err = e.resolveDate(listTo); err != nil {
		return err
	}

	uc := usecase.New(e.l, e.repo, e.dateMath, nil)
	out, err := uc.List(cmd.Context(), model.Scope{}, input)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTIME\tSTATUS\tPRIORITY\tTITLE")
	for _, t := range out.Tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Date.Format(response.DateFormat), timeSpan(t), t.Status, t.Priority, t.Title)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d tasks\n", out.Count)
	return nil
}

func runTasksStats(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	uc := usecase.New(e.l, e.repo, e.dateMath, nil)
	stats, err := uc.Stats(cmd.Context(), model.Scope{})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "total\t%d\n", stats.Total)
	fmt.Fprintf(w, "pending\t%d\n", stats.Pending)
	fmt.Fprintf(w, "completed\t%d\n", stats.Completed)
	fmt.Fprintf(w, "cancelled\t%d\n", stats.Cancelled)
	fmt.Fprintf(w, "today\t%d\n", stats.Today)
	return w.Flush()
}
