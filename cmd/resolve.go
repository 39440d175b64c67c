package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/avallet/chronoplan/core/model"
	"github.com/avallet/chronoplan/core/resolve"
	"github.com/avallet/chronoplan/core/store"
)

var (
	resolveTaskID    string
	resolveHours     float64
	resolveAllocated float64
	resolveDate      string
	resolvePercent   int
)

var resolveCmd = &cobra.Command{
	Use:   "resolve {reduce|extend|partial|free}",
	Short: "Apply one shortfall resolution to the task and free-time files",
	Long: `Applies a single resolution action and rewrites the input files:

  reduce   lower a task's estimate (--task, --hours, optional --allocated)
  extend   move a task's due date later (--task, --date)
  partial  record partial completion (--task, --percent)
  free     add free time on a date (--date, --hours)`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&tasksPath, "tasks", "tasks.json", "JSON file with the task list")
	resolveCmd.Flags().StringVar(&freePath, "free", "free.json", "JSON file with free-time windows")
	resolveCmd.Flags().StringVar(&resolveTaskID, "task", "", "task ID the action applies to")
	resolveCmd.Flags().Float64Var(&resolveHours, "hours", 0, "hours for reduce or free")
	resolveCmd.Flags().Float64Var(&resolveAllocated, "allocated", 0, "hours already placed by the last plan")
	resolveCmd.Flags().StringVar(&resolveDate, "date", "", "date as YYYY-MM-DD for extend or free")
	resolveCmd.Flags().IntVar(&resolvePercent, "percent", 0, "completed share for partial")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	var tasks []model.Task
	if err := readJSON(tasksPath, &tasks); err != nil {
		return fmt.Errorf("read tasks: %w", err)
	}
	var free []model.FreeTimeWindow
	if err := readJSON(freePath, &free); err != nil {
		return fmt.Errorf("read free time: %w", err)
	}

	taskStore := store.NewMemoryTaskStore()
	if err := taskStore.Replace(tasks); err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	freeStore := store.NewMemoryFreeTimeStore()
	for _, w := range free {
		if err := freeStore.Add(w); err != nil {
			return fmt.Errorf("load free time: %w", err)
		}
	}

	r := resolve.New(taskStore, freeStore, nil)

	var date time.Time
	if resolveDate != "" {
		d, err := time.Parse("2006-01-02", resolveDate)
		if err != nil {
			return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
		}
		date = d
	}

	var err error
	switch args[0] {
	case "reduce":
		_, err = r.ReduceEstimate(resolveTaskID, resolveHours, resolveAllocated)
	case "extend":
		if resolveDate == "" {
			return fmt.Errorf("extend requires --date")
		}
		_, err = r.ExtendDueDate(resolveTaskID, date)
	case "partial":
		_, err = r.MarkPartial(resolveTaskID, resolvePercent)
	case "free":
		if resolveDate == "" {
			return fmt.Errorf("free requires --date")
		}
		err = r.InjectFreeTime(date, resolveHours)
	default:
		return fmt.Errorf("unknown action %q", args[0])
	}
	if err != nil {
		return err
	}

	if err := writeJSON(tasksPath, taskStore.List()); err != nil {
		return fmt.Errorf("write tasks: %w", err)
	}
	if err := writeJSON(freePath, freeStore.List()); err != nil {
		return fmt.Errorf("write free time: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", args[0])
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
