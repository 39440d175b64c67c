package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/avallet/chronoplan/core/model"
	"github.com/avallet/chronoplan/core/planner"
	"github.com/avallet/chronoplan/pkg/export"
)

var (
	tasksPath string
	freePath  string
	policy    string
	todayStr  string
	format    string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Run one planning pass over task and free-time files",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&tasksPath, "tasks", "tasks.json", "JSON file with the task list")
	planCmd.Flags().StringVar(&freePath, "free", "free.json", "JSON file with free-time windows")
	planCmd.Flags().StringVar(&policy, "policy", "greedy", "allocation policy: greedy or fairness")
	planCmd.Flags().StringVar(&todayStr, "today", "", "planning date as YYYY-MM-DD, default current date")
	planCmd.Flags().StringVar(&format, "format", "json", "output format: json or csv")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	var tasks []model.Task
	if err := readJSON(tasksPath, &tasks); err != nil {
		return fmt.Errorf("read tasks: %w", err)
	}
	var free []model.FreeTimeWindow
	if err := readJSON(freePath, &free); err != nil {
		return fmt.Errorf("read free time: %w", err)
	}

	today := time.Now().UTC()
	if todayStr != "" {
		t, err := time.Parse("2006-01-02", todayStr)
		if err != nil {
			return fmt.Errorf("today must be YYYY-MM-DD: %w", err)
		}
		today = t
	}

	m, err := planner.NewManager(planner.Config{Policy: policy}, nil, nil, nil)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()

	plan := m.Run(context.Background(), tasks, free, today)

	switch format {
	case "csv":
		return export.WriteCSV(cmd.OutOrStdout(), plan)
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
