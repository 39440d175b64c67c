// Package export renders plans for external consumption.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/avallet/chronoplan/core/planner"
)

// WriteJSON writes the plan to w in JSON format.
func WriteJSON(w io.Writer, p planner.Plan) error {
	return json.NewEncoder(w).Encode(p)
}

// WriteCSV writes the plan's allocations to w in CSV format, one row per
// task-and-date pair.
func WriteCSV(w io.Writer, p planner.Plan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"task_id", "date", "allocated_hours"}); err != nil {
		return err
	}
	for _, a := range p.Allocations {
		rec := []string{
			a.TaskID,
			a.Date.Format("2006-01-02"),
			strconv.FormatFloat(a.AllocatedHours, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteShortfallCSV writes the plan's shortfalls to w in CSV format.
func WriteShortfallCSV(w io.Writer, p planner.Plan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"task_id", "name", "due_date", "total_hours", "allocated_hours", "unallocated_hours", "reason"}); err != nil {
		return err
	}
	for _, s := range p.Shortfalls {
		rec := []string{
			s.TaskID,
			s.Name,
			s.DueDate.Format("2006-01-02"),
			strconv.FormatFloat(s.TotalHours, 'f', -1, 64),
			strconv.FormatFloat(s.AllocatedHours, 'f', -1, 64),
			strconv.FormatFloat(s.UnallocatedHours, 'f', -1, 64),
			s.Reason.String(),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
