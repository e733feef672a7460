package cli

import (
	"context"
	"fmt"
)

// Stats prints the backend and AI requests made during this run, grouped
// by method and status.
func (a *App) Stats(_ context.Context) error {
	rows, err := a.metrics.Requests()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		printlnFn("No requests made yet.")
		return nil
	}
	printlnFn(fmt.Sprintf("%-8s %-16s %s", "METHOD", "STATUS", "COUNT"))
	for _, r := range rows {
		printlnFn(fmt.Sprintf("%-8s %-16s %.0f", r.Method, r.Code, r.Count))
	}
	return nil
}
