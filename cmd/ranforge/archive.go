package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/RANForge/ranforge/internal/adapter/postgres"
	"github.com/RANForge/ranforge/internal/config"
)

// runArchive inspects the Postgres run archive: a listing by default, or
// one full snapshot as JSON with --id.
func runArchive(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("archive", flag.ContinueOnError)
	limit := fs.Int("limit", 50, "maximum runs to list")
	workflowID := fs.String("id", "", "print one archived run as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if cfg.Postgres.DSN == "" {
		return fmt.Errorf("archive requires a postgres DSN (set DATABASE_URL)")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	store := postgres.NewArchive(pool)

	if *workflowID != "" {
		state, err := store.GetRun(ctx, *workflowID)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	}

	summaries, err := store.ListRuns(ctx, *limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WORKFLOW_ID\tWORKFLOW\tSTATUS\tSTAGES\tSTARTED")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			s.WorkflowID, s.Workflow, s.Status, s.StageCount,
			s.StartedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}
