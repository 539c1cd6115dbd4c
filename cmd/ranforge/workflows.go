package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/RANForge/ranforge/internal/config"
	"github.com/RANForge/ranforge/internal/service"
)

// runWorkflows lists every resolvable workflow with its stage count.
func runWorkflows(cfg *config.Config, _ []string) error {
	ctx := context.Background()
	workflows := service.NewWorkflowService(cfg.Workflows.Dir, nil)

	names, err := workflows.Names(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTAGES\tDESCRIPTION")
	for _, name := range names {
		def, err := workflows.Resolve(ctx, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", def.Name, len(def.Stages), def.Description)
	}
	return w.Flush()
}
