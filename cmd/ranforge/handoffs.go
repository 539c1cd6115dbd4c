package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/RANForge/ranforge/internal/config"
	"github.com/RANForge/ranforge/internal/service"
)

// runValidateHandoffs statically checks an agent hand-off table for
// cycles and backward stage progression. Exit is nonzero when the table
// has defects.
func runValidateHandoffs(_ *config.Config, args []string) error {
	fs := flag.NewFlagSet("validate-handoffs", flag.ContinueOnError)
	agentsFile := fs.String("agents", "", "YAML agent table (built-in table when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		svc *service.HandoffService
		err error
	)
	if *agentsFile != "" {
		svc, err = service.NewHandoffServiceFromFile(*agentsFile)
		if err != nil {
			return err
		}
	} else {
		svc = service.NewHandoffService()
	}

	report := svc.Validate()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "agents checked:\t%d\n", len(svc.Table()))
	if len(report.Cycle) > 0 {
		fmt.Fprintf(w, "circular dependency:\t%v\n", report.Cycle)
	}
	for _, v := range report.Violations {
		fmt.Fprintf(w, "violation:\t%s\n", v)
	}
	if report.OK() {
		fmt.Fprintln(w, "result:\tok")
	} else {
		fmt.Fprintln(w, "result:\tinvalid")
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !report.OK() {
		return fmt.Errorf("hand-off table has %d violation(s)", len(report.Violations)+len(report.Cycle))
	}
	return nil
}
