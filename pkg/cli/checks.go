package cli

import (
	"flag"
	"fmt"

	"github.com/ctlsys/docaudit/pkg/audit"
)

// newChecksCommand creates a new checks command
func newChecksCommand() *Command {
	fs := flag.NewFlagSet("checks", flag.ExitOnError)

	return &Command{
		Name:        "checks",
		Description: "List the audit passes and what they verify",
		Flags:       fs,
		Run: func(args []string) error {
			if err := fs.Parse(args); err != nil {
				return err
			}

			fmt.Printf("Audit passes (%d):\n\n", len(audit.Checks))
			for _, check := range audit.Checks {
				fmt.Printf("  - %-18s %s\n", check.Name, check.Description)
			}
			return nil
		},
	}
}
