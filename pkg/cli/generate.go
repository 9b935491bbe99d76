package cli

import (
	"flag"
	"fmt"

	"github.com/ctlsys/docaudit/pkg/gosource"
	"github.com/ctlsys/docaudit/pkg/manifest"
)

// newGenerateCommand creates a new generate command
func newGenerateCommand() *Command {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)

	var (
		dir     = fs.String("dir", ".", "Root directory of the Go source tree to snapshot")
		pkgName = fs.String("package", "", "Package name recorded in the manifest (default: directory name)")
		out     = fs.String("out", "manifest.yaml", "Output manifest path")
	)

	return &Command{
		Name:        "generate",
		Description: "Generate a library manifest from a Go source tree",
		Flags:       fs,
		Run: func(args []string) error {
			if err := fs.Parse(args); err != nil {
				return err
			}

			lib, err := gosource.Load(*dir, *pkgName)
			if err != nil {
				return fmt.Errorf("failed to generate manifest: %w", err)
			}
			if err := manifest.Save(lib, *out); err != nil {
				return fmt.Errorf("failed to write manifest: %w", err)
			}

			fmt.Printf("Wrote %s: %d modules\n", *out, len(lib.Modules))
			return nil
		},
	}
}
