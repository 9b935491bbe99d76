package cli

import (
	"flag"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/ctlsys/docaudit/pkg/audit"
	"github.com/ctlsys/docaudit/pkg/manifest"
)

// newAuditCommand creates a new audit command
func newAuditCommand() *Command {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)

	var (
		manifestFile  = fs.String("manifest", "", "Path to the library manifest (YAML)")
		configFile    = fs.String("config", "", "Path to audit config file (docaudit.yaml)")
		format        = fs.String("format", "text", "Output format: text, json, github, sarif")
		failOnError   = fs.Bool("fail-on-error", true, "Exit with error code on fatal findings")
		failOnWarning = fs.Bool("fail-on-warning", false, "Exit with error code on warnings")
		verbose       = fs.Bool("verbose", false, "Verbose trace output")
		watch         = fs.Bool("watch", false, "Re-run the audit when manifest or config change")
	)

	return &Command{
		Name:        "audit",
		Description: "Audit a library manifest against its docstrings",
		Flags:       fs,
		Run: func(args []string) error {
			if err := fs.Parse(args); err != nil {
				return err
			}
			if *manifestFile == "" {
				return fmt.Errorf("missing required flag: -manifest")
			}

			opts := auditOptions{
				manifestFile:  *manifestFile,
				configFile:    *configFile,
				format:        *format,
				failOnError:   *failOnError,
				failOnWarning: *failOnWarning,
				verbose:       *verbose,
			}
			if *watch {
				return watchAudit(opts)
			}
			return runAudit(opts)
		},
	}
}

type auditOptions struct {
	manifestFile  string
	configFile    string
	format        string
	failOnError   bool
	failOnWarning bool
	verbose       bool
}

func runAudit(opts auditOptions) error {
	lib, err := manifest.Load(opts.manifestFile)
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}

	var config *audit.Config
	if opts.configFile != "" {
		config, err = audit.LoadConfig(opts.configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		config, err = audit.LoadConfigFromDir(filepath.Dir(opts.manifestFile))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	log := logrus.New()
	if opts.verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	engine := audit.New(lib, config, log)
	report := engine.Run()

	switch opts.format {
	case "json":
		if err := outputJSON(report); err != nil {
			return err
		}
	case "github":
		outputGitHub(report)
	case "sarif":
		if err := outputSARIF(report); err != nil {
			return err
		}
	default:
		outputText(report, opts.verbose)
	}

	if opts.failOnError && report.Summary.Errors > 0 {
		return fmt.Errorf("audit failed with %d errors", report.Summary.Errors)
	}
	if opts.failOnWarning && report.Summary.Warnings > 0 {
		return fmt.Errorf("audit failed with %d warnings", report.Summary.Warnings)
	}
	return nil
}

// watchAudit re-runs the audit whenever the manifest or config file changes.
func watchAudit(opts auditOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	watched := map[string]bool{
		filepath.Clean(opts.manifestFile): true,
	}
	if opts.configFile != "" {
		watched[filepath.Clean(opts.configFile)] = true
	}
	// Watch the containing directories; editors replace files on save.
	dirs := map[string]bool{}
	for path := range watched {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	runOnce := func() {
		if err := runAudit(opts); err != nil {
			fmt.Printf("audit: %v\n", err)
		}
	}
	runOnce()

	// Coalesce bursts of write events before re-running.
	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(200*time.Millisecond, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case <-pending:
			fmt.Printf("\nchange detected, re-running audit\n")
			runOnce()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Printf("watcher error: %v\n", err)
		}
	}
}
