package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/idelchi/treewalk/internal/action"
	"github.com/idelchi/treewalk/internal/config"
	"github.com/idelchi/treewalk/internal/logging"
	"github.com/idelchi/treewalk/internal/treewalk"
)

// Result is what treewalk prints after a walk.
type Result struct {
	// Root is the walked directory.
	Root string `json:"root" yaml:"root"`
	// Action is the name of the applied action.
	Action string `json:"action" yaml:"action"`
	// Bytes is the number of bytes the action touched, if it tracks them.
	Bytes *int64 `json:"bytes,omitempty" yaml:"bytes,omitempty"`
	// Report is the walk report.
	Report *treewalk.Report `json:"report" yaml:"report"`
	// Census holds the census totals when verification was requested.
	Census *treewalk.CensusResult `json:"census,omitempty" yaml:"census,omitempty"`
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

//nolint:funlen // Linear orchestration of one run
func logic(ctx context.Context, cfg config.Config, root string, stdout, stderr io.Writer) error {
	log, flush, err := logging.New(cfg.Debug, cfg.Output != "table")
	if err != nil {
		return err
	}
	defer flush()

	log = log.WithValues("run", uuid.NewString())

	act, err := action.ByName(cfg.Action, log, stdout)
	if err != nil {
		return err
	}

	opt := cfg.Options()
	opt.Logger = log

	var census *treewalk.CensusResult

	if cfg.Verify {
		census, err = treewalk.Census(ctx, root, opt)
		if err != nil {
			return err
		}

		log.V(1).Info("census finished", "files", census.Files, "elapsed", census.Elapsed)
	}

	enableProgress := cfg.Output == "table" &&
		cfg.Action != "print" &&
		!cfg.Debug &&
		isTerminal(stderr)

	var bar *progressbar.ProgressBar

	if enableProgress {
		total := int64(-1)
		if census != nil {
			total = census.Files
		}

		bar = progressbar.NewOptions64(total,
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionSetDescription("Walking…"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)

		opt.Progress = func(files int64) {
			_ = bar.Set64(files)
		}
	}

	report, walkErr := treewalk.Walk(ctx, root, act.Do, opt)

	// Clear the status line
	if bar != nil {
		_ = bar.Finish()
	}

	if report == nil {
		return walkErr
	}

	result := Result{Root: root, Action: act.Name, Report: report, Census: census}

	if act.Bytes != nil {
		n := act.Bytes()
		result.Bytes = &n
	}

	if err := render(cfg.Output, result, stdout); err != nil {
		return err
	}

	if walkErr != nil {
		return walkErr
	}

	return verify(report, census)
}

// verify compares a completed walk against its census.
func verify(report *treewalk.Report, census *treewalk.CensusResult) error {
	if census == nil || report.Files == census.Files {
		return nil
	}

	return fmt.Errorf("%w: walked %d files (%d errors), census counted %d (%d errors)",
		errVerification, report.Files, len(report.Errors), census.Files, census.Errors)
}

func render(output string, result Result, w io.Writer) error {
	switch output {
	case "json":
		return PrintJSON(result, w)
	case "yaml":
		return PrintYAML(result, w)
	case "table":
		return PrintTable(result, w)
	case "none":
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", output)
	}
}
