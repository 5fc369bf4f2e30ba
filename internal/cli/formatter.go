package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/idelchi/treewalk/internal/treewalk"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
	// MaxListedErrors caps the errors listed in table output.
	MaxListedErrors = 20
)

// PrintJSON outputs the result in JSON format.
func PrintJSON(result Result, writer io.Writer) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintYAML outputs the result in YAML format.
func PrintYAML(result Result, writer io.Writer) error {
	enc := yaml.NewEncoder(writer)
	enc.SetIndent(2)

	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encoding YAML output: %w", err)
	}

	return enc.Close()
}

// PrintTable outputs the result in human-readable table format.
//
//nolint:forbidigo // This function prints output to the console.
func PrintTable(result Result, writer io.Writer) error {
	report := result.Report

	if len(report.Errors) > 0 {
		printErrors(report.Errors, writer)
	}

	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintln(w, "\nStats:\t\t")
	fmt.Fprintf(w, "Root:\t%s\n", result.Root)
	fmt.Fprintf(w, "Action:\t%s\n", result.Action)
	fmt.Fprintf(w, "Total files:\t%s\n", humanize.Comma(report.Files))
	fmt.Fprintf(w, "Total directories:\t%s\n", humanize.Comma(report.Dirs))
	fmt.Fprintf(w, "Batches:\t%d sequential, %d parallel (threshold %d)\n",
		report.SequentialBatches, report.ParallelBatches, report.Threshold)

	if result.Bytes != nil {
		fmt.Fprintf(w, "Total size:\t%s (%d bytes)\n",
			humanize.IBytes(uint64(*result.Bytes)), *result.Bytes) //nolint:gosec // Bytes is always positive
	}

	fmt.Fprintf(w, "Errors:\t%d unreadable directories, %d failed files\n",
		len(report.Failed(treewalk.KindDirectoryUnreadable)), len(report.Failed(treewalk.KindActionFailed)))

	if result.Census != nil {
		fmt.Fprintf(w, "Census:\t%s files, %s\n",
			humanize.Comma(result.Census.Files),
			humanize.IBytes(uint64(result.Census.Bytes))) //nolint:gosec // Bytes is always positive
	}

	if report.Cancelled {
		fmt.Fprintf(w, "Status:\t%s\n", color.YellowString("cancelled"))
	}

	fmt.Fprintf(w, "\nElapsed:\t%v\n", report.Elapsed)

	return w.Flush()
}

// printErrors lists the contained errors, oldest first.
//
//nolint:forbidigo // This function prints output to the console.
func printErrors(errs []*treewalk.Error, writer io.Writer) {
	red := color.New(color.FgRed)

	red.Fprintf(writer, "\nErrors (%d):\n", len(errs))

	for i, err := range errs {
		if i == MaxListedErrors {
			fmt.Fprintf(writer, "  … %d more\n", len(errs)-MaxListedErrors)

			break
		}

		fmt.Fprintf(writer, "  %d) %s '%s': %v\n", i+1, err.Kind, err.Path, err.Err)
	}
}
