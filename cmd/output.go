package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/session"
	"github.com/spigell/jobmatch/internal/store/postgres"
)

const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// outputFormat prefers the command's --output flag over the config value.
func outputFormat(cmd *cobra.Command, config *Config) string {
	if flag := cmd.Flags().Lookup("output"); flag != nil && flag.Changed {
		return flag.Value.String()
	}
	if config.Output == "" {
		return OutputTable
	}
	return config.Output
}

func checkOutput(format string) error {
	switch format {
	case OutputTable, OutputJSON:
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func renderViews(w io.Writer, format string, views []session.View) error {
	if format == OutputJSON {
		return writeJSON(w, views)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCOMPANY\tLOCATION\tTYPE\tMATCH\tPOSTED\tFLAGS")
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			v.ID, v.Title, v.Company, v.Location, v.Type, matchLabel(v), v.PostedOn(), flagsLabel(v),
		)
	}
	return tw.Flush()
}

func renderApplications(w io.Writer, format string, applications []postgres.Application) error {
	if format == OutputJSON {
		return writeJSON(w, applications)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POSTING\tTITLE\tCOMPANY\tSTATUS\tAPPLIED")
	for _, a := range applications {
		posting, title := a.PostingID, a.Title
		if a.Removed() {
			posting, title = "-", "(posting removed)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", posting, title, a.Company, a.Status, a.AppliedAt.Format(jobs.DisplayDateLayout))
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func matchLabel(v session.View) string {
	score, ok := v.Score()
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%d%%", score)
}

func flagsLabel(v session.View) string {
	flags := make([]string, 0, 2)
	if v.Saved {
		flags = append(flags, "saved")
	}
	if v.Applied {
		flags = append(flags, "applied")
	}
	return strings.Join(flags, ",")
}

// viewLabel is the one-line form used by the interactive menu.
func viewLabel(v session.View) string {
	label := fmt.Sprintf("%s %s / %s / %s [%s]", v.ID, v.Title, v.Company, v.Location, matchLabel(v))
	if flags := flagsLabel(v); flags != "" {
		label += " (" + flags + ")"
	}
	return label
}
