package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/autostream-assistant/server/internal/agent/repo"
	"github.com/autostream-assistant/server/internal/app"
)

func newLeadsCmd(cfg *app.Config) *cobra.Command {
	var asJSON bool
	var path string

	cmd := &cobra.Command{
		Use:   "leads",
		Short: "List leads stored by the sqlite lead sink",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = cfg.Leads.SQLitePath
			}
			r, err := repo.OpenSQLiteLeadRepository(cmd.Context(), path)
			if err != nil {
				return err
			}
			defer r.Close()

			leads, err := r.List(cmd.Context())
			if err != nil {
				return err
			}
			return printLeads(cmd.OutOrStdout(), leads, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print leads as JSON")
	cmd.Flags().StringVar(&path, "db", "", "Lead database path (default: LEAD_SQLITE_PATH)")
	return cmd
}

func printLeads(out io.Writer, leads []repo.StoredLead, asJSON bool) error {
	if asJSON {
		if leads == nil {
			leads = []repo.StoredLead{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(leads)
	}

	if len(leads) == 0 {
		fmt.Fprintln(out, "No leads captured yet.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SUBMITTED\tNAME\tEMAIL\tPLATFORM\tREFERENCE")
	for _, l := range leads {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", l.SubmittedAt.Local().Format(time.DateTime), l.Name, l.Email, l.Platform, l.Reference)
	}
	return w.Flush()
}
