package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd, exportCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded exposure sessions",
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	var resp struct {
		Sessions []struct {
			StartedAt     time.Time `json:"started_at"`
			ActiveSeconds int       `json:"active_seconds"`
			UVIndex       float64   `json:"uv_index"`
			Location      string    `json:"location"`
			Weather       struct {
				Description string `json:"description"`
			} `json:"weather"`
			EstimatedIU float64 `json:"estimated_iu"`
		} `json:"sessions"`
		Count    int `json:"count"`
		Capacity int `json:"capacity"`
	}
	if err := c.get("/api/history", &resp); err != nil {
		return err
	}

	if resp.Count == 0 {
		fmt.Println("No sessions recorded yet. Run 'solarin start' to begin.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tDURATION\tUV\tLOCATION\tSKY\tVITAMIN D")
	for _, s := range resp.Sessions {
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%s\t%s\t%.0f IU\n",
			s.StartedAt.Format("2006-01-02 15:04"),
			formatSeconds(s.ActiveSeconds),
			s.UVIndex,
			s.Location,
			s.Weather.Description,
			s.EstimatedIU,
		)
	}
	fmt.Fprintf(w, "\n%d of %d retained sessions\n", resp.Count, resp.Capacity)
	return w.Flush()
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export session history as CSV to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		data, err := c.raw("/api/history/export")
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}
