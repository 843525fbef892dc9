package openclawsec

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/aoineco/openclaw-sec/internal/report"
	"github.com/aoineco/openclaw-sec/internal/rules"
)

func runRules(cmd *cobra.Command, _ []string) error {
	fc := loadFileConfig()
	cat, err := loadRules(pickString(cmd, "rules-dir", flagRulesDir, fc.RulesDir))
	if err != nil {
		return err
	}
	format, err := parseFormat(pickString(cmd, "format", flagFormat, fc.Format))
	if err != nil {
		return err
	}
	type row struct {
		ID      string `json:"id"`
		Class   string `json:"class"`
		Level   string `json:"level"`
		Action  string `json:"action"`
		Pattern string `json:"pattern"`
	}
	var all []row
	for _, class := range rules.Classes {
		for _, r := range cat.Get(class).Rules {
			all = append(all, row{r.ID, string(class), r.Level.String(), string(r.Action), r.Pattern.String()})
		}
	}
	w := cmd.OutOrStdout()
	if format == report.FormatJSON {
		return writeIndented(w, all)
	}
	table := tablewriter.NewWriter(w)
	table.Header("ID", "CLASS", "LEVEL", "ACTION", "PATTERN")
	for _, r := range all {
		if err := table.Append(r.ID, r.Class, r.Level, r.Action, r.Pattern); err != nil {
			return err
		}
	}
	return table.Render()
}

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "rules",
		Short: "List the compiled detection rules",
		Long:  "Lists the secret, egress and prompt-injection rules in effect, including overrides from --rules-dir.",
		Args:  cobra.NoArgs,
		RunE:  runRules,
	})
}
