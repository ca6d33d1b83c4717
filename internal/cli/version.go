package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrz1836/transit/internal/migration"
	"github.com/mrz1836/transit/internal/tui"
)

// providerHeaders are the columns of the supported sources table.
//
//nolint:gochecknoglobals // read-only column names
var providerHeaders = []string{"PROVIDER", "PRODUCT", "VERSIONS"}

// versionInfo is the JSON form of the version command.
type versionInfo struct {
	Version   string         `json:"version"`
	Commit    string         `json:"commit"`
	Date      string         `json:"date"`
	Providers []providerInfo `json:"providers"`
}

type providerInfo struct {
	Name     string `json:"name"`
	Product  string `json:"product"`
	Versions string `json:"versions"`
}

// AddVersionCommand adds the version command, which also lists the source
// products the built-in providers migrate.
func AddVersionCommand(root *cobra.Command, flags *GlobalFlags, info BuildInfo) {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show the version and the supported source products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVersion(cmd, flags.Output, info, migration.DefaultRegistry())
		},
	}
	root.AddCommand(cmd)
}

func runVersion(cmd *cobra.Command, output string, info BuildInfo, registry *migration.Registry) error {
	providers := registry.Providers()

	if output == OutputJSON {
		data := versionInfo{
			Version:   info.Version,
			Commit:    info.Commit,
			Date:      info.Date,
			Providers: make([]providerInfo, 0, len(providers)),
		}
		for _, p := range providers {
			data.Providers = append(data.Providers, providerInfo{Name: p.Name, Product: p.Product, Versions: p.Versions})
		}
		return tui.NewJSONOutput(cmd.OutOrStdout()).JSON(data)
	}

	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "transit %s\n\nSupported sources:\n", formatVersion(info))
	rows := make([][]string, 0, len(providers))
	for _, p := range providers {
		rows = append(rows, []string{p.Name, p.Product, p.Versions})
	}
	tui.NewOutput(w, OutputText).Table(providerHeaders, rows)
	return nil
}
