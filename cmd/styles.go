package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/duelcraft/cardpress/internal/catalog"
)

// stylesCmd represents the styles command
var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List the fighting styles in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		catalogPath, _ := cmd.Flags().GetString("catalog")
		if catalogPath == "" {
			catalogPath = cfg.CatalogPath
		}

		cat, err := catalog.Load(catalogPath)
		if err != nil {
			return err
		}

		stats := cat.Stats()
		keys := make([]string, 0, len(cat))
		for key := range cat {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Style", "Type", "Range", "Cards"})
		for _, key := range keys {
			style := cat[key]
			t.AppendRow(table.Row{style.StyleName, style.StyleType, style.RangePreference, stats.CardsByStyle[key]})
		}
		t.AppendFooter(table.Row{"", "", "Total", stats.TotalCards})
		t.Render()

		fmt.Printf("\n%d styles loaded from %s\n", stats.Styles, catalogPath)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(stylesCmd)

	stylesCmd.Flags().StringP("catalog", "c", "", "Catalog file to read (default: configured catalog_path)")
}
