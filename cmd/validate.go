package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/duelcraft/cardpress/internal/catalog"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [catalog.json]",
	Short: "Validate a card catalog file",
	Long: `Validate decodes a catalog file and reports problems: malformed records,
unrecognized enum spellings, duplicate card ids, and suspect type/stanceType
combinations. With no argument the configured catalog path is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			path = cfg.CatalogPath
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("catalog file not found: %s", path)
		}

		cat, err := catalog.Load(path)
		if err != nil {
			color.Red("✗ %v", err)
			return fmt.Errorf("validation failed")
		}

		results := catalog.Validate(cat)

		fmt.Println("Validation Results:")
		fmt.Println("-------------------")

		if len(results.Errors) == 0 {
			color.Green("✓ %s decodes cleanly: %d styles, %d cards.", path, len(cat), cat.TotalCards())
		} else {
			color.Red("✗ %s has %d validation errors:", path, len(results.Errors))
			for i, e := range results.Errors {
				fmt.Printf("%d. %s\n", i+1, e)
			}
		}

		if len(results.Warnings) > 0 {
			fmt.Println("\nWarnings:")
			for i, w := range results.Warnings {
				fmt.Printf("%d. %s\n", i+1, w)
			}
		}

		if len(results.Errors) > 0 {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(validateCmd)
}
