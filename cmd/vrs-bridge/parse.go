package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clinbio/vrs-bridge/internal/expression"
	"github.com/clinbio/vrs-bridge/internal/translate"
)

func newParseCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse <expression>...",
		Short: "Parse SPDI or HGVS expressions into normalized alleles",
		Example: `  vrs-bridge parse "NC_000002.12:27453448:C:T"
  vrs-bridge parse "NC_000002.12:g.27453449C>T" --format fhir`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "vrs" && format != "fhir" {
				return fmt.Errorf("unknown format %q (want vrs or fhir)", format)
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			parser := expression.NewParser(store)
			trans := translate.New(store)
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")

			for _, expr := range args {
				allele, err := parser.Parse(cmd.Context(), expr)
				if err != nil {
					return fmt.Errorf("parse %q: %w", expr, err)
				}
				var out any = allele
				if format == "fhir" {
					if out, err = trans.ToFHIR(cmd.Context(), allele); err != nil {
						return fmt.Errorf("translate %q: %w", expr, err)
					}
				}
				if err := enc.Encode(out); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "vrs", "output schema (vrs or fhir)")

	return cmd
}
