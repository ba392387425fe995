package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clinbio/vrs-bridge/internal/factory"
)

func newCreateCmd() *cobra.Command {
	var (
		params      factory.Params
		format      string
		noNormalize bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Build an allele from primitive inputs",
		Example: `  vrs-bridge create --accession NC_000002.12 --start 27453448 --end 27453449 --state T
  vrs-bridge create --accession NM_000769.4 --start 100 --end 103 --state "" --format fhir`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "vrs" && format != "fhir" {
				return fmt.Errorf("unknown format %q (want vrs or fhir)", format)
			}
			params.Normalize = !noNormalize
			if !cmd.Flags().Changed("no-normalize") && viper.IsSet("create.normalize") {
				params.Normalize = viper.GetBool("create.normalize")
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			f := factory.New(store)
			var out any
			if format == "fhir" {
				out, err = f.FHIRAllele(cmd.Context(), params)
			} else {
				out, err = f.VRSAllele(cmd.Context(), params)
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVar(&params.Accession, "accession", "", "versioned RefSeq accession (required)")
	cmd.Flags().Int64Var(&params.Start, "start", 0, "0-based interbase interval start")
	cmd.Flags().Int64Var(&params.End, "end", 0, "0-based interbase interval end")
	cmd.Flags().StringVar(&params.State, "state", "", "literal state sequence (empty for deletion)")
	cmd.Flags().StringVar(&params.ID, "id", "", "allele identifier (default ref-to-<accession>)")
	cmd.Flags().StringVar(&format, "format", "vrs", "output schema (vrs or fhir)")
	cmd.Flags().BoolVar(&noNormalize, "no-normalize", false, "skip normalization of the built allele")
	cmd.MarkFlagRequired("accession")

	return cmd
}
