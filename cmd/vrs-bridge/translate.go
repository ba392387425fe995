package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clinbio/vrs-bridge/internal/batch"
)

func newTranslateCmd() *cobra.Command {
	var (
		output    string
		direction string
		workers   int
	)

	cmd := &cobra.Command{
		Use:   "translate <records.jsonl[.gz]>",
		Short: "Translate allele records between VRS and FHIR",
		Long:  "Reads line-delimited JSON records, translates every allele member in the requested direction, and writes one translated allele per line.",
		Example: `  vrs-bridge translate alleles.jsonl -o profiles.jsonl
  vrs-bridge translate profiles.jsonl.gz --direction fhir-to-vrs -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := batch.VRSToFHIR
			switch direction {
			case "vrs-to-fhir":
			case "fhir-to-vrs":
				dir = batch.FHIRToVRS
			default:
				return fmt.Errorf("unknown direction %q (want vrs-to-fhir or fhir-to-vrs)", direction)
			}
			if !cmd.Flags().Changed("workers") {
				workers = viper.GetInt("batch.workers")
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			var in io.ReadCloser = os.Stdin
			if args[0] != "-" {
				if in, err = batch.OpenInput(args[0]); err != nil {
					return err
				}
				defer in.Close()
			}

			var out io.WriteCloser = os.Stdout
			if output != "-" {
				if out, err = batch.CreateOutput(output); err != nil {
					return err
				}
				defer out.Close()
			}

			runner := batch.NewRunner(store)
			runner.SetLogger(logger)
			runner.SetWorkers(workers)

			summary, err := runner.Run(cmd.Context(), in, out, dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Translated %d/%d alleles (%d failed, %d skipped, %d invalid lines) across %d records [run %s]\n",
				summary.Translated, summary.Alleles, summary.Failed, summary.Skipped, summary.Invalid, summary.Records, summary.RunID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file (- for stdout, .gz compresses)")
	cmd.Flags().StringVar(&direction, "direction", "vrs-to-fhir", "translation direction (vrs-to-fhir or fhir-to-vrs)")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker count (0 = number of CPUs)")

	return cmd
}
