package main

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/clinbio/vrs-bridge/internal/seqrepo"
)

func newLoadCmd() *cobra.Command {
	var parallel int

	cmd := &cobra.Command{
		Use:   "load <reference.fasta[.gz]>...",
		Short: "Load reference sequences into the sequence store",
		Long:  "Parses FASTA files and stores every sequence, keyed by accession, in the configured DuckDB sequence store.",
		Example: `  vrs-bridge load --repository ~/.vrs-bridge/sequences.duckdb GRCh38.fa.gz
  vrs-bridge load refseq_transcripts.fa refseq_proteins.fa`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			var loaded atomic.Int64
			var g errgroup.Group
			g.SetLimit(parallel)
			for _, path := range args {
				g.Go(func() error {
					n, err := seqrepo.NewFASTALoader(path).Load(store)
					if err != nil {
						return fmt.Errorf("load %s: %w", path, err)
					}
					loaded.Add(int64(n))
					logger.Info("FASTA file loaded",
						zap.String("path", path),
						zap.Int("sequences", n))
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			total, err := store.SequenceCount()
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Loaded %d sequences (%d in store)\n", loaded.Load(), total)
			return nil
		},
	}

	cmd.Flags().IntVar(&parallel, "parallel", 2, "FASTA files parsed concurrently")

	return cmd
}
