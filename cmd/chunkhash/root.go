package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fyrchik/chunkhash"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	hash    string
	size    int64
	count   int64
	verbose bool
}

func newRootCommand() *cobra.Command {
	o := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "chunkhash [flags] FILE...",
		Short:         "Print per-chunk digests of files.",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(o.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			h, err := chunkhash.LookupHasher(o.hash)
			if err != nil {
				return err
			}

			p := chunkhash.Fixed(o.size)
			if cmd.Flags().Changed("count") {
				p = chunkhash.Count(o.count)
			}

			for _, name := range args {
				prefix := ""
				if len(args) > 1 {
					prefix = name + "\t"
				}

				if err := hashFile(cmd.OutOrStdout(), name, prefix, p, h, log); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&o.hash, "hash", "sha256", "digest algorithm")
	cmd.Flags().Int64Var(&o.size, "size", chunkhash.MiB, "chunk size in bytes")
	cmd.Flags().Int64Var(&o.count, "count", 0, "number of chunks")
	cmd.Flags().BoolVarP(&o.verbose, "verbose", "v", false, "log every chunk to stderr")
	cmd.MarkFlagsMutuallyExclusive("size", "count")

	cmd.AddCommand(newHashersCommand())

	return cmd
}

func newHashersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hashers",
		Short: "List supported digest algorithms.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range chunkhash.Hashers() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)

	return cfg.Build()
}

func hashFile(w io.Writer, name, prefix string, p chunkhash.Policy, h chunkhash.Hasher, log *zap.Logger) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	fi, err := f.Stat()
	if err != nil {
		return err
	}

	it, err := chunkhash.New(f, fi.Size(), p, h, chunkhash.WithLogger(log.With(zap.String("file", name))))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	for {
		c, err := it.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		if _, err := fmt.Fprintf(w, "%s%s\n", prefix, c); err != nil {
			return err
		}
	}
}
