package main

import (
	"github.com/spf13/cobra"

	"github.com/AchrafSoltani/nbt"
)

func newDumpCmd() *cobra.Command {
	var indent string
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Load a file (auto-detecting compression) and pretty-print its tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := nbt.Load(args[0], nbt.WithCompression(nbt.CompressionAutoDetect))
			if err != nil {
				return err
			}
			return nbt.PrettyPrint(cmd.OutOrStdout(), root, indent)
		},
	}
	cmd.Flags().StringVar(&indent, "indent", "", "indent string (defaults to nbt.DefaultIndent)")
	return cmd
}
