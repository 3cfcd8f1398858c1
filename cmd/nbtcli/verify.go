package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AchrafSoltani/nbt"
)

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <file>",
		Short: "Round-trip a file in memory and report whether it re-serializes byte-identically",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			original, err := nbt.Load(args[0], nbt.WithCompression(nbt.CompressionAutoDetect))
			if err != nil {
				return err
			}
			var reencoded bytes.Buffer
			if err := nbt.SaveWriter(&reencoded, original, nbt.WithCompression(nbt.CompressionNone)); err != nil {
				return err
			}
			reparsed, err := nbt.LoadReader(bytes.NewReader(reencoded.Bytes()))
			if err != nil {
				return err
			}
			var rereencoded bytes.Buffer
			if err := nbt.SaveWriter(&rereencoded, reparsed, nbt.WithCompression(nbt.CompressionNone)); err != nil {
				return err
			}
			if bytes.Equal(reencoded.Bytes(), rereencoded.Bytes()) {
				fmt.Fprintln(cmd.OutOrStdout(), "ok: byte-identical round trip")
				return nil
			}
			return fmt.Errorf("round trip is not byte-identical")
		},
	}
	return cmd
}
