package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AchrafSoltani/nbt"
)

func parseCompression(s string) (nbt.Compression, error) {
	switch s {
	case "gzip":
		return nbt.CompressionGZip, nil
	case "zlib":
		return nbt.CompressionZLib, nil
	case "none":
		return nbt.CompressionNone, nil
	default:
		return 0, fmt.Errorf("unknown --compression %q (want gzip, zlib, or none)", s)
	}
}

func parseEndian(s string) (bool, error) {
	switch s {
	case "big":
		return true, nil
	case "little":
		return false, nil
	default:
		return false, fmt.Errorf("unknown --endian %q (want big or little)", s)
	}
}

func newConvertCmd() *cobra.Command {
	var compressionFlag, endianFlag string
	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Load a file and re-save it under a different framing or endianness",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			compression, err := parseCompression(compressionFlag)
			if err != nil {
				return err
			}
			bigEndian, err := parseEndian(endianFlag)
			if err != nil {
				return err
			}
			root, err := nbt.Load(args[0], nbt.WithCompression(nbt.CompressionAutoDetect))
			if err != nil {
				return fmt.Errorf("loading %s: %w", args[0], err)
			}
			if err := nbt.Save(args[1], root, nbt.WithCompression(compression), nbt.WithBigEndian(bigEndian)); err != nil {
				return fmt.Errorf("saving %s: %w", args[1], err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&compressionFlag, "compression", "none", "output compression: gzip, zlib, or none")
	cmd.Flags().StringVar(&endianFlag, "endian", "big", "output byte order: big or little")
	return cmd
}
