// Command nbtcli inspects and converts NBT files: dump prints a tree,
// convert re-saves under a different framing or endianness, and verify
// checks that a file round-trips byte-for-byte.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("nbtcli: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "nbtcli",
		Short:         "Inspect and convert Named Binary Tag files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(os.Stdout)
	root.AddCommand(newDumpCmd(), newConvertCmd(), newVerifyCmd())
	return root
}
