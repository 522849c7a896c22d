// Command paictl 面板协议调试工具：解码帧、编码密码、录制与回放串口流量
package main

import (
	"log"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		log.Fatalln(err)
	}
}

func rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "paictl",
		Args:         cobra.ExactArgs(0),
		SilenceUsage: true,
	}

	cmd.AddCommand(decodeCommand())
	cmd.AddCommand(&cobra.Command{
		Use:   "password PIN",
		Short: "Encode a panel PIN as the 2-byte BCD wire form",
		Args:  cobra.ExactArgs(1),
		RunE:  password,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "error CODE",
		Short: "Describe a panel error code (decimal or 0x-prefixed hex)",
		Args:  cobra.ExactArgs(1),
		RunE:  errorMessage,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "messages",
		Short: "List known message types",
		Args:  cobra.ExactArgs(0),
		RunE:  messages,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "ports",
		Short: "List serial ports",
		Args:  cobra.ExactArgs(0),
		RunE:  ports,
	})
	cmd.AddCommand(recordCommand())
	cmd.AddCommand(&cobra.Command{
		Use:   "dump FILE",
		Short: "Decode a capture file written by record or the gateway",
		Args:  cobra.ExactArgs(1),
		RunE:  dump,
	})
	return cmd
}
