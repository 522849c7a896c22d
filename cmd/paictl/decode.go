package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lsta/pai/internal/connection"
	"github.com/lsta/pai/internal/panel"
	"github.com/lsta/pai/internal/protocol/paradox"
)

type decodeOptions struct {
	direction string
	as        string
}

func decodeCommand() *cobra.Command {
	opts := decodeOptions{direction: "from_panel"}
	cmd := cobra.Command{
		Use:   "decode HEX",
		Short: "Decode one 37-byte frame",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return decode(cmd, args, opts)
		},
	}
	cmd.Flags().StringVar(&opts.direction, "direction", opts.direction, "Frame direction: to_panel or from_panel")
	cmd.Flags().StringVar(&opts.as, "as", opts.as, "Force a message type instead of classifying")
	return &cmd
}

func parseHex(args []string) ([]byte, error) {
	s := strings.Join(args, "")
	s = strings.NewReplacer(" ", "", ":", "", "0x", "", "0X", "").Replace(s)
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("parsing hex: %w", err)
	}
	return b, nil
}

func decodeFrame(b []byte, dir paradox.Direction, as string) (paradox.Message, error) {
	if as != "" {
		spec, err := paradox.Lookup(as)
		if err != nil {
			return nil, err
		}
		return spec.Parse(b)
	}
	msg, err := panel.ParseMessage(b, dir)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, fmt.Errorf("unrecognised %s frame % X", dir, b)
	}
	return msg, nil
}

func decode(cmd *cobra.Command, args []string, opts decodeOptions) error {
	b, err := parseHex(args)
	if err != nil {
		return err
	}
	dir, err := paradox.ParseDirection(opts.direction)
	if err != nil {
		return err
	}
	msg, err := decodeFrame(b, dir, opts.as)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", msg.Name(), out)
	return nil
}

func password(cmd *cobra.Command, args []string) error {
	b, err := paradox.EncodePassword(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "% X\n", b)
	return nil
}

func errorMessage(cmd *cobra.Command, args []string) error {
	raw := args[0]
	base := 10
	if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
		raw, base = raw[2:], 16
	}
	code, err := strconv.ParseUint(raw, base, 8)
	if err != nil {
		return fmt.Errorf("parsing code %q: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "0x%02X %s\n", code, paradox.ErrorMessage(int(code)))
	return nil
}

func messages(cmd *cobra.Command, _ []string) error {
	for _, name := range paradox.Names() {
		spec, _ := paradox.Lookup(name)
		fmt.Fprintf(cmd.OutOrStdout(), "%-32s %s\n", name, spec.Direction)
	}
	return nil
}

func ports(cmd *cobra.Command, _ []string) error {
	list, err := connection.SerialPorts()
	if err != nil {
		return err
	}
	for _, p := range list {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}
