package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/lsta/pai/internal/capture"
	"github.com/lsta/pai/internal/connection"
	"github.com/lsta/pai/internal/protocol/paradox"
)

func recordCommand() *cobra.Command {
	var out string
	baud := 9600
	cmd := cobra.Command{
		Use:   "record DEVICE",
		Short: "Passively record bytes read from a serial port",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return record(cmd, args[0], out, baud)
		},
	}
	cmd.Flags().StringVar(&out, "out", out, "Capture file (default: <unix time>.dat)")
	cmd.Flags().IntVar(&baud, "baud", baud, "Serial baud rate")
	return &cmd
}

func outFilename() string {
	return fmt.Sprintf("%d.dat", time.Now().UTC().Unix())
}

func record(cmd *cobra.Command, device, out string, baud int) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	port, err := connection.OpenSerial(device, baud)
	if err != nil {
		return err
	}
	defer port.Close()
	if err := port.SetReadTimeout(100 * time.Millisecond); err != nil {
		return fmt.Errorf("setting read timeout: %w", err)
	}

	name := out
	if name == "" {
		name = outFilename()
	}
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("creating capture: %w", err)
	}
	defer f.Close()

	fmt.Fprintf(cmd.ErrOrStderr(), "recording %s to %s\n", device, name)
	return recordStream(ctx, port, &capture.Recorder{Dest: f})
}

// recordStream 把读到的字节按面板方向写入录制，直至 ctx 取消或读到 EOF
func recordStream(ctx context.Context, r io.Reader, rec *capture.Recorder) error {
	bs := make([]byte, 128)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, err := r.Read(bs)
		if n > 0 {
			if err := rec.Observe(paradox.FromPanel, bs[:n]); err != nil {
				return err
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}
