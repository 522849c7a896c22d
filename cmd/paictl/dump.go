package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lsta/pai/internal/capture"
	"github.com/lsta/pai/internal/connection"
	"github.com/lsta/pai/internal/panel"
	"github.com/lsta/pai/internal/protocol/paradox"
)

func dump(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	defer f.Close()

	return dumpCapture(cmd.OutOrStdout(), f)
}

func dumpCapture(w io.Writer, r io.Reader) error {
	recs := make(chan capture.Record, 100)

	var g errgroup.Group
	g.Go(func() error { return processRecords(w, recs) })
	g.Go(func() error { return capture.ReadIn(recs, r) })

	return g.Wait()
}

// processRecords 按方向分别切帧，逐帧解码打印
func processRecords(w io.Writer, recs <-chan capture.Record) error {
	splitters := map[paradox.Direction]*connection.Splitter{
		paradox.ToPanel:   {},
		paradox.FromPanel: {},
	}

	for rec := range recs {
		sp, ok := splitters[rec.Direction]
		if !ok {
			continue
		}
		frames, skipped := sp.Feed(rec.Data)
		ts := rec.Timestamp.Format("15:04:05.000")
		if skipped > 0 {
			fmt.Fprintf(w, "%s %-10s skipped %d bytes\n", ts, rec.Direction, skipped)
		}
		for _, frame := range frames {
			name := "?"
			msg, err := panel.ParseMessage(frame, rec.Direction)
			switch {
			case err != nil:
				name = "!" + err.Error()
			case msg != nil:
				name = msg.Name()
			}
			fmt.Fprintf(w, "%s %-10s % X %s\n", ts, rec.Direction, frame, name)
		}
	}
	return nil
}
