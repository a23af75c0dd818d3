package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/buslog-visualizer/backend/internal/blf"
	"github.com/buslog-visualizer/backend/internal/parser"
)

var (
	dumpLimit  int
	dumpFormat string
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file.blf>",
	Short: "Print decoded records as text or JSON lines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit := dumpLimit
		if !cmd.Flags().Changed("limit") && cliCfg.Dump.Limit > 0 {
			limit = cliCfg.Dump.Limit
		}
		format := dumpFormat
		if !cmd.Flags().Changed("format") && cliCfg.Dump.Format != "" {
			format = cliCfg.Dump.Format
		}
		if format != "text" && format != "json" {
			return fmt.Errorf("unknown format %q in config (want text or json)", format)
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		r, err := blf.NewReader(data)
		if err != nil {
			return err
		}
		start := r.StartTime()

		out := cmd.OutOrStdout()
		enc := json.NewEncoder(out)

		index := 0
		for {
			if limit > 0 && index >= limit {
				break
			}
			rec, err := r.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}

			rv := parser.ViewRecord(index, start, rec)
			index++

			if format == "json" {
				if err := enc.Encode(rv); err != nil {
					return err
				}
				continue
			}

			line := fmt.Sprintf("%12d  %-8s ch%-3d %-24s", rv.TimestampNs, rv.Bus, rv.Channel, rv.Type)
			if rv.FrameID != 0 || rv.DLC != 0 {
				line += fmt.Sprintf(" id=%-8x dlc=%-2d %s", rv.FrameID, rv.DLC, rv.Data)
			} else if rv.Text != "" {
				line += " " + rv.Text
			}
			fmt.Fprintln(out, line)
		}

		if r.Skipped() > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipped %d undecodable objects\n", r.Skipped())
		}
		return nil
	},
}

func init() {
	dumpCmd.Flags().IntVar(&dumpLimit, "limit", 0, "stop after this many records (0 = all)")
	dumpCmd.Flags().Var(newEnumValue(&dumpFormat, "text", "text", "json"), "format", "output format: text or json")
}
