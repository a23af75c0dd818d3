package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/buslog-visualizer/backend/internal/blf"
)

// applicationNames maps the well-known application IDs found in the
// file preamble to the Vector tool that wrote the capture.
var applicationNames = map[uint8]string{
	0: "Unknown",
	1: "CANalyzer",
	2: "CANoe",
	3: "CANstress",
	4: "CANlog",
	5: "CANape",
	6: "CANcaseXL log",
	7: "Vector Logger Configurator",
}

var infoCmd = &cobra.Command{
	Use:   "info <file.blf>",
	Short: "Print file metadata and object accounting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		r, err := blf.NewReader(data)
		if err != nil {
			return err
		}
		stats := r.Statistics()

		appName, ok := applicationNames[stats.ApplicationID]
		if !ok {
			appName = fmt.Sprintf("Unknown (%d)", stats.ApplicationID)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "File:              %s\n", args[0])
		fmt.Fprintf(out, "Application:       %s %d.%d.%d\n", appName,
			stats.ApplicationMajor, stats.ApplicationMinor, stats.ApplicationBuild)
		fmt.Fprintf(out, "API number:        %d\n", stats.APINumber)
		fmt.Fprintf(out, "File size:         %d\n", stats.FileSize)
		fmt.Fprintf(out, "Uncompressed size: %d\n", stats.UncompressedFileSize)
		fmt.Fprintf(out, "Object count:      %d\n", stats.ObjectCount)
		if t := stats.MeasurementStart.Time(); !t.IsZero() {
			fmt.Fprintf(out, "Measurement start: %s\n", t.Format("2006-01-02 15:04:05.000"))
		}
		if t := stats.LastObjectTime.Time(); !t.IsZero() {
			fmt.Fprintf(out, "Last object time:  %s\n", t.Format("2006-01-02 15:04:05.000"))
		}

		// Walk the stream to count what is actually decodable.
		counts := make(map[string]int)
		decoded := 0
		for {
			rec, err := r.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			counts[rec.Header().Type.String()]++
			decoded++
		}

		fmt.Fprintf(out, "Decoded records:   %d\n", decoded)
		if r.Skipped() > 0 {
			fmt.Fprintf(out, "Skipped objects:   %d\n", r.Skipped())
		}
		if len(counts) > 0 {
			fmt.Fprintln(out, "Record types:")
			for _, name := range sortedKeys(counts) {
				fmt.Fprintf(out, "  %-28s %d\n", name, counts[name])
			}
		}
		return nil
	},
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
