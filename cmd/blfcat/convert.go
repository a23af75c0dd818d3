package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/buslog-visualizer/backend/internal/blf"
	"github.com/buslog-visualizer/backend/internal/models"
	"github.com/buslog-visualizer/backend/internal/parser"
)

var (
	convertOutput string
	convertFormat string
)

var convertCmd = &cobra.Command{
	Use:   "convert <file.blf>",
	Short: "Convert a capture to msgpack or JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := convertFormat
		if !cmd.Flags().Changed("format") && cliCfg.Convert.Format != "" {
			format = cliCfg.Convert.Format
		}
		if format != "msgpack" && format != "json" {
			return fmt.Errorf("unknown format %q in config (want msgpack or json)", format)
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

		var records []models.RecordView
		for {
			rec, err := r.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			records = append(records, parser.ViewRecord(len(records), start, rec))
		}

		var encoded []byte
		switch format {
		case "msgpack":
			encoded, err = msgpack.Marshal(records)
		case "json":
			encoded, err = json.MarshalIndent(records, "", "  ")
		}
		if err != nil {
			return err
		}

		if convertOutput == "" || convertOutput == "-" {
			_, err = cmd.OutOrStdout().Write(encoded)
			return err
		}
		if err := os.WriteFile(convertOutput, encoded, 0644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d records to %s\n", len(records), convertOutput)
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output file (default stdout)")
	convertCmd.Flags().Var(newEnumValue(&convertFormat, "msgpack", "msgpack", "json"), "format", "output format: msgpack or json")
}
