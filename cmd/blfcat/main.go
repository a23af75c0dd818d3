// blfcat inspects and converts BLF capture files from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

// cliConfig holds defaults that can be set in a blfcat.toml next to
// the working directory, so repeated invocations don't need flags.
type cliConfig struct {
	Dump struct {
		Limit  int    `toml:"limit"`
		Format string `toml:"format"`
	} `toml:"dump"`
	Convert struct {
		Format string `toml:"format"`
	} `toml:"convert"`
}

var (
	cfgFile string
	cliCfg  cliConfig
)

var rootCmd = &cobra.Command{
	Use:   "blfcat",
	Short: "Inspect and convert BLF capture files",
	Long: `blfcat reads Vector BLF capture files and prints their metadata,
dumps decoded records as text, or converts them to other formats.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadCLIConfig()
	},
}

func loadCLIConfig() error {
	path := cfgFile
	if path == "" {
		path = "blfcat.toml"
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cliCfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to blfcat.toml")
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(convertCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
