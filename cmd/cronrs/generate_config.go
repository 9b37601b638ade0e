package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cout970/cronrs/internal/config"
)

func newGenerateConfigCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "generate-config",
		Short: "Write a documented example config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdGenerateConfig(output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "path to write the generated config to (default: stdout)")
	return cmd
}

func cmdGenerateConfig(output string) error {
	contents, err := config.WriteYAML(config.DefaultFile())
	if err != nil {
		return fatalf("%v", err)
	}
	return writeGeneratedConfig(contents, output)
}

func writeGeneratedConfig(contents []byte, output string) error {
	if output == "" {
		_, err := os.Stdout.Write(contents)
		return err
	}

	if info, err := os.Stat(output); err == nil {
		if info.IsDir() {
			return configErrorf("%s is a directory, not a file", output)
		}
	}

	if err := os.WriteFile(output, contents, 0o644); err != nil {
		return fatalf("unable to write %s: %v", output, err)
	}
	color.Green("Generated config file at %s", output)
	fmt.Println()
	return nil
}
