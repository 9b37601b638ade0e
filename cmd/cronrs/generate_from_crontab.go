package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cout970/cronrs/internal/config"
)

func newGenerateFromCrontabCmd() *cobra.Command {
	var output, crontabFile string

	cmd := &cobra.Command{
		Use:   "generate-from-crontab",
		Short: "Convert the current user's crontab into an equivalent config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdGenerateFromCrontab(output, crontabFile)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "path to write the generated config to (default: stdout)")
	cmd.Flags().StringVarP(&crontabFile, "crontab-file", "f", "", "path to a crontab file (default: `crontab -l`)")
	return cmd
}

func cmdGenerateFromCrontab(output, crontabFile string) error {
	var contents string
	if crontabFile != "" {
		b, err := os.ReadFile(crontabFile)
		if err != nil {
			return fatalf("failed to read crontab: %v", err)
		}
		contents = string(b)
	} else {
		c, err := config.ReadUserCrontab()
		if err != nil {
			return fatalf("%v", err)
		}
		contents = c
	}

	tasks := config.ParseCrontab(contents)
	file := &config.File{
		Tasks:   tasks,
		Logging: config.LoggingFile{Output: "stdout", Level: "info"},
	}

	yamlBytes, err := config.WriteYAML(file)
	if err != nil {
		return fatalf("%v", err)
	}
	return writeGeneratedConfig(yamlBytes, output)
}
