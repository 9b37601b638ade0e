package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cout970/cronrs/internal/config"
)

func newValidateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := *configPath
			if len(args) == 1 {
				path = args[0]
			}
			return cmdValidate(path)
		},
	}
}

func cmdValidate(configPath string) error {
	path, err := config.Discover(configPath)
	if err != nil {
		return configErrorf("%v", err)
	}

	file, err := config.ReadFile(path)
	if err != nil {
		return configErrorf("%v", err)
	}

	issues := config.Validate(file)
	if len(issues) == 0 {
		color.Green("config file %s is valid", path)
		return nil
	}

	for _, issue := range issues {
		if issue.Severity == config.SeverityError {
			color.Red("error: %s", issue.Message)
		} else {
			color.Yellow("warning: %s", issue.Message)
		}
	}

	if config.HasErrors(issues) {
		return configErrorf("config file %s has %d issue(s)", path, len(issues))
	}

	fmt.Println()
	color.Green("config file %s is valid (with warnings above)", path)
	return nil
}
