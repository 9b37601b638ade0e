// Package main is the CLI surface of spec.md §6: `run` (default),
// `validate <path>`, `generate-config`, `generate-from-crontab`, with a
// global `--config` flag and exit codes 0/1/2, wired with cobra the way
// bnema-gordon's CLI adapter wires its own subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// exit codes per spec.md §6.
const (
	exitOK           = 0
	exitConfigError  = 1
	exitRuntimeFatal = 2
)

func run(args []string) int {
	var configPath string

	root := &cobra.Command{
		Use:           "cronrs",
		Short:         "A user-space task scheduler for shell commands",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdRun(configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the config file")

	root.AddCommand(newRunCmd(&configPath))
	root.AddCommand(newValidateCmd(&configPath))
	root.AddCommand(newGenerateConfigCmd())
	root.AddCommand(newGenerateFromCrontabCmd())

	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		if ce, ok := err.(*cliError); ok {
			if ce.msg != "" {
				fmt.Fprintln(os.Stderr, ce.msg)
			}
			return ce.code
		}
		fmt.Fprintln(os.Stderr, err)
		return exitRuntimeFatal
	}
	return exitOK
}

// cliError carries a specific exit code through cobra's error-returning
// RunE, since cobra itself always exits with 1 on error.
type cliError struct {
	code int
	msg  string
}

func (e *cliError) Error() string { return e.msg }

func configErrorf(format string, args ...any) error {
	return &cliError{code: exitConfigError, msg: fmt.Sprintf(format, args...)}
}

func fatalf(format string, args ...any) error {
	return &cliError{code: exitRuntimeFatal, msg: fmt.Sprintf(format, args...)}
}
