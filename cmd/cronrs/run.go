package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cout970/cronrs/internal/config"
	"github.com/cout970/cronrs/internal/scheduler"
	"github.com/cout970/cronrs/internal/sdnotify"
	"github.com/cout970/cronrs/internal/supervisor"
	"github.com/cout970/cronrs/pkg/logx"
)

func newRunCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the tasks defined in the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdRun(*configPath)
		},
	}
}

func cmdRun(configPath string) error {
	path, err := config.Discover(configPath)
	if err != nil {
		return configErrorf("%v", err)
	}

	file, err := config.ReadFile(path)
	if err != nil {
		return configErrorf("%v", err)
	}

	if issues := config.Validate(file); config.HasErrors(issues) {
		for _, i := range issues {
			fmt.Fprintln(os.Stderr, i.String())
		}
		return configErrorf("config file %s is invalid", path)
	}

	tasks, pipeline, loggingCfg, err := config.Resolve(file)
	if err != nil {
		return configErrorf("%v", err)
	}

	svc, log := logx.New(toLogxConfig(loggingCfg))
	defer svc.Close()
	pipeline.Log = log

	log.Info("starting cron-rs", logx.String("config", path), logx.Int("tasks", len(tasks)))

	// SIGHUP is ignored: spec.md §6 states it is ignored (no dynamic reload
	// of the task set).
	signal.Ignore(syscall.SIGHUP)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sup := supervisor.New(ctx, supervisor.WithLogger(log))
	sdnotify.StartWatchdog(sup, log)

	sched := &scheduler.Scheduler{
		Tasks:    tasks,
		Pipeline: pipeline,
		Log:      log,
	}

	sdnotify.Ready()
	err = sched.Run(ctx)

	sdnotify.Stopping()
	sup.Cancel()
	_ = sup.Wait(context.Background())

	log.Info("exiting")

	if err != nil {
		return fatalf("%v", err)
	}
	return nil
}

func toLogxConfig(l config.ResolvedLogging) logx.Config {
	cfg := logx.Config{Level: l.Level}
	switch l.Output {
	case "file":
		cfg.File = logx.FileConfig{Enabled: true, Path: l.Path}
	case "syslog":
		cfg.Syslog = logx.SyslogConfig{Enabled: true, Tag: "cronrs"}
	default:
		cfg.Console = true
	}
	return cfg
}
