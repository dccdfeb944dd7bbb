package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var workerMode bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe the store and Splynx API channels",
	Run: func(_ *cobra.Command, _ []string) {
		deps, cleanup := mustCreateGateway()
		defer cleanup()

		check := func(ctx context.Context) error {
			return deps.connectivity.RunCheck(ctx)
		}
		if workerMode {
			runWorker("connectivity_check", deps.cfg.Jobs.CheckInterval, check)
			return
		}
		if err := runJob("connectivity_check", func() error { return check(context.Background()) }); err != nil {
			cleanup()
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&workerMode, "worker", false, "Run continuously using CHECK_INTERVAL_MINUTES")
}

func runWorker(name string, interval time.Duration, fn func(ctx context.Context) error) {
	if interval <= 0 {
		logrus.WithField("job", name).Fatal("invalid worker interval")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_ = runJob(name, func() error { return fn(ctx) })

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	for {
		select {
		case <-quit:
			logrus.WithField("job", name).Info("Worker shutdown requested")
			return
		case <-ticker.C:
			_ = runJob(name, func() error { return fn(ctx) })
		}
	}
}

func runJob(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	latency := time.Since(start)
	if err != nil {
		logrus.WithError(err).WithField("job", name).WithField("latency", latency.String()).Error("job_failed")
		return err
	}
	logrus.WithField("job", name).WithField("latency", latency.String()).Info("job_completed")
	return nil
}

