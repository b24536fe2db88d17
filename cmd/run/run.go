// Package run implements the command that builds and supervises the demo
// media pipeline: a clock-paced frame generator feeding a gain transform
// and a counting sink.
package run

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/mediaflow/internal/conf"
	"github.com/tphakala/mediaflow/internal/logging"
	"github.com/tphakala/mediaflow/internal/observability"
	"github.com/tphakala/mediaflow/internal/pipeline"
	"github.com/tphakala/mediaflow/internal/stages"
)

// options carries the run command's flag values.
type options struct {
	frameSize   int
	interval    time.Duration
	maxFrames   uint64
	gain        float64
	reportEvery uint64
}

// Command creates the run command.
func Command(settings *conf.Settings) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the media pipeline",
		Long:  "Build the generator -> gain -> counter pipeline and supervise it until completion or interrupt.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(settings, opts)
		},
	}

	if err := setupFlags(cmd, settings, opts); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the run command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings, opts *options) error {
	cmd.Flags().IntVar(&opts.frameSize, "framesize", 512, "Samples per generated frame")
	cmd.Flags().DurationVar(&opts.interval, "interval", 10*time.Millisecond, "Pacing between generated frames, 0 for unpaced")
	cmd.Flags().Uint64Var(&opts.maxFrames, "frames", 0, "Stop after this many frames, 0 for unbounded")
	cmd.Flags().Float64Var(&opts.gain, "gain", 1.0, "Amplification factor applied to every sample")
	cmd.Flags().Uint64Var(&opts.reportEvery, "report-every", 1000, "Log progress every N frames, 0 to disable")
	cmd.Flags().BoolVar(&settings.Telemetry.Enabled, "telemetry", viper.GetBool("telemetry.enabled"), "Enable Prometheus telemetry endpoint")
	cmd.Flags().StringVar(&settings.Telemetry.Listen, "listen", viper.GetString("telemetry.listen"), "Listen address and port of telemetry endpoint")

	if err := viper.BindPFlag("telemetry.enabled", cmd.Flags().Lookup("telemetry")); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	if err := viper.BindPFlag("telemetry.listen", cmd.Flags().Lookup("listen")); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}

func runPipeline(settings *conf.Settings, opts *options) error {
	log := logging.ForService("run")
	if log == nil {
		log = slog.Default()
	}

	var telemetryWg sync.WaitGroup
	quit := make(chan struct{})
	defer func() {
		close(quit)
		telemetryWg.Wait()
	}()

	if settings.Telemetry.Enabled {
		m, err := observability.NewMetrics()
		if err != nil {
			return fmt.Errorf("failed to initialize metrics: %w", err)
		}
		pipeline.InitMetrics(m.Pipeline)

		endpoint, err := observability.NewEndpoint(settings, m)
		if err != nil {
			return fmt.Errorf("failed to initialize telemetry endpoint: %w", err)
		}
		endpoint.Start(&telemetryWg, quit)
	}

	gen := stages.NewGenerator(opts.frameSize, opts.interval)
	gen.MaxFrames = opts.maxFrames

	gain, err := stages.NewGain(opts.gain)
	if err != nil {
		return err
	}
	counter := stages.NewCounter(opts.reportEvery)

	b := pipeline.NewBuilder(pipeline.NewSystemClock())

	path, err := pipeline.Source(b, "generator", gen)
	if err != nil {
		return err
	}
	framePath, err := pipeline.Via(path, "gain", gain)
	if err != nil {
		return err
	}
	if _, err := framePath.Sink("counter", counter); err != nil {
		return err
	}

	p, completion, err := b.Build(context.Background())
	if err != nil {
		return fmt.Errorf("pipeline launch failed: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var result error
	select {
	case result = <-completion:
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig.String())
		p.Shutdown()
		result = <-completion
	}

	p.Wait()

	log.Info("pipeline finished",
		"frames", counter.Frames(),
		"samples", counter.Samples())

	if result != nil {
		return fmt.Errorf("pipeline failed: %w", result)
	}
	return nil
}
