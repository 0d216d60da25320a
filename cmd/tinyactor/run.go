package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hedisam/tinyactor/actor"
	"github.com/hedisam/tinyactor/config"
	"github.com/hedisam/tinyactor/supervisor"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type runOptions struct {
	configPath  string
	logLevel    string
	duration    time.Duration
	irqInterval time.Duration
	heartbeat   time.Duration
	blink       time.Duration
	pend        bool
	metricsAddr string
}

func newRunOptions() *runOptions {
	return &runOptions{
		irqInterval: 500 * time.Millisecond,
		heartbeat:   time.Second,
		blink:       100 * time.Millisecond,
	}
}

func (o *runOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.configPath, "config", "", "Path of the configuration file")
	cmd.Flags().StringVar(&o.logLevel, "log-level", "", "Log level, overrides the configuration file")
	cmd.Flags().DurationVar(&o.duration, "duration", 0, "Stop after this long, 0 runs until interrupted")
	cmd.Flags().DurationVar(&o.irqInterval, "irq-interval", o.irqInterval, "Interval between simulated button edges")
	cmd.Flags().DurationVar(&o.heartbeat, "heartbeat", o.heartbeat, "Interval of the monitor heartbeat")
	cmd.Flags().DurationVar(&o.blink, "blink", o.blink, "How long the led stays lit after a press")
	cmd.Flags().BoolVar(&o.pend, "pend", false, "Pend button interrupts instead of delivering them from the edge goroutine")
	cmd.Flags().StringVar(&o.metricsAddr, "metrics-addr", "", "Serve /metrics on this address, overrides the configuration file")
}

func (o *runOptions) validate() error {
	if o.duration < 0 {
		return errors.Errorf("duration must not be negative, got %s", o.duration)
	}
	if o.irqInterval <= 0 || o.heartbeat <= 0 || o.blink <= 0 {
		return errors.New("irq-interval, heartbeat and blink must be positive")
	}
	return nil
}

func (o *runOptions) config() (*config.Config, error) {
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.metricsAddr != "" {
		cfg.Metrics.Addr = o.metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return cfg, nil
}

func (o *runOptions) run(ctx context.Context) error {
	cfg, err := o.config()
	if err != nil {
		return err
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		return errors.Trace(err)
	}

	dev, b, err := newBoard(cfg, boardOptions{
		clock:     clock.New(),
		blink:     o.blink,
		heartbeat: o.heartbeat,
	})
	if err != nil {
		return errors.Trace(err)
	}
	sup := dev.Supervisor()

	if o.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.duration)
		defer cancel()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return dev.Run(ctx)
	})
	g.Go(func() error {
		return pressButton(ctx, sup, b.pin, o.irqInterval, o.pend)
	})
	if cfg.Metrics.Addr != "" {
		g.Go(func() error {
			return serveMetrics(ctx, cfg.Metrics.Addr)
		})
	}
	err = g.Wait()
	log.Info("board stopped",
		zap.Int64("presses", b.led.presses.Load()),
		zap.Int64("beats", b.monitor.beats.Load()))
	if errors.Cause(err) == context.Canceled || errors.Cause(err) == context.DeadlineExceeded {
		return nil
	}
	return errors.Trace(err)
}

func serveMetrics(ctx context.Context, addr string) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	supervisor.InitMetrics(registry)
	actor.InitMetrics(registry)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Info("serving metrics", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return errors.Annotatef(err, "serve metrics on %s", addr)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("metrics server shutdown failed", zap.Error(err))
	}
	<-errCh
	return nil
}

func newCmdRun() *cobra.Command {
	o := newRunOptions()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the demo board until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.validate(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return o.run(ctx)
		},
	}
	o.addFlags(cmd)
	return cmd
}
