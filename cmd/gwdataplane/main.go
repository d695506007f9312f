// gwdataplane is the fabric gateway's control-plane binary: it owns the
// configuration processor, the route-ingester, and the periodic
// reconciliation driver. Packet I/O itself runs in an external DPDK or
// kernel driver process not built here; this binary is reached only
// through its management sockets.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fabricgw/gwdataplane/pkg/actor"
	"github.com/fabricgw/gwdataplane/pkg/configdb"
	"github.com/fabricgw/gwdataplane/pkg/frrmi"
	"github.com/fabricgw/gwdataplane/pkg/ingest"
	"github.com/fabricgw/gwdataplane/pkg/netstate"
	"github.com/fabricgw/gwdataplane/pkg/util"
	"github.com/fabricgw/gwdataplane/pkg/version"
	"github.com/go-redis/redis/v8"
)

var opts = &options{}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "gwdataplane",
	Short:         "Fabric gateway control plane: configuration processor, route ingester, reconciler",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	f := rootCmd.Flags()

	f.IntVar(&opts.mainLcore, "main-lcore", 2, "Main lcore id")
	f.StringVar(&opts.lcores, "lcores", "", "DPDK lcore map spec")
	f.StringArrayVar(&opts.allow, "allow", nil, "PCI device to allow (DDDD:BB:DD.F), repeatable")
	f.IntVar(&opts.hugeWorkerStack, "huge-worker-stack", 8192, "Per-worker hugepage stack size (KB)")
	f.StringVar(&opts.socketMem, "socket-mem", "", "Per-NUMA-socket hugepage memory to preallocate")
	f.StringVar(&opts.iovaMode, "iova-mode", "", "IOVA addressing mode: va or pa")
	f.StringArrayVar(&opts.logLevels, "log-level", nil, "Log level, bare or pkg=level, repeatable")
	f.StringVar(&opts.driver, "driver", "kernel", "Packet I/O driver: kernel or dpdk")
	f.StringArrayVar(&opts.interfaces, "interface", nil, "NAME[=PCIADDR], comma-sep or repeatable")
	f.IntVar(&opts.numWorkers, "num-workers", 1, "Worker thread count (1..=64)")
	f.StringVar(&opts.grpcAddress, "grpc-address", "[::1]:50051", "Management gRPC listen address or unix path")
	f.BoolVar(&opts.grpcUnixSocket, "grpc-unix-socket", false, "Treat --grpc-address as a unix socket path")
	f.StringVar(&opts.cpiSockPath, "cpi-sock-path", "/run/gwdataplane/cpi.sock", "Route-ingester unix datagram socket path")
	f.StringVar(&opts.cliSockPath, "cli-sock-path", "/run/gwdataplane/cli.sock", "Local FRRMI unix datagram socket path")
	f.StringVar(&opts.frrAgentPath, "frr-agent-path", "/run/frr/frrmi.sock", "Routing daemon's FRRMI peer socket path")
	f.StringVar(&opts.metricsAddress, "metrics-address", "127.0.0.1:9090", "Prometheus metrics listen address")
	f.StringVar(&opts.redisAddress, "redis-address", "", "Redis address for the generation store; empty uses an in-memory store")
	f.StringVar(&opts.reconcileEvery, "reconcile-interval", "30s", "Periodic reconciliation driver interval")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gwdataplane %s (%s)\n", version.Version, version.GitCommit)
	},
}

func run(cmd *cobra.Command, args []string) error {
	if err := opts.validate(); err != nil {
		return err
	}

	global, scoped := logLevelOverrides(opts.logLevels)
	if global != "" {
		if err := util.SetLogLevel(global); err != nil {
			return fmt.Errorf("--log-level %q: %w", global, err)
		}
	}
	for pkg, level := range scoped {
		util.WithField("pkg", pkg).Warnf("per-package log level %q requested but not supported; using the global level", level)
	}

	reconcileEvery, err := time.ParseDuration(opts.reconcileEvery)
	if err != nil {
		return fmt.Errorf("--reconcile-interval %q: %w", opts.reconcileEvery, err)
	}

	var backend configdb.Backend
	if opts.redisAddress != "" {
		backend = configdb.NewRedisBackend(redis.NewClient(&redis.Options{Addr: opts.redisAddress}))
	} else {
		backend = configdb.NewMemoryBackend()
	}
	store := configdb.New(backend)

	frrClient, err := frrmi.NewClient(opts.cliSockPath, opts.frrAgentPath)
	if err != nil {
		return fmt.Errorf("frrmi client: %w", err)
	}
	defer frrClient.Close()

	if opts.driver != "kernel" {
		return fmt.Errorf("--driver %q has no in-process reconciler; the dpdk driver runs out of process", opts.driver)
	}
	reconciler := netstate.NewKernel()

	a := actor.New(store, frrClient, reconciler)

	ribs := newRibSet()
	a.OnApply(ribs.sync)

	ing, err := ingest.Listen(opts.cpiSockPath, ribs)
	if err != nil {
		return fmt.Errorf("route ingester: %w", err)
	}
	defer ing.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go a.Run(ctx)

	go func() {
		if err := ing.Serve(); err != nil && ctx.Err() == nil {
			util.Logger.WithError(err).Error("route ingester stopped")
		}
	}()

	go runReconcileLoop(ctx, a, reconcileEvery)

	util.WithFields(map[string]interface{}{
		"driver":      opts.driver,
		"num_workers": opts.numWorkers,
		"cpi_sock":    opts.cpiSockPath,
		"cli_sock":    opts.cliSockPath,
	}).Info("gwdataplane started")

	<-ctx.Done()
	util.Logger.Info("gwdataplane shutting down")
	return nil
}

func runReconcileLoop(ctx context.Context, a *actor.Actor, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			passes, converged, err := a.Reconcile(ctx)
			if err != nil {
				util.Logger.WithError(err).Warn("periodic reconciliation failed")
				continue
			}
			if !converged {
				util.Logger.WithField("passes", passes).Warn("periodic reconciliation did not converge within budget")
			}
		}
	}
}
