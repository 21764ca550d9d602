// Command classify-exploredd serves an explored-class registry over gRPC so
// several shrinking processes can share one record of explored classes.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"

	"xdao.co/classify/explored"
	"xdao.co/classify/explored/backends"
	"xdao.co/classify/explored/exploredconfig"
	"xdao.co/classify/explored/grpcreg"

	_ "xdao.co/classify/explored/localfs"
	_ "xdao.co/classify/explored/memory"
)

type options struct {
	listen       string
	backend      string
	configPath   string
	preferred    string
	listBackends bool
	verbose      bool
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "classify-exploredd",
		Short: "Serve an explored-class registry over gRPC",
		Long: `classify-exploredd serves the xdao.classify.explored.v1.Registry gRPC service.

The registry is opened either from a single backend selected with --backend
and its flags, or from a YAML/JSON config file given with --config.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.listBackends {
				return listBackends(cmd.OutOrStdout())
			}
			logger, err := newLogger(opts.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, opts, logger)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&opts.listen, "listen", "127.0.0.1:7778", "listen address")
	fs.StringVar(&opts.backend, "backend", "memory", "registry backend name")
	fs.StringVar(&opts.configPath, "config", "", "registry config file (overrides --backend)")
	fs.StringVar(&opts.preferred, "prefer", "", "backend name or id to put first when --config lists several")
	fs.BoolVar(&opts.listBackends, "list-backends", false, "list supported backends and exit")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	backends.RegisterFlags(fs, backends.UsageDaemon)
	return cmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func listBackends(w io.Writer) error {
	for _, b := range backends.List(backends.UsageDaemon) {
		if b.Description == "" {
			if _, err := fmt.Fprintf(w, "%s\n", b.Name); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", b.Name, b.Description); err != nil {
			return err
		}
	}
	return nil
}

func openRegistry(opts options) (explored.Registry, func() error, error) {
	if opts.configPath == "" {
		return backends.Open(opts.backend, backends.UsageDaemon)
	}
	cfg, err := exploredconfig.LoadFile(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg.Open(backends.UsageDaemon, opts.preferred)
}

func serve(ctx context.Context, opts options, logger *zap.Logger) error {
	backends.SetLogger(logger.Named("backend"))
	registry, closeFn, err := openRegistry(opts)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer func() {
			if err := closeFn(); err != nil {
				logger.Warn("closing registry", zap.Error(err))
			}
		}()
	}

	lis, err := net.Listen("tcp", opts.listen)
	if err != nil {
		return err
	}

	s := grpc.NewServer()
	grpcreg.RegisterRegistryServer(s, &grpcreg.Server{Registry: registry, Log: logger.Named("grpc")})

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		s.GracefulStop()
	}()

	logger.Info("listening",
		zap.String("addr", lis.Addr().String()),
		zap.String("backend", opts.backend),
		zap.String("config", opts.configPath),
	)
	if err := s.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
