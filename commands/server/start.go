package server

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iov-one/ledger/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind  = "bind"
	flagDebug = "debug"

	shutdownTimeout = 10 * time.Second
)

// StartOptions are the command line settings of the start command.
type StartOptions struct {
	// Bind overrides the configured listen address when set.
	Bind  string
	Debug bool
}

func parseFlags(args []string) (StartOptions, error) {
	var opts StartOptions
	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&opts.Bind, flagBind, "", "address server listens on, overrides the config file")
	startFlags.BoolVar(&opts.Debug, flagDebug, false, "call stack returned on error")
	if err := startFlags.Parse(args); err != nil {
		return opts, errors.Wrap(errors.ErrInput, err.Error())
	}
	return opts, nil
}

// Node is a ready to serve application.
type Node struct {
	// Listen is the address the API is served on.
	Listen  string
	Handler http.Handler
	// Close releases resources held by the application, for example the
	// database. It is called after the server stopped.
	Close func() error
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(home string, logger log.Logger, opts StartOptions) (*Node, error)

// StartCmd initializes the application and serves it until the process
// receives an interrupt or a termination signal.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	node, err := gen(home, logger, opts)
	if err != nil {
		return err
	}
	if opts.Bind != "" {
		node.Listen = opts.Bind
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	serveErr := Serve(ctx, node, logger.With("module", "http"))
	if node.Close != nil {
		if err := node.Close(); err != nil && serveErr == nil {
			serveErr = err
		}
	}
	return serveErr
}

// Serve runs an HTTP server for node until ctx is cancelled, then shuts it
// down gracefully.
func Serve(ctx context.Context, node *Node, logger log.Logger) error {
	srv := &http.Server{
		Addr:              node.Listen,
		Handler:           node.Handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "bind", node.Listen)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	if err := <-errc; err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "serve")
	}
	return nil
}
