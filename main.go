package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	gologging "github.com/sigmonsays/go-logging"
)

func main() {
	var (
		configFile  = flag.String("config", "", "yaml config file")
		printConfig = flag.Bool("print-config", false, "print the effective config and exit")
		check       = flag.Bool("check", false, "run the solver once after binding and log its steps")
		token       = flag.String("token", "", "print a bearer token for this access key and exit")
		tokenTTL    = flag.Duration("token-ttl", 0, "lifetime of the -token token, 0 for none")
	)
	flag.Parse()

	cfg, err := LoadConfig(*configFile, os.LookupEnv)
	if err != nil {
		ExitError("config: %s", err)
	}
	gologging.SetLogLevel(cfg.LogLevel)

	if *printConfig {
		if err := cfg.PrintConfig(); err != nil {
			ExitError("print config: %s", err)
		}
		return
	}
	if *token != "" {
		tok, err := NewJwtAuth(cfg.Auth).SignToken(*token, *tokenTTL)
		if err != nil {
			ExitError("token %s: %s", *token, err)
		}
		fmt.Println(tok)
		return
	}

	srv, err := NewServer(cfg)
	if err != nil {
		ExitError("server: %s", err)
	}

	// bind before touching the solver so health checks pass right away
	l, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		ExitError("listen %s: %s", cfg.Addr(), err)
	}
	log.Infof("nissy web running at http://%s", l.Addr())
	log.Infof("using executable: %s", cfg.Solver.Path)

	errs := make(chan error, 1)
	go func() {
		errs <- srv.Serve(l)
	}()

	if *check {
		go srv.Check(context.Background())
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errs:
		ExitError("serve %s: %s", cfg.Addr(), err)
	case sig := <-signals:
		log.Infof("received signal %v, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout+time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		log.Warnf("graceful shutdown: %s", err)
	}
	log.Infof("stopped")
}

func ExitError(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "ERROR: "+msg+"\n", args...)
	os.Exit(1)
}
