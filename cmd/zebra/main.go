package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maax3v3/zebra"
	"github.com/maax3v3/zebra/internal/config"
	"github.com/maax3v3/zebra/internal/notify"
	"github.com/maax3v3/zebra/internal/pictures"
	"github.com/maax3v3/zebra/internal/pipeline"
	"github.com/maax3v3/zebra/internal/preprocess"
	"github.com/maax3v3/zebra/internal/renderer"
	"github.com/maax3v3/zebra/internal/server"
	"github.com/maax3v3/zebra/internal/session"
	"github.com/maax3v3/zebra/internal/window"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: zebra <command> [options]\n\nCommands:\n")
	fmt.Fprintf(os.Stderr, "  render   fill points of a picture and save it as PNG\n")
	fmt.Fprintf(os.Stderr, "  serve    paint over HTTP\n")
	fmt.Fprintf(os.Stderr, "  window   paint in a desktop window\n")
	fmt.Fprintf(os.Stderr, "  version  print the version\n")
	fmt.Fprintf(os.Stderr, "\nRun 'zebra <command> -h' for the options of a command.\n")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "version":
		v, err := buildVersion()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("zebra %s\n", v)
		return
	case "help", "-h", "--help":
		usage()
		return
	}

	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Parse(cmd, args, os.LookupEnv, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	zebra.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.Command {
	case config.CmdRender:
		err = pipeline.Run(ctx, cfg, renderer.NewFaceFont(), os.Stdout)
	case config.CmdServe:
		err = serve(ctx, cfg)
	case config.CmdWindow:
		err = runWindow(cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newSession(cfg config.Config) (*session.Session, error) {
	var sink preprocess.Sink
	if cfg.Notify {
		sink = notify.NewSink(nil)
	}
	s, err := session.New(session.Options{
		Catalog: &pictures.Library{Dir: cfg.PicturesDir},
		Picture: cfg.Picture,
		Sink:    sink,
	})
	if err != nil {
		return nil, err
	}
	if err := s.PickColor(cfg.FillColor); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func serve(ctx context.Context, cfg config.Config) error {
	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	// Without a view the configured size is the only measurement.
	if err := s.Layout(cfg.Width, cfg.Height); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server.New(s),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	fmt.Printf("Listening on %s\n", cfg.Listen)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runWindow(cfg config.Config) error {
	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	return window.Run(s, window.Options{Title: "Zebra", Width: cfg.Width, Height: cfg.Height})
}
