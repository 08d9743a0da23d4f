package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"osuindex/config"
	"osuindex/export"
	"osuindex/store"
)

const usage = `usage: osuindex <command> [flags] [args]

commands:
  show [-v] <file.osu>                 parse one file and print it as JSON
  scan [-limit N] [-workers N] <dir>   index every .osu under dir (and inside .osz)
  list [-q text] [-n N]                query the index
  fetch [-v] <beatmap id>              download a beatmap by id and summarize it
`

func main() {
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	log.SetPrefix("osuindex: ")

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if err := run(ctx, cfg, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Config, cmd string, args []string, out io.Writer) error {
	switch cmd {
	case "show":
		return runShow(args, out)
	case "scan":
		return runScan(ctx, cfg, args, out)
	case "list":
		return runList(ctx, cfg, args, out)
	case "fetch":
		return runFetch(ctx, cfg, args, out)
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
	}
}

func openStore(cfg *config.Config) (*store.Store, error) {
	s, err := store.Open(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	return s, nil
}

// exportSink builds the configured sinks. It returns nil when neither a
// directory nor S3 is configured.
func exportSink(cfg *config.Config) (export.Sink, error) {
	var sinks export.MultiSink
	if cfg.Export.Dir != "" {
		sinks = append(sinks, export.DirSink{Dir: cfg.Export.Dir})
	}
	if s3 := cfg.Export.S3; s3.Enabled() {
		sink, err := export.NewS3Sink(export.S3Config{
			Endpoint:  s3.Endpoint,
			Region:    s3.Region,
			AccessKey: s3.AccessKey,
			SecretKey: s3.SecretKey,
			Bucket:    s3.Bucket,
			UseSSL:    s3.UseSSL,
		})
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
	}
	switch len(sinks) {
	case 0:
		return nil, nil
	case 1:
		return sinks[0], nil
	}
	return sinks, nil
}
