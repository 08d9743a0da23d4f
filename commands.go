package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strconv"
	"text/tabwriter"
	"time"

	"osuindex/config"
	"osuindex/dotosu"
	"osuindex/export"
	"osuindex/fetch"
	"osuindex/library"
	"osuindex/store"
)

func runShow(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "log every field warning")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("show: expected one .osu file")
	}

	b, err := dotosu.DecodeFile(fs.Arg(0))
	if err != nil {
		return err
	}
	logWarnings(b, *verbose)

	data, err := export.Marshal(b)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s\n", data)
	return err
}

func runScan(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	limit := fs.Int("limit", 0, "stop after this many .osu files (0 = all)")
	workers := fs.Int("workers", cfg.Workers, "parallel parsers")
	verbose := fs.Bool("v", false, "log every field warning")
	if err := fs.Parse(args); err != nil {
		return err
	}
	root := cfg.SongsDir
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}
	if root == "" {
		return errors.New("scan: no songs directory given and OSUINDEX_SONGS_DIR is unset")
	}

	sources, err := library.Collect(root, *limit)
	if err != nil {
		return err
	}
	log.Printf("found %d .osu files under %s", len(sources), root)

	cache, err := library.NewCache(cfg.CacheSize)
	if err != nil {
		return err
	}
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	sink, err := exportSink(cfg)
	if err != nil {
		return err
	}
	fails := library.FailureLog{Dir: cfg.FailDir}

	start := time.Now()
	scanner := &library.Scanner{Workers: *workers, Cache: cache}
	results := scanner.Scan(ctx, sources)

	var indexed, exported, warned int
	for _, r := range results {
		if r.Err != nil {
			log.Printf("%s: %v", r.Source.Path, r.Err)
			if err := fails.Record(r); err != nil {
				log.Print(err)
			}
			continue
		}
		logWarnings(r.Beatmap, *verbose)
		if len(r.Beatmap.Warnings) > 0 {
			warned++
		}
		if err := db.Put(ctx, store.EntryFromBeatmap(r.Beatmap, start)); err != nil {
			return err
		}
		indexed++
		if sink != nil {
			if err := export.Write(ctx, sink, r.Beatmap); err != nil {
				log.Print(err)
				continue
			}
			exported++
		}
	}

	fmt.Fprintf(out, "indexed %d/%d beatmaps (%d with warnings, %d exported) in %s\n",
		indexed, len(results), warned, exported, time.Since(start).Round(time.Millisecond))
	return library.Summarize(results)
}

func runList(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	query := fs.String("q", "", "match title, artist, creator, version or tags")
	n := fs.Int("n", 100, "maximum rows")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := db.Search(ctx, *query, *n)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODE\tARTIST\tTITLE\tVERSION\tOBJECTS\tPATH")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n",
			e.BeatmapID, dotosu.GameMode(e.Mode), e.Artist, e.Title, e.Version, e.HitObjects, e.Path)
	}
	return w.Flush()
}

func runFetch(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "log every field warning")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("fetch: expected one beatmap id")
	}
	id, err := strconv.Atoi(fs.Arg(0))
	if err != nil || id <= 0 {
		return fmt.Errorf("fetch: invalid beatmap id %q", fs.Arg(0))
	}

	b, err := fetch.New(cfg.Fetch.URLFormat, cfg.Fetch.PerMinute).Fetch(ctx, id)
	if err != nil {
		return err
	}
	logWarnings(b, *verbose)

	e := store.EntryFromBeatmap(b, time.Now())
	fmt.Fprintf(out, "%s - %s [%s] by %s\n", e.Artist, e.Title, e.Version, e.Creator)
	fmt.Fprintf(out, "mode %s, format v%d, %d timing points, %d hit objects, %d warnings\n",
		dotosu.GameMode(e.Mode), e.FormatVersion, e.TimingPoints, e.HitObjects, e.Warnings)
	return nil
}

func logWarnings(b *dotosu.Beatmap, verbose bool) {
	if len(b.Warnings) == 0 {
		return
	}
	if !verbose {
		log.Printf("%s: %d malformed fields ignored", b.Path, len(b.Warnings))
		return
	}
	for _, w := range b.Warnings {
		log.Printf("%s: %v", b.Path, w)
	}
}
