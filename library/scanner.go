package library

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"osuindex/dotosu"
)

// Result is the outcome for one source. Exactly one of Beatmap and Err is
// set.
type Result struct {
	Source  Source
	Beatmap *dotosu.Beatmap
	Err     error
	Cached  bool
}

// Scanner parses sources on a bounded number of goroutines. Each source is
// isolated: an error or panic while parsing one only affects its Result.
type Scanner struct {
	Workers int
	Cache   *Cache
}

// Scan parses every source and returns results in the order of sources.
// Sources not yet started when ctx is cancelled get ctx.Err().
func (s *Scanner) Scan(ctx context.Context, sources []Source) []Result {
	workers := min(max(s.Workers, 1), max(len(sources), 1))
	results := make([]Result, len(sources))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.parse(ctx, sources[i])
			}
		}()
	}
	for i := range sources {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

func (s *Scanner) parse(ctx context.Context, src Source) (res Result) {
	res.Source = src
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	if b, ok := s.Cache.Get(src); ok {
		res.Beatmap, res.Cached = b, true
		return res
	}
	defer recoverInto(&res)

	b, err := parseSource(src)
	if err != nil {
		res.Err = err
		return res
	}
	s.Cache.Add(src, b)
	res.Beatmap = b
	return res
}

func parseSource(src Source) (*dotosu.Beatmap, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dotosu.ErrUnreadableSource, err)
	}
	defer rc.Close()
	return dotosu.Decode(rc, src.Path)
}

// recoverInto turns a panic while parsing into that source's error.
func recoverInto(res *Result) {
	r := recover()
	if r == nil {
		return
	}
	buf := make([]byte, 16*1024)
	buf = buf[:runtime.Stack(buf, false)]
	res.Beatmap = nil
	res.Err = fmt.Errorf("panic parsing %s: %v\n\n%s", res.Source.Path, r, buf)
}

// Summarize returns nil when every result succeeded, else an error naming
// the first failure and how many sources decoded.
func Summarize(results []Result) error {
	var (
		ok       int
		firstErr error
		firstSrc string
	)
	for _, r := range results {
		if r.Err != nil {
			if firstErr == nil {
				firstErr, firstSrc = r.Err, r.Source.Path
			}
			continue
		}
		ok++
	}
	if firstErr != nil {
		return fmt.Errorf("decoded %d/%d .osu files; first failure %s: %w", ok, len(results), firstSrc, firstErr)
	}
	return nil
}
