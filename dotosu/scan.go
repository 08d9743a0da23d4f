package dotosu

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	initialLineBuf = 64 * 1024
	maxLineLen     = 1024 * 1024

	versionPrefix = "osu file format v"
)

type sourceLine struct {
	num  int
	text string
}

// group is the content of one [Name] block: trimmed lines with comments and
// blanks removed.
type group struct {
	name  string
	lines []sourceLine
}

// classifier splits a .osu stream into section groups. Lines before the
// first header are dropped, except that the format version line is noted.
type classifier struct {
	sc      *bufio.Scanner
	num     int
	cur     *group
	version int
	err     error
}

func newClassifier(r io.Reader) *classifier {
	// A byte-order mark selects the matching decoder and is dropped; anything
	// without one passes through untouched.
	r = transform.NewReader(r, unicode.BOMOverride(transform.Nop))
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, initialLineBuf), maxLineLen)
	return &classifier{sc: sc}
}

// Next returns the next complete group. It returns false at end of input or
// after a read error; check Err.
func (c *classifier) Next() (group, bool) {
	if c.err != nil {
		return group{}, false
	}
	for c.sc.Scan() {
		c.num++
		raw := c.sc.Text()
		if !utf8.ValidString(raw) {
			c.err = fmt.Errorf("%w: line %d is not valid UTF-8", ErrUnreadableSource, c.num)
			return group{}, false
		}
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if name, ok := headerName(line); ok {
			prev := c.cur
			c.cur = &group{name: name}
			if prev != nil {
				return *prev, true
			}
			continue
		}
		if c.cur == nil {
			c.noteVersion(line)
			continue
		}
		c.cur.lines = append(c.cur.lines, sourceLine{num: c.num, text: line})
	}
	if err := c.sc.Err(); err != nil {
		c.err = fmt.Errorf("%w: %w", ErrUnreadableSource, err)
		return group{}, false
	}
	if c.cur != nil {
		last := *c.cur
		c.cur = nil
		return last, true
	}
	return group{}, false
}

func (c *classifier) Err() error { return c.err }

func (c *classifier) noteVersion(line string) {
	if c.version != 0 || !strings.HasPrefix(line, versionPrefix) {
		return
	}
	if v, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, versionPrefix))); err == nil {
		c.version = v
	}
}

func headerName(line string) (string, bool) {
	if len(line) >= 2 && line[0] == '[' && line[len(line)-1] == ']' {
		return line[1 : len(line)-1], true
	}
	return "", false
}
