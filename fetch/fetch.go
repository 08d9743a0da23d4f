package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/levigross/grequests"

	"osuindex/dotosu"
)

const requestTimeout = 2 * time.Minute

// Client downloads .osu text by beatmap id and decodes it.
type Client struct {
	// URLFormat is a fmt pattern with one %d verb for the beatmap id.
	URLFormat string
	UserAgent string

	throttle *throttle
}

func New(urlFormat string, perMinute int) *Client {
	return &Client{
		URLFormat: urlFormat,
		UserAgent: "osuindex/1.0",
		throttle:  newThrottle(perMinute),
	}
}

// Fetch downloads and decodes beatmap id. The returned beatmap's Path is
// the request URL.
func (c *Client) Fetch(ctx context.Context, id int) (*dotosu.Beatmap, error) {
	release, err := c.throttle.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	url := fmt.Sprintf(c.URLFormat, id)
	resp, err := grequests.Get(url,
		grequests.Context(ctx),
		grequests.UserAgent(c.UserAgent),
		grequests.RequestTimeout(requestTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("fetch beatmap %d: %w", id, err)
	}
	defer resp.Close()

	if !resp.Ok {
		return nil, fmt.Errorf("fetch beatmap %d: status %d", id, resp.StatusCode)
	}
	b, err := dotosu.Decode(resp, url)
	if err != nil {
		return nil, fmt.Errorf("fetch beatmap %d: %w", id, err)
	}
	return b, nil
}
