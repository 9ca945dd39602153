package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/autoreviewer/internal/domain/model"
)

// maxLineBytes bounds a single event line. Events are small; anything beyond
// this is a malformed feed.
const maxLineBytes = 1 << 20

// Reader decodes a newline-delimited JSON event feed and publishes each
// event on a bus. A malformed line is logged and skipped; the feed keeps
// flowing.
type Reader struct {
	src io.Reader
	bus *Bus
}

// NewReader creates a reader over src publishing to bus.
func NewReader(src io.Reader, bus *Bus) *Reader {
	return &Reader{src: src, bus: bus}
}

// Run consumes the feed until EOF or ctx cancellation. It returns nil on a
// clean EOF and the underlying error otherwise.
func (r *Reader) Run(ctx context.Context) error {
	sc := bufio.NewScanner(r.src)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var lineNo int
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++

		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		var ev model.Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			slog.Warn("skipping malformed event", "line", lineNo, "error", err)
			continue
		}

		r.bus.Publish(ctx, ev)
	}

	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading event feed: %w", err)
	}
	slog.Info("event feed ended", "events", lineNo)
	return nil
}
