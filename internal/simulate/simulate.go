// Package simulate replays scripted cache operations against a manually driven clock.
package simulate

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	cache "github.com/vearutop/agedcache"
)

// Absent is printed for get of a key without live entry.
const Absent = "<absent>"

// Runner executes script lines one by one.
//
// Supported commands:
//
//	put <key> <value> <retentionMillis>
//	get <key>
//	size
//	empty
//	advance <millis>
//
// Empty lines and lines starting with # are ignored.
type Runner struct {
	Clock *cache.ManualClock
	Cache *cache.Aged[string, string]
}

// NewRunner creates runner with clock stopped at startMillis.
func NewRunner(startMillis int64, cfg cache.AgedConfig) *Runner {
	clock := cache.NewManualClock(startMillis)
	cfg.TimeSource = clock

	return &Runner{
		Clock: clock,
		Cache: cache.NewAged[string, string](cfg),
	}
}

// Run reads script from r and writes one result line per command to w.
func (r *Runner) Run(script io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(script)
	line := 0

	for scanner.Scan() {
		line++

		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		res, err := r.Exec(strings.Fields(text))
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		if _, err := fmt.Fprintln(w, res); err != nil {
			return err
		}
	}

	return scanner.Err()
}

// Exec executes a single command and returns its printable result.
func (r *Runner) Exec(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("empty command")
	}

	switch cmd, args := args[0], args[1:]; cmd {
	case "put":
		if len(args) != 3 {
			return "", fmt.Errorf("put expects key, value and retention, %d args given", len(args))
		}

		retention, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return "", fmt.Errorf("invalid retention %q: %w", args[2], err)
		}

		if err := r.Cache.Put(args[0], args[1], retention); err != nil {
			return "error: " + err.Error(), nil
		}

		return "ok", nil
	case "get":
		if len(args) != 1 {
			return "", fmt.Errorf("get expects key, %d args given", len(args))
		}

		if v, ok := r.Cache.Get(args[0]); ok {
			return v, nil
		}

		return Absent, nil
	case "size":
		return strconv.Itoa(r.Cache.Len()), nil
	case "empty":
		return strconv.FormatBool(r.Cache.IsEmpty()), nil
	case "advance":
		if len(args) != 1 {
			return "", fmt.Errorf("advance expects millis, %d args given", len(args))
		}

		ms, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || ms < 0 {
			return "", fmt.Errorf("invalid advance %q", args[0])
		}

		return "t=" + strconv.FormatInt(r.Clock.Advance(ms), 10), nil
	default:
		return "", fmt.Errorf("unknown command %q", cmd)
	}
}
