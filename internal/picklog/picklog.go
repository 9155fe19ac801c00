package picklog

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"pickbot/internal/logger"
	"pickbot/internal/types"
)

const dayFileExt = ".jsonl"

// Entry is one line of the daily journal.
type Entry struct {
	Time    string `json:"time"`
	RunID   string `json:"run_id"`
	Result  string `json:"result"`
	Fixture int64  `json:"fixture_id,omitempty"`
	Match   string `json:"match,omitempty"`
	League  string `json:"league,omitempty"`
	Market  string `json:"market,omitempty"`
	Pick    string `json:"pick,omitempty"`
	Odd     string `json:"odd,omitempty"`
}

// NewEntry fills the pick fields of an entry. A zero pick leaves them empty.
func NewEntry(runID, result string, p types.Pick) Entry {
	e := Entry{RunID: runID, Result: result}
	if p.FixtureID == 0 {
		return e
	}
	e.Fixture = p.FixtureID
	e.Match = p.Home + " vs " + p.Away
	e.League = p.League
	e.Market = p.Market
	e.Pick = p.Outcome
	e.Odd = p.RawOdd
	return e
}

// Journal appends JSON lines to one file per day under dir.
type Journal struct {
	mu  sync.Mutex
	dir string
	loc *time.Location
	now func() time.Time
}

func New(dir string, loc *time.Location) *Journal {
	if loc == nil {
		loc = time.UTC
	}
	return &Journal{dir: dir, loc: loc, now: time.Now}
}

func (j *Journal) dailyFilepath(t time.Time) string {
	return filepath.Join(j.dir, t.Format("2006-01-02")+dayFileExt)
}

// Record stamps e with the current time and appends it.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now().In(j.loc)
	e.Time = now.Format("2006-01-02 15:04:05")
	p := j.dailyFilepath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err = fmt.Fprintln(f, string(b)); err != nil {
		return err
	}
	logger.Debug(ctx, "Journal entry written", "path", p, "run_id", e.RunID)
	return nil
}

// CompressOlder gzips day files last modified more than retentionDays ago.
func (j *Journal) CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := j.now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(j.dir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != dayFileExt {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		gz := p + ".gz"
		// already compressed on an earlier pass
		if _, err := os.Stat(gz); err == nil {
			_ = os.Remove(p)
			return nil
		}
		if err := compress(p, gz); err != nil {
			return fmt.Errorf("compress %s: %w", p, err)
		}
		return os.Remove(p)
	})
}

func compress(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := gw.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
