package journal

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"smart-send/internal/types"
)

// Entry is one recommendation as written to the daily journal file.
type Entry struct {
	Time      string `json:"time"`
	RunID     string `json:"run_id,omitempty"`
	Corridor  string `json:"corridor"`
	Verdict   string `json:"verdict,omitempty"`
	FXLabel   string `json:"fx_label,omitempty"`
	Sentiment string `json:"sentiment_label,omitempty"`
	Text      string `json:"text,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
	Error     string `json:"error,omitempty"`
}

// FromRecommendation builds a journal entry for a successful run.
func FromRecommendation(rec *types.Recommendation) Entry {
	return Entry{
		Corridor:  string(rec.Corridor),
		Verdict:   string(rec.Verdict),
		FXLabel:   rec.FX.Label.String(),
		Sentiment: rec.Sentiment.Label.String(),
		Text:      rec.Text,
	}
}

// FromError builds a journal entry for a failed run.
func FromError(corridor types.Corridor, err error) Entry {
	return Entry{
		Corridor:  string(corridor),
		ErrorKind: types.Kind(err),
		Error:     err.Error(),
	}
}

// Journal appends JSON lines to <dir>/recommendations/YYYY-MM-DD.txt.
type Journal struct {
	dir string
	now func() time.Time
	mu  sync.Mutex
}

func New(dir string) *Journal {
	if dir == "" {
		dir = "logs"
	}
	return &Journal{dir: dir, now: time.Now}
}

func (j *Journal) path(t time.Time) string {
	return filepath.Join(j.dir, "recommendations", t.UTC().Format("2006-01-02")+".txt")
}

func (j *Journal) Append(e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	e.Time = now.UTC().Format(time.RFC3339)

	p := j.path(now)
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
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips journal files last modified more than retentionDays ago.
// A retention of zero or less disables compression.
func (j *Journal) CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	cutoff := j.now().AddDate(0, 0, -retentionDays)
	root := filepath.Join(j.dir, "recommendations")

	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		return gzipFile(p)
	})
}

func gzipFile(p string) error {
	gz := p + ".gz"
	if _, err := os.Stat(gz); err == nil {
		return os.Remove(p)
	}

	in, err := os.Open(p)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	_, copyErr := io.Copy(gw, in)
	closeErr := gw.Close()
	if err := out.Close(); err != nil && closeErr == nil {
		closeErr = err
	}
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(gz)
		if copyErr != nil {
			return fmt.Errorf("compress %s: %w", p, copyErr)
		}
		return fmt.Errorf("compress %s: %w", p, closeErr)
	}
	return os.Remove(p)
}
