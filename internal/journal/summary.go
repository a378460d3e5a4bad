package journal

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"smart-send/internal/types"
)

// CorridorSummary counts one day's outcomes for a corridor.
type CorridorSummary struct {
	Corridor        string
	SendNow         int
	ConsiderWaiting int
	Failed          int
}

func (s CorridorSummary) Total() int {
	return s.SendNow + s.ConsiderWaiting + s.Failed
}

// Summarize aggregates the journal file for day t by corridor, sorted by corridor.
// A day without a journal file yields no rows and no error.
func (j *Journal) Summarize(t time.Time) ([]CorridorSummary, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.Open(j.path(t))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows := map[string]*CorridorSummary{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		row := rows[e.Corridor]
		if row == nil {
			row = &CorridorSummary{Corridor: e.Corridor}
			rows[e.Corridor] = row
		}
		switch {
		case e.ErrorKind != "":
			row.Failed++
		case e.Verdict == string(types.SendNow):
			row.SendNow++
		default:
			row.ConsiderWaiting++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	out := make([]CorridorSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Corridor < out[b].Corridor })
	return out, nil
}

// WriteSummaryCSV writes day t's summary to <dir>/summary/YYYY-MM-DD.csv and returns
// the path, or "" when the day has no entries.
func (j *Journal) WriteSummaryCSV(t time.Time) (string, error) {
	rows, err := j.Summarize(t)
	if err != nil || len(rows) == 0 {
		return "", err
	}

	p := filepath.Join(j.dir, "summary", t.UTC().Format("2006-01-02")+".csv")
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(p)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	_ = w.Write([]string{"corridor", "send_now", "consider_waiting", "failed", "total"})
	var total CorridorSummary
	for _, r := range rows {
		_ = w.Write([]string{r.Corridor, strconv.Itoa(r.SendNow), strconv.Itoa(r.ConsiderWaiting), strconv.Itoa(r.Failed), strconv.Itoa(r.Total())})
		total.SendNow += r.SendNow
		total.ConsiderWaiting += r.ConsiderWaiting
		total.Failed += r.Failed
	}
	_ = w.Write([]string{"TOTAL", strconv.Itoa(total.SendNow), strconv.Itoa(total.ConsiderWaiting), strconv.Itoa(total.Failed), strconv.Itoa(total.Total())})
	w.Flush()
	return p, w.Error()
}
