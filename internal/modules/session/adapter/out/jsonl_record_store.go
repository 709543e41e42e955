package out

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"blazectl/internal/modules/session/domain"
	sessionout "blazectl/internal/modules/session/port/out"
	apperrors "blazectl/internal/platform/errors"
	"blazectl/internal/platform/isoduration"
)

var partitionPattern = regexp.MustCompile(`^track-(\d{4})-(\d{2})\.jsonl$`)

const maxLineBytes = 1 << 20

type recordLine struct {
	Activity string    `json:"activity"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Duration string    `json:"duration"`
}

// JSONLRecordStore keeps one append-only JSON Lines file per UTC month.
type JSONLRecordStore struct {
	dir string
}

func NewJSONLRecordStore(storeDir string) sessionout.RecordStore {
	return &JSONLRecordStore{dir: storeDir}
}

// PartitionName returns the log file name holding records started in the
// given UTC month.
func PartitionName(year int, month time.Month) string {
	return fmt.Sprintf("track-%04d-%02d.jsonl", year, int(month))
}

func (s *JSONLRecordStore) Append(_ context.Context, record domain.Record) error {
	payload, err := json.Marshal(recordLine{
		Activity: record.Activity.String(),
		Start:    record.Start.UTC(),
		End:      record.End.UTC(),
		Duration: isoduration.Format(record.Duration),
	})
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w: %w", apperrors.ErrIO, err)
	}
	path := filepath.Join(s.dir, PartitionName(record.Month()))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open record log: %w: %w", apperrors.ErrIO, err)
	}
	if _, err := file.Write(append(payload, '\n')); err != nil {
		_ = file.Close()
		return fmt.Errorf("append record: %w: %w", apperrors.ErrIO, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close record log: %w: %w", apperrors.ErrIO, err)
	}
	return nil
}

// All scans every partition in name order. Each malformed line yields an
// error wrapping ErrParse; an unreadable partition yields one wrapping ErrIO.
func (s *JSONLRecordStore) All(ctx context.Context) iter.Seq2[domain.Record, error] {
	return func(yield func(domain.Record, error) bool) {
		entries, err := os.ReadDir(s.dir)
		if err != nil {
			if os.IsNotExist(err) {
				return
			}
			yield(domain.Record{}, fmt.Errorf("list record logs: %w: %w", apperrors.ErrIO, err))
			return
		}
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			if entry.IsDir() || !partitionPattern.MatchString(entry.Name()) {
				continue
			}
			names = append(names, entry.Name())
		}
		sort.Strings(names)

		for _, name := range names {
			if err := ctx.Err(); err != nil {
				yield(domain.Record{}, err)
				return
			}
			if !s.scanPartition(name, yield) {
				return
			}
		}
	}
}

func (s *JSONLRecordStore) scanPartition(name string, yield func(domain.Record, error) bool) bool {
	file, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return yield(domain.Record{}, fmt.Errorf("open %s: %w: %w", name, apperrors.ErrIO, err))
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		record, err := decodeLine(line)
		if err != nil {
			if !yield(domain.Record{}, fmt.Errorf("%s:%d: %w: %w", name, lineNo, apperrors.ErrParse, err)) {
				return false
			}
			continue
		}
		if !yield(record, nil) {
			return false
		}
	}
	if err := scanner.Err(); err != nil {
		return yield(domain.Record{}, fmt.Errorf("scan %s: %w: %w", name, apperrors.ErrIO, err))
	}
	return true
}

func decodeLine(line []byte) (domain.Record, error) {
	raw := recordLine{}
	if err := json.Unmarshal(line, &raw); err != nil {
		return domain.Record{}, err
	}
	activity, err := domain.ParseActivity(raw.Activity)
	if err != nil {
		return domain.Record{}, err
	}
	if raw.Start.IsZero() || raw.End.IsZero() {
		return domain.Record{}, fmt.Errorf("missing start or end")
	}
	duration, err := isoduration.Parse(raw.Duration)
	if err != nil {
		return domain.Record{}, err
	}
	return domain.Record{
		Activity: activity,
		Start:    raw.Start.UTC(),
		End:      raw.End.UTC(),
		Duration: duration,
	}, nil
}
