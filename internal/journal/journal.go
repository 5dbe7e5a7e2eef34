package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"reorg/internal/fileutil"
	"reorg/internal/logging"
	"reorg/internal/plan"
)

// DefaultListLimit caps history listings when the caller does not supply one.
const DefaultListLimit = 20

// ErrNotFound is returned when no batch matches the requested id.
var ErrNotFound = errors.New("journal: batch not found")

// ErrEmpty is returned when an undo is requested and no batches exist.
var ErrEmpty = errors.New("journal: no batches recorded")

// Batch is the persisted, undoable unit of operations from one apply run.
// One file per batch, named <id>.json, lives under the journal directory.
type Batch struct {
	ID         string           `json:"id"`
	Timestamp  time.Time        `json:"timestamp"`
	Mode       string           `json:"mode"`
	Path       string           `json:"path"`
	Operations []plan.Operation `json:"operations"`
	Count      int              `json:"count"`
}

// Summary is the listing projection of a batch.
type Summary struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Mode      string    `json:"mode"`
	Path      string    `json:"path"`
	Count     int       `json:"count"`
}

// UndoResult tallies a reverse replay. Each reversed step succeeds or fails
// independently.
type UndoResult struct {
	SuccessCount int
	FailedCount  int
	Errors       []string
}

// Store manages batch records under a single journal directory. The
// directory is guarded by a file lock so concurrent processes cannot
// interleave writes; id generation is monotonic within the store.
type Store struct {
	dir    string
	lock   *flock.Flock
	logger *slog.Logger

	mu        sync.Mutex
	lastStamp time.Time
}

// Open prepares the journal directory and acquires its lock.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if dir == "" {
		return nil, errors.New("journal: directory not configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("journal: create directory: %w", err)
	}
	lock := flock.New(filepath.Join(dir, ".lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("journal: acquire lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("journal: directory %s is locked by another process", dir)
	}
	return &Store{
		dir:    dir,
		lock:   lock,
		logger: logging.NewComponentLogger(logger, "journal"),
	}, nil
}

// Close releases the journal lock.
func (s *Store) Close() error {
	if s.lock == nil {
		return nil
	}
	return s.lock.Unlock()
}

// NewBatch builds a batch from applied operations with a fresh id.
func (s *Store) NewBatch(mode, path string, ops []plan.Operation) *Batch {
	stamp := s.nextStamp()
	return &Batch{
		ID:         stamp.Format("20060102-150405.000000000"),
		Timestamp:  stamp,
		Mode:       mode,
		Path:       path,
		Operations: ops,
		Count:      len(ops),
	}
}

// nextStamp returns a UTC timestamp strictly later than any previously
// issued one, so ids stay unique and sortable within the process.
func (s *Store) nextStamp() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if !now.After(s.lastStamp) {
		now = s.lastStamp.Add(time.Microsecond)
	}
	s.lastStamp = now
	return now
}

// Save persists the batch atomically: written to a temp file, then renamed
// into place.
func (s *Store) Save(b *Batch) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("journal: encode batch %s: %w", b.ID, err)
	}
	final := s.recordPath(b.ID)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("journal: write batch %s: %w", b.ID, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("journal: commit batch %s: %w", b.ID, err)
	}
	s.logger.Debug("batch saved",
		logging.String(logging.FieldBatchID, b.ID),
		logging.Int("operations", b.Count))
	return nil
}

// Get loads a batch by id.
func (s *Store) Get(id string) (*Batch, error) {
	data, err := os.ReadFile(s.recordPath(id))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("journal: read batch %s: %w", id, err)
	}
	var b Batch
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("journal: decode batch %s: %w", id, err)
	}
	return &b, nil
}

// Delete removes a batch record. Deleting an absent record is not an error.
func (s *Store) Delete(id string) error {
	err := os.Remove(s.recordPath(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("journal: delete batch %s: %w", id, err)
	}
	return nil
}

// List returns up to limit batch summaries, most recent first. Records that
// fail to decode are skipped rather than failing the listing. Older records
// beyond the cap stay on disk.
func (s *Store) List(limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("journal: list: %w", err)
	}
	var out []Summary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		b, err := s.Get(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			s.logger.Warn("skipping unreadable batch record",
				logging.String("file", entry.Name()),
				logging.Error(err))
			continue
		}
		out = append(out, Summary{ID: b.ID, Timestamp: b.Timestamp, Mode: b.Mode, Path: b.Path, Count: b.Count})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MostRecent returns the latest batch, or ErrEmpty when none exist.
func (s *Store) MostRecent() (*Batch, error) {
	summaries, err := s.List(1)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, ErrEmpty
	}
	return s.Get(summaries[0].ID)
}

// Undo replays the batch's operations in strict reverse order. A move is
// undone by moving dst back to src; a deleted directory is recreated empty;
// a created directory is removed if nothing was added to it. Each step is
// tallied independently, and the record is deleted once the attempt
// completes, whether or not every step succeeded.
func (s *Store) Undo(b *Batch) (*UndoResult, error) {
	res := &UndoResult{}
	for i := len(b.Operations) - 1; i >= 0; i-- {
		op := b.Operations[i]
		if err := undoStep(op); err != nil {
			res.FailedCount++
			res.Errors = append(res.Errors, fmt.Sprintf("%s %s: %v", op.Type, op.Src, err))
			s.logger.Warn("undo step failed",
				logging.String(logging.FieldBatchID, b.ID),
				logging.String("op", string(op.Type)),
				logging.Error(err))
			continue
		}
		res.SuccessCount++
	}
	if err := s.Delete(b.ID); err != nil {
		return res, err
	}
	s.logger.Info("batch undone",
		logging.String(logging.FieldBatchID, b.ID),
		logging.Int("succeeded", res.SuccessCount),
		logging.Int("failed", res.FailedCount))
	return res, nil
}

func undoStep(op plan.Operation) error {
	switch op.Type {
	case plan.OpMove:
		if err := os.MkdirAll(filepath.Dir(op.Src), 0o755); err != nil {
			return err
		}
		return fileutil.MoveFile(op.Dst, op.Src)
	case plan.OpCopy:
		// Undoing a copy removes the duplicate; the source was never moved.
		return os.RemoveAll(op.Dst)
	case plan.OpDeleteDir:
		// Prior contents are not restorable; recreating the directory is
		// the best available reversal.
		return os.MkdirAll(op.Src, 0o755)
	case plan.OpCreateDir:
		empty, err := fileutil.IsEmptyDir(op.Src)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !empty {
			return fmt.Errorf("directory %s gained content", op.Src)
		}
		return os.Remove(op.Src)
	default:
		return fmt.Errorf("unknown operation type %q", op.Type)
	}
}

func (s *Store) recordPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}
