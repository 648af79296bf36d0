package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

const (
	runsBucketNameConstant             = "runs"
	databasePathMissingMessageConstant = "history database path must be provided"
	bucketMissingMessageTemplate       = "history bucket %q missing"
	recordKeyTemplateConstant          = "%s_%s"
)

// Record keys must sort lexicographically in chronological order, so the
// fraction is fixed width instead of RFC3339Nano's trimmed form.
const recordTimestampLayoutConstant = "2006-01-02T15:04:05.000000000Z07:00"

// ErrDatabasePathMissing indicates the bolt store was constructed without a path.
var ErrDatabasePathMissing = errors.New(databasePathMissingMessageConstant)

// RunRecord captures the observable outcome of one target invocation.
type RunRecord struct {
	Identifier           uuid.UUID `json:"identifier"`
	TargetName           string    `json:"target_name"`
	StartedAt            time.Time `json:"started_at"`
	DurationMilliseconds int64     `json:"duration_milliseconds"`
	ExitCode             int       `json:"exit_code"`
	Succeeded            bool      `json:"succeeded"`
	FailureSuppressed    bool      `json:"failure_suppressed,omitempty"`
	ErrorMessage         string    `json:"error_message,omitempty"`
}

// Store persists run records.
type Store interface {
	Append(record RunRecord) error
	// List returns the most recent records, newest first, capped at limit
	// when limit is positive.
	List(limit int) ([]RunRecord, error)
}

// BoltRunStore persists run records in a bbolt database file.
type BoltRunStore struct {
	database *bolt.DB
}

// NewBoltRunStore opens (creating when absent) the bolt database at the provided path.
func NewBoltRunStore(databasePath string, fileMode os.FileMode) (*BoltRunStore, error) {
	if len(databasePath) == 0 {
		return nil, ErrDatabasePathMissing
	}

	database, openError := bolt.Open(databasePath, fileModeOrDefault(fileMode), nil)
	if openError != nil {
		return nil, openError
	}

	preparationError := database.Update(func(transaction *bolt.Tx) error {
		_, bucketError := transaction.CreateBucketIfNotExists([]byte(runsBucketNameConstant))
		return bucketError
	})
	if preparationError != nil {
		_ = database.Close()
		return nil, preparationError
	}

	return &BoltRunStore{database: database}, nil
}

// Close releases the underlying database handle.
func (store *BoltRunStore) Close() error {
	return store.database.Close()
}

// Append persists a run record.
func (store *BoltRunStore) Append(record RunRecord) error {
	encodedRecord, encodeError := json.Marshal(record)
	if encodeError != nil {
		return encodeError
	}

	recordKey := fmt.Sprintf(recordKeyTemplateConstant, record.StartedAt.UTC().Format(recordTimestampLayoutConstant), record.Identifier)

	return store.database.Update(func(transaction *bolt.Tx) error {
		bucket := transaction.Bucket([]byte(runsBucketNameConstant))
		if bucket == nil {
			return fmt.Errorf(bucketMissingMessageTemplate, runsBucketNameConstant)
		}
		return bucket.Put([]byte(recordKey), encodedRecord)
	})
}

// List returns the most recent run records, newest first.
func (store *BoltRunStore) List(limit int) ([]RunRecord, error) {
	records := make([]RunRecord, 0)

	viewError := store.database.View(func(transaction *bolt.Tx) error {
		bucket := transaction.Bucket([]byte(runsBucketNameConstant))
		if bucket == nil {
			return fmt.Errorf(bucketMissingMessageTemplate, runsBucketNameConstant)
		}

		cursor := bucket.Cursor()
		for key, value := cursor.Last(); key != nil; key, value = cursor.Prev() {
			var record RunRecord
			if decodeError := json.Unmarshal(value, &record); decodeError != nil {
				return decodeError
			}
			records = append(records, record)
			if limit > 0 && len(records) >= limit {
				return nil
			}
		}
		return nil
	})
	if viewError != nil {
		return nil, viewError
	}

	return records, nil
}

// InMemoryRunStore keeps run records in process memory. Intended for tests
// and for runs that disable persistence.
type InMemoryRunStore struct {
	mutex   sync.RWMutex
	records []RunRecord
}

// NewInMemoryRunStore constructs an empty in-memory store.
func NewInMemoryRunStore() *InMemoryRunStore {
	return &InMemoryRunStore{}
}

// Append stores a run record.
func (store *InMemoryRunStore) Append(record RunRecord) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	store.records = append(store.records, record)
	return nil
}

// List returns the most recent run records, newest first.
func (store *InMemoryRunStore) List(limit int) ([]RunRecord, error) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()

	sorted := make([]RunRecord, len(store.records))
	copy(sorted, store.records)
	sort.SliceStable(sorted, func(firstIndex, secondIndex int) bool {
		return sorted[firstIndex].StartedAt.After(sorted[secondIndex].StartedAt)
	})

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

func fileModeOrDefault(fileMode os.FileMode) os.FileMode {
	if fileMode == 0 {
		return 0o600
	}
	return fileMode
}
