package store

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

// OpenBolt opens (or creates) a bbolt database file shared by all backends.
func OpenBolt(path string) (*bolt.DB, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open bolt db %s", path)
	}
	return db, nil
}

// BoltBackend stores one record kind per bucket. Keys are big-endian ids so
// a cursor walk yields insertion order.
type BoltBackend[T Entity] struct {
	db     *bolt.DB
	bucket []byte
}

func NewBoltBackend[T Entity](db *bolt.DB, bucket string) (*BoltBackend[T], error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "create bucket %s", bucket)
	}
	return &BoltBackend[T]{db: db, bucket: []byte(bucket)}, nil
}

func idKey(id int64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(id))
	return k
}

func (b *BoltBackend[T]) put(rec T, mustExist bool) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "encode record")
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bk := tx.Bucket(b.bucket)
		key := idKey(rec.EntityID())
		exists := bk.Get(key) != nil
		switch {
		case mustExist && !exists:
			return ErrNoRecord
		case !mustExist && exists:
			return ErrDuplicateID
		}
		return bk.Put(key, raw)
	})
}

func (b *BoltBackend[T]) Insert(_ context.Context, rec T) error {
	return b.put(rec, false)
}

func (b *BoltBackend[T]) Update(_ context.Context, rec T) error {
	return b.put(rec, true)
}

func (b *BoltBackend[T]) Delete(_ context.Context, id int64) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bk := tx.Bucket(b.bucket)
		key := idKey(id)
		if bk.Get(key) == nil {
			return ErrNoRecord
		}
		return bk.Delete(key)
	})
}

func (b *BoltBackend[T]) Get(_ context.Context, id int64) (T, error) {
	var rec T
	err := b.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(b.bucket).Get(idKey(id))
		if raw == nil {
			return ErrNoRecord
		}
		return json.Unmarshal(raw, &rec)
	})
	return rec, err
}

func (b *BoltBackend[T]) List(_ context.Context) ([]T, error) {
	var out []T
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(b.bucket).ForEach(func(_, raw []byte) error {
			var rec T
			if err := json.Unmarshal(raw, &rec); err != nil {
				return errors.Wrapf(err, "decode %s record", b.bucket)
			}
			out = append(out, rec)
			return nil
		})
	})
	return out, err
}
