package shaderc

import (
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("shaderc")

// record is the persisted {hash, spirv_path} entry for one source
// path, per §4.6 step 6's upsert.
type record struct {
	Hash      [32]byte `json:"hash"`
	SpirvPath string   `json:"spirvPath"`
}

// store wraps a bbolt database holding one record per source path, the
// persistent key-value store named in §4.6 steps 2 and 6. No
// general-purpose persistent KV store appears in the teacher's own
// go.mod; bbolt is carried in from the wider pack (see DESIGN.md).
type store struct {
	db *bolt.DB
}

func openStore(path string) (*store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("shaderc: opening store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("shaderc: creating bucket: %w", err)
	}
	return &store{db: db}, nil
}

func (s *store) get(sourcePath string) (record, bool, error) {
	var rec record
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		data := b.Get([]byte(sourcePath))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return record{}, false, err
	}
	return rec, found, nil
}

func (s *store) put(sourcePath string, rec record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		return b.Put([]byte(sourcePath), data)
	})
}

func (s *store) close() error {
	return s.db.Close()
}
