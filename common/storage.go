package common

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/io"
)

// Storage is a contract storage available within a single call. Get returns
// storage.ErrKeyNotFound for missing items.
type Storage interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
}

// GetSerialized reads an item stored under the given key and decodes it into
// v. It returns storage.ErrKeyNotFound if there is no such item.
func GetSerialized(st Storage, key []byte, v io.Serializable) error {
	data, err := st.Get(key)
	if err != nil {
		return err
	}

	r := io.NewBinReaderFromBuf(data)
	v.DecodeBinary(r)
	if r.Err != nil {
		return fmt.Errorf("decode item %x: %w", key, r.Err)
	}

	return nil
}

// SetSerialized serializes data and puts it into contract storage.
func SetSerialized(st Storage, key []byte, v io.Serializable) error {
	w := io.NewBufBinWriter()
	v.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		return fmt.Errorf("encode item %x: %w", key, w.Err)
	}

	return st.Put(key, w.Bytes())
}

// Exists checks whether there is an item stored under the given key.
func Exists(st Storage, key []byte) (bool, error) {
	_, err := st.Get(key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, storage.ErrKeyNotFound):
		return false, nil
	default:
		return false, err
	}
}
