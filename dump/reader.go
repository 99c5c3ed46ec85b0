package dump

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
)

// IterateDumps iterates over all dumps collected by the Creator model in the
// specified directory, and passes ID and Reader of each dump into f. Nested
// directories are not visited. Missing directory is treated as empty.
// IterateDumps stops on the first error returned by f.
func IterateDumps(dir string, f func(ID, *Reader) error) error {
	var id ID
	var r Reader
	var streams dumpStreams

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, e error) error {
		if e != nil {
			if errors.Is(e, fs.ErrNotExist) {
				return nil
			}
			return e
		}

		if d.IsDir() {
			if path != dir {
				return fs.SkipDir
			}
			return nil
		}

		name := d.Name()

		if !strings.HasSuffix(name, sep+summaryFileSuffix) {
			return nil
		}

		err := id.decodeString(name)
		if err != nil {
			return fmt.Errorf("decode dump ID from file name '%s': %w", name, err)
		}

		err = initDumpStreams(&streams, dir, id, true)
		if err != nil {
			return fmt.Errorf("init dump streams ('%s'): %w", name, err)
		}

		err = r.fromDumpStreams(streams.summary, streams.storageItems)
		err = multierr.Append(err, streams.close())
		if err != nil {
			return fmt.Errorf("init dump reader ('%s'): %w", name, err)
		}

		return f(id, &r)
	})
}

type kv struct{ k, v []byte }

// Reader reads contract state collected in the superior dump.
type Reader struct {
	summary Summary
	items   []kv
}

func (x *Reader) fromDumpStreams(rSummary, rStorageItems io.Reader) error {
	x.summary = Summary{}

	err := json.NewDecoder(rSummary).Decode(&x.summary)
	if err != nil {
		return fmt.Errorf("decode contract summary from JSON: %w", err)
	}

	var rec []string
	var _kv kv

	_csv := csv.NewReader(rStorageItems)
	_csv.FieldsPerRecord = 2
	_csv.ReuseRecord = true

	x.items = x.items[:0]

	for {
		rec, err = _csv.Read()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read next CSV record: %w", err)
		}

		// out-of-range safety guaranteed by csv settings
		_kv.k, err = _encoding.DecodeString(rec[0])
		if err != nil {
			return fmt.Errorf("decode storage item key: %w", err)
		}

		_kv.v, err = _encoding.DecodeString(rec[1])
		if err != nil {
			return fmt.Errorf("decode storage item value: %w", err)
		}

		x.items = append(x.items, _kv)
	}
}

// Summary returns contract summary from the superior dump.
func (x *Reader) Summary() Summary {
	return x.summary
}

// IterateStorage passes all storage items from the superior dump into f in
// the dump order.
func (x *Reader) IterateStorage(f func(key, value []byte)) {
	for i := range x.items {
		f(x.items[i].k, x.items[i].v)
	}
}
