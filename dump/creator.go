package dump

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
)

// Creator dumps state of the token contract. Output file format:
//
//	'<label>-<height>-summary.json': JSON summary of the contract state
//	'<label>-<height>-storage.csv': CSV of the contract storage
//
// Storage CSV are 'key,value' where binary key-value are base64-encoded.
//
// Use IterateDumps to access existing dumps.
type Creator struct {
	dumpStreams

	summary *Summary

	storageItemsCSV *csv.Writer
}

// NewCreator returns Creator which dumps the contract into given directory.
// The directory is created if missing. The dump is identified by specified
// ID. Resulting Creator should be closed when finished working with it.
//
// NewCreator fails if dump with provided ID already exists.
func NewCreator(dir string, id ID) (*Creator, error) {
	var res Creator

	err := ensureDir(dir)
	if err != nil {
		return nil, err
	}

	err = initDumpStreams(&res.dumpStreams, dir, id, false)
	if err != nil {
		return nil, err
	}

	res.storageItemsCSV = csv.NewWriter(res.dumpStreams.storageItems)

	return &res, nil
}

// SetSummary sets contract summary to be written on Flush.
func (x *Creator) SetSummary(s Summary) {
	x.summary = &s
}

// Write saves given binary key-value into the dump as storage item.
func (x *Creator) Write(key, value []byte) error {
	err := x.storageItemsCSV.Write([]string{
		_encoding.EncodeToString(key),
		_encoding.EncodeToString(value),
	})
	if err != nil {
		return fmt.Errorf("write storage item as CSV data: %w", err)
	}

	return nil
}

// Flush flushes accumulated dump to the file system.
func (x *Creator) Flush() error {
	if x.summary == nil {
		return errors.New("missing contract summary")
	}

	jEnc := json.NewEncoder(x.dumpStreams.summary)
	jEnc.SetIndent("", " ")

	err := jEnc.Encode(x.summary)
	if err != nil {
		return fmt.Errorf("encode contract summary to JSON: %w", err)
	}

	x.storageItemsCSV.Flush()

	err = x.storageItemsCSV.Error()
	if err != nil {
		return fmt.Errorf("flush CSV data: %w", err)
	}

	return nil
}

// Close releases underlying resources of the Creator and makes it unusable.
func (x *Creator) Close() error {
	err := x.close()
	if err != nil {
		return fmt.Errorf("close dump files: %w", err)
	}
	return nil
}
