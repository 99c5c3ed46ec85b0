package dump

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

// ID is a unique identifier of the dump prepared according to the model
// described in the current package.
type ID struct {
	// Label of the dump source (e.g. node name or environment).
	Label string
	// Number of committed calls at which the state was pulled.
	Height uint64
}

// String returns hyphen-separated ID fields.
func (x ID) String() string {
	return x.Label + sep + strconv.FormatUint(x.Height, 10)
}

// decodes ID fields from the hyphen-separated file name. Label may contain
// separators itself, height is the next to last word.
func (x *ID) decodeString(s string) error {
	ss := strings.Split(s, sep)
	if len(ss) < 3 {
		return fmt.Errorf("expected '%s'-separated string with at least 3 items", sep)
	}

	h := ss[len(ss)-2]

	n, err := strconv.ParseUint(h, 10, 64)
	if err != nil {
		return fmt.Errorf("decode height from '%s': %w", h, err)
	}

	x.Label = strings.Join(ss[:len(ss)-2], sep)
	x.Height = n

	return nil
}

// global encoding of binary values.
var _encoding = base64.StdEncoding

// dumpStreams groups data streams for contract summary and storage.
type dumpStreams struct {
	summary, storageItems io.ReadWriteCloser
}

// close closes all streams.
func (x *dumpStreams) close() error {
	return multierr.Combine(
		x.storageItems.Close(),
		x.summary.Close(),
	)
}

const (
	// word separator used in dump file naming
	sep = "-"
	// suffix of file with contract summary
	summaryFileSuffix = "summary.json"
	// suffix of file with storage items
	storageFileSuffix = "storage.csv"
)

// initDumpStreams opens data streams for the dump files located in the
// specified directory. If read flag is set, streams are read-only. Otherwise,
// files must not exist, and streams are write only.
func initDumpStreams(d *dumpStreams, dir string, id ID, read bool) error {
	var err error

	pathStorage := filepath.Join(dir, strings.Join([]string{id.String(), storageFileSuffix}, sep))
	if !read {
		if err = checkFileNotExists(pathStorage); err != nil {
			return err
		}
	}

	pathSummary := filepath.Join(dir, strings.Join([]string{id.String(), summaryFileSuffix}, sep))
	if !read {
		if err = checkFileNotExists(pathSummary); err != nil {
			return err
		}
	}

	var flag int
	var perm os.FileMode

	if read {
		flag = os.O_RDONLY
	} else {
		flag = os.O_CREATE | os.O_WRONLY
		perm = 0600
	}

	d.storageItems, err = os.OpenFile(pathStorage, flag, perm)
	if err != nil {
		return fmt.Errorf("open file with storage items: %w", err)
	}

	d.summary, err = os.OpenFile(pathSummary, flag, perm)
	if err != nil {
		_ = d.storageItems.Close()
		return fmt.Errorf("open file with contract summary: %w", err)
	}

	return nil
}
