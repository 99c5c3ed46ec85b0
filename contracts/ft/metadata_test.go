package ft

import (
	"strings"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func TestMetadataValidate(t *testing.T) {
	valid := DefaultMetadata("Example token", "EXAMPLE", 24)
	require.NoError(t, valid.Validate())

	for _, tc := range []struct {
		name   string
		modify func(*Metadata)
	}{
		{name: "empty spec", modify: func(m *Metadata) { m.Spec = "" }},
		{name: "empty name", modify: func(m *Metadata) { m.Name = "" }},
		{name: "empty symbol", modify: func(m *Metadata) { m.Symbol = "" }},
		{name: "too many decimals", modify: func(m *Metadata) { m.Decimals = MaxDecimals + 1 }},
		{name: "icon is not data URI", modify: func(m *Metadata) { m.Icon = str("https://example.org/icon.svg") }},
		{name: "reference without hash", modify: func(m *Metadata) { m.Reference = str("https://example.org/ref.json") }},
		{name: "hash without reference", modify: func(m *Metadata) { m.ReferenceHash = make([]byte, 32) }},
		{name: "short hash", modify: func(m *Metadata) {
			m.Reference = str("https://example.org/ref.json")
			m.ReferenceHash = make([]byte, 31)
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m := valid
			tc.modify(&m)
			require.ErrorIs(t, m.Validate(), ErrInvalidMetadata)
		})
	}

	t.Run("long fields", func(t *testing.T) {
		long := strings.Repeat("a", maxMetadataField+1)
		for _, modify := range []func(*Metadata){
			func(m *Metadata) { m.Spec = long },
			func(m *Metadata) { m.Name = long },
			func(m *Metadata) { m.Symbol = long },
			func(m *Metadata) { m.Icon = str("data:" + long) },
			func(m *Metadata) {
				m.Reference = str(long)
				m.ReferenceHash = make([]byte, 32)
			},
		} {
			m := valid
			modify(&m)
			require.ErrorIs(t, m.Validate(), ErrInvalidMetadata)
		}

		m := valid
		m.Name = long[1:]
		require.NoError(t, m.Validate())
	})

	t.Run("full", func(t *testing.T) {
		m := valid
		m.Decimals = MaxDecimals
		m.Icon = str("data:image/svg+xml,%3Csvg%3E%3C%2Fsvg%3E")
		m.Reference = str("https://example.org/ref.json")
		m.ReferenceHash = make([]byte, 32)
		require.NoError(t, m.Validate())
	})
}

func TestMetadataEncoding(t *testing.T) {
	icon := "data:image/svg+xml,%3Csvg%3E%3C%2Fsvg%3E"
	m := DefaultMetadata("Example token", "EXAMPLE", 24)
	m.Icon = &icon

	w := io.NewBufBinWriter()
	m.EncodeBinary(w.BinWriter)
	require.NoError(t, w.Err)

	var res Metadata
	r := io.NewBinReaderFromBuf(w.Bytes())
	res.DecodeBinary(r)
	require.NoError(t, r.Err)
	require.Equal(t, m, res)

	t.Run("longest fields", func(t *testing.T) {
		long := strings.Repeat("a", maxMetadataField)
		ref := long
		m := Metadata{
			Spec:          long,
			Name:          long,
			Symbol:        long,
			Icon:          str("data:" + long[5:]),
			Reference:     &ref,
			ReferenceHash: make([]byte, 32),
			Decimals:      MaxDecimals,
		}
		require.NoError(t, m.Validate())

		w := io.NewBufBinWriter()
		m.EncodeBinary(w.BinWriter)
		require.NoError(t, w.Err)

		var res Metadata
		r := io.NewBinReaderFromBuf(w.Bytes())
		res.DecodeBinary(r)
		require.NoError(t, r.Err)
		require.Equal(t, m, res)
	})
}
