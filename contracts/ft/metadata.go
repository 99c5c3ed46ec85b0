package ft

import (
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/io"
)

const (
	// MetadataSpec is the metadata standard version.
	MetadataSpec = "ft-1.0.0"

	// MaxDecimals is the largest precision for which one whole token still
	// fits into 128-bit balance.
	MaxDecimals = 38

	referenceHashLen = 32

	maxMetadataField = 1 << 16
)

// Metadata is an immutable token descriptor set at initialization.
type Metadata struct {
	Spec          string  `json:"spec"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	Icon          *string `json:"icon"`
	Reference     *string `json:"reference"`
	ReferenceHash []byte  `json:"reference_hash"`
	Decimals      uint8   `json:"decimals"`
}

// DefaultMetadata returns metadata of the current spec version without icon
// and references.
func DefaultMetadata(name, symbol string, decimals uint8) Metadata {
	return Metadata{
		Spec:     MetadataSpec,
		Name:     name,
		Symbol:   symbol,
		Decimals: decimals,
	}
}

// Validate checks metadata fields.
func (m Metadata) Validate() error {
	for name, f := range map[string]*string{
		"spec":      &m.Spec,
		"name":      &m.Name,
		"symbol":    &m.Symbol,
		"icon":      m.Icon,
		"reference": m.Reference,
	} {
		if f != nil && len(*f) > maxMetadataField {
			return fmt.Errorf("%w: %s exceeds %d bytes", ErrInvalidMetadata, name, maxMetadataField)
		}
	}

	switch {
	case m.Spec == "":
		return fmt.Errorf("%w: empty spec", ErrInvalidMetadata)
	case m.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidMetadata)
	case m.Symbol == "":
		return fmt.Errorf("%w: empty symbol", ErrInvalidMetadata)
	case m.Decimals > MaxDecimals:
		return fmt.Errorf("%w: decimals %d exceed %d", ErrInvalidMetadata, m.Decimals, MaxDecimals)
	case m.Icon != nil && !strings.HasPrefix(*m.Icon, "data:"):
		return fmt.Errorf("%w: icon must be a data URI", ErrInvalidMetadata)
	case (m.Reference == nil) != (m.ReferenceHash == nil):
		return fmt.Errorf("%w: reference and reference hash must be set together", ErrInvalidMetadata)
	case m.ReferenceHash != nil && len(m.ReferenceHash) != referenceHashLen:
		return fmt.Errorf("%w: reference hash must be %d bytes", ErrInvalidMetadata, referenceHashLen)
	}

	return nil
}

// EncodeBinary implements io.Serializable.
func (m *Metadata) EncodeBinary(w *io.BinWriter) {
	w.WriteString(m.Spec)
	w.WriteString(m.Name)
	w.WriteString(m.Symbol)
	encodeOptionalString(w, m.Icon)
	encodeOptionalString(w, m.Reference)
	w.WriteVarBytes(m.ReferenceHash)
	w.WriteB(m.Decimals)
}

// DecodeBinary implements io.Serializable.
func (m *Metadata) DecodeBinary(r *io.BinReader) {
	m.Spec = r.ReadString(maxMetadataField)
	m.Name = r.ReadString(maxMetadataField)
	m.Symbol = r.ReadString(maxMetadataField)
	m.Icon = decodeOptionalString(r)
	m.Reference = decodeOptionalString(r)
	m.ReferenceHash = r.ReadVarBytes(referenceHashLen)
	if len(m.ReferenceHash) == 0 {
		m.ReferenceHash = nil
	}
	m.Decimals = r.ReadB()
}

func encodeOptionalString(w *io.BinWriter, s *string) {
	w.WriteBool(s != nil)
	if s != nil {
		w.WriteString(*s)
	}
}

func decodeOptionalString(r *io.BinReader) *string {
	if !r.ReadBool() {
		return nil
	}
	s := r.ReadString(maxMetadataField)
	return &s
}
