package tlvcodec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// HeaderLen is id(2) + type(1) + length(4).
const HeaderLen = 7

var (
	ErrShortFieldHeader = errors.New("tlv: short field header")
	ErrShortFieldValue  = errors.New("tlv: short field value")
	ErrFieldOrder       = errors.New("tlv: fields out of order")
)

// Type IDs. Map and Val carry canonical CBOR.
const (
	TypeU8     uint8 = 1
	TypeU64    uint8 = 4
	TypeString uint8 = 6
	TypeMap    uint8 = 8
	TypeVal    uint8 = 9
)

// Field is one decoded TLV field. ID 0 holds the kind, ID i the i-th
// message field.
type Field struct {
	ID    uint16
	Type  uint8
	Value []byte
}

func EncodeField(f Field) []byte {
	buf := make([]byte, HeaderLen+len(f.Value))
	binary.BigEndian.PutUint16(buf[0:2], f.ID)
	buf[2] = f.Type
	binary.BigEndian.PutUint32(buf[3:7], uint32(len(f.Value)))
	copy(buf[7:], f.Value)
	return buf
}

func DecodeFields(payload []byte) ([]Field, error) {
	fields := make([]Field, 0)
	i := 0
	for i < len(payload) {
		if len(payload)-i < HeaderLen {
			return nil, ErrShortFieldHeader
		}
		id := binary.BigEndian.Uint16(payload[i : i+2])
		typeID := payload[i+2]
		l := binary.BigEndian.Uint32(payload[i+3 : i+7])
		i += HeaderLen
		if uint32(len(payload)-i) < l {
			return nil, ErrShortFieldValue
		}
		val := make([]byte, l)
		copy(val, payload[i:i+int(l)])
		i += int(l)
		if int(id) != len(fields) {
			return nil, fmt.Errorf("%w: got id %d at position %d", ErrFieldOrder, id, len(fields))
		}
		fields = append(fields, Field{ID: id, Type: typeID, Value: val})
	}
	return fields, nil
}

func EncodeFields(fields []Field) []byte {
	out := make([]byte, 0)
	for _, f := range fields {
		out = append(out, EncodeField(f)...)
	}
	return out
}

func MustType(f Field, expected ...uint8) error {
	for _, t := range expected {
		if f.Type == t {
			return nil
		}
	}
	return fmt.Errorf("tlv: field %d type mismatch: got %d want %v", f.ID, f.Type, expected)
}

func U64FromBytes(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("tlv: invalid u64 length: %d", len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

func U64Bytes(v uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, v)
}
