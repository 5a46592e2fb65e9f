package segments

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Binary flag layout, protobuf wire compatible:
//
//	message Interval { double start = 1; double end = 2; }
//	message Flag {
//	  string name = 1;
//	  repeated Interval known = 2;
//	  repeated Interval active = 3;
//	}
const (
	fieldName   protowire.Number = 1
	fieldKnown  protowire.Number = 2
	fieldActive protowire.Number = 3

	fieldStart protowire.Number = 1
	fieldEnd   protowire.Number = 2
)

// MarshalBinary encodes the flag in protobuf wire format.
func (f *Flag) MarshalBinary() ([]byte, error) {
	var b []byte
	if f.Name != "" {
		b = protowire.AppendTag(b, fieldName, protowire.BytesType)
		b = protowire.AppendString(b, f.Name)
	}
	b = appendIntervals(b, fieldKnown, f.Known)
	b = appendIntervals(b, fieldActive, f.Active)
	return b, nil
}

func appendIntervals(b []byte, num protowire.Number, s IntervalSet) []byte {
	var m []byte
	for _, iv := range s.ivs {
		m = m[:0]
		m = protowire.AppendTag(m, fieldStart, protowire.Fixed64Type)
		m = protowire.AppendFixed64(m, math.Float64bits(iv.Start))
		m = protowire.AppendTag(m, fieldEnd, protowire.Fixed64Type)
		m = protowire.AppendFixed64(m, math.Float64bits(iv.End))

		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendBytes(b, m)
	}
	return b
}

// UnmarshalBinary decodes a flag written by MarshalBinary. Unknown fields are
// skipped. Decoded intervals are validated and canonicalised.
func (f *Flag) UnmarshalBinary(data []byte) error {
	var (
		name          string
		known, active []Interval
	)
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return malformed(n)
		}
		data = data[n:]

		switch {
		case num == fieldName && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return malformed(n)
			}
			name = v
			data = data[n:]
		case (num == fieldKnown || num == fieldActive) && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return malformed(n)
			}
			iv, err := decodeInterval(v)
			if err != nil {
				return err
			}
			if num == fieldKnown {
				known = append(known, iv)
			} else {
				active = append(active, iv)
			}
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return malformed(n)
			}
			data = data[n:]
		}
	}

	knownSet, err := New(known...)
	if err != nil {
		return fmt.Errorf("known: %w", err)
	}
	activeSet, err := New(active...)
	if err != nil {
		return fmt.Errorf("active: %w", err)
	}
	*f = Flag{Name: name, Active: activeSet, Known: knownSet}
	return nil
}

func decodeInterval(data []byte) (Interval, error) {
	var iv Interval
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return Interval{}, malformed(n)
		}
		data = data[n:]

		if (num == fieldStart || num == fieldEnd) && typ == protowire.Fixed64Type {
			v, n := protowire.ConsumeFixed64(data)
			if n < 0 {
				return Interval{}, malformed(n)
			}
			if num == fieldStart {
				iv.Start = math.Float64frombits(v)
			} else {
				iv.End = math.Float64frombits(v)
			}
			data = data[n:]
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, data)
		if n < 0 {
			return Interval{}, malformed(n)
		}
		data = data[n:]
	}
	return NewInterval(iv.Start, iv.End)
}

func malformed(n int) error {
	return fmt.Errorf("%w: %w", ErrMalformedEncoding, protowire.ParseError(n))
}
