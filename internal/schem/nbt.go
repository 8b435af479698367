// Package schem reads .litematic schematic files: gzip-compressed NBT with
// one or more regions of bit-packed block state indices. Only what the
// renderer needs is decoded; entities and tile entities are skipped over.
package schem

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// NBT tag types.
const (
	tagEnd byte = iota
	tagByte
	tagShort
	tagInt
	tagLong
	tagFloat
	tagDouble
	tagByteArray
	tagString
	tagList
	tagCompound
	tagIntArray
	tagLongArray
)

// Decoded NBT values are held loosely: compounds as map[string]any, lists as
// []any, numeric tags widened to int64/float64. The litematic layer pulls out
// the handful of typed fields it needs.
type compound = map[string]any

type nbtDecoder struct {
	r io.Reader
	// scratch buffer for fixed-width reads
	buf [8]byte
}

func decodeNBT(r io.Reader) (compound, error) {
	d := &nbtDecoder{r: r}
	typ, err := d.readByte()
	if err != nil {
		return nil, fmt.Errorf("nbt: read root tag: %w", err)
	}
	if typ != tagCompound {
		return nil, fmt.Errorf("nbt: root tag type %d, want compound", typ)
	}
	if _, err := d.readString(); err != nil {
		return nil, fmt.Errorf("nbt: read root name: %w", err)
	}
	v, err := d.readCompound()
	if err != nil {
		return nil, fmt.Errorf("nbt: %w", err)
	}
	return v, nil
}

func (d *nbtDecoder) readCompound() (compound, error) {
	out := compound{}
	for {
		typ, err := d.readByte()
		if err != nil {
			return nil, err
		}
		if typ == tagEnd {
			return out, nil
		}
		name, err := d.readString()
		if err != nil {
			return nil, err
		}
		v, err := d.readPayload(typ)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out[name] = v
	}
}

func (d *nbtDecoder) readPayload(typ byte) (any, error) {
	switch typ {
	case tagByte:
		b, err := d.readByte()
		return int64(int8(b)), err
	case tagShort:
		v, err := d.readN(2)
		return int64(int16(binary.BigEndian.Uint16(v))), err
	case tagInt:
		v, err := d.readN(4)
		return int64(int32(binary.BigEndian.Uint32(v))), err
	case tagLong:
		v, err := d.readN(8)
		return int64(binary.BigEndian.Uint64(v)), err
	case tagFloat:
		v, err := d.readN(4)
		return float64(math.Float32frombits(binary.BigEndian.Uint32(v))), err
	case tagDouble:
		v, err := d.readN(8)
		return math.Float64frombits(binary.BigEndian.Uint64(v)), err
	case tagByteArray:
		n, err := d.readInt32()
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("negative byte array length %d", n)
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(d.r, buf); err != nil {
			return nil, err
		}
		return buf, nil
	case tagString:
		return d.readString()
	case tagList:
		elemType, err := d.readByte()
		if err != nil {
			return nil, err
		}
		n, err := d.readInt32()
		if err != nil {
			return nil, err
		}
		if n < 0 {
			n = 0
		}
		list := make([]any, 0, n)
		for i := int32(0); i < n; i++ {
			v, err := d.readPayload(elemType)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case tagCompound:
		return d.readCompound()
	case tagIntArray:
		n, err := d.readInt32()
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("negative int array length %d", n)
		}
		arr := make([]int32, n)
		for i := range arr {
			v, err := d.readN(4)
			if err != nil {
				return nil, err
			}
			arr[i] = int32(binary.BigEndian.Uint32(v))
		}
		return arr, nil
	case tagLongArray:
		n, err := d.readInt32()
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("negative long array length %d", n)
		}
		arr := make([]int64, n)
		for i := range arr {
			v, err := d.readN(8)
			if err != nil {
				return nil, err
			}
			arr[i] = int64(binary.BigEndian.Uint64(v))
		}
		return arr, nil
	}
	return nil, fmt.Errorf("unknown tag type %d", typ)
}

func (d *nbtDecoder) readByte() (byte, error) {
	v, err := d.readN(1)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

func (d *nbtDecoder) readInt32() (int32, error) {
	v, err := d.readN(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(v)), nil
}

func (d *nbtDecoder) readString() (string, error) {
	v, err := d.readN(2)
	if err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint16(v)
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func (d *nbtDecoder) readN(n int) ([]byte, error) {
	buf := d.buf[:n]
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Typed accessors over loosely decoded NBT.

func getCompound(c compound, key string) (compound, bool) {
	v, ok := c[key].(compound)
	return v, ok
}

func getInt(c compound, key string) (int, bool) {
	v, ok := c[key].(int64)
	return int(v), ok
}

func getString(c compound, key string) (string, bool) {
	v, ok := c[key].(string)
	return v, ok
}

func getLongArray(c compound, key string) ([]int64, bool) {
	v, ok := c[key].([]int64)
	return v, ok
}

func getList(c compound, key string) ([]any, bool) {
	v, ok := c[key].([]any)
	return v, ok
}
