package journal

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"
)

// Wire framing, one record:
//
//	[bodyLen u32][crc32 u32][body]
//	body = type u8 | seq u64 | time i64 | data
//
// The CRC covers the body. A length or checksum mismatch surfaces as
// ErrCorruptRecord and stops the reader at the last good record.

var ErrCorruptRecord = errors.New("journal: corrupted record")

const frameHeaderSize = 8

// maxFrameBody bounds a single record. No legitimate record approaches a
// whole segment, and the bound keeps a corrupted length field from forcing
// a multi-gigabyte allocation before the CRC check can reject the frame.
const maxFrameBody = defaultSegmentSize

func encodeFrame(rec *Record) []byte {
	body := make([]byte, 17+len(rec.Data))
	body[0] = byte(rec.Type)
	binary.LittleEndian.PutUint64(body[1:], rec.Seq)
	binary.LittleEndian.PutUint64(body[9:], uint64(rec.Time))
	copy(body[17:], rec.Data)

	out := make([]byte, frameHeaderSize+len(body))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(body)))
	binary.LittleEndian.PutUint32(out[4:], crc32.ChecksumIEEE(body))
	copy(out[frameHeaderSize:], body)
	return out
}

func decodeFrame(r io.Reader) (*Record, error) {
	var header [frameHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint32(header[0:])
	want := binary.LittleEndian.Uint32(header[4:])
	if n < 17 || n > maxFrameBody {
		return nil, ErrCorruptRecord
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrCorruptRecord
		}
		return nil, err
	}
	if crc32.ChecksumIEEE(body) != want {
		return nil, ErrCorruptRecord
	}
	return &Record{
		Type: RecordType(body[0]),
		Seq:  binary.LittleEndian.Uint64(body[1:]),
		Time: int64(binary.LittleEndian.Uint64(body[9:])),
		Data: body[17:],
	}, nil
}
