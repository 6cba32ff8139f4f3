// Package file provides a sample queue persisted to disk, so telemetry
// survives a crash of the sink or the process itself.
//
// Layout: an 8-byte big-endian head offset, then length-prefixed records
// of the form [4-byte length][4-byte CRC32][payload]. Ejecting advances
// the head; once the queue drains the file is truncated back to the
// header.
package file

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"reflect"
	"sync"

	"github.com/evomata/evonomics/stats"
)

const (
	headerSize     int64 = 8
	recordMetaSize       = 8
	maxRecordSize        = 1 << 20
)

var (
	// ErrInvalidFile marks a queue file whose header cannot be read.
	ErrInvalidFile = errors.New("invalid queue file")
	// ErrCorruptTail reports that a damaged tail was truncated away.
	ErrCorruptTail = errors.New("corrupt queue tail truncated")
)

// NewQueue wraps an open file. The pattern value provides the concrete
// type ejected samples are reconstructed into.
func NewQueue(f *os.File, pattern stats.Sample) (*Queue, error) {
	q := &Queue{
		typeOf: reflect.ValueOf(pattern).Elem().Type(),
		file:   f,
		order:  binary.BigEndian,
	}
	if err := q.recover(); err != nil {
		return nil, err
	}
	return q, nil
}

// Config defines the config for file queues created by sample kind.
type Config struct {
	Workspace string
}

// NewQueueBySample opens (or creates) the queue file for a sample kind
// inside the workspace directory.
func NewQueueBySample(s stats.Sample, cfg Config) (*Queue, error) {
	if err := os.MkdirAll(cfg.Workspace, 0o755); err != nil {
		return nil, err
	}
	name := reflect.ValueOf(s).Elem().Type().Name()
	f, err := os.OpenFile(
		fmt.Sprintf("%s/%s.queue", cfg.Workspace, name),
		os.O_RDWR|os.O_CREATE, 0o644,
	)
	if err != nil {
		return nil, err
	}
	return NewQueue(f, s)
}

type Queue struct {
	typeOf reflect.Type
	file   *os.File
	order  binary.ByteOrder
	mx     sync.Mutex

	head  int64
	end   int64
	count int
}

// recover reads the header and walks the records, truncating any
// damaged tail left behind by a crash mid-write.
func (q *Queue) recover() error {
	size, err := q.file.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}

	if size == 0 {
		q.head, q.end = headerSize, headerSize
		return q.writeHead()
	}
	if size < headerSize {
		return ErrInvalidFile
	}

	var headBuf [headerSize]byte
	if _, err := q.file.ReadAt(headBuf[:], 0); err != nil {
		return err
	}
	q.head = int64(q.order.Uint64(headBuf[:]))
	if q.head < headerSize || q.head > size {
		return ErrInvalidFile
	}

	offset := q.head
	for offset < size {
		_, next, err := q.readRecord(offset, size)
		if err != nil {
			// Damaged tail: drop it.
			if err := q.file.Truncate(offset); err != nil {
				return err
			}
			break
		}
		offset = next
		q.count++
	}
	q.end = offset
	return nil
}

func (q *Queue) writeHead() error {
	var buf [headerSize]byte
	q.order.PutUint64(buf[:], uint64(q.head))
	_, err := q.file.WriteAt(buf[:], 0)
	return err
}

// readRecord validates and returns the payload at offset, plus the
// offset of the following record.
func (q *Queue) readRecord(offset, size int64) (payload []byte, next int64, err error) {
	if offset+recordMetaSize > size {
		return nil, 0, ErrCorruptTail
	}
	var meta [recordMetaSize]byte
	if _, err := q.file.ReadAt(meta[:], offset); err != nil {
		return nil, 0, err
	}
	length := int64(q.order.Uint32(meta[0:4]))
	sum := q.order.Uint32(meta[4:8])
	if length == 0 || length > maxRecordSize || offset+recordMetaSize+length > size {
		return nil, 0, ErrCorruptTail
	}
	payload = make([]byte, length)
	if _, err := q.file.ReadAt(payload, offset+recordMetaSize); err != nil {
		return nil, 0, err
	}
	if crc32.ChecksumIEEE(payload) != sum {
		return nil, 0, ErrCorruptTail
	}
	return payload, offset + recordMetaSize + length, nil
}

func (q *Queue) Push(s stats.Sample) error {
	q.mx.Lock()
	defer q.mx.Unlock()

	payload, err := s.MarshalBinary()
	if err != nil {
		return err
	}
	if len(payload) == 0 || len(payload) > maxRecordSize {
		return fmt.Errorf("sample payload of %d bytes not queueable", len(payload))
	}

	buf := make([]byte, recordMetaSize+len(payload))
	q.order.PutUint32(buf[0:4], uint32(len(payload)))
	q.order.PutUint32(buf[4:8], crc32.ChecksumIEEE(payload))
	copy(buf[recordMetaSize:], payload)

	if _, err := q.file.WriteAt(buf, q.end); err != nil {
		return err
	}
	q.end += int64(len(buf))
	q.count++
	return nil
}

func (q *Queue) Eject(limit int) (samples []stats.Sample, err error) {
	q.mx.Lock()
	defer q.mx.Unlock()

	if limit > q.count || limit < 0 {
		limit = q.count
	}
	if limit == 0 {
		return nil, nil
	}

	samples = make([]stats.Sample, 0, limit)
	var corrupt bool
	for len(samples) < limit {
		payload, next, err := q.readRecord(q.head, q.end)
		if err != nil {
			// A damaged record invalidates everything behind it.
			if truncErr := q.file.Truncate(q.head); truncErr != nil {
				return samples, truncErr
			}
			q.end = q.head
			q.count = 0
			corrupt = true
			break
		}

		s := reflect.New(q.typeOf).Interface().(stats.Sample)
		if err := s.UnmarshalBinary(payload); err != nil {
			return samples, err
		}
		samples = append(samples, s)
		q.head = next
		q.count--
	}

	if q.count == 0 && q.end > headerSize {
		// Drained: shrink the file back to the bare header.
		if err := q.file.Truncate(headerSize); err != nil {
			return samples, err
		}
		q.head, q.end = headerSize, headerSize
	}
	if err := q.writeHead(); err != nil {
		return samples, err
	}
	if corrupt {
		return samples, ErrCorruptTail
	}
	return samples, nil
}

func (q *Queue) Len() int {
	q.mx.Lock()
	defer q.mx.Unlock()
	return q.count
}

// Close releases the underlying file.
func (q *Queue) Close() error {
	return q.file.Close()
}
