// Package memory provides an unbounded in-process sample queue.
package memory

import (
	"container/list"
	"sync"

	"github.com/evomata/evonomics/stats"
)

func NewQueue() *Queue {
	return &Queue{
		buffer: list.New(),
	}
}

type Queue struct {
	buffer *list.List
	mx     sync.Mutex
}

func (m *Queue) Push(s stats.Sample) error {
	m.mx.Lock()
	defer m.mx.Unlock()
	m.buffer.PushBack(s)
	return nil
}

func (m *Queue) Eject(limit int) (samples []stats.Sample, err error) {
	m.mx.Lock()
	defer m.mx.Unlock()

	if limit > m.buffer.Len() || limit < 0 {
		limit = m.buffer.Len()
	}
	if limit == 0 {
		return nil, nil
	}

	samples = make([]stats.Sample, 0, limit)
	for e := m.buffer.Front(); e != nil && len(samples) < limit; {
		cur := e
		e = e.Next()
		samples = append(samples, m.buffer.Remove(cur).(stats.Sample))
	}
	return samples, nil
}

func (m *Queue) Len() int {
	m.mx.Lock()
	defer m.mx.Unlock()
	return m.buffer.Len()
}
