package sender

import (
	"sync"

	"github.com/evomata/evonomics/stats"
)

// NewQueueFunc builds the queue backing one sample kind.
type NewQueueFunc = func(s stats.Sample) (stats.Queue, error)

// NewPool groups queues by the sample's insert statement, creating them
// lazily on first use.
func NewPool(newQueue NewQueueFunc) stats.Pool {
	return &pool{
		newQueue:  newQueue,
		openQueue: map[string]stats.Queue{},
	}
}

type pool struct {
	newQueue  NewQueueFunc
	mx        sync.Mutex
	openQueue map[string]stats.Queue
}

func (p *pool) getQueue(s stats.Sample) (stats.Queue, error) {
	queue, ok := p.openQueue[s.SQL()]
	if !ok {
		var err error
		queue, err = p.newQueue(s)
		if err != nil {
			return nil, err
		}
		p.openQueue[s.SQL()] = queue
	}
	return queue, nil
}

func (p *pool) Append(samples []stats.Sample) error {
	p.mx.Lock()
	defer p.mx.Unlock()

	for _, s := range samples {
		queue, err := p.getQueue(s)
		if err != nil {
			return err
		}
		if err := queue.Push(s); err != nil {
			return err
		}
	}
	return nil
}

func (p *pool) Push(s stats.Sample) error {
	p.mx.Lock()
	defer p.mx.Unlock()

	queue, err := p.getQueue(s)
	if err != nil {
		return err
	}
	return queue.Push(s)
}

func (p *pool) Eject(limit int) (samples []stats.Sample, err error) {
	p.mx.Lock()
	defer p.mx.Unlock()

	maxLimit := 0
	for _, queue := range p.openQueue {
		maxLimit += queue.Len()
	}
	if limit > maxLimit || limit < 0 {
		limit = maxLimit
	}
	if limit == 0 {
		return nil, nil
	}

	samples = make([]stats.Sample, 0, limit)
	for _, queue := range p.openQueue {
		ejected, err := queue.Eject(limit - len(samples))
		if err != nil {
			return samples, err
		}
		samples = append(samples, ejected...)
		if len(samples) >= limit {
			break
		}
	}
	return samples, nil
}
