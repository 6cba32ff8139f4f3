package sender

import (
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/evomata/evonomics/stats"
	"github.com/evomata/evonomics/stats/queue/file"
	"github.com/evomata/evonomics/stats/queue/memory"
)

// NewSender builds a sender over an open connection. The driver is the
// caller's choice; ClickHouse is the intended sink.
func NewSender(connect *sql.DB, config ...Config) *Sender {
	cfg := configDefault(config...)

	logger, _ := NewStdLogger()
	if cfg.Logger != nil {
		logger = cfg.Logger
	}

	return &Sender{
		cfg: cfg,
		filePool: NewPool(func(s stats.Sample) (stats.Queue, error) {
			return file.NewQueueBySample(s, file.Config{
				Workspace: cfg.FileWorkspace,
			})
		}),
		memoryPool: NewPool(func(_ stats.Sample) (stats.Queue, error) {
			return memory.NewQueue(), nil
		}),
		stopSig: make(chan bool),
		connect: connect,
		logger:  logger,
	}
}

// Sender buffers samples and flushes them in batches on a timer. Disk is
// the primary buffer so nothing is lost on a crash; memory catches the
// overflow when the disk itself fails.
type Sender struct {
	cfg Config

	logger Logger

	filePool   stats.Pool
	memoryPool stats.Pool

	stopSig  chan bool
	connect  *sql.DB
	shutdown int32
}

// Stop halts the pusher. With sendTail the remaining buffer is flushed
// to the sink; without it, everything left lands in the file queues.
func (s *Sender) Stop(sendTail bool) {
	atomic.StoreInt32(&s.shutdown, 1)
	s.stopSig <- sendTail
	<-s.stopSig
}

// Push buffers one sample.
func (s *Sender) Push(sample stats.Sample) error {
	if atomic.LoadInt32(&s.shutdown) != 0 {
		return errors.New("sender shutdown")
	}

	err := s.filePool.Push(sample)
	if err != nil {
		if s.cfg.UseMemoryFallback {
			s.logger.Warnw("writing to disk failed", "error", err)

			// the memory queue does not return an error
			_ = s.memoryPool.Push(sample)
			return nil
		}
		return fmt.Errorf("writing to disk failed: %w", err)
	}
	return nil
}

func (s *Sender) publish(query string, samples []stats.Sample) error {
	panicked := true
	tx, err := s.connect.Begin()
	if err != nil {
		return err
	}
	defer func() {
		// Make sure to rollback when panic, Block error or Commit error
		if panicked || err != nil {
			if err := tx.Rollback(); err != nil {
				s.logger.Errorw("problem when rolling back a transaction", "error", err)
			}
		}
	}()

	err = func() error {
		stmt, err := tx.Prepare(query)
		if err != nil {
			return err
		}

		for _, sample := range samples {
			if _, err := stmt.Exec(sample.ToExec()...); err != nil {
				return err
			}
		}

		return stmt.Close()
	}()

	if err == nil {
		err = tx.Commit()
	}

	panicked = false

	return err
}

func (s *Sender) fallback(samples []stats.Sample, memorySafe bool) {
	if err := s.filePool.Append(samples); err != nil {
		if memorySafe {
			_ = s.memoryPool.Append(samples)
			s.logger.Warnw("error when fallback a write to disk", "error", err)
			return
		}

		s.logger.Errorw("data lost! fatal error when fallback a write to disk",
			"error", err,
			"lost", len(samples),
		)
	}
}

// eject drains up to limit samples across both pools, grouped by query.
func (s *Sender) eject(limit int) map[string][]stats.Sample {
	safes := map[string][]stats.Sample{}
	total := 0

	ejected, _ := s.memoryPool.Eject(limit)
	total += len(ejected)
	for _, sample := range ejected {
		safes[sample.SQL()] = append(safes[sample.SQL()], sample)
	}

	if limit < 0 || limit-total > 0 {
		fileLimit := -1
		if limit >= 0 {
			fileLimit = limit - total
		}
		ejected, err := s.filePool.Eject(fileLimit)
		if err != nil {
			s.logger.Warnw("problem ejecting queue from disk", "error", err)
		}
		for _, sample := range ejected {
			safes[sample.SQL()] = append(safes[sample.SQL()], sample)
		}
	}

	return safes
}

// RunPusher starts the background flush loop.
func (s *Sender) RunPusher(period time.Duration, limit int) {
	if period < time.Millisecond {
		period = time.Millisecond
	}

	t := time.NewTicker(period)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-t.C:
				for query, samples := range s.eject(limit) {
					if err := s.publish(query, samples); err != nil {
						s.logger.Warnw("publication ended with an error", "error", err)
						s.fallback(samples, s.cfg.UseMemoryFallback)
					} else if s.cfg.ShowSuccessfulInfo {
						s.logger.Infow("successfully sent", "count", len(samples))
					}
				}
			case sendTail := <-s.stopSig:
				if !sendTail {
					ejected, _ := s.memoryPool.Eject(-1)
					if len(ejected) > 0 {
						if err := s.filePool.Append(ejected); err != nil {
							s.logger.Errorw("data lost! fatal error writing to disk when stopping sender",
								"error", err,
								"lost", len(ejected),
							)
						}
					}
					close(s.stopSig)
					return
				}

				for query, samples := range s.eject(-1) {
					if err := s.publish(query, samples); err != nil {
						s.logger.Warnw("publication ended with an error", "error", err)
						s.fallback(samples, false)
					}
				}

				close(s.stopSig)
				return
			}
		}
	}()
}
