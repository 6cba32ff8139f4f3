package sender

import (
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/evomata/evonomics/sim"
	"github.com/evomata/evonomics/stats"
)

func TestSender(t *testing.T) {
	suite.Run(t, new(senderTestSuite))
}

type senderTestSuite struct {
	suite.Suite
}

func (suite *senderTestSuite) sample(tick uint64) *stats.TickSample {
	return stats.NewTickSample("suite", sim.TickStats{Tick: tick, Cells: 1, TotalFood: 10})
}

func (suite *senderTestSuite) TestPublishTwo() {
	db, sm, err := sqlmock.New()
	require.NoError(suite.T(), err, "An error was not expected when opening a stub database connection")
	sm.ExpectBegin()
	stmt := sm.ExpectPrepare("INSERT INTO evonomics.ticks").
		WillBeClosed()
	stmt.ExpectExec().
		WillReturnResult(sqlmock.NewResult(0, 0))
	stmt.ExpectExec().
		WillReturnResult(sqlmock.NewResult(0, 0))
	sm.ExpectCommit()

	s := NewSender(db, Config{
		FileWorkspace: suite.T().TempDir(),
		Logger:        nopLogger{},
	})
	require.NoError(suite.T(), s.Push(suite.sample(1)))
	require.NoError(suite.T(), s.Push(suite.sample(2)))

	s.RunPusher(time.Millisecond, 10)
	time.Sleep(50 * time.Millisecond)
	s.Stop(false)

	assert.NoError(suite.T(), sm.ExpectationsWereMet())
}

func (suite *senderTestSuite) TestFailedPublishFallsBack() {
	db, sm, err := sqlmock.New()
	require.NoError(suite.T(), err)
	sm.ExpectBegin().WillReturnError(assert.AnError)

	s := NewSender(db, Config{
		FileWorkspace: suite.T().TempDir(),
		Logger:        nopLogger{},
	})
	require.NoError(suite.T(), s.Push(suite.sample(1)))

	s.RunPusher(time.Millisecond, 10)
	time.Sleep(50 * time.Millisecond)
	s.Stop(false)

	// The sample is back in the file queue, not lost.
	samples, err := s.filePool.Eject(-1)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), samples, 1)
}

func (suite *senderTestSuite) TestStopSendsTail() {
	db, sm, err := sqlmock.New()
	require.NoError(suite.T(), err)
	sm.ExpectBegin()
	stmt := sm.ExpectPrepare("INSERT INTO evonomics.ticks").
		WillBeClosed()
	stmt.ExpectExec().
		WillReturnResult(sqlmock.NewResult(0, 0))
	sm.ExpectCommit()

	s := NewSender(db, Config{
		FileWorkspace: suite.T().TempDir(),
		Logger:        nopLogger{},
	})
	// A long interval so only the stop handshake can flush.
	s.RunPusher(time.Hour, 10)
	require.NoError(suite.T(), s.Push(suite.sample(1)))
	s.Stop(true)

	assert.NoError(suite.T(), sm.ExpectationsWereMet())
}

func (suite *senderTestSuite) TestPushAfterShutdown() {
	db, _, err := sqlmock.New()
	require.NoError(suite.T(), err)

	s := NewSender(db, Config{
		FileWorkspace: suite.T().TempDir(),
		Logger:        nopLogger{},
	})
	s.RunPusher(time.Hour, 10)
	s.Stop(false)

	assert.Error(suite.T(), s.Push(suite.sample(1)))
}

type nopLogger struct{}

func (nopLogger) Infow(string, ...interface{})  {}
func (nopLogger) Warnw(string, ...interface{})  {}
func (nopLogger) Errorw(string, ...interface{}) {}
