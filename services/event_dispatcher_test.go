package services

import (
	"sync"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"taskflow-app/taskflow/testutils"
)

func TestDispatchPendingEvents_BrokerUnavailable(t *testing.T) {
	db, mock, cleanup := testutils.SetupMockDB()
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "events" WHERE dispatched = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event", "version", "entity", "timestamp", "data", "dispatched"}).
			AddRow(uuid.New().String(), "task.created", 1, "task", time.Now().UTC(), []byte(`{"task_id":"x"}`), false))

	// The producer is not initialized in tests, so publishing fails and
	// the row must stay pending: no UPDATE is expected.
	dispatcher := NewEventDispatcherService(db)
	dispatched := dispatcher.DispatchPendingEvents()

	assert.Equal(t, 0, dispatched)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDispatchPendingEvents_NothingPending(t *testing.T) {
	db, mock, cleanup := testutils.SetupMockDB()
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "events" WHERE dispatched = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	dispatcher := NewEventDispatcherService(db)
	assert.Equal(t, 0, dispatcher.DispatchPendingEvents())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDispatcherStartStop(t *testing.T) {
	db, _, cleanup := testutils.SetupMockDB()
	defer cleanup()

	dispatcher := NewEventDispatcherService(db)
	dispatcher.Start()
	dispatcher.Start() // second start is a no-op
	dispatcher.Stop()
	dispatcher.Stop() // second stop is a no-op
}

func TestDispatcherConcurrentStop(t *testing.T) {
	// Stop is called from both the main goroutine and the signal handler
	// at shutdown; only one may close the stop channel.
	db, _, cleanup := testutils.SetupMockDB()
	defer cleanup()

	dispatcher := NewEventDispatcherService(db)
	dispatcher.Start()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dispatcher.Stop()
		}()
	}
	wg.Wait()
}
