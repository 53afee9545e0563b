package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"taskflow-app/taskflow/broker"
	"taskflow-app/taskflow/database"
	"taskflow-app/taskflow/models"
)

type EventDispatcherInterface interface {
	Start()
	Stop()
	DispatchPendingEvents() int
}

// EventDispatcherService drains the events outbox: undispatched rows are
// published to the broker and marked dispatched. Rows stay pending while
// the broker is unreachable and are retried on the next tick.
type EventDispatcherService struct {
	db       *database.Database
	ticker   *time.Ticker
	stopChan chan struct{}

	// mu guards isRunning: Stop is reachable from both the main goroutine
	// and the signal handler.
	mu        sync.Mutex
	isRunning bool
}

func NewEventDispatcherService(db *database.Database) *EventDispatcherService {
	return &EventDispatcherService{
		db:       db,
		ticker:   time.NewTicker(1 * time.Second),
		stopChan: make(chan struct{}),
	}
}

func (s *EventDispatcherService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.isRunning = true
	go s.run()
}

func (s *EventDispatcherService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	s.isRunning = false
	s.ticker.Stop()
	close(s.stopChan)
}

func (s *EventDispatcherService) run() {
	for {
		select {
		case <-s.ticker.C:
			s.DispatchPendingEvents()
		case <-s.stopChan:
			return
		}
	}
}

// DispatchPendingEvents publishes pending outbox rows in timestamp order
// and returns how many were dispatched.
func (s *EventDispatcherService) DispatchPendingEvents() int {
	var events []models.Event
	if err := s.db.DB.Where("dispatched = ?", false).
		Order("timestamp ASC").
		Limit(100).
		Find(&events).Error; err != nil {
		log.Printf("Error fetching pending events: %v", err)
		return 0
	}

	dispatched := 0
	for _, event := range events {
		if err := s.dispatchEvent(event); err != nil {
			log.Printf("Error dispatching event %s: %v", event.ID, err)
			continue
		}
		dispatched++
	}
	return dispatched
}

func (s *EventDispatcherService) dispatchEvent(event models.Event) error {
	payload, err := json.Marshal(map[string]interface{}{
		"event_id":  event.ID.String(),
		"timestamp": event.Timestamp,
		"type":      event.Event,
		"entity":    event.Entity,
		"data":      event.Data,
	})
	if err != nil {
		return err
	}

	if err := broker.PublishMessage(broker.SubjectFor(event.Event), payload); err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.db.DB.Model(&models.Event{}).
		Where("id = ?", event.ID).
		Updates(map[string]interface{}{"dispatched": true, "dispatched_at": now}).Error
}

var EventDispatcherInstance EventDispatcherInterface
