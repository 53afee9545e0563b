package broker

import (
	"errors"
	"log"

	"taskflow-app/taskflow/config"

	"github.com/nats-io/nats.go"
)

var ErrProducerNotInitialized = errors.New("broker producer is not initialized")

var conn *nats.Conn

// InitProducer connects to the NATS broker. The caller decides whether a
// connection failure is fatal; the rest of the application degrades
// gracefully when the broker is unavailable.
func InitProducer(cfg config.Config) error {
	nc, err := nats.Connect(cfg.BrokerURL,
		nats.Name("taskflow-api"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return err
	}
	conn = nc
	log.Printf("Connected to NATS broker at %s", cfg.BrokerURL)
	return nil
}

// PublishMessage publishes a payload to the given subject. It returns an
// error when the producer was never initialized so callers can keep the
// message pending instead of losing it.
func PublishMessage(subject string, data []byte) error {
	if conn == nil {
		return ErrProducerNotInitialized
	}
	return conn.Publish(subject, data)
}

func CloseProducer() {
	if conn == nil {
		return
	}
	if err := conn.Drain(); err != nil {
		log.Printf("Failed to drain NATS connection: %v", err)
	}
	conn = nil
}
