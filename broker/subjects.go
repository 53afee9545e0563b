package broker

type EventType string

// Standardized event types in format: <entity>.<action>
const (
	TaskCreated EventType = "task.created"
	TaskUpdated EventType = "task.updated"
	TaskDeleted EventType = "task.deleted"

	UserCreated EventType = "user.created"
)

// SubjectPrefix namespaces every subject published by this service.
const SubjectPrefix = "taskflow"

// SubjectFor maps an event type to its NATS subject,
// e.g. "task.created" -> "taskflow.task.created".
func SubjectFor(event string) string {
	return SubjectPrefix + "." + event
}
