package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lectern/courseport-backend/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Event names carried on queued messages, for logging only.
const (
	EventEnrollmentConfirmed = "enrollment_confirmed"
	EventLecturePublished    = "lecture_published"
	EventAssignmentPublished = "assignment_published"
)

// Message is one outbound notification. Recipients is a set of email
// addresses; a broadcast carries every enrolled email of a course.
type Message struct {
	Event      string   `json:"event"`
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
}

// Mailer delivers a single message to an external email provider.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher enqueues notifications onto a Redis list for the notifier
// worker. Enqueue is fire-and-forget: failures are logged and never
// surfaced to the state change that produced the notification.
type Dispatcher struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(rdb *redis.Client, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		rdb: rdb,
		log: log.With().Str("component", "notify_dispatcher").Logger(),
	}
}

// Enqueue pushes a message onto the notification queue. Messages with no
// recipients are dropped silently.
func (d *Dispatcher) Enqueue(ctx context.Context, msg Message) {
	if len(msg.Recipients) == 0 {
		return
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		d.log.Error().Err(err).Str("event", msg.Event).Msg("Marshal notification failed")
		return
	}

	if err := d.rdb.RPush(ctx, config.WorkerKey.NotificationQueue, payload).Err(); err != nil {
		d.log.Error().
			Err(err).
			Str("event", msg.Event).
			Int("recipients", len(msg.Recipients)).
			Msg("Enqueue notification failed")
	}
}

// EnrollmentConfirmed builds the message sent to one student after a
// newly created enrollment.
func EnrollmentConfirmed(email, courseTitle string) Message {
	return Message{
		Event:      EventEnrollmentConfirmed,
		Recipients: []string{email},
		Subject:    "Enrollment Confirmed",
		Body:       fmt.Sprintf("You are now enrolled in %q.", courseTitle),
	}
}

// LecturePublished builds the broadcast sent to every enrolled student
// when a new lecture is uploaded.
func LecturePublished(recipients []string, courseTitle, lectureTitle string) Message {
	return Message{
		Event:      EventLecturePublished,
		Recipients: recipients,
		Subject:    "New Lecture: " + lectureTitle,
		Body:       fmt.Sprintf("A new lecture %q was published in %q.", lectureTitle, courseTitle),
	}
}

// AssignmentPublished builds the broadcast sent to every enrolled student
// when a new assignment is uploaded.
func AssignmentPublished(recipients []string, courseTitle, assignmentTitle, dueDate string) Message {
	return Message{
		Event:      EventAssignmentPublished,
		Recipients: recipients,
		Subject:    "New Assignment: " + assignmentTitle,
		Body:       fmt.Sprintf("A new assignment %q (due %s) was published in %q.", assignmentTitle, dueDate, courseTitle),
	}
}
