package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"rental-booking-backend/internal/model"
)

// Event describes what happened to a reservation.
type Event string

const (
	EventCreated   Event = "created"
	EventCancelled Event = "cancelled"
)

// Job asks the pool to notify the property owner about one reservation.
type Job struct {
	ReservationID int64
	Event         Event
}

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real Sender backed by the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool manages a pool of workers for sending owner notifications.
type WorkerPool struct {
	size    int
	jobs    chan Job
	db      *gorm.DB
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Job, size),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Notification worker %d started", id)
	for {
		select {
		case job := <-wp.jobs:
			wp.notifyOwner(ctx, job)
		case <-ctx.Done():
			log.Printf("Notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch hands a job to the worker pool without blocking the caller;
// a full queue drops the job, since owner pushes are advisory.
func (wp *WorkerPool) Dispatch(job Job) {
	select {
	case wp.jobs <- job:
	default:
		log.Printf("Notification queue full, dropping %s event for reservation %d", job.Event, job.ReservationID)
	}
}

// notifyOwner fetches the owner's subscriptions and pushes the event.
func (wp *WorkerPool) notifyOwner(ctx context.Context, job Job) {
	var reservation model.Reservation
	if err := wp.db.WithContext(ctx).
		Unscoped().
		First(&reservation, job.ReservationID).Error; err != nil {
		log.Printf("Error fetching reservation %d: %v", job.ReservationID, err)
		return
	}

	var property model.Property
	if err := wp.db.WithContext(ctx).
		First(&property, reservation.PropertyID).Error; err != nil {
		log.Printf("Error fetching property %d: %v", reservation.PropertyID, err)
		return
	}

	var subscriptions []model.PushSubscription
	if err := wp.db.WithContext(ctx).
		Where("user_id = ?", property.OwnerID).
		Find(&subscriptions).Error; err != nil {
		log.Printf("Error fetching subscriptions for owner %d: %v", property.OwnerID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	var message string
	switch job.Event {
	case EventCancelled:
		message = fmt.Sprintf("Booking %s for %s was cancelled.", reservation.Reference, property.Title)
	default:
		message = fmt.Sprintf("New booking %s for %s.", reservation.Reference, property.Title)
	}

	log.Printf("Sending %d notifications for reservation %d", len(subscriptions), reservation.ID)
	for _, sub := range subscriptions {
		wp.push(ctx, sub, []byte(message))
	}
}

// push sends a single web push notification.
func (wp *WorkerPool) push(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
