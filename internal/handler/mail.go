package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bluewave-swim/backoffice/backend/internal/domain"
	"github.com/bluewave-swim/backoffice/backend/internal/placement"
)

var errMailUnavailable = errors.New("mail queue is not connected")

func (h *Handler) redisContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
}

func (h *Handler) publishMail(ctx context.Context, msg domain.MailMessage) error {
	if h.mailChannel == nil {
		return errMailUnavailable
	}

	mailData, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		h.config.RabbitMQ.Queue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         mailData,
		},
	); err != nil {
		return err
	}

	h.metrics.NotificationQueued(msg.Type)
	return nil
}

// placementMails builds one mail per submission that was newly placed in a
// lane or newly put on the waitlist.
func placementMails(change *placement.Change, submissions []*domain.Submission) []domain.MailMessage {
	byID := make(map[string]*domain.Submission, len(submissions))
	for _, s := range submissions {
		byID[s.ID] = s
	}

	activityName := ""
	if change.Activity != nil {
		activityName = change.Activity.Name
	}

	build := func(mailType string, a placement.Assignment) (domain.MailMessage, bool) {
		s, ok := byID[a.SubmissionID]
		if !ok || s.ParentEmail == "" {
			return domain.MailMessage{}, false
		}
		position := int32(0)
		if mailType == domain.MailTypeWaitlisted {
			position = a.WaitlistOrder + 1
		}
		return domain.MailMessage{
			Type: mailType,
			To:   s.ParentEmail,
			Data: domain.PlacementMailData{
				SwimmerName:   s.SwimmerName,
				ActivityName:  activityName,
				Location:      change.Current.Location,
				SlotLabel:     change.Current.SlotLabel,
				LaneNumber:    a.LaneNumber,
				WaitlistOrder: position,
			},
		}, true
	}

	mails := make([]domain.MailMessage, 0)
	for _, a := range change.NewlyPlaced() {
		if msg, ok := build(domain.MailTypePlaced, a); ok {
			mails = append(mails, msg)
		}
	}
	for _, a := range change.NewlyWaitlisted() {
		if msg, ok := build(domain.MailTypeWaitlisted, a); ok {
			mails = append(mails, msg)
		}
	}
	return mails
}

// mailSubmissionIDs keeps the ids that can name a stored submission.
// Placements may reference free-form ids that no submission row carries.
func mailSubmissionIDs(assignments []placement.Assignment) []string {
	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if _, err := uuid.Parse(a.SubmissionID); err != nil {
			slog.Warn("skipping placement mail for unknown submission id", "submissionID", a.SubmissionID)
			continue
		}
		ids = append(ids, a.SubmissionID)
	}
	return ids
}

// notifyPlacementChange never fails the write it follows; problems are logged.
func (h *Handler) notifyPlacementChange(ctx context.Context, change *placement.Change) {
	placed := change.NewlyPlaced()
	waitlisted := change.NewlyWaitlisted()
	if len(placed)+len(waitlisted) == 0 {
		return
	}

	ids := mailSubmissionIDs(append(placed, waitlisted...))
	if len(ids) == 0 {
		return
	}

	submissions, err := h.repository.GetSubmissionsByIDs(ctx, ids)
	if err != nil {
		slog.Error("failed to load submissions for placement mails", "placement", change.Current.ID, "error", err)
		return
	}

	for _, msg := range placementMails(change, submissions) {
		if err := h.publishMail(ctx, msg); err != nil {
			slog.Error("failed to queue placement mail", "placement", change.Current.ID, "type", msg.Type, "to", msg.To, "error", err)
		}
	}
}
