package service

import (
	"context"
	"fmt"
	"time"

	"virtual-attendant-be/internal/dto"
	"virtual-attendant-be/internal/pkg/logger"
	"virtual-attendant-be/pkg/events"
	natsbus "virtual-attendant-be/pkg/nats"
)

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler natsbus.EventHandler) (func(), error)
}

// IInboundService answers caller messages that arrive over the bus.
type IInboundService interface {
	Start(ctx context.Context) (stop func(), err error)
	Handle(ctx context.Context, env events.Envelope) error
}

type inboundService struct {
	attendant  IAttendantService
	subscriber EventSubscriber
	publisher  EventPublisher
	subject    string
	durable    string
	logger     logger.ILogger
	now        func() time.Time
}

func NewInboundService(
	attendant IAttendantService,
	subscriber EventSubscriber,
	publisher EventPublisher,
	subject, durable string,
	log logger.ILogger,
) IInboundService {
	return &inboundService{
		attendant:  attendant,
		subscriber: subscriber,
		publisher:  publisher,
		subject:    subject,
		durable:    durable,
		logger:     log,
		now:        time.Now,
	}
}

func (s *inboundService) Start(ctx context.Context) (func(), error) {
	stop, err := s.subscriber.Subscribe(ctx, s.subject, s.durable, s.Handle)
	if err != nil {
		return nil, err
	}
	s.logger.Info("INBOUND", "Consuming caller messages", map[string]interface{}{"subject": s.subject, "durable": s.durable})
	return stop, nil
}

// Handle never asks for redelivery once a message was routed: routing moves
// the caller's session forward and must not run twice.
func (s *inboundService) Handle(ctx context.Context, env events.Envelope) error {
	if env.Type != events.TypeInboundMessage {
		s.logger.Debug("INBOUND", "Ignoring event", map[string]interface{}{"type": env.Type})
		return nil
	}

	var msg events.InboundMessage
	if err := env.Into(&msg); err != nil {
		return fmt.Errorf("%w: %v", natsbus.ErrPoison, err)
	}

	res, err := s.attendant.HandleMessage(ctx, &dto.MessageRequest{CallerId: msg.CallerID, Text: msg.Text})
	if err != nil {
		s.logger.Warn("INBOUND", "Rejected caller message", map[string]interface{}{"event_id": env.ID, "error": err.Error()})
		return fmt.Errorf("%w: %v", natsbus.ErrPoison, err)
	}

	out := events.OutboundReply{
		CallerID: res.CallerId,
		Reply:    res.Reply,
		State:    res.State,
		SentAt:   s.now(),
	}
	if err := s.publisher.Publish(ctx, out); err != nil {
		s.logger.Error("INBOUND", "Failed to publish reply", map[string]interface{}{
			"caller_id": res.CallerId,
			"event_id":  env.ID,
			"error":     err.Error(),
		})
	}
	return nil
}
