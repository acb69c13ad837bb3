package service

import (
	"context"
	"encoding/json"
	"sync"

	"virtual-attendant-be/internal/mapper"
	"virtual-attendant-be/internal/pkg/logger"
	"virtual-attendant-be/internal/repository/contract"
	"virtual-attendant-be/pkg/router"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const TurnTopic = "attendant.turns"

type TurnBroadcaster interface {
	BroadcastTurn(ctx context.Context, t router.Turn)
}

// ITurnRecorderService takes routed turns off the caller's path: the router
// hands them over in-process and a consumer persists and broadcasts them.
type ITurnRecorderService interface {
	router.TurnObserver
	Consume(ctx context.Context) error
	Wait()
}

type turnRecorderService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	repo        contract.ConversationTurnRepository
	broadcaster TurnBroadcaster
	mapper      *mapper.ConversationTurnMapper
	logger      logger.ILogger
	wg          sync.WaitGroup
}

// NewTurnRecorderService accepts a nil repo or broadcaster to skip that sink.
func NewTurnRecorderService(
	pubSub *gochannel.GoChannel,
	repo contract.ConversationTurnRepository,
	broadcaster TurnBroadcaster,
	log logger.ILogger,
) ITurnRecorderService {
	return &turnRecorderService{
		pubSub:      pubSub,
		topicName:   TurnTopic,
		repo:        repo,
		broadcaster: broadcaster,
		mapper:      mapper.NewConversationTurnMapper(),
		logger:      log,
	}
}

func (s *turnRecorderService) ObserveTurn(_ context.Context, t router.Turn) {
	payload, err := json.Marshal(t)
	if err != nil {
		s.logger.Error("TURNS", "Failed to encode turn", map[string]interface{}{"caller_id": t.CallerID, "error": err.Error()})
		return
	}
	if err := s.pubSub.Publish(s.topicName, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		s.logger.Warn("TURNS", "Failed to hand over turn", map[string]interface{}{"caller_id": t.CallerID, "error": err.Error()})
	}
}

func (s *turnRecorderService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()
	return nil
}

// Wait blocks until the consumer loop has stopped after ctx cancellation.
func (s *turnRecorderService) Wait() {
	s.wg.Wait()
}

// processMessage always acks: turn history is best effort.
func (s *turnRecorderService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var t router.Turn
	if err := json.Unmarshal(msg.Payload, &t); err != nil {
		s.logger.Error("TURNS", "Failed to unmarshal turn", map[string]interface{}{"error": err.Error()})
		return
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastTurn(ctx, t)
	}

	if s.repo != nil {
		if err := s.repo.Create(ctx, s.mapper.FromTurn(t)); err != nil {
			s.logger.Error("TURNS", "Failed to persist turn", map[string]interface{}{"caller_id": t.CallerID, "error": err.Error()})
		}
	}
}
