package service

import (
	"context"
	"errors"
	"strings"

	"virtual-attendant-be/internal/dto"
	"virtual-attendant-be/internal/pkg/logger"
	"virtual-attendant-be/pkg/catalog"
	"virtual-attendant-be/pkg/reply"
	"virtual-attendant-be/pkg/router"
)

var ErrInvalidMessage = errors.New("caller_id and text are required")

// MessageRouter is the part of the router the transports depend on.
type MessageRouter interface {
	RouteTurn(ctx context.Context, callerID, raw string) (router.Turn, error)
}

type IAttendantService interface {
	HandleMessage(ctx context.Context, req *dto.MessageRequest) (*dto.MessageResponse, error)
}

type attendantService struct {
	router MessageRouter
	logger logger.ILogger
}

func NewAttendantService(r MessageRouter, log logger.ILogger) IAttendantService {
	return &attendantService{router: r, logger: log}
}

// HandleMessage routes one caller message. Session store failures are logged
// and the caller still gets the computed reply.
func (s *attendantService) HandleMessage(ctx context.Context, req *dto.MessageRequest) (*dto.MessageResponse, error) {
	callerID := strings.TrimSpace(req.CallerId)
	if callerID == "" || strings.TrimSpace(req.Text) == "" {
		return nil, ErrInvalidMessage
	}

	t, err := s.router.RouteTurn(ctx, callerID, req.Text)
	if err != nil {
		if errors.Is(err, router.ErrEmptyCaller) {
			return nil, ErrInvalidMessage
		}
		s.logger.Warn("ATTENDANT", "Session store degraded, answering anyway", map[string]interface{}{
			"caller_id": callerID,
			"error":     err.Error(),
		})
	}

	return &dto.MessageResponse{
		CallerId: callerID,
		Reply:    render(t.Reply),
		State:    t.After,
	}, nil
}

// render fills the body of a menu redirect so text-only transports can send it.
func render(r reply.Reply) reply.Reply {
	if r.Kind == reply.KindRedirect && r.Body == "" {
		r.Body = catalog.MainMenu()
	}
	return r
}
