package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"virtual-attendant-be/internal/config"
	"virtual-attendant-be/internal/dto"
	"virtual-attendant-be/internal/mapper"
	"virtual-attendant-be/internal/pkg/logger"
	"virtual-attendant-be/internal/pkg/serverutils"
	"virtual-attendant-be/internal/repository/contract"
	"virtual-attendant-be/internal/repository/specification"
	"virtual-attendant-be/pkg/intention"
	"virtual-attendant-be/pkg/store"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrTurnsUnavailable   = errors.New("turn history requires a database")
)

// IntentionManager edits the live catalog. *router.Router implements it.
type IntentionManager interface {
	AddIntention(in intention.Intention) error
	RemoveIntention(id string) error
	Intentions() []intention.Intention
}

type IAdminService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)

	ListIntentions(ctx context.Context) []dto.IntentionResponse
	SaveIntention(ctx context.Context, req *dto.IntentionRequest) (*dto.IntentionResponse, error)
	DeleteIntention(ctx context.Context, id string) error
	LoadPersistedIntentions(ctx context.Context) (int, error)

	GetSession(ctx context.Context, callerID string) (*dto.SessionResponse, error)
	ResetSession(ctx context.Context, callerID string) error

	ListTurns(ctx context.Context, filter dto.TurnFilter) (*dto.TurnListResponse, error)
	GetLogs(ctx context.Context, level string, limit, offset int) ([]dto.LogListResponse, error)
	GetLogDetail(ctx context.Context, id string) (*dto.LogDetailResponse, error)
}

type adminService struct {
	cfg        config.AdminConfig
	intentions IntentionManager
	sessions   store.SessionStore
	intentRepo contract.IntentionRepository
	turnRepo   contract.ConversationTurnRepository
	mapper     *mapper.IntentionMapper
	logger     logger.ILogger
	now        func() time.Time
}

// NewAdminService accepts nil repositories when no database is configured.
func NewAdminService(
	cfg config.AdminConfig,
	intentions IntentionManager,
	sessions store.SessionStore,
	intentRepo contract.IntentionRepository,
	turnRepo contract.ConversationTurnRepository,
	log logger.ILogger,
) IAdminService {
	return &adminService{
		cfg:        cfg,
		intentions: intentions,
		sessions:   sessions,
		intentRepo: intentRepo,
		turnRepo:   turnRepo,
		mapper:     mapper.NewIntentionMapper(),
		logger:     log,
		now:        time.Now,
	}
}

func (s *adminService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	// no hash configured means admin login is disabled
	if s.cfg.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.cfg.Username)) != 1 {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := serverutils.SignAdminToken(s.cfg.JWTSecret, s.cfg.Username, s.cfg.TokenTTL, s.now())
	if err != nil {
		return nil, err
	}

	s.logger.Info("ADMIN", "Admin logged in", map[string]interface{}{"username": req.Username})
	return &dto.LoginResponse{AccessToken: token, ExpiresAt: expiresAt}, nil
}

func (s *adminService) ListIntentions(ctx context.Context) []dto.IntentionResponse {
	list := s.intentions.Intentions()
	res := make([]dto.IntentionResponse, 0, len(list))
	for _, in := range list {
		res = append(res, toIntentionResponse(in))
	}
	return res
}

func (s *adminService) find(id string) (intention.Intention, bool) {
	for _, in := range s.intentions.Intentions() {
		if in.ID == id {
			return in, true
		}
	}
	return intention.Intention{}, false
}

// replace swaps in for the entry with the same id, restoring the old entry
// when the new one is rejected.
func (s *adminService) replace(in intention.Intention) error {
	old, existed := s.find(in.ID)
	if existed {
		if err := s.intentions.RemoveIntention(in.ID); err != nil {
			return err
		}
	}
	if err := s.intentions.AddIntention(in); err != nil {
		if existed {
			_ = s.intentions.AddIntention(old)
		}
		return err
	}
	return nil
}

// SaveIntention adds or replaces an intention in the live catalog and, when a
// database is configured, persists it.
func (s *adminService) SaveIntention(ctx context.Context, req *dto.IntentionRequest) (*dto.IntentionResponse, error) {
	in := intention.Intention{
		ID:          strings.ToUpper(strings.TrimSpace(req.Id)),
		Label:       req.Label,
		Keywords:    req.Keywords,
		Phrases:     req.Phrases,
		Priority:    req.Priority,
		TargetState: store.At(store.FlowID(strings.ToUpper(req.Flow)), store.Step(req.Step)),
		Action:      intention.Action(req.Action),
		Args:        req.Args,
	}
	if in.Action == "" && !in.TargetState.IsIdle() {
		in.Action = intention.StartFlow(in.TargetState.Flow)
	}

	old, existed := s.find(in.ID)
	if err := s.replace(in); err != nil {
		return nil, err
	}
	saved, _ := s.find(in.ID)

	if s.intentRepo != nil {
		if err := s.intentRepo.Upsert(ctx, s.mapper.FromDomain(saved)); err != nil {
			_ = s.intentions.RemoveIntention(in.ID)
			if existed {
				_ = s.intentions.AddIntention(old)
			}
			return nil, fmt.Errorf("persist intention %s: %w", in.ID, err)
		}
	}

	s.logger.Info("ADMIN", "Intention saved", map[string]interface{}{"intention_id": saved.ID, "replaced": existed})
	res := toIntentionResponse(saved)
	return &res, nil
}

func (s *adminService) DeleteIntention(ctx context.Context, id string) error {
	id = strings.ToUpper(strings.TrimSpace(id))
	if err := s.intentions.RemoveIntention(id); err != nil {
		return err
	}
	if s.intentRepo != nil {
		if err := s.intentRepo.DeleteByIntentionId(ctx, id); err != nil {
			return fmt.Errorf("delete intention %s: %w", id, err)
		}
	}
	s.logger.Info("ADMIN", "Intention removed", map[string]interface{}{"intention_id": id})
	return nil
}

// LoadPersistedIntentions layers stored intentions over the built-in catalog.
// Entries that no longer validate are skipped and logged.
func (s *adminService) LoadPersistedIntentions(ctx context.Context) (int, error) {
	if s.intentRepo == nil {
		return 0, nil
	}
	stored, err := s.intentRepo.FindAll(ctx, specification.OrderBy{Field: "intention_id"})
	if err != nil {
		return 0, err
	}

	loaded := 0
	for _, e := range stored {
		if err := s.replace(s.mapper.ToDomain(e)); err != nil {
			s.logger.Warn("ADMIN", "Skipping stored intention", map[string]interface{}{"intention_id": e.IntentionId, "error": err.Error()})
			continue
		}
		loaded++
	}
	return loaded, nil
}

func (s *adminService) GetSession(ctx context.Context, callerID string) (*dto.SessionResponse, error) {
	sess, found, err := s.sessions.Get(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrSessionNotFound
	}
	return &dto.SessionResponse{
		CallerId:  sess.CallerID,
		State:     sess.State,
		Scratch:   sess.Scratch,
		History:   sess.History,
		Pending:   sess.Pending,
		UpdatedAt: sess.UpdatedAt,
	}, nil
}

func (s *adminService) ResetSession(ctx context.Context, callerID string) error {
	if err := s.sessions.Delete(ctx, callerID); err != nil {
		return err
	}
	s.logger.Info("ADMIN", "Session reset", map[string]interface{}{"caller_id": callerID})
	return nil
}

func (s *adminService) ListTurns(ctx context.Context, filter dto.TurnFilter) (*dto.TurnListResponse, error) {
	if s.turnRepo == nil {
		return nil, ErrTurnsUnavailable
	}
	limit, offset := filter.Limit, filter.Offset
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var filters []specification.Specification
	if filter.CallerId != "" {
		filters = append(filters, specification.ByCallerID{CallerID: filter.CallerId})
	}
	if filter.Rule != "" {
		filters = append(filters, specification.ByRule{Rule: filter.Rule})
	}
	if !filter.Since.IsZero() {
		filters = append(filters, specification.CreatedSince{Since: filter.Since})
	}

	total, err := s.turnRepo.Count(ctx, filters...)
	if err != nil {
		return nil, err
	}
	specs := append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	turns, err := s.turnRepo.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := &dto.TurnListResponse{Items: make([]dto.TurnResponse, 0, len(turns)), Total: total}
	for _, t := range turns {
		res.Items = append(res.Items, dto.TurnResponse{
			Id:          t.Id.String(),
			CallerId:    t.CallerId,
			Input:       t.Input,
			Rule:        t.Rule,
			IntentionId: t.IntentionId,
			Confidence:  t.Confidence,
			StateBefore: t.StateBefore,
			StateAfter:  t.StateAfter,
			ReplyKind:   t.ReplyKind,
			DurationMs:  t.Duration.Milliseconds(),
			CreatedAt:   t.CreatedAt,
		})
	}
	return res, nil
}

func (s *adminService) GetLogs(ctx context.Context, level string, limit, offset int) ([]dto.LogListResponse, error) {
	entries, err := s.logger.GetLogs(level, limit, offset)
	if err != nil {
		return nil, err
	}
	res := make([]dto.LogListResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, toLogListResponse(e))
	}
	return res, nil
}

func (s *adminService) GetLogDetail(ctx context.Context, id string) (*dto.LogDetailResponse, error) {
	e, err := s.logger.GetLogById(id)
	if err != nil {
		return nil, err
	}
	return &dto.LogDetailResponse{LogListResponse: toLogListResponse(*e), Details: e.Details}, nil
}

func toLogListResponse(e logger.LogEntry) dto.LogListResponse {
	return dto.LogListResponse{
		Id:        e.Id,
		Level:     e.Level,
		Module:    e.Module,
		Message:   e.Message,
		Timestamp: e.Timestamp,
	}
}

func toIntentionResponse(in intention.Intention) dto.IntentionResponse {
	return dto.IntentionResponse{
		Id:       in.ID,
		Label:    in.Label,
		Keywords: in.Keywords,
		Phrases:  in.Phrases,
		Priority: in.Priority,
		State:    in.TargetState,
		Action:   string(in.Action),
		Args:     in.Args,
	}
}
