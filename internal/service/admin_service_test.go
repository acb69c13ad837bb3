package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"virtual-attendant-be/internal/config"
	"virtual-attendant-be/internal/dto"
	"virtual-attendant-be/internal/entity"
	"virtual-attendant-be/internal/pkg/logger"
	"virtual-attendant-be/internal/repository/memory"
	"virtual-attendant-be/internal/repository/specification"
	"virtual-attendant-be/pkg/catalog"
	"virtual-attendant-be/pkg/flows/codigos"
	"virtual-attendant-be/pkg/intention"
	"virtual-attendant-be/pkg/reply"
	"virtual-attendant-be/pkg/router"
	"virtual-attendant-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memIntentionRepo struct {
	byID map[string]*entity.Intention
	err  error
}

func newMemIntentionRepo() *memIntentionRepo {
	return &memIntentionRepo{byID: map[string]*entity.Intention{}}
}

func (r *memIntentionRepo) Upsert(_ context.Context, in *entity.Intention) error {
	if r.err != nil {
		return r.err
	}
	r.byID[in.IntentionId] = in
	return nil
}

func (r *memIntentionRepo) DeleteByIntentionId(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *memIntentionRepo) FindOne(_ context.Context, _ ...specification.Specification) (*entity.Intention, error) {
	return nil, nil
}

func (r *memIntentionRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.Intention, error) {
	var res []*entity.Intention
	for _, in := range r.byID {
		res = append(res, in)
	}
	return res, nil
}

type adminFixture struct {
	svc      IAdminService
	router   *router.Router
	sessions *memory.SessionRepository
	intents  *memIntentionRepo
	turns    *memTurnRepo
}

func newAdminFixture(t *testing.T, password string) adminFixture {
	t.Helper()
	sessions := memory.NewSessionRepository(time.Hour)
	r := router.New(sessions, intention.NewCatalog(), logger.NewNopLogger(), router.DefaultOptions())
	require.NoError(t, r.RegisterFlow(codigos.New()))
	require.NoError(t, r.RegisterAction(catalog.ActionHorario, func(context.Context, *store.Session, map[string]string) reply.Reply {
		return reply.Text(catalog.BusinessHours())
	}))

	hash := ""
	if password != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		require.NoError(t, err)
		hash = string(b)
	}
	cfg := config.AdminConfig{Username: "admin", PasswordHash: hash, JWTSecret: "s3cret", TokenTTL: time.Hour}

	intents := newMemIntentionRepo()
	turns := &memTurnRepo{}
	return adminFixture{
		svc:      NewAdminService(cfg, r, sessions, intents, turns, logger.NewNopLogger()),
		router:   r,
		sessions: sessions,
		intents:  intents,
		turns:    turns,
	}
}

func TestAdminLogin(t *testing.T) {
	f := newAdminFixture(t, "hunter2")
	ctx := context.Background()

	res, err := f.svc.Login(ctx, &dto.LoginRequest{Username: "admin", Password: "hunter2"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.True(t, res.ExpiresAt.After(time.Now()))

	_, err = f.svc.Login(ctx, &dto.LoginRequest{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, &dto.LoginRequest{Username: "root", Password: "hunter2"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminLoginDisabledWithoutHash(t *testing.T) {
	f := newAdminFixture(t, "")
	_, err := f.svc.Login(context.Background(), &dto.LoginRequest{Username: "admin", Password: ""})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSaveIntentionGoesLiveAndPersists(t *testing.T) {
	f := newAdminFixture(t, "x")
	ctx := context.Background()

	res, err := f.svc.SaveIntention(ctx, &dto.IntentionRequest{
		Id:       "codigo_servico",
		Keywords: []string{"aliquota"},
		Phrases:  []string{"codigo de servico"},
		Priority: 10,
		Flow:     "codigos",
	})
	require.NoError(t, err)
	assert.Equal(t, "CODIGO_SERVICO", res.Id)
	assert.Equal(t, store.At(catalog.FlowCodigos, "awaiting_query"), res.State)
	assert.Equal(t, string(intention.StartFlow(catalog.FlowCodigos)), res.Action)
	require.Contains(t, f.intents.byID, "CODIGO_SERVICO")

	rep, err := f.router.Route(ctx, "5511", "qual o codigo de servico para consultoria")
	require.NoError(t, err)
	assert.False(t, rep.IsZero())
	sess, found, _ := f.sessions.Get(ctx, "5511")
	require.True(t, found)
	assert.Equal(t, catalog.FlowCodigos, sess.State.Flow)

	// replacing keeps a single entry
	_, err = f.svc.SaveIntention(ctx, &dto.IntentionRequest{Id: "CODIGO_SERVICO", Keywords: []string{"iss"}, Flow: "CODIGOS"})
	require.NoError(t, err)
	assert.Len(t, f.svc.ListIntentions(ctx), 1)
	assert.Equal(t, []string{"iss"}, f.svc.ListIntentions(ctx)[0].Keywords)
}

func TestSaveIntentionRejectsUnknownFlow(t *testing.T) {
	f := newAdminFixture(t, "x")
	_, err := f.svc.SaveIntention(context.Background(), &dto.IntentionRequest{Id: "X", Keywords: []string{"x"}, Flow: "NOPE"})
	assert.ErrorIs(t, err, router.ErrUnknownAction)
	assert.Empty(t, f.intents.byID)
}

func TestSaveIntentionRollsBackOnPersistFailure(t *testing.T) {
	f := newAdminFixture(t, "x")
	ctx := context.Background()

	_, err := f.svc.SaveIntention(ctx, &dto.IntentionRequest{Id: "HORARIO", Keywords: []string{"horario"}, Flow: "MENU_PRINCIPAL", Action: catalog.ActionHorario})
	require.NoError(t, err)

	f.intents.err = errors.New("db down")
	_, err = f.svc.SaveIntention(ctx, &dto.IntentionRequest{Id: "HORARIO", Keywords: []string{"expediente"}, Flow: "MENU_PRINCIPAL", Action: catalog.ActionHorario})
	require.Error(t, err)

	list := f.svc.ListIntentions(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"horario"}, list[0].Keywords)
}

func TestDeleteIntention(t *testing.T) {
	f := newAdminFixture(t, "x")
	ctx := context.Background()
	_, err := f.svc.SaveIntention(ctx, &dto.IntentionRequest{Id: "HORARIO", Keywords: []string{"horario"}, Flow: "MENU_PRINCIPAL", Action: catalog.ActionHorario})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteIntention(ctx, "horario"))
	assert.Empty(t, f.svc.ListIntentions(ctx))
	assert.Empty(t, f.intents.byID)

	assert.ErrorIs(t, f.svc.DeleteIntention(ctx, "HORARIO"), intention.ErrIntentionNotFound)
}

func TestLoadPersistedIntentionsSkipsInvalid(t *testing.T) {
	f := newAdminFixture(t, "x")
	f.intents.byID["CODIGOS"] = &entity.Intention{IntentionId: "CODIGOS", Keywords: []string{"cnae"}, Flow: "CODIGOS", Action: string(intention.StartFlow(catalog.FlowCodigos))}
	f.intents.byID["GHOST"] = &entity.Intention{IntentionId: "GHOST", Keywords: []string{"x"}, Flow: "GHOST", Action: "START_GHOST"}

	n, err := f.svc.LoadPersistedIntentions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, f.svc.ListIntentions(context.Background()), 1)
}

func TestSessionInspectionAndReset(t *testing.T) {
	f := newAdminFixture(t, "x")
	ctx := context.Background()

	_, err := f.svc.GetSession(ctx, "5511")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = f.router.Route(ctx, "5511", "5")
	require.NoError(t, err)

	res, err := f.svc.GetSession(ctx, "5511")
	require.NoError(t, err)
	assert.Equal(t, catalog.FlowCodigos, res.State.Flow)

	require.NoError(t, f.svc.ResetSession(ctx, "5511"))
	_, err = f.svc.GetSession(ctx, "5511")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestListTurns(t *testing.T) {
	f := newAdminFixture(t, "x")
	ctx := context.Background()
	require.NoError(t, f.turns.Create(ctx, &entity.ConversationTurn{CallerId: "5511", Rule: "fallback", Duration: 2 * time.Millisecond}))

	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	res, err := f.svc.ListTurns(ctx, dto.TurnFilter{CallerId: "5511", Rule: "fallback", Since: since, Offset: -1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, int64(2), res.Items[0].DurationMs)
	assert.Equal(t, []specification.Specification{
		specification.ByCallerID{CallerID: "5511"},
		specification.ByRule{Rule: "fallback"},
		specification.CreatedSince{Since: since},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: 50, Offset: 0},
	}, f.turns.specs)

	noDB := NewAdminService(config.AdminConfig{}, f.router, f.sessions, nil, nil, logger.NewNopLogger())
	_, err = noDB.ListTurns(ctx, dto.TurnFilter{Limit: 10})
	assert.ErrorIs(t, err, ErrTurnsUnavailable)
}
