package handler

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/great-escape/internal/credential"
	"github.com/palemoky/great-escape/internal/game"
	"github.com/palemoky/great-escape/internal/game/room"
	"github.com/palemoky/great-escape/internal/protocol"
	"github.com/palemoky/great-escape/internal/protocol/codec"
	"github.com/palemoky/great-escape/internal/testutil"
)

type fixture struct {
	h     *Handler
	srv   *testutil.SimpleServer
	creds *testutil.MemoryCredentials
	store *testutil.MemoryStateStore
	audit *testutil.MemoryAudit
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rules := game.NewRules(game.DefaultBoardSize, 0, game.WithRand(rand.New(rand.NewPCG(1, 2))))
	f := &fixture{
		srv:   testutil.NewSimpleServer(),
		creds: testutil.NewMemoryCredentials(credential.DefaultPasswords("")),
		store: &testutil.MemoryStateStore{},
		audit: &testutil.MemoryAudit{},
	}
	f.h = NewHandler(HandlerDeps{
		Server:      f.srv,
		Room:        room.New("", rules, nil),
		Credentials: f.creds,
		Store:       f.store,
		Audit:       f.audit,
	})
	return f
}

// connect 模拟一个新的 WebSocket 连接
func (f *fixture) connect(id string) *testutil.SimpleClient {
	c := testutil.NewSimpleClient(id)
	f.srv.Register(c)
	return c
}

// join 连接并以指定角色加入，清空加入过程中收到的消息
func (f *fixture) join(t *testing.T, id string, role game.Role, name string) *testutil.SimpleClient {
	t.Helper()
	c := f.connect(id)
	pw := credential.DefaultPasswords("")[role]
	send(f.h, c, protocol.MsgJoinRoom, protocol.JoinRoomPayload{Role: string(role), Password: pw, DisplayName: name})
	res := decode[protocol.AuthResultPayload](t, c.LastOfType(protocol.MsgAuthResult))
	require.True(t, res.OK, "join %s as %s failed: %s", id, role, res.Reason)
	c.Reset()
	return c
}

func (f *fixture) state() *game.State {
	return f.h.Room().State()
}

func send(h *Handler, c *testutil.SimpleClient, t protocol.MessageType, payload any) {
	h.Handle(c, codec.MustNewMessage(t, payload))
}

func action(h *Handler, c *testutil.SimpleClient, p protocol.ClientActionPayload) {
	send(h, c, protocol.MsgClientAction, p)
}

func decode[T any](t *testing.T, msg *protocol.Message) T {
	t.Helper()
	require.NotNil(t, msg)
	var v T
	require.NoError(t, json.Unmarshal(msg.Payload, &v))
	return v
}

func intPtr(v int) *int { return &v }

func TestHandler_UnknownMessageType(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	c := f.connect("c1")

	f.h.Handle(c, &protocol.Message{Type: "chat"})

	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, protocol.MsgError, msgs[0].Type)
	errPayload := decode[protocol.ErrorPayload](t, msgs[0])
	assert.Equal(t, protocol.ErrCodeInvalidMsg, errPayload.Code)
}

func TestHandler_RecoversFromPanic(t *testing.T) {
	t.Parallel()

	creds := new(testutil.MockCredentialStore)
	creds.On("Verify", game.RoleAdmin, "Admin").Panic("boom")

	srv := testutil.NewSimpleServer()
	h := NewHandler(HandlerDeps{
		Server:      srv,
		Room:        room.New("", game.NewRules(0, 0), nil),
		Credentials: creds,
	})
	c := testutil.NewSimpleClient("c1")
	srv.Register(c)

	assert.NotPanics(t, func() {
		send(h, c, protocol.MsgJoinRoom, protocol.JoinRoomPayload{Role: "admin", Password: "Admin"})
	})

	res := decode[protocol.AuthResultPayload](t, c.LastOfType(protocol.MsgAuthResult))
	assert.False(t, res.OK)
	assert.Equal(t, protocol.ReasonServerError, res.Reason)

	// 锁已释放，后续消息仍可处理
	send(h, c, protocol.MsgGetPlayers, nil)
	creds.AssertExpectations(t)
}

func TestHandler_PersistFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	store := new(testutil.MockStateStore)
	store.On("SaveState", mock.Anything, mock.Anything).Return(assert.AnError)

	srv := testutil.NewSimpleServer()
	h := NewHandler(HandlerDeps{
		Server:      srv,
		Room:        room.New("", game.NewRules(0, 0), nil),
		Credentials: testutil.NewMemoryCredentials(credential.DefaultPasswords("")),
		Store:       store,
	})
	c := testutil.NewSimpleClient("c1")
	srv.Register(c)

	send(h, c, protocol.MsgJoinRoom, protocol.JoinRoomPayload{Role: "player", Password: "Player"})
	res := decode[protocol.AuthResultPayload](t, c.LastOfType(protocol.MsgAuthResult))
	assert.True(t, res.OK)

	out := h.Dispatch(c, Move{Spaces: 3})
	assert.True(t, out.Applied)
	p, _ := h.Room().Lookup("c1")
	assert.Equal(t, 3, p.Pos)

	store.AssertNumberOfCalls(t, "SaveState", 2)
}

func TestHandler_PersistSnapshot(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.join(t, "c1", game.RolePlayer, "Alice")

	saved, err := f.store.LoadState(t.Context())
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Contains(t, saved.Players, "c1")

	f.h.Persist()
	assert.Equal(t, 2, f.store.Saves())
}
