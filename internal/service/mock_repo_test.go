package service

import (
	"context"
	"errors"
	"sort"

	"github.com/ericogr/kids-games/internal/auth"
	"github.com/ericogr/kids-games/internal/game"
	"github.com/ericogr/kids-games/internal/media"
	"github.com/ericogr/kids-games/internal/storage"
)

var errStoreDown = errors.New("store down")

type metaKey struct {
	gameID uint
	key    string
}

type mockRepo struct {
	games    map[uint]*game.Game
	meta     map[metaKey]string
	settings map[string]string
	nextID   uint
	writes   int
	fail     bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		games:    map[uint]*game.Game{},
		meta:     map[metaKey]string{},
		settings: map[string]string{},
	}
}

func (m *mockRepo) addGame(title string, status game.Status) *game.Game {
	m.nextID++
	g := &game.Game{Title: title, Status: status}
	g.ID = m.nextID
	m.games[g.ID] = g
	return g
}

func (m *mockRepo) CreateGame(_ context.Context, g *game.Game) error {
	if m.fail {
		return errStoreDown
	}
	m.writes++
	m.nextID++
	g.ID = m.nextID
	cp := *g
	m.games[g.ID] = &cp
	return nil
}

func (m *mockRepo) GetGameByID(_ context.Context, id uint) (*game.Game, error) {
	if m.fail {
		return nil, errStoreDown
	}
	g, ok := m.games[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *mockRepo) ListGames(_ context.Context, status game.Status) ([]game.Game, error) {
	if m.fail {
		return nil, errStoreDown
	}
	var out []game.Game
	for _, g := range m.games {
		if status == "" || g.Status == status {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockRepo) UpdateGame(_ context.Context, g *game.Game) error {
	if m.fail {
		return errStoreDown
	}
	if _, ok := m.games[g.ID]; !ok {
		return storage.ErrNotFound
	}
	m.writes++
	cp := *g
	m.games[g.ID] = &cp
	return nil
}

func (m *mockRepo) DeleteGame(_ context.Context, id uint) error {
	if m.fail {
		return errStoreDown
	}
	if _, ok := m.games[id]; !ok {
		return storage.ErrNotFound
	}
	m.writes++
	delete(m.games, id)
	for k := range m.meta {
		if k.gameID == id {
			delete(m.meta, k)
		}
	}
	return nil
}

func (m *mockRepo) GetMeta(_ context.Context, gameID uint, key string) (string, bool, error) {
	if m.fail {
		return "", false, errStoreDown
	}
	v, ok := m.meta[metaKey{gameID, key}]
	return v, ok, nil
}

func (m *mockRepo) SetMeta(_ context.Context, gameID uint, key, value string) error {
	if m.fail {
		return errStoreDown
	}
	m.writes++
	m.meta[metaKey{gameID, key}] = value
	return nil
}

func (m *mockRepo) DeleteMeta(_ context.Context, gameID uint, key string) error {
	if m.fail {
		return errStoreDown
	}
	m.writes++
	delete(m.meta, metaKey{gameID, key})
	return nil
}

func (m *mockRepo) GetSetting(_ context.Context, key string) (string, bool, error) {
	if m.fail {
		return "", false, errStoreDown
	}
	v, ok := m.settings[key]
	return v, ok, nil
}

func (m *mockRepo) SetSetting(_ context.Context, key, value string) error {
	if m.fail {
		return errStoreDown
	}
	m.writes++
	m.settings[key] = value
	return nil
}

func (m *mockRepo) CreateMedia(context.Context, *game.MediaAsset) error { return nil }
func (m *mockRepo) GetMediaByID(context.Context, uint) (*game.MediaAsset, error) {
	return nil, storage.ErrNotFound
}
func (m *mockRepo) DeleteMedia(context.Context, uint) error { return nil }
func (m *mockRepo) UpsertUser(_ context.Context, email, name string, role game.Role) (*game.User, error) {
	return &game.User{Email: email, Name: name, Role: role}, nil
}
func (m *mockRepo) GetUserByEmail(context.Context, string) (*game.User, error) {
	return nil, storage.ErrNotFound
}

// mockNonces accepts "ok:<action>" as the token for action.
type mockNonces struct{}

func (mockNonces) VerifyNonce(_ auth.Principal, action, token string) error {
	if token != "ok:"+action {
		return errors.New("bad nonce")
	}
	return nil
}

func okNonce(action string) string { return "ok:" + action }

type mockMedia struct {
	urls    map[uint]string
	deleted []uint
}

func (m *mockMedia) ResolveURL(_ context.Context, id uint, size media.SizeClass) (string, error) {
	u, ok := m.urls[id]
	if !ok {
		return "", media.ErrNotFound
	}
	return u + "?size=" + string(size), nil
}

func (m *mockMedia) Upload(_ context.Context, filename string, data []byte, uploadedBy string) (*game.MediaAsset, error) {
	if len(data) == 0 {
		return nil, media.ErrUnsupported
	}
	id := uint(len(m.urls) + 1)
	m.urls[id] = "/media/" + filename
	a := &game.MediaAsset{Filename: filename, UploadedBy: uploadedBy}
	a.ID = id
	return a, nil
}

func (m *mockMedia) Delete(_ context.Context, id uint) error {
	if _, ok := m.urls[id]; !ok {
		return media.ErrNotFound
	}
	delete(m.urls, id)
	m.deleted = append(m.deleted, id)
	return nil
}

var (
	admin      = auth.Principal{Email: "admin@example.com", Role: game.RoleAdministrator}
	editor     = auth.Principal{Email: "editor@example.com", Role: game.RoleEditor}
	subscriber = auth.Principal{Email: "kid@example.com", Role: game.RoleSubscriber}
)

func newTestManager() (*Manager, *mockRepo, *mockMedia) {
	repo := newMockRepo()
	mm := &mockMedia{urls: map[uint]string{}}
	return NewManager(repo, mockNonces{}, mm), repo, mm
}
