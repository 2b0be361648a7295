package router_test

import (
	"context"
	"sync"

	"github.com/iliyamo/pandit-seva/internal/apperr"
	"github.com/iliyamo/pandit-seva/internal/model"
	"github.com/iliyamo/pandit-seva/internal/repository"
	"github.com/iliyamo/pandit-seva/internal/service"
	"github.com/iliyamo/pandit-seva/internal/session"
)

// fakeAuth resolves a fixed set of bearer tokens.
type fakeAuth struct {
	mu       sync.Mutex
	byToken  map[string]*session.Session
	revoked  []string
	password string
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{byToken: map[string]*session.Session{}, password: "secret123"}
}

func (f *fakeAuth) add(token string, p *model.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byToken[token] = &session.Session{Profile: p, Role: p.Role(), AccessToken: token, RefreshToken: "refresh-" + token}
}

func (f *fakeAuth) Register(_ context.Context, in session.SignUpInput) (*session.Session, error) {
	if in.Email == "taken@example.com" {
		return nil, apperr.DuplicateIdentity(in.Email)
	}
	p := &model.Profile{ID: "new-" + in.Email, Email: in.Email, FullName: in.FullName, IsPandit: in.AsProvider}
	return &session.Session{Profile: p, Role: p.Role(), AccessToken: "access-new", RefreshToken: "refresh-new"}, nil
}

func (f *fakeAuth) Authenticate(_ context.Context, email, password string) (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.byToken {
		if s.Profile.Email == email && password == f.password {
			return s, nil
		}
	}
	return nil, apperr.InvalidCredentials()
}

func (f *fakeAuth) Resolve(_ context.Context, token string) (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byToken[token]
	if !ok {
		return nil, apperr.Unauthorized("invalid token")
	}
	cp := *s
	cp.RefreshToken = ""
	return &cp, nil
}

func (f *fakeAuth) Refresh(_ context.Context, raw string) (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.byToken {
		if s.RefreshToken == raw {
			return s, nil
		}
	}
	return nil, apperr.Unauthorized("invalid refresh token")
}

func (f *fakeAuth) Revoke(_ context.Context, s *session.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked = append(f.revoked, s.RefreshToken)
	return nil
}

func (f *fakeAuth) revokedTokens() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.revoked...)
}

type fakeBookings struct {
	mu      sync.Mutex
	created []service.CreateBookingInput
	status  map[string]model.BookingStatus
}

func (f *fakeBookings) Create(_ context.Context, requesterID string, in service.CreateBookingInput) (*model.BookingDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if in.PanditID == "ghost" {
		return nil, apperr.UnknownProvider(in.PanditID)
	}
	f.created = append(f.created, in)
	return &model.BookingDetail{Booking: model.Booking{ID: "b-new", UserID: requesterID, PanditID: in.PanditID, Status: model.BookingPending}}, nil
}

func (f *fakeBookings) Cancel(_ context.Context, requesterID, id string) (*model.BookingDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.status[id]
	if !ok {
		return nil, apperr.NotFound("booking")
	}
	if st != model.BookingPending {
		return nil, apperr.InvalidTransition(string(st), string(model.BookingCancelled))
	}
	f.status[id] = model.BookingCancelled
	return &model.BookingDetail{Booking: model.Booking{ID: id, UserID: requesterID, Status: model.BookingCancelled}}, nil
}

func (f *fakeBookings) Get(_ context.Context, requesterID, id string) (*model.BookingDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.status[id]
	if !ok {
		return nil, apperr.NotFound("booking")
	}
	return &model.BookingDetail{Booking: model.Booking{ID: id, UserID: requesterID, Status: st}}, nil
}

func (f *fakeBookings) List(context.Context, string) ([]model.BookingDetail, error) {
	return nil, nil
}

func (f *fakeBookings) ListForProvider(_ context.Context, panditID string) ([]model.BookingDetail, error) {
	return []model.BookingDetail{{Booking: model.Booking{ID: "b-1", PanditID: panditID, Status: model.BookingPending}}}, nil
}

type fakeDirectory struct{ pandits []model.Profile }

func (f *fakeDirectory) List(_ context.Context, q string) ([]model.Profile, error) {
	return service.FilterProviders(f.pandits, q), nil
}

func (f *fakeDirectory) Get(_ context.Context, id string) (*model.Profile, error) {
	for i := range f.pandits {
		if f.pandits[i].ID == id {
			return &f.pandits[i], nil
		}
	}
	return nil, apperr.UnknownProvider(id)
}

type fakeCatalog struct{ items []model.ShopItem }

func (f *fakeCatalog) ListItems(context.Context) ([]model.ShopItem, error) { return f.items, nil }

type fakeProfiles struct{}

func (fakeProfiles) UpdateProfile(_ context.Context, owner string, patch model.ProfilePatch) (*model.Profile, error) {
	p := &model.Profile{ID: owner, FullName: "Asha"}
	if patch.TouchesProviderFields() {
		return nil, apperr.Field("specialization", "only pandits can set provider details")
	}
	patch.Apply(p)
	return p, nil
}

// fakeCarts is an in-memory CartStore over a fixed catalog.
type fakeCarts struct {
	mu    sync.Mutex
	items map[string]model.ShopItem
	rows  map[string][]model.CartLine
}

func newFakeCarts(items ...model.ShopItem) *fakeCarts {
	f := &fakeCarts{items: map[string]model.ShopItem{}, rows: map[string][]model.CartLine{}}
	for _, it := range items {
		f.items[it.ID] = it
	}
	return f
}

func (f *fakeCarts) Increment(_ context.Context, owner, itemID, newID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[itemID]
	if !ok {
		return repository.ErrMissingReference
	}
	for i := range f.rows[owner] {
		if f.rows[owner][i].ShopItemID == itemID {
			f.rows[owner][i].Quantity++
			return nil
		}
	}
	f.rows[owner] = append(f.rows[owner], model.CartLine{
		CartItem: model.CartItem{ID: newID, UserID: owner, ShopItemID: itemID, Quantity: 1},
		Item:     it,
	})
	return nil
}

func (f *fakeCarts) SetQuantity(_ context.Context, owner, id string, n int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows[owner] {
		if f.rows[owner][i].ID == id {
			f.rows[owner][i].Quantity = n
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeCarts) Delete(_ context.Context, owner, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.rows[owner]
	for i := range rows {
		if rows[i].ID == id {
			f.rows[owner] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeCarts) DeleteAll(_ context.Context, owner string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := int64(len(f.rows[owner]))
	delete(f.rows, owner)
	return n, nil
}

func (f *fakeCarts) ListByOwner(_ context.Context, owner string) ([]model.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.CartLine(nil), f.rows[owner]...), nil
}
