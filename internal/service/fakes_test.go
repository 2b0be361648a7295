package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/pandit-seva/internal/logger"
	"github.com/iliyamo/pandit-seva/internal/model"
	"github.com/iliyamo/pandit-seva/internal/queue"
	"github.com/iliyamo/pandit-seva/internal/repository"
)

var testLog = logger.Nop()

func strPtr(s string) *string { return &s }
func i64Ptr(n int64) *int64   { return &n }

// fakeProfiles mimics ProfileRepo, including the unique email key.
type fakeProfiles struct {
	mu     sync.Mutex
	byID   map[string]*model.Profile
	hashes map[string]string // profile id -> hash
	clock  time.Time
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{
		byID:   map[string]*model.Profile{},
		hashes: map[string]string{},
		clock:  time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeProfiles) Create(_ context.Context, p *model.Profile, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == p.Email {
			return repository.ErrEmailExists
		}
	}
	f.clock = f.clock.Add(time.Second)
	p.CreatedAt, p.UpdatedAt = f.clock, f.clock
	cp := *p
	f.byID[p.ID] = &cp
	f.hashes[p.ID] = hash
	return nil
}

// add seeds a profile directly.
func (f *fakeProfiles) add(p model.Profile) *model.Profile {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock = f.clock.Add(time.Second)
	if p.CreatedAt.IsZero() {
		p.CreatedAt = f.clock
	}
	f.byID[p.ID] = &p
	return &p
}

func (f *fakeProfiles) GetByID(_ context.Context, id string) (*model.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) GetCredentialByEmail(_ context.Context, email string) (model.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, p := range f.byID {
		if p.Email == email {
			return model.Credential{ProfileID: id, PasswordHash: f.hashes[id]}, nil
		}
	}
	return model.Credential{}, repository.ErrNotFound
}

func (f *fakeProfiles) ListProviders(context.Context) ([]model.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Profile{}
	for _, p := range f.byID {
		if p.IsPandit {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeProfiles) Update(_ context.Context, p *model.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.byID[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cp := *p
	cp.IsPandit = cur.IsPandit
	cp.Email = cur.Email
	f.byID[p.ID] = &cp
	return nil
}

type fakeTokens struct {
	mu      sync.Mutex
	rows    map[string]string // hash -> profile id
	revoked map[string]bool
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{rows: map[string]string{}, revoked: map[string]bool{}}
}

func (f *fakeTokens) StoreRefresh(_ context.Context, profileID, hash string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[hash] = profileID
	return nil
}

func (f *fakeTokens) ValidateRefresh(_ context.Context, hash string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.rows[hash]
	if !ok || f.revoked[hash] {
		return "", repository.ErrNotFound
	}
	return id, nil
}

func (f *fakeTokens) RevokeByHash(_ context.Context, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[hash] = true
	return nil
}

func (f *fakeTokens) RevokeAllForProfile(_ context.Context, profileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for h, id := range f.rows {
		if id == profileID {
			f.revoked[h] = true
		}
	}
	return nil
}

// fakeBookings applies the same owner and status conditions as the SQL.
type fakeBookings struct {
	mu       sync.Mutex
	rows     []*model.Booking
	profiles *fakeProfiles
	clock    time.Time
}

func newFakeBookings(p *fakeProfiles) *fakeBookings {
	return &fakeBookings{profiles: p, clock: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeBookings) Create(_ context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b.UserID == b.PanditID {
		return repository.ErrConflict
	}
	f.clock = f.clock.Add(time.Second)
	b.CreatedAt = f.clock
	cp := *b
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeBookings) find(id, userID string) *model.Booking {
	for _, b := range f.rows {
		if b.ID == id && b.UserID == userID {
			return b
		}
	}
	return nil
}

func (f *fakeBookings) detail(b *model.Booking, counterpart string, asPandit bool) model.BookingDetail {
	d := model.BookingDetail{Booking: *b}
	if p, err := f.profiles.GetByID(context.Background(), counterpart); err == nil {
		if asPandit {
			d.Pandit = p.Summary()
		} else {
			d.Requester = p.Summary()
		}
	}
	return d
}

func (f *fakeBookings) GetForUser(_ context.Context, id, userID string) (*model.BookingDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.find(id, userID)
	if b == nil {
		return nil, repository.ErrNotFound
	}
	d := f.detail(b, b.PanditID, true)
	return &d, nil
}

func (f *fakeBookings) list(match func(*model.Booking) bool, counterpart func(*model.Booking) string, asPandit bool) []model.BookingDetail {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.BookingDetail{}
	for i := len(f.rows) - 1; i >= 0; i-- {
		if b := f.rows[i]; match(b) {
			out = append(out, f.detail(b, counterpart(b), asPandit))
		}
	}
	return out
}

func (f *fakeBookings) ListByUser(_ context.Context, userID string) ([]model.BookingDetail, error) {
	return f.list(func(b *model.Booking) bool { return b.UserID == userID },
		func(b *model.Booking) string { return b.PanditID }, true), nil
}

func (f *fakeBookings) ListByProvider(_ context.Context, panditID string) ([]model.BookingDetail, error) {
	return f.list(func(b *model.Booking) bool { return b.PanditID == panditID },
		func(b *model.Booking) string { return b.UserID }, false), nil
}

func (f *fakeBookings) TransitionStatus(_ context.Context, id, userID string, from, to model.BookingStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.find(id, userID)
	if b == nil || b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func (f *fakeBookings) StatusForUser(_ context.Context, id, userID string) (model.BookingStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.find(id, userID)
	if b == nil {
		return "", repository.ErrNotFound
	}
	return b.Status, nil
}

// setStatus stands in for the external confirm/complete workflow.
func (f *fakeBookings) setStatus(id string, s model.BookingStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.rows {
		if b.ID == id {
			b.Status = s
		}
	}
}

type fakeShop struct {
	items map[string]model.ShopItem
}

func newFakeShop(items ...model.ShopItem) *fakeShop {
	m := map[string]model.ShopItem{}
	for _, it := range items {
		m[it.ID] = it
	}
	return &fakeShop{items: m}
}

func (f *fakeShop) List(context.Context) ([]model.ShopItem, error) {
	out := make([]model.ShopItem, 0, len(f.items))
	for _, it := range f.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeShop) GetByID(_ context.Context, id string) (*model.ShopItem, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &it, nil
}

// fakeCarts reproduces the unique (owner, item) key and the atomic
// insert-or-increment.
type fakeCarts struct {
	mu    sync.Mutex
	shop  *fakeShop
	rows  []*model.CartItem
	calls int
}

func newFakeCarts(shop *fakeShop) *fakeCarts { return &fakeCarts{shop: shop} }

func (f *fakeCarts) Increment(_ context.Context, owner, itemID, newID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if _, ok := f.shop.items[itemID]; !ok {
		return repository.ErrMissingReference
	}
	for _, r := range f.rows {
		if r.UserID == owner && r.ShopItemID == itemID {
			r.Quantity++
			return nil
		}
	}
	f.rows = append(f.rows, &model.CartItem{ID: newID, UserID: owner, ShopItemID: itemID, Quantity: 1})
	return nil
}

func (f *fakeCarts) SetQuantity(_ context.Context, owner, id string, n int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id && r.UserID == owner {
			r.Quantity = n
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeCarts) Delete(_ context.Context, owner, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.rows {
		if r.ID == id && r.UserID == owner {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeCarts) DeleteAll(_ context.Context, owner string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.rows[:0]
	var n int64
	for _, r := range f.rows {
		if r.UserID == owner {
			n++
			continue
		}
		kept = append(kept, r)
	}
	f.rows = kept
	return n, nil
}

func (f *fakeCarts) ListByOwner(_ context.Context, owner string) ([]model.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.CartLine{}
	for _, r := range f.rows {
		if r.UserID == owner {
			out = append(out, model.CartLine{CartItem: *r, Item: f.shop.items[r.ShopItemID]})
		}
	}
	return out, nil
}

func (f *fakeCarts) rowCount(owner string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.rows {
		if r.UserID == owner {
			n++
		}
	}
	return n
}

type fakePublisher struct {
	mu     sync.Mutex
	events []queue.BookingEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, ev queue.BookingEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return f.err
}

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, ev := range f.events {
		out[i] = ev.Type
	}
	return out
}
