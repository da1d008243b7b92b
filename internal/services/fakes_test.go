package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	apperrors "campus-sublets/internal/errors"
	"campus-sublets/internal/models"
	"campus-sublets/internal/repositories"
	"campus-sublets/pkg/geocoding"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func ptr[T any](v T) *T { return &v }

type fakeListingRepo struct {
	mu       sync.Mutex
	listings map[string]*models.Listing
	clock    time.Time
	finds    int
	findErr  error
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{
		listings: map[string]*models.Listing{},
		clock:    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *fakeListingRepo) matches(l *models.Listing, q repositories.ListingQuery) bool {
	if q.OwnerID != "" && l.OwnerID != q.OwnerID {
		return false
	}
	if q.MinPrice != nil && l.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && l.Price > *q.MaxPrice {
		return false
	}
	if q.PropertyType != "" && !strings.EqualFold(q.PropertyType, "any") {
		if l.PropertyType == nil || !strings.EqualFold(*l.PropertyType, q.PropertyType) {
			return false
		}
	}
	return true
}

func (r *fakeListingRepo) Find(_ context.Context, q repositories.ListingQuery) ([]models.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	if r.findErr != nil {
		return nil, r.findErr
	}
	out := []models.Listing{}
	for _, l := range r.listings {
		if r.matches(l, q) {
			out = append(out, *l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeListingRepo) FindByID(_ context.Context, id string) (*models.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return nil, apperrors.ErrListingNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *fakeListingRepo) Create(_ context.Context, l *models.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clock = r.clock.Add(time.Hour)
	l.ID = primitive.NewObjectID()
	l.CreatedAt = r.clock
	l.UpdatedAt = r.clock
	cp := *l
	r.listings[l.ID.Hex()] = &cp
	return nil
}

func (r *fakeListingRepo) Update(_ context.Context, id, ownerID string, in *models.ListingInput, coords *geocoding.Coordinates) (*models.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return nil, apperrors.ErrListingNotFound
	}
	if l.OwnerID != ownerID {
		return nil, apperrors.NewOwnershipError("update", "listings")
	}
	if in.Title != nil {
		l.Title = *in.Title
	}
	if in.Price != nil {
		l.Price = *in.Price
	}
	if in.Location != nil {
		l.Location = *in.Location
	}
	if in.Latitude != nil {
		l.Latitude, l.Longitude = in.Latitude, in.Longitude
	}
	if coords != nil {
		l.Latitude, l.Longitude = &coords.Lat, &coords.Lng
	}
	cp := *l
	return &cp, nil
}

func (r *fakeListingRepo) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return apperrors.ErrListingNotFound
	}
	if l.OwnerID != ownerID {
		return apperrors.NewOwnershipError("delete", "listings")
	}
	delete(r.listings, id)
	return nil
}

type fakeListingCache struct {
	mu          sync.Mutex
	queries     map[string][]models.Listing
	listings    map[string]models.Listing
	invalidated []string
}

func newFakeListingCache() *fakeListingCache {
	return &fakeListingCache{queries: map[string][]models.Listing{}, listings: map[string]models.Listing{}}
}

func (c *fakeListingCache) GetQuery(_ context.Context, q repositories.ListingQuery) ([]models.Listing, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.queries[q.Signature()]
	return l, ok, nil
}

func (c *fakeListingCache) SetQuery(_ context.Context, q repositories.ListingQuery, l []models.Listing, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queries[q.Signature()] = l
	return nil
}

func (c *fakeListingCache) GetListing(_ context.Context, id string) (*models.Listing, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.listings[id]
	if !ok {
		return nil, false, nil
	}
	return &l, true, nil
}

func (c *fakeListingCache) SetListing(_ context.Context, l *models.Listing, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listings[l.ID.Hex()] = *l
	return nil
}

func (c *fakeListingCache) Invalidate(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, id)
	delete(c.listings, id)
	c.queries = map[string][]models.Listing{}
	return nil
}

type fakeGeocoder struct {
	coords geocoding.Coordinates
	err    error
	calls  []string
}

func (g *fakeGeocoder) Geocode(_ context.Context, address string) (geocoding.Coordinates, error) {
	g.calls = append(g.calls, address)
	return g.coords, g.err
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*models.Message
	clock    time.Time
}

func (r *fakeMessageRepo) Create(_ context.Context, m *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clock = r.clock.Add(time.Minute)
	m.ID = primitive.NewObjectID()
	m.CreatedAt = r.clock
	cp := *m
	r.messages = append(r.messages, &cp)
	return nil
}

func (r *fakeMessageRepo) FindByID(_ context.Context, id string) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ID.Hex() == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, apperrors.ErrMessageNotFound
}

func (r *fakeMessageRepo) FindForUser(_ context.Context, userID string) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Message{}
	for i := len(r.messages) - 1; i >= 0; i-- {
		if m := r.messages[i]; m.SenderID == userID || m.ReceiverID == userID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) FindConversation(_ context.Context, a, b string) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Message{}
	for _, m := range r.messages {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) MarkRead(_ context.Context, id, receiverID string) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ID.Hex() != id {
			continue
		}
		if m.ReceiverID != receiverID {
			return nil, apperrors.NewOwnershipError("mark as read", "received messages")
		}
		m.Read = true
		cp := *m
		return &cp, nil
	}
	return nil, apperrors.ErrMessageNotFound
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile
	err      error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]*models.Profile{}}
}

func (r *fakeProfileRepo) FindByID(_ context.Context, id string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) Create(_ context.Context, p *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	cp := *p
	r.profiles[p.ID] = &cp
	return nil
}

func (r *fakeProfileRepo) Update(_ context.Context, id string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	if req.FullName != nil {
		p.FullName = req.FullName
	}
	if req.ProfileImageURL != nil {
		p.ProfileImageURL = req.ProfileImageURL
	}
	cp := *p
	return &cp, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[strings.ToLower(email)]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Email]; ok {
		return apperrors.ErrEmailTaken
	}
	cp := *u
	r.users[u.Email] = &cp
	return nil
}
