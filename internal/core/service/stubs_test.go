package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/placesdir/places-api/internal/core/domain"
)

// In-memory stand-ins for the mongo repositories, shared by the service
// tests. The transactor snapshots both maps and restores them when the
// transactional function fails, mirroring an aborted session.

var errInjected = errors.New("injected failure")

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int

	failAppendPlace bool
	failPullPlace   bool
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Places = append([]string(nil), u.Places...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	copy := cloneUser(user)
	r.nextID++
	copy.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		c := cloneUser(u)
		c.PasswordHash = ""
		out = append(out, c)
	}
	return out, nil
}

func (r *stubUserRepo) AppendPlace(_ context.Context, userID, placeID string) error {
	if r.failAppendPlace {
		return errInjected
	}
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Places = append(u.Places, placeID)
	return nil
}

func (r *stubUserRepo) PullPlace(_ context.Context, userID, placeID string) error {
	if r.failPullPlace {
		return errInjected
	}
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	kept := make([]string, 0, len(u.Places))
	for _, id := range u.Places {
		if id != placeID {
			kept = append(kept, id)
		}
	}
	u.Places = kept
	return nil
}

func (r *stubUserRepo) ImagePaths(_ context.Context) ([]string, error) {
	paths := []string{}
	for _, u := range r.users {
		if u.Image != "" {
			paths = append(paths, u.Image)
		}
	}
	return paths, nil
}

type stubPlaceRepo struct {
	places map[string]*domain.Place
	order  []string
	nextID int

	failInsert bool
	failDelete bool
}

func newStubPlaceRepo() *stubPlaceRepo {
	return &stubPlaceRepo{places: make(map[string]*domain.Place)}
}

func clonePlace(p *domain.Place) *domain.Place {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func (r *stubPlaceRepo) Insert(_ context.Context, place *domain.Place) error {
	if r.failInsert {
		return errInjected
	}
	r.nextID++
	place.ID = fmt.Sprintf("p%d", r.nextID)
	r.places[place.ID] = clonePlace(place)
	r.order = append(r.order, place.ID)
	return nil
}

func (r *stubPlaceRepo) FindByID(_ context.Context, id string) (*domain.Place, error) {
	p, ok := r.places[id]
	if !ok {
		return nil, domain.ErrPlaceNotFound
	}
	return clonePlace(p), nil
}

func (r *stubPlaceRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Place, error) {
	out := make([]*domain.Place, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.places[id]; ok {
			out = append(out, clonePlace(p))
		}
	}
	return out, nil
}

func (r *stubPlaceRepo) Update(_ context.Context, place *domain.Place) error {
	if _, ok := r.places[place.ID]; !ok {
		return domain.ErrPlaceNotFound
	}
	r.places[place.ID] = clonePlace(place)
	return nil
}

func (r *stubPlaceRepo) Delete(_ context.Context, id string) error {
	if r.failDelete {
		return errInjected
	}
	if _, ok := r.places[id]; !ok {
		return domain.ErrPlaceNotFound
	}
	delete(r.places, id)
	return nil
}

func (r *stubPlaceRepo) ImagePaths(_ context.Context) ([]string, error) {
	paths := []string{}
	for _, p := range r.places {
		if p.Image != "" {
			paths = append(paths, p.Image)
		}
	}
	return paths, nil
}

// memTransactor snapshots both stub stores before running fn and restores
// them when fn fails, so a partial write never stays visible.
type memTransactor struct {
	users  *stubUserRepo
	places *stubPlaceRepo
}

func (t *memTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	userSnap := make(map[string]*domain.User, len(t.users.users))
	for id, u := range t.users.users {
		userSnap[id] = cloneUser(u)
	}
	placeSnap := make(map[string]*domain.Place, len(t.places.places))
	for id, p := range t.places.places {
		placeSnap[id] = clonePlace(p)
	}
	orderSnap := append([]string(nil), t.places.order...)

	if err := fn(ctx); err != nil {
		t.users.users = userSnap
		t.places.places = placeSnap
		t.places.order = orderSnap
		return err
	}
	return nil
}

// stubFileStore records removals; Save is unused by the service.
type stubFileStore struct {
	removed []string
}

func (s *stubFileStore) Save(_ io.Reader, _ string) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubFileStore) Remove(path string) {
	s.removed = append(s.removed, path)
}
