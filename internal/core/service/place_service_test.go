package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"

	"github.com/placesdir/places-api/internal/core/domain"
	"github.com/placesdir/places-api/internal/core/ports"
)

type placeFixture struct {
	users  *stubUserRepo
	places *stubPlaceRepo
	files  *stubFileStore
	svc    *PlaceService
}

func newPlaceFixture() *placeFixture {
	users := newStubUserRepo()
	places := newStubPlaceRepo()
	files := &stubFileStore{}
	tx := &memTransactor{users: users, places: places}
	svc := NewPlaceService(users, places, tx, files, nil, zerolog.Nop())
	return &placeFixture{users: users, places: places, files: files, svc: svc}
}

func (f *placeFixture) addUser(t *testing.T, name string) *domain.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), &domain.User{
		Name:   name,
		Email:  name + "@example.com",
		Image:  "uploads/images/" + name + ".png",
		Places: []string{},
	})
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func createInput() ports.CreatePlaceInput {
	return ports.CreatePlaceInput{
		Title:       "Eiffel Tower",
		Description: "Iconic landmark in Paris",
		Address:     "Champ de Mars, Paris",
		Lat:         48.8584,
		Lng:         2.2945,
		ImagePath:   "uploads/images/abc.png",
	}
}

// checkRelationInvariant asserts the bidirectional consistency rule: every
// place's creator lists that place, and every listed place exists with the
// matching creator.
func checkRelationInvariant(t *testing.T, users *stubUserRepo, places *stubPlaceRepo) {
	t.Helper()
	for id, p := range places.places {
		owner, ok := users.users[p.Creator]
		if !ok {
			t.Fatalf("place %s has unknown creator %s", id, p.Creator)
		}
		found := false
		for _, pid := range owner.Places {
			if pid == id {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("place %s missing from creator %s places list", id, p.Creator)
		}
	}
	for uid, u := range users.users {
		for _, pid := range u.Places {
			p, ok := places.places[pid]
			if !ok {
				t.Fatalf("user %s references missing place %s", uid, pid)
			}
			if p.Creator != uid {
				t.Fatalf("user %s references place %s created by %s", uid, pid, p.Creator)
			}
		}
	}
}

func TestPlaceService_CreateAndLink(t *testing.T) {
	f := newPlaceFixture()
	u := f.addUser(t, "alice")

	place, err := f.svc.CreatePlaceAndLink(context.Background(), u.ID, createInput())
	if err != nil {
		t.Fatalf("CreatePlaceAndLink failed: %v", err)
	}
	if place.Creator != u.ID {
		t.Fatalf("creator = %s, want %s", place.Creator, u.ID)
	}

	stored := f.users.users[u.ID]
	if len(stored.Places) != 1 || stored.Places[0] != place.ID {
		t.Fatalf("user places = %v, want [%s]", stored.Places, place.ID)
	}
	checkRelationInvariant(t, f.users, f.places)
}

func TestPlaceService_Create_UserNotFound(t *testing.T) {
	f := newPlaceFixture()

	_, err := f.svc.CreatePlaceAndLink(context.Background(), "missing", createInput())
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPlaceService_Create_Validation(t *testing.T) {
	f := newPlaceFixture()
	u := f.addUser(t, "alice")

	bad := createInput()
	bad.Description = "tiny"
	if _, err := f.svc.CreatePlaceAndLink(context.Background(), u.ID, bad); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	bad = createInput()
	bad.Title = ""
	if _, err := f.svc.CreatePlaceAndLink(context.Background(), u.ID, bad); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty title, got %v", err)
	}
}

// A failure injected between the place insert and the user link must leave
// neither write visible.
func TestPlaceService_Create_Atomicity(t *testing.T) {
	f := newPlaceFixture()
	u := f.addUser(t, "alice")
	f.users.failAppendPlace = true

	_, err := f.svc.CreatePlaceAndLink(context.Background(), u.ID, createInput())
	if !errors.Is(err, domain.ErrLinkFailed) {
		t.Fatalf("expected ErrLinkFailed, got %v", err)
	}

	if len(f.places.places) != 0 {
		t.Fatalf("partial commit: place persisted after aborted transaction")
	}
	if got := f.users.users[u.ID].Places; len(got) != 0 {
		t.Fatalf("partial commit: user places = %v", got)
	}
}

func TestPlaceService_Update_OwnerOnly(t *testing.T) {
	f := newPlaceFixture()
	owner := f.addUser(t, "alice")
	other := f.addUser(t, "mallory")

	place, err := f.svc.CreatePlaceAndLink(context.Background(), owner.ID, createInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = f.svc.UpdatePlace(context.Background(), place.ID, other.ID, ports.UpdatePlaceInput{
		Title:       "Hacked",
		Description: "should not happen",
	})
	if !errors.Is(err, domain.ErrEditForbidden) {
		t.Fatalf("expected ErrEditForbidden, got %v", err)
	}
	if f.places.places[place.ID].Title != "Eiffel Tower" {
		t.Fatalf("state changed by rejected update")
	}

	updated, err := f.svc.UpdatePlace(context.Background(), place.ID, owner.ID, ports.UpdatePlaceInput{
		Title:       "Tour Eiffel",
		Description: "Iconic landmark in Paris, France",
	})
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.Title != "Tour Eiffel" {
		t.Fatalf("title not updated: %s", updated.Title)
	}
	if updated.Creator != owner.ID {
		t.Fatalf("creator changed by update")
	}
}

func TestPlaceService_Delete_OwnerOnly(t *testing.T) {
	f := newPlaceFixture()
	owner := f.addUser(t, "alice")
	other := f.addUser(t, "mallory")

	place, err := f.svc.CreatePlaceAndLink(context.Background(), owner.ID, createInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := f.svc.DeletePlaceAndUnlink(context.Background(), place.ID, other.ID); !errors.Is(err, domain.ErrDeleteForbidden) {
		t.Fatalf("expected ErrDeleteForbidden, got %v", err)
	}
	if _, ok := f.places.places[place.ID]; !ok {
		t.Fatalf("place deleted by non-owner")
	}
	checkRelationInvariant(t, f.users, f.places)

	if err := f.svc.DeletePlaceAndUnlink(context.Background(), place.ID, owner.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, ok := f.places.places[place.ID]; ok {
		t.Fatalf("place still resolvable after delete")
	}
	if got := f.users.users[owner.ID].Places; len(got) != 0 {
		t.Fatalf("user places = %v after delete, want empty", got)
	}
	if len(f.files.removed) != 1 || f.files.removed[0] != place.Image {
		t.Fatalf("image not removed: %v", f.files.removed)
	}
}

func TestPlaceService_Delete_Atomicity(t *testing.T) {
	f := newPlaceFixture()
	owner := f.addUser(t, "alice")

	place, err := f.svc.CreatePlaceAndLink(context.Background(), owner.ID, createInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	f.users.failPullPlace = true
	err = f.svc.DeletePlaceAndUnlink(context.Background(), place.ID, owner.ID)
	if !errors.Is(err, domain.ErrUnlinkFailed) {
		t.Fatalf("expected ErrUnlinkFailed, got %v", err)
	}

	if _, ok := f.places.places[place.ID]; !ok {
		t.Fatalf("partial commit: place removed after aborted transaction")
	}
	if got := f.users.users[owner.ID].Places; len(got) != 1 {
		t.Fatalf("partial commit: user places = %v", got)
	}
	if len(f.files.removed) != 0 {
		t.Fatalf("image removed despite aborted delete")
	}
	checkRelationInvariant(t, f.users, f.places)
}

func TestPlaceService_GetPlacesByUser(t *testing.T) {
	f := newPlaceFixture()
	u := f.addUser(t, "alice")

	// Zero places and unknown user surface identically.
	if _, err := f.svc.GetPlacesByUser(context.Background(), u.ID); !errors.Is(err, domain.ErrNoPlacesForUser) {
		t.Fatalf("expected ErrNoPlacesForUser for zero places, got %v", err)
	}
	if _, err := f.svc.GetPlacesByUser(context.Background(), "missing"); !errors.Is(err, domain.ErrNoPlacesForUser) {
		t.Fatalf("expected ErrNoPlacesForUser for unknown user, got %v", err)
	}

	first, err := f.svc.CreatePlaceAndLink(context.Background(), u.ID, createInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second := createInput()
	second.Title = "Louvre"
	secondPlace, err := f.svc.CreatePlaceAndLink(context.Background(), u.ID, second)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := f.svc.GetPlacesByUser(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("GetPlacesByUser failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != first.ID || got[1].ID != secondPlace.ID {
		t.Fatalf("places out of order: %v", got)
	}
}

// Randomized create/delete sequences must preserve the relation invariant
// after every operation.
func TestPlaceService_RelationInvariant_Sequences(t *testing.T) {
	f := newPlaceFixture()
	rng := rand.New(rand.NewSource(42))

	userIDs := []string{}
	for i := 0; i < 3; i++ {
		u := f.addUser(t, fmt.Sprintf("user%d", i))
		userIDs = append(userIDs, u.ID)
	}

	live := []string{}
	ownerOf := map[string]string{}

	for op := 0; op < 200; op++ {
		if len(live) == 0 || rng.Intn(2) == 0 {
			uid := userIDs[rng.Intn(len(userIDs))]
			in := createInput()
			in.Title = fmt.Sprintf("place-%d", op)
			p, err := f.svc.CreatePlaceAndLink(context.Background(), uid, in)
			if err != nil {
				t.Fatalf("op %d: create failed: %v", op, err)
			}
			live = append(live, p.ID)
			ownerOf[p.ID] = uid
		} else {
			i := rng.Intn(len(live))
			pid := live[i]
			if err := f.svc.DeletePlaceAndUnlink(context.Background(), pid, ownerOf[pid]); err != nil {
				t.Fatalf("op %d: delete failed: %v", op, err)
			}
			live = append(live[:i], live[i+1:]...)
			delete(ownerOf, pid)
		}
		checkRelationInvariant(t, f.users, f.places)
	}
}

func TestPlaceService_GetPlaceByID_CacheFallback(t *testing.T) {
	f := newPlaceFixture()
	u := f.addUser(t, "alice")
	place, err := f.svc.CreatePlaceAndLink(context.Background(), u.ID, createInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := f.svc.GetPlaceByID(context.Background(), place.ID)
	if err != nil {
		t.Fatalf("GetPlaceByID failed: %v", err)
	}
	if got.ID != place.ID {
		t.Fatalf("got wrong place: %s", got.ID)
	}

	if _, err := f.svc.GetPlaceByID(context.Background(), "missing"); !errors.Is(err, domain.ErrPlaceNotFound) {
		t.Fatalf("expected ErrPlaceNotFound, got %v", err)
	}
}
