package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rewearBack/internal/models"
	"rewearBack/internal/store"
)

const usersCollection = "users"

// WelcomePoints is the balance granted to a profile on first sight.
const WelcomePoints = 50

// Bridge is the core's view of the identity collaborator: it supplies a
// verified profile and accepts points updates. Authentication itself
// happens outside this module.
type Bridge interface {
	GetProfile(ctx context.Context, uid string) (models.User, error)
	UpdatePoints(ctx context.Context, uid string, points int) error
}

// StoreBridge keeps profiles in the remote store's "users" collection,
// the same place the identity provider writes them.
type StoreBridge struct {
	Store store.Store
}

func (b *StoreBridge) GetProfile(ctx context.Context, uid string) (models.User, error) {
	if uid == "" {
		return models.User{}, models.ErrNoIdentity
	}
	doc, err := b.Store.Get(ctx, usersCollection, uid)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, models.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get profile: %w", err)
	}
	return userFromDoc(doc), nil
}

// UpdatePoints writes the new balance onto the user document. The value
// is the already-computed new balance, not a delta.
func (b *StoreBridge) UpdatePoints(ctx context.Context, uid string, points int) error {
	if uid == "" {
		return models.ErrNoIdentity
	}
	err := b.Store.Update(ctx, usersCollection, uid, map[string]interface{}{
		"points":    points,
		"updatedAt": time.Now(),
	})
	if errors.Is(err, store.ErrNotFound) {
		return models.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("update points: %w", err)
	}
	return nil
}

// EnsureProfile creates the user document with the welcome bonus if the
// uid has never been seen. Existing profiles are returned untouched.
func (b *StoreBridge) EnsureProfile(ctx context.Context, user models.User) (models.User, error) {
	existing, err := b.GetProfile(ctx, user.UID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, models.ErrUserNotFound) {
		return models.User{}, err
	}

	user.Points = WelcomePoints
	if user.JoinDate == "" {
		user.JoinDate = time.Now().Format(time.RFC3339)
	}
	err = b.Store.Set(ctx, usersCollection, user.UID, map[string]interface{}{
		"uid":           user.UID,
		"name":          user.Name,
		"email":         user.Email,
		"points":        user.Points,
		"joinDate":      user.JoinDate,
		"emailVerified": user.EmailVerified,
	})
	if err != nil {
		return models.User{}, fmt.Errorf("ensure profile: %w", err)
	}
	return user, nil
}

func userFromDoc(doc store.Document) models.User {
	user := models.User{UID: doc.ID}
	if v, ok := doc.Data["uid"].(string); ok && v != "" {
		user.UID = v
	}
	user.Name, _ = doc.Data["name"].(string)
	user.Email, _ = doc.Data["email"].(string)
	user.JoinDate, _ = doc.Data["joinDate"].(string)
	user.EmailVerified, _ = doc.Data["emailVerified"].(bool)
	switch v := doc.Data["points"].(type) {
	case int:
		user.Points = v
	case int64:
		user.Points = int(v)
	case float64:
		user.Points = int(v)
	}
	return user
}

var _ Bridge = (*StoreBridge)(nil)
