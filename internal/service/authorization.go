package service

import (
	"context"

	"github.com/alimikegami/e-commerce/storefront-service/internal/domain"
	"github.com/alimikegami/e-commerce/storefront-service/pkg/errs"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func currentIdentity(ctx context.Context) (domain.Identity, error) {
	identity, ok := domain.IdentityFromContext(ctx)
	if !ok || identity.UserID == "" {
		return identity, errs.ErrNotLoggedIn
	}

	return identity, nil
}

// requireAdmin must run before any store access in admin-only operations.
func requireAdmin(ctx context.Context) (domain.Identity, error) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return identity, err
	}

	if !identity.Role.CanAdminister() {
		return identity, errs.ErrForbidden
	}

	return identity, nil
}

// callerObjectID resolves the caller id. A verified token holding an id that
// is not an ObjectID is treated as invalid.
func callerObjectID(identity domain.Identity) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(identity.UserID)
	if err != nil {
		return id, errs.ErrInvalidToken
	}

	return id, nil
}
