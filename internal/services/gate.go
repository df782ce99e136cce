package services

import (
	"github.com/thereayou/messagings/internal/models"
)

// Gate проверяет права действующего пользователя перед каждой операцией
type Gate struct {
	// EnforceMembership требует, чтобы пользователь был автором или участником беседы
	EnforceMembership bool
}

func (g Gate) RequireIdentity(actor *models.User) error {
	if actor == nil {
		return ErrUnauthorized
	}
	return nil
}

func (g Gate) RequireSelf(actor *models.User, ownerID uint) error {
	if err := g.RequireIdentity(actor); err != nil {
		return err
	}
	if actor.ID != ownerID {
		return ErrUnauthorized
	}
	return nil
}

func (g Gate) RequireParty(actor *models.User, messaging *models.Messaging) error {
	if err := g.RequireIdentity(actor); err != nil {
		return err
	}
	if g.EnforceMembership && !messaging.HasParty(actor.ID) {
		return ErrUnauthorized
	}
	return nil
}
