package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/tridentstudios/sitepanel/caching"
	"github.com/tridentstudios/sitepanel/database"
	"github.com/tridentstudios/sitepanel/database/model"
)

const cardListCacheKey = "artist-cards:all"

// cardCache fronts the card list for the public team page, which reads far
// more often than artists save.
var cardCache = func() *caching.Cache {
	c := caching.NewCache()
	if err := c.Init(); err != nil {
		return nil
	}
	return c
}()

// ArtistCardService manages the roster cards shown on the public team page.
// Admins may edit any card; artists may edit only the card assigned to
// their account.
type ArtistCardService struct {
	roleService RoleService
}

func (s *ArtistCardService) ListCards() ([]model.ArtistCard, error) {
	if cardCache != nil {
		if cached, ok := cardCache.Memory().Get(cardListCacheKey); ok {
			if cards, ok := cached.([]model.ArtistCard); ok {
				return cards, nil
			}
		}
	}

	db := database.GetDB()
	var cards []model.ArtistCard
	if err := db.Model(model.ArtistCard{}).Order("card_id ASC").Find(&cards).Error; err != nil {
		return nil, err
	}
	if cardCache != nil {
		cardCache.Memory().Set(cardListCacheKey, cards, 30*time.Second)
	}
	return cards, nil
}

func (s *ArtistCardService) GetCard(cardID string) (*model.ArtistCard, error) {
	db := database.GetDB()
	card := &model.ArtistCard{}
	if err := db.Model(model.ArtistCard{}).Where("card_id = ?", cardID).First(card).Error; err != nil {
		return nil, err
	}
	return card, nil
}

// SaveCard upserts a card on behalf of the actor. Non-admins must hold the
// artist role and be assigned to exactly the card they are saving.
func (s *ArtistCardService) SaveCard(card *model.ArtistCard, actor *model.User) (*model.ArtistCard, error) {
	card.CardID = strings.TrimSpace(card.CardID)
	if card.CardID == "" {
		return nil, fmt.Errorf("card id is required")
	}
	if err := s.authorizeCardWrite(card.CardID, actor); err != nil {
		return nil, err
	}

	db := database.GetDB()
	existing := &model.ArtistCard{}
	err := db.Model(model.ArtistCard{}).Where("card_id = ?", card.CardID).First(existing).Error
	if err == nil {
		card.Id = existing.Id
	} else if !database.IsNotFound(err) {
		return nil, err
	}

	card.LastUpdated = time.Now()
	if actor != nil {
		card.UpdatedBy = actor.Email
	}
	if err := db.Save(card).Error; err != nil {
		return nil, err
	}
	if cardCache != nil {
		cardCache.Memory().Delete(cardListCacheKey)
	}
	return card, nil
}

func (s *ArtistCardService) authorizeCardWrite(cardID string, actor *model.User) error {
	if actor == nil {
		return fmt.Errorf("%w: editing artist cards requires the %s or %s role",
			ErrForbidden, model.RoleArtist, model.RoleAdmin)
	}
	if s.roleService.HasRole(actor, model.RoleAdmin) {
		return nil
	}
	if s.roleService.HasRole(actor, model.RoleArtist) && actor.ArtistCardID == cardID {
		return nil
	}
	return fmt.Errorf("%w: %s may not edit card %s", ErrForbidden, actor.Email, cardID)
}
