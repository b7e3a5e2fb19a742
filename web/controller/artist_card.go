package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tridentstudios/sitepanel/database/model"
	"github.com/tridentstudios/sitepanel/web/service"
	"github.com/tridentstudios/sitepanel/web/session"
)

// ArtistCardController exposes the roster card store.
type ArtistCardController struct {
	cardService  service.ArtistCardService
	auditService service.AuditLogService
}

func NewArtistCardController(g *gin.RouterGroup) *ArtistCardController {
	a := &ArtistCardController{}
	a.initRouter(g)
	return a
}

func (a *ArtistCardController) initRouter(g *gin.RouterGroup) {
	g.GET("/artist-cards", a.list)
	g.POST("/artist-cards", a.save)
}

func (a *ArtistCardController) list(c *gin.Context) {
	cards, err := a.cardService.ListCards()
	if err != nil {
		jsonMsg(c, "list artist cards", err)
		return
	}
	byID := make(map[string]model.ArtistCard, len(cards))
	for _, card := range cards {
		byID[card.CardID] = card
	}
	jsonObj(c, byID, nil)
}

func (a *ArtistCardController) save(c *gin.Context) {
	var card model.ArtistCard
	if err := c.ShouldBind(&card); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid card data")
		return
	}

	actor := session.GetLoginUser(c)
	saved, err := a.cardService.SaveCard(&card, actor)
	if err != nil {
		jsonMsg(c, "save artist card", err)
		return
	}
	if actor != nil {
		a.auditService.Record(actor.Email, "Saved artist card", saved.CardID)
	}
	jsonObj(c, saved, nil)
}
