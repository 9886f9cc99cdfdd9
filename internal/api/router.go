package api

import (
	"github.com/ericogr/kids-games/internal/constants"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter registers every route on a fresh engine.
func NewRouter(h *Handler) (*gin.Engine, error) {
	tmpl, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), h.Session(), RequestLogger())
	router.SetHTMLTemplate(tmpl)

	router.GET(constants.RouteHealth, h.Health)
	router.GET(constants.RouteVersion, Version)
	router.GET(constants.RouteMetrics, gin.WrapH(promhttp.Handler()))
	router.StaticFS(constants.RouteStatic, staticFiles())
	router.GET(constants.RouteMedia+"/*key", h.ServeMedia)
	router.GET(constants.RouteEmbedActive, h.EmbedActive)

	router.POST(constants.RouteAuthGoogle, h.GoogleOAuthCallback)
	router.POST(constants.RouteAuthLogout, h.Logout)

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.POST(constants.RouteRender, h.RenderContent)
		apiRoutes.GET(constants.RouteActiveGame, h.GetActiveGame)
	}

	admin := router.Group(constants.RouteAdminAPIPrefix)
	admin.Use(AuthRequired())
	{
		admin.GET(constants.RouteMe, h.Me)
		admin.GET(constants.RouteNonce, h.IssueNonce)

		admin.GET(constants.RouteGames, h.ListGames)
		admin.POST(constants.RouteGames, h.CreateGame)
		admin.GET(constants.RouteGameByID, h.GetGame)
		admin.PUT(constants.RouteGameByID, h.UpdateGame)
		admin.DELETE(constants.RouteGameByID, h.DeleteGame)
		admin.PUT(constants.RouteGameEmbed, h.SaveEmbed)
		admin.PUT(constants.RouteGameImage, h.SaveImage)

		admin.GET(constants.RouteActiveGame, h.GetActiveGame)
		admin.PUT(constants.RouteActiveGame, h.SetActiveGame)

		admin.POST(constants.RouteMediaUpload, h.UploadMedia)
		admin.GET(constants.RouteMediaByID, h.GetMedia)
		admin.DELETE(constants.RouteMediaByID, h.DeleteMedia)
	}

	pages := router.Group(constants.RouteAdminPrefix)
	pages.Use(h.pageAuthRequired())
	{
		pages.GET("", func(c *gin.Context) { h.redirect(c, constants.RouteAdminGames, "") })
		pages.GET(constants.RouteAdminGames, h.AdminGamesPage)
		pages.POST(constants.RouteAdminGames, h.AdminCreateGame)
		pages.GET(constants.RouteAdminGameNew, h.AdminNewGamePage)
		pages.GET(constants.RouteAdminGameEdit, h.AdminEditGamePage)
		pages.POST(constants.RouteAdminGameSave, h.AdminSaveGame)
		pages.POST(constants.RouteAdminGameDelete, h.AdminDeleteGame)
		pages.GET(constants.RouteAdminSettings, h.AdminSettingsPage)
		pages.POST(constants.RouteAdminSettings, h.AdminSaveSettings)
		pages.GET(constants.RouteAdminHelp, h.AdminInstructionsPage)
	}

	return router, nil
}
