package router

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/adapter/api/handler"
	"skillswap/internal/adapter/api/middleware"
)

func SetupProposalRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	proposalHandler := handler.GetProposalHandler()

	proposals := e.Group("/v1/proposals")
	proposals.Use(authMiddleware.Authenticate)

	proposals.POST("", proposalHandler.CreateProposal)
	proposals.GET("", proposalHandler.ListProposals)
	proposals.PUT("/:id/respond", proposalHandler.RespondToProposal)
	proposals.PUT("/:id/complete", proposalHandler.CompleteProposal)
}
