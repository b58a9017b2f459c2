package routes

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/bravo6co-debug/SMS-solapi/handlers"
)

// RegisterRoutes registers all API routes. authRequired is the session
// middleware guarding everything except signup, login, health and swagger.
func RegisterRoutes(
	e *echo.Echo,
	authRequired echo.MiddlewareFunc,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	companyHandler *handlers.CompanyHandler,
	templateHandler *handlers.TemplateHandler,
	draftHandler *handlers.DraftHandler,
	sendHandler *handlers.SendHandler,
) {
	e.GET("/health", healthHandler.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, authRequired)
	auth.GET("/me", authHandler.Me, authRequired)

	companies := api.Group("/companies", authRequired)
	companies.GET("", companyHandler.ListCompanies)
	companies.POST("", companyHandler.CreateCompany)
	companies.GET("/count", companyHandler.CountCompanies)
	companies.POST("/bulk", companyHandler.BulkUploadCompanies)
	companies.GET("/:id", companyHandler.GetCompany)
	companies.PUT("/:id", companyHandler.UpdateCompany)
	companies.DELETE("/:id", companyHandler.DeleteCompany)

	templates := api.Group("/templates", authRequired)
	templates.GET("", templateHandler.ListTemplates)
	templates.POST("", templateHandler.CreateTemplate)
	templates.GET("/:id", templateHandler.GetTemplate)
	templates.PUT("/:id", templateHandler.UpdateTemplate)
	templates.DELETE("/:id", templateHandler.DeleteTemplate)

	draft := api.Group("/draft", authRequired)
	draft.GET("", draftHandler.GetDraft)
	draft.POST("", draftHandler.SaveDraft)
	draft.DELETE("", draftHandler.DeleteDraft)

	send := api.Group("/send", authRequired)
	send.POST("/preview", sendHandler.PreviewMessage)
	send.POST("/bulk", sendHandler.SendBulk)
	send.GET("/history", sendHandler.GetHistory)
}
