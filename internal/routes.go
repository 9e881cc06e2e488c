package internal

import (
	"net/http"
	"tad/internal/controllers"
	"tad/internal/providers"
)

func InitRoutes(statusController *controllers.StatusController, triggerController *controllers.TriggerController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/status", http.HandlerFunc(statusController.Status))
	routers.Post("/run", http.HandlerFunc(triggerController.Run))
	return routers
}
