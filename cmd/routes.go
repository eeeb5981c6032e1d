package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.requireIdentity)

	mux := pat.New()

	// Items
	mux.Post("/item", authMiddleware.ThenFunc(app.itemHandler.CreateItem))
	mux.Get("/items", standardMiddleware.ThenFunc(app.itemHandler.GetItems))
	mux.Get("/items/available", standardMiddleware.ThenFunc(app.itemHandler.GetAvailableItems))
	mux.Get("/items/user/:user_id", authMiddleware.ThenFunc(app.itemHandler.GetUserItems))
	mux.Put("/item/:id", authMiddleware.ThenFunc(app.itemHandler.UpdateItem))
	mux.Del("/item/:id", authMiddleware.ThenFunc(app.itemHandler.DeleteItem))
	mux.Post("/item/images", authMiddleware.ThenFunc(app.itemHandler.UploadItemImage))

	// Redemptions
	mux.Post("/redeem", authMiddleware.ThenFunc(app.redemptionHandler.Redeem))
	mux.Get("/redemptions/user/:user_id", authMiddleware.ThenFunc(app.redemptionHandler.GetUserRedemptions))

	// Swap requests
	mux.Post("/swap", authMiddleware.ThenFunc(app.swapHandler.CreateSwapRequest))
	mux.Put("/swap/:id", authMiddleware.ThenFunc(app.swapHandler.UpdateSwapRequest))
	mux.Get("/swaps/user/:user_id", authMiddleware.ThenFunc(app.swapHandler.GetUserSwapRequests))

	// Notifications
	mux.Post("/notifications/token", authMiddleware.ThenFunc(app.notificationHandler.RegisterDeviceToken))
	mux.Get("/ws/notifications", http.HandlerFunc(app.notificationHub.Serve))

	return mux
}
