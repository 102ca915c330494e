package main

import (
	"net/http"
	"time"

	"doceria/activity"
	"doceria/auth"
	"doceria/config"
	"doceria/coupon"
	"doceria/customer"
	"doceria/deadstock"
	"doceria/discard"
	"doceria/finance"
	"doceria/inventoryadjustment"
	"doceria/notify"
	"doceria/order"
	"doceria/product"
	"doceria/reorder"
	"doceria/report"
	"doceria/reprocess"
	"doceria/shipping"
	"doceria/stock"
	"doceria/supplier"
	"doceria/tenant"
	"doceria/timeclock"
	"doceria/user"
	"doceria/valuation"

	"github.com/jmoiron/sqlx"
	"github.com/rs/cors"
)

func jwtSecret() []byte { return []byte(config.GetConfig().Auth.JWTSecret) }

func tokenTTL() time.Duration { return config.GetConfig().TokenTTL() }

func SetupRoutes(mux *http.ServeMux, dbConn *sqlx.DB) {
	cfg := config.GetConfig()

	var sender notify.Sender = notify.LogSender{}
	if cfg.Notify.RelayURL != "" {
		sender = notify.NewWebhookSender(cfg.Notify.RelayURL)
	}
	notifier := notify.NewService(dbConn, sender, notify.NewHub())

	// Storefront API, open to any origin.
	public := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	storefront := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, public.Handler(h))
	}
	storefront("GET /produtos", product.PublicListHandler(dbConn))
	storefront("GET /clientes", customer.PublicListHandler(dbConn))
	storefront("POST /clientes", customer.PublicCreateHandler(dbConn))
	storefront("PUT /clientes/{id}", customer.PublicUpdateHandler(dbConn))
	storefront("POST /pedidos", order.PublicCreateHandler(dbConn, notifier))
	storefront("POST /frete/calcular", shipping.CalculateHandler(dbConn))
	storefront("POST /cupons/verificar", coupon.VerifyHandler(dbConn))
	mux.Handle("OPTIONS /", public.Handler(http.NotFoundHandler()))

	mux.HandleFunc("POST /api/auth/login", auth.LoginHandler(dbConn, jwtSecret, tokenTTL))
	mux.HandleFunc("POST /api/auth/logout", auth.LogoutHandler())

	authed := auth.Middleware(dbConn, jwtSecret)
	api := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, authed(h))
	}
	// store scopes a handler to {storeID} and a menu permission.
	store := func(pattern, perm string, h http.HandlerFunc) {
		mux.Handle(pattern, authed(auth.RequireStore(auth.RequirePermission(perm, h))))
	}

	api("GET /api/auth/me", auth.MeHandler())
	api("GET /api/config", GetConfigHandler())
	api("POST /api/config", SaveConfigHandler())
	api("POST /api/notifications/tokens", notify.RegisterTokenHandler(notifier))
	api("DELETE /api/notifications/tokens", notify.UnregisterTokenHandler(notifier))

	api("POST /api/functions/listAllUsers", user.ListAllUsersCallable(dbConn))
	api("POST /api/functions/createUser", user.CreateUserCallable(dbConn))
	api("POST /api/functions/updateUser", user.UpdateUserCallable(dbConn))
	api("POST /api/functions/deleteUser", user.DeleteUserCallable(dbConn))
	api("POST /api/functions/updateUserPassword", user.UpdateUserPasswordCallable(dbConn))
	api("POST /api/functions/createStore", tenant.CreateStoreCallable(dbConn))

	api("GET /api/stores", tenant.ListStoresHandler(dbConn))
	store("GET /api/stores/{storeID}/company", "configuracoes", tenant.GetCompanyHandler(dbConn))
	store("PUT /api/stores/{storeID}/company", "configuracoes", tenant.SaveCompanyHandler(dbConn))
	store("GET /api/stores/{storeID}/shipping", "configuracoes", tenant.GetShippingHandler(dbConn))
	store("PUT /api/stores/{storeID}/shipping", "configuracoes", tenant.SaveShippingHandler(dbConn))
	store("GET /api/stores/{storeID}/logs", "dashboard", activity.ListHandler(dbConn))
	store("GET /api/stores/{storeID}/events", "pedidos", notify.EventsHandler(notifier, 25*time.Second))

	store("GET /api/stores/{storeID}/customers", "clientes", customer.ListHandler(dbConn))
	store("POST /api/stores/{storeID}/customers", "clientes", customer.CreateHandler(dbConn))
	store("POST /api/stores/{storeID}/customers/import", "clientes", customer.ImportHandler(dbConn))
	store("GET /api/stores/{storeID}/customers/{id}", "clientes", customer.GetHandler(dbConn))
	store("PUT /api/stores/{storeID}/customers/{id}", "clientes", customer.UpdateHandler(dbConn))
	store("DELETE /api/stores/{storeID}/customers/{id}", "clientes", customer.DeleteHandler(dbConn))

	store("GET /api/stores/{storeID}/products", "produtos", product.ListHandler(dbConn))
	store("GET /api/stores/{storeID}/products/stats", "produtos", product.StatsHandler(dbConn))
	store("POST /api/stores/{storeID}/products", "produtos", product.CreateHandler(dbConn))
	store("POST /api/stores/{storeID}/products/import", "produtos", product.ImportHandler(dbConn))
	store("GET /api/stores/{storeID}/products/{id}", "produtos", product.GetHandler(dbConn))
	store("PUT /api/stores/{storeID}/products/{id}", "produtos", product.UpdateHandler(dbConn))
	store("DELETE /api/stores/{storeID}/products/{id}", "produtos", product.DeleteHandler(dbConn))

	store("GET /api/stores/{storeID}/stock/items", "produtos", stock.ListItemsHandler(dbConn))
	store("POST /api/stores/{storeID}/stock/items", "produtos", stock.CreateItemHandler(dbConn))
	store("GET /api/stores/{storeID}/stock/items/{id}", "produtos", stock.GetItemHandler(dbConn))
	store("PUT /api/stores/{storeID}/stock/items/{id}", "produtos", stock.UpdateItemHandler(dbConn))
	store("DELETE /api/stores/{storeID}/stock/items/{id}", "produtos", stock.DeleteItemHandler(dbConn))
	store("GET /api/stores/{storeID}/stock/movements", "produtos", stock.ListMovementsHandler(dbConn))
	store("POST /api/stores/{storeID}/stock/movements", "produtos", stock.MovementHandler(dbConn))
	store("GET /api/stores/{storeID}/stock/low", "produtos", stock.LowStockHandler(dbConn))
	store("GET /api/stores/{storeID}/stock/valuation", "produtos", valuation.GetValuationHandler(dbConn))
	store("GET /api/stores/{storeID}/stock/valuation/export", "produtos", valuation.ExportValuationCSVHandler(dbConn))
	store("POST /api/stores/{storeID}/stock/counts", "produtos", inventoryadjustment.ApplyCountHandler(dbConn))
	store("GET /api/stores/{storeID}/stock/idle", "produtos", deadstock.ListHandler(dbConn))
	store("GET /api/stores/{storeID}/stock/idle/export", "produtos", deadstock.ExportHandler(dbConn))
	store("GET /api/stores/{storeID}/stock/audit", "produtos", reprocess.AuditHandler(dbConn))

	store("GET /api/stores/{storeID}/discards", "produtos", discard.ListHandler(dbConn))
	store("POST /api/stores/{storeID}/discards", "produtos", discard.CreateHandler(dbConn))
	store("DELETE /api/stores/{storeID}/discards/{id}", "produtos", discard.DeleteHandler(dbConn))

	store("GET /api/stores/{storeID}/orders", "pedidos", order.ListHandler(dbConn))
	store("GET /api/stores/{storeID}/orders/active", "pedidos", order.ActiveHandler(dbConn))
	store("POST /api/stores/{storeID}/orders", "pedidos", order.CreateHandler(dbConn))
	store("GET /api/stores/{storeID}/orders/{id}", "pedidos", order.GetHandler(dbConn))
	store("PUT /api/stores/{storeID}/orders/{id}", "pedidos", order.UpdateHandler(dbConn))
	store("PUT /api/stores/{storeID}/orders/{id}/status", "pedidos", order.StatusHandler(dbConn))
	store("DELETE /api/stores/{storeID}/orders/{id}", "pedidos", order.DeleteHandler(dbConn))

	store("GET /api/stores/{storeID}/coupons", "configuracoes", coupon.ListHandler(dbConn))
	store("POST /api/stores/{storeID}/coupons", "configuracoes", coupon.CreateHandler(dbConn))
	store("PUT /api/stores/{storeID}/coupons/{id}", "configuracoes", coupon.UpdateHandler(dbConn))
	store("DELETE /api/stores/{storeID}/coupons/{id}", "configuracoes", coupon.DeleteHandler(dbConn))

	store("GET /api/stores/{storeID}/suppliers", "fornecedores", supplier.ListHandler(dbConn))
	store("POST /api/stores/{storeID}/suppliers", "fornecedores", supplier.CreateHandler(dbConn))
	store("GET /api/stores/{storeID}/suppliers/{id}", "fornecedores", supplier.GetHandler(dbConn))
	store("PUT /api/stores/{storeID}/suppliers/{id}", "fornecedores", supplier.UpdateHandler(dbConn))
	store("DELETE /api/stores/{storeID}/suppliers/{id}", "fornecedores", supplier.DeleteHandler(dbConn))
	store("GET /api/stores/{storeID}/purchases", "fornecedores", supplier.ListPurchasesHandler(dbConn))
	store("POST /api/stores/{storeID}/purchases", "fornecedores", supplier.CreatePurchaseHandler(dbConn))
	store("POST /api/stores/{storeID}/purchases/{id}/receive", "fornecedores", supplier.ReceivePurchaseHandler(dbConn))
	store("POST /api/stores/{storeID}/purchases/{id}/cancel", "fornecedores", supplier.CancelPurchaseHandler(dbConn))
	store("DELETE /api/stores/{storeID}/purchases/{id}", "fornecedores", supplier.DeletePurchaseHandler(dbConn))
	store("GET /api/stores/{storeID}/reorder", "fornecedores", reorder.CandidatesHandler(dbConn))
	store("POST /api/stores/{storeID}/reorder", "fornecedores", reorder.PlaceHandler(dbConn))

	store("GET /api/stores/{storeID}/finance/payables", "financeiro", finance.ListPayablesHandler(dbConn))
	store("POST /api/stores/{storeID}/finance/payables", "financeiro", finance.CreatePayableHandler(dbConn))
	store("PUT /api/stores/{storeID}/finance/payables/{id}", "financeiro", finance.UpdatePayableHandler(dbConn))
	store("PUT /api/stores/{storeID}/finance/payables/{id}/status", "financeiro", finance.PayableStatusHandler(dbConn))
	store("DELETE /api/stores/{storeID}/finance/payables/{id}", "financeiro", finance.DeletePayableHandler(dbConn))
	store("GET /api/stores/{storeID}/finance/receivables", "financeiro", finance.ListReceivablesHandler(dbConn))
	store("POST /api/stores/{storeID}/finance/receivables", "financeiro", finance.CreateReceivableHandler(dbConn))
	store("PUT /api/stores/{storeID}/finance/receivables/{id}", "financeiro", finance.UpdateReceivableHandler(dbConn))
	store("PUT /api/stores/{storeID}/finance/receivables/{id}/status", "financeiro", finance.ReceivableStatusHandler(dbConn))
	store("DELETE /api/stores/{storeID}/finance/receivables/{id}", "financeiro", finance.DeleteReceivableHandler(dbConn))
	store("GET /api/stores/{storeID}/finance/summary", "financeiro", finance.SummaryHandler(dbConn))
	store("GET /api/stores/{storeID}/finance/flow", "financeiro", finance.FlowHandler(dbConn))
	store("GET /api/stores/{storeID}/finance/categories", "financeiro", finance.CategoriesHandler(dbConn))

	store("POST /api/stores/{storeID}/timeclock", "meu-espaco", timeclock.PunchHandler(dbConn))
	store("GET /api/stores/{storeID}/timeclock", "meu-espaco", timeclock.ListHandler(dbConn))
	store("GET /api/stores/{storeID}/timeclock/hours", "meu-espaco", timeclock.HoursHandler(dbConn))

	store("GET /api/stores/{storeID}/reports", "relatorios", report.TypesHandler())
	store("GET /api/stores/{storeID}/reports/{type}", "relatorios", report.ReportHandler(dbConn))
}
