// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"ministry/config"
	"ministry/internal/delivery/api/middleware"
	"ministry/internal/delivery/api/router/handler"
	"ministry/internal/domain/constants"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	HealthHandler   *handler.HealthHandler
	AuthHandler     *handler.AuthHandler
	AccountHandler  *handler.AccountHandler
	RBACHandler     *handler.RBACHandler
	CatalogHandler  *handler.CatalogHandler
	CartHandler     *handler.CartHandler
	OrderHandler    *handler.OrderHandler
	PaymentHandler  *handler.PaymentHandler
	DonationHandler *handler.DonationHandler
	EventHandler    *handler.EventHandler
	ContentHandler  *handler.ContentHandler
	ReportHandler   *handler.ReportHandler

	AuthMiddleware      *middleware.AuthMiddleware
	APIKeyMiddleware    *middleware.APIKeyMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware
	Config              *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	health   *handler.HealthHandler
	auth     *handler.AuthHandler
	account  *handler.AccountHandler
	rbac     *handler.RBACHandler
	catalog  *handler.CatalogHandler
	cart     *handler.CartHandler
	order    *handler.OrderHandler
	payment  *handler.PaymentHandler
	donation *handler.DonationHandler
	event    *handler.EventHandler
	content  *handler.ContentHandler
	report   *handler.ReportHandler

	authMiddleware *middleware.AuthMiddleware
	apiKey         *middleware.APIKeyMiddleware
	rateLimit      *middleware.RateLimitMiddleware
	config         *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		health:         params.HealthHandler,
		auth:           params.AuthHandler,
		account:        params.AccountHandler,
		rbac:           params.RBACHandler,
		catalog:        params.CatalogHandler,
		cart:           params.CartHandler,
		order:          params.OrderHandler,
		payment:        params.PaymentHandler,
		donation:       params.DonationHandler,
		event:          params.EventHandler,
		content:        params.ContentHandler,
		report:         params.ReportHandler,
		authMiddleware: params.AuthMiddleware,
		apiKey:         params.APIKeyMiddleware,
		rateLimit:      params.RateLimitMiddleware,
		config:         params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", r.health.Check)

	api := e.Group("/api", r.rateLimit.Handle)

	r.registerPublic(api)
	r.registerMember(api)
	r.registerAdmin(api)
}

func (r *router) registerPublic(api *echo.Group) {
	authenticate := r.authMiddleware.Authenticate

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", r.auth.Register)
		authGroup.POST("/verify-otp", r.auth.VerifyOTP)
		authGroup.POST("/resend-otp", r.auth.ResendOTP)
		authGroup.POST("/login", r.auth.Login)
		authGroup.POST("/refresh", r.auth.Refresh)
		authGroup.POST("/logout", r.auth.Logout)
		authGroup.GET("/me", r.auth.Me, authenticate)
		authGroup.POST("/change-password", r.auth.ChangePassword, authenticate)
	}

	// Reference data
	api.GET("/countries", r.account.Countries)
	api.GET("/payment-methods", r.account.PaymentMethods)

	// Shop catalog requires an API key
	requireKey := r.apiKey.Require
	api.GET("/categories", r.catalog.ListCategories, requireKey)
	api.GET("/categories/:id", r.catalog.GetCategory, requireKey)
	api.GET("/products", r.catalog.ListProducts, requireKey)
	api.GET("/products/:slug", r.catalog.ShowProduct, requireKey)

	api.GET("/orders/track", r.order.PublicTrack)
	api.POST("/orders/track", r.order.PublicTrack)
	api.POST("/webhooks/:provider", r.payment.Webhook)

	api.GET("/donation-categories", r.donation.ListCategories)
	api.GET("/campaigns", r.donation.ListCampaigns)
	api.GET("/campaigns/:slug", r.donation.ShowCampaign)
	api.POST("/donations", r.donation.Donate, r.authMiddleware.OptionalAuthenticate)
	api.GET("/donations", r.donation.ListMine, authenticate)

	api.GET("/events", r.event.ListEvents)
	api.GET("/events/:slug", r.event.ShowEvent)

	api.GET("/news", r.content.News.List)
	api.GET("/news/:slug", r.content.News.Show)
	api.GET("/blogs", r.content.Blog.List)
	api.GET("/blogs/:slug", r.content.Blog.Show)
	api.GET("/music", r.content.Music.List)
	api.GET("/music/:slug", r.content.Music.Show)
	api.GET("/sliders", r.content.Slider.List)
	api.GET("/about-us", r.content.GetAboutUs)
	api.POST("/contact", r.content.SubmitContact)
}

func (r *router) registerMember(api *echo.Group) {
	authenticate := r.authMiddleware.Authenticate

	account := api.Group("/account", authenticate)
	{
		account.GET("/profile", r.account.GetProfile)
		account.PUT("/profile", r.account.UpdateProfile)
		account.POST("/profile/picture", r.account.UploadPicture)
		account.DELETE("/profile/picture", r.account.DeletePicture)

		account.GET("/addresses", r.account.ListAddresses)
		account.POST("/addresses", r.account.CreateAddress)
		account.GET("/addresses/:id", r.account.GetAddress)
		account.PUT("/addresses/:id", r.account.UpdateAddress)
		account.DELETE("/addresses/:id", r.account.DeleteAddress)
		account.POST("/addresses/:id/default", r.account.SetDefaultAddress)

		account.POST("/devices", r.account.RegisterDevice)
		account.GET("/devices", r.account.ListDevices)
		account.DELETE("/devices/:id", r.account.DeleteDevice)

		account.POST("/messages", r.content.SendMessage)
		account.GET("/messages", r.content.ListMyMessages)
	}

	cart := api.Group("/cart", authenticate)
	{
		cart.GET("", r.cart.Get)
		cart.DELETE("", r.cart.Clear)
		cart.POST("/items", r.cart.AddItem)
		cart.PUT("/items/:id", r.cart.UpdateItem)
		cart.DELETE("/items/:id", r.cart.RemoveItem)
	}

	orders := api.Group("/orders", authenticate)
	{
		orders.POST("", r.order.Place)
		orders.GET("", r.order.List)
		orders.GET("/:id", r.order.Get)
		orders.POST("/:id/cancel", r.order.Cancel)
		orders.GET("/:id/tracking", r.order.Track)
		orders.POST("/:id/pay", r.payment.Initiate)
		orders.POST("/:id/pay/confirm", r.payment.Confirm)
	}

	api.GET("/payments/:reference", r.payment.Status, authenticate)

	refunds := api.Group("/refunds", authenticate)
	{
		refunds.POST("", r.payment.RequestRefund)
		refunds.GET("", r.payment.ListRefunds)
		refunds.GET("/:id", r.payment.GetRefund)
	}

	tickets := api.Group("/tickets", authenticate)
	{
		tickets.POST("", r.event.Purchase)
		tickets.GET("", r.event.ListMyOrders)
		tickets.GET("/:id", r.event.GetMyOrder)
		tickets.POST("/:id/confirm", r.event.ConfirmPayment)
		tickets.POST("/:id/cancel", r.event.Cancel)
		tickets.GET("/:id/qr", r.event.QRCode)
	}
}

func (r *router) registerAdmin(api *echo.Group) {
	admin := api.Group("/admin", r.authMiddleware.Authenticate)
	can := r.authMiddleware.RequirePermission

	users := admin.Group("", can(constants.PermUsersManage))
	{
		users.GET("/users", r.rbac.ListUsers)
		users.GET("/users/:id", r.rbac.GetUser)
		users.PUT("/users/:id/status", r.rbac.UpdateUserStatus)
		users.PUT("/users/:id/roles", r.rbac.SyncUserRoles)

		users.GET("/roles", r.rbac.ListRoles)
		users.POST("/roles", r.rbac.CreateRole)
		users.GET("/roles/:id", r.rbac.GetRole)
		users.PUT("/roles/:id", r.rbac.UpdateRole)
		users.DELETE("/roles/:id", r.rbac.DeleteRole)
		users.PUT("/roles/:id/permissions", r.rbac.SyncRolePermissions)

		users.GET("/permissions", r.rbac.ListPermissions)
		users.POST("/permissions", r.rbac.CreatePermission)
		users.PUT("/permissions/:id", r.rbac.UpdatePermission)
		users.DELETE("/permissions/:id", r.rbac.DeletePermission)

		users.GET("/departments", r.rbac.ListDepartments)
		users.POST("/departments", r.rbac.CreateDepartment)
		users.GET("/departments/:id", r.rbac.GetDepartment)
		users.PUT("/departments/:id", r.rbac.UpdateDepartment)
		users.DELETE("/departments/:id", r.rbac.DeleteDepartment)
		users.PUT("/departments/:id/members", r.rbac.SyncDepartmentMembers)
	}

	catalog := admin.Group("", can(constants.PermCatalogManage))
	{
		catalog.GET("/categories", r.catalog.AdminListCategories)
		catalog.POST("/categories", r.catalog.CreateCategory)
		catalog.PUT("/categories/:id", r.catalog.UpdateCategory)
		catalog.DELETE("/categories/:id", r.catalog.DeleteCategory)

		catalog.GET("/attributes", r.catalog.ListAttributes)
		catalog.POST("/attributes", r.catalog.CreateAttribute)
		catalog.PUT("/attributes/:id", r.catalog.UpdateAttribute)
		catalog.DELETE("/attributes/:id", r.catalog.DeleteAttribute)
		catalog.POST("/attributes/:id/values", r.catalog.AddAttributeValue)
		catalog.PUT("/attribute-values/:valueId", r.catalog.UpdateAttributeValue)
		catalog.DELETE("/attribute-values/:valueId", r.catalog.DeleteAttributeValue)

		catalog.GET("/products", r.catalog.AdminListProducts)
		catalog.GET("/products/low-stock", r.catalog.LowStock)
		catalog.POST("/products", r.catalog.CreateProduct)
		catalog.GET("/products/:id", r.catalog.AdminGetProduct)
		catalog.PUT("/products/:id", r.catalog.UpdateProduct)
		catalog.DELETE("/products/:id", r.catalog.DeleteProduct)
		catalog.POST("/products/:id/images", r.catalog.UploadImages)
		catalog.DELETE("/products/:id/images", r.catalog.RemoveImage)
		catalog.GET("/products/:id/variants", r.catalog.ListVariants)
		catalog.POST("/products/:id/variants", r.catalog.CreateVariant)
		catalog.PUT("/variants/:id", r.catalog.UpdateVariant)
		catalog.DELETE("/variants/:id", r.catalog.DeleteVariant)
	}

	orders := admin.Group("", can(constants.PermOrdersManage))
	{
		orders.GET("/orders", r.order.ListAll)
		orders.GET("/orders/:id", r.order.AdminGet)
		orders.PUT("/orders/:id/status", r.order.UpdateStatus)
		orders.POST("/orders/:id/shipments", r.order.CreateShipment)
		orders.PUT("/shipments/:id", r.order.UpdateShipment)

		orders.GET("/refunds", r.payment.ListAllRefunds)
		orders.GET("/refunds/:id", r.payment.AdminGetRefund)
		orders.POST("/refunds/:id/process", r.payment.ProcessRefund)
	}

	donations := admin.Group("", can(constants.PermDonationsManage))
	{
		donations.GET("/donation-categories", r.donation.AdminListCategories)
		donations.POST("/donation-categories", r.donation.CreateCategory)
		donations.PUT("/donation-categories/:id", r.donation.UpdateCategory)
		donations.DELETE("/donation-categories/:id", r.donation.DeleteCategory)

		donations.GET("/campaigns", r.donation.AdminListCampaigns)
		donations.POST("/campaigns", r.donation.CreateCampaign)
		donations.GET("/campaigns/:id", r.donation.AdminGetCampaign)
		donations.PUT("/campaigns/:id", r.donation.UpdateCampaign)
		donations.DELETE("/campaigns/:id", r.donation.DeleteCampaign)
		donations.POST("/campaigns/:id/image", r.donation.UploadCampaignImage)
		donations.POST("/campaigns/:id/recalculate", r.donation.Recalculate)

		donations.GET("/donations", r.donation.List)
		donations.GET("/donations/:id", r.donation.Get)
		donations.PUT("/donations/:id/status", r.donation.UpdateStatus)
		donations.DELETE("/donations/:id", r.donation.Delete)
	}

	events := admin.Group("", can(constants.PermEventsManage))
	{
		events.GET("/events", r.event.AdminListEvents)
		events.POST("/events", r.event.CreateEvent)
		events.GET("/events/:id", r.event.AdminGetEvent)
		events.PUT("/events/:id", r.event.UpdateEvent)
		events.DELETE("/events/:id", r.event.DeleteEvent)
		events.POST("/events/:id/image", r.event.UploadEventImage)
		events.POST("/events/:id/ticket-types", r.event.CreateTicketType)
		events.PUT("/ticket-types/:id", r.event.UpdateTicketType)
		events.DELETE("/ticket-types/:id", r.event.DeleteTicketType)

		events.GET("/ticket-orders", r.event.ListOrders)
		events.POST("/ticket-orders/check-in", r.event.CheckIn)
	}

	content := admin.Group("", can(constants.PermContentManage))
	{
		registerContent(content, "/news", r.content.News)
		registerContent(content, "/blogs", r.content.Blog)
		registerContent(content, "/music", r.content.Music)
		registerContent(content, "/sliders", r.content.Slider)
		content.POST("/music/:id/audio", r.content.UploadAudio)

		content.PUT("/about-us", r.content.SaveAboutUs)
		content.POST("/about-us/image", r.content.UploadAboutUsImage)

		content.GET("/contacts", r.content.ListContacts)
		content.POST("/contacts/:id/read", r.content.MarkContactRead)
		content.DELETE("/contacts/:id", r.content.DeleteContact)

		content.GET("/messages", r.content.ListMessages)
		content.POST("/messages/:id/reply", r.content.ReplyMessage)
	}

	reports := admin.Group("", can(constants.PermReportsView))
	{
		reports.GET("/dashboard", r.report.Dashboard)
		reports.GET("/reports/:type", r.report.Download)
	}
}

// contentRoutes is the admin surface shared by every content resource.
type contentRoutes interface {
	AdminList(c echo.Context) error
	AdminGet(c echo.Context) error
	Create(c echo.Context) error
	Update(c echo.Context) error
	Delete(c echo.Context) error
	UploadImage(c echo.Context) error
}

func registerContent(g *echo.Group, prefix string, h contentRoutes) {
	g.GET(prefix, h.AdminList)
	g.POST(prefix, h.Create)
	g.GET(prefix+"/:id", h.AdminGet)
	g.PUT(prefix+"/:id", h.Update)
	g.DELETE(prefix+"/:id", h.Delete)
	g.POST(prefix+"/:id/image", h.UploadImage)
}
