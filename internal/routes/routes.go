package routes

import (
	"io/fs"
	"net/http"

	"github.com/fanaberia/fanaberia/assets"
	"github.com/fanaberia/fanaberia/internal/app"
	"github.com/fanaberia/fanaberia/internal/handler"
	"github.com/fanaberia/fanaberia/internal/i18n"
	"github.com/fanaberia/fanaberia/internal/middleware"
	"github.com/fanaberia/fanaberia/internal/model"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	public := handler.NewPublicHandler(app.PostService, app.PageService)
	seo := handler.NewSEOHandler(app.SitemapService)
	auth := handler.NewAuthHandler(app.Authenticator, app.AuthService)
	api := handler.NewAPIHandler()
	warp := handler.NewWarpHandler(
		app.Authenticator,
		app.PostService,
		app.CategoryService,
		app.PageService,
		app.FileService,
		app.UserService,
		app.AdminService,
	)

	rateLimit := middleware.RateLimit(app.AuthLimiter, app.Cfg.AuthRateWindow, app.Cfg.TrustedProxyHeader)
	user := middleware.RequireRole(model.RoleUser)
	admin := middleware.RequireRole(model.RoleAdmin)
	guest := middleware.RequireGuest

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	// Static files
	sub, _ := fs.Sub(assets.AssetsFS, ".")
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(sub))))
	if app.Cfg.StorageDriver == "" || app.Cfg.StorageDriver == "local" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(app.Cfg.FilesStoragePath))))
	}

	// SEO
	mux.HandleFunc("GET /robots.txt", seo.Robots)
	mux.HandleFunc("GET /sitemap.xml", seo.Sitemap)

	// Content
	mux.HandleFunc("GET /{$}", public.Home)
	for _, locale := range i18n.Locales() {
		mux.HandleFunc("GET /"+locale+"/posts", public.Posts)
		mux.HandleFunc("GET /"+locale+"/posts/{slug}", public.Post)
		mux.HandleFunc("GET /"+locale+"/posts/categories/{slug}", public.Category)
		mux.HandleFunc("GET /"+locale+"/pages/{slug}", public.Page)
	}

	// Preferences
	mux.HandleFunc("POST /api/v1/locale", api.Locale)
	mux.HandleFunc("GET /api/v1/darkmode", api.DarkMode)
	mux.HandleFunc("POST /api/v1/darkmode", api.SetDarkMode)

	// ============================================================================
	// AUTH ROUTES (/auth/*)
	// ============================================================================

	mux.HandleFunc("GET /auth/sign-in", guest(auth.SignInPage))
	mux.HandleFunc("POST /auth/sign-in", rateLimit(guest(auth.SignIn)))
	mux.HandleFunc("GET /auth/sign-up", guest(auth.SignUpPage))
	mux.HandleFunc("POST /auth/sign-up", rateLimit(guest(auth.SignUp)))
	mux.HandleFunc("POST /auth/sign-out", user(auth.SignOut))

	// Password recovery
	mux.HandleFunc("GET /auth/recover", guest(auth.RecoverPage))
	mux.HandleFunc("POST /auth/recover", rateLimit(guest(auth.Recover)))
	mux.HandleFunc("GET /auth/recovered-reset", guest(auth.RecoveredResetPage))
	mux.HandleFunc("POST /auth/recovered-reset", rateLimit(guest(auth.RecoveredReset)))
	mux.HandleFunc("GET /auth/recovered/{token}", guest(auth.RecoveredPage))
	mux.HandleFunc("POST /auth/recovered/{token}", rateLimit(guest(auth.Recovered)))

	// Email confirmation
	mux.HandleFunc("GET /auth/confirm", auth.ConfirmQuery)
	mux.HandleFunc("GET /auth/confirm/{token}", auth.Confirm)

	// OAuth
	mux.HandleFunc("POST /auth/{provider}", rateLimit(guest(auth.Provider)))
	mux.HandleFunc("GET /auth/{provider}", auth.ProviderPage)
	mux.HandleFunc("GET /auth/google/callback", rateLimit(guest(auth.GoogleCallback)))

	// ============================================================================
	// WARP ROUTES (/warp/*)
	// ============================================================================

	mux.HandleFunc("GET /warp/sign-in", guest(warp.SignInPage))
	mux.HandleFunc("POST /warp/sign-in", rateLimit(guest(warp.SignIn)))
	mux.HandleFunc("POST /warp/sign-out", admin(warp.SignOut))
	mux.HandleFunc("GET /warp", admin(warp.Dashboard))

	// Posts
	mux.HandleFunc("GET /warp/posts", admin(warp.Posts))
	mux.HandleFunc("GET /warp/posts/new", admin(warp.NewPostPage))
	mux.HandleFunc("POST /warp/posts/new", admin(warp.NewPost))
	mux.HandleFunc("GET /warp/posts/{id}/show", admin(warp.ShowPost))
	mux.HandleFunc("GET /warp/posts/{id}/edit", admin(warp.EditPostPage))
	mux.HandleFunc("POST /warp/posts/{id}/edit", admin(warp.EditPost))

	// Categories
	mux.HandleFunc("GET /warp/categories", admin(warp.Categories))
	mux.HandleFunc("GET /warp/categories/new", admin(warp.NewCategoryPage))
	mux.HandleFunc("POST /warp/categories/new", admin(warp.NewCategory))
	mux.HandleFunc("GET /warp/categories/{id}/show", admin(warp.ShowCategory))
	mux.HandleFunc("GET /warp/categories/{id}/edit", admin(warp.EditCategoryPage))
	mux.HandleFunc("POST /warp/categories/{id}/edit", admin(warp.EditCategory))

	// Pages
	mux.HandleFunc("GET /warp/pages", admin(warp.Pages))
	mux.HandleFunc("GET /warp/pages/new", admin(warp.NewPagePage))
	mux.HandleFunc("POST /warp/pages/new", admin(warp.NewPage))
	mux.HandleFunc("GET /warp/pages/{id}/show", admin(warp.ShowPage))
	mux.HandleFunc("GET /warp/pages/{id}/edit", admin(warp.EditPagePage))
	mux.HandleFunc("POST /warp/pages/{id}/edit", admin(warp.EditPage))

	// Files
	mux.HandleFunc("GET /warp/files", admin(warp.Files))
	mux.HandleFunc("GET /warp/files/new", admin(warp.NewFilePage))
	mux.HandleFunc("POST /warp/files/new", admin(warp.NewFile))
	mux.HandleFunc("GET /warp/files/{id}/show", admin(warp.ShowFile))
	mux.HandleFunc("GET /warp/files/{id}/edit", admin(warp.EditFilePage))
	mux.HandleFunc("POST /warp/files/{id}/edit", admin(warp.EditFile))
	mux.HandleFunc("GET /warp/files/{id}/delete", admin(warp.DeleteFilePage))
	mux.HandleFunc("POST /warp/files/{id}/delete", admin(warp.DeleteFile))

	// Accounts
	mux.HandleFunc("GET /warp/users", admin(warp.Users))
	mux.HandleFunc("GET /warp/users/{id}/show", admin(warp.ShowUser))
	mux.HandleFunc("GET /warp/admins", admin(warp.Admins))
	mux.HandleFunc("GET /warp/admins/new", admin(warp.NewAdminPage))
	mux.HandleFunc("POST /warp/admins/new", admin(warp.NewAdmin))
	mux.HandleFunc("GET /warp/admins/{id}/show", admin(warp.ShowAdmin))
	mux.HandleFunc("GET /warp/admins/{id}/edit", admin(warp.EditAdminPage))
	mux.HandleFunc("POST /warp/admins/{id}/edit", admin(warp.EditAdmin))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404
	mux.HandleFunc("/{path...}", public.NotFound)

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestContext(app.Cfg), // first: SecurityHeaders reads the S3 endpoint
		middleware.ClientIP,
		middleware.NonceMiddleware, // Must be before SecurityHeaders
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.MaxBodySize(handler.MaxRequestBody),
		middleware.Session(app.Sessions),
		middleware.LoadPrincipal(app.Authenticator),
		middleware.Locale(app.Cfg.DefaultLocale),
		middleware.CSRFProtection,
	)
}
