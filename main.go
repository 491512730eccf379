package main

import (
	"fmt"
	"log"
	"os"

	"github.com/jeyapragash1/Smart-Citizen-sub000/routes"
	"github.com/jeyapragash1/Smart-Citizen-sub000/storage"
	"github.com/jeyapragash1/Smart-Citizen-sub000/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	storage.InitializeDB()
	storage.InitializeRedis()
	storage.InitializeDocuments()

	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	resetTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("EMAIL_TOKEN_SECRET")))
	resetTokenVerifier.WithDefaultBlocklist()
	resetTokenVerifierMiddleware := resetTokenVerifier.Verify(func() interface{} {
		return new(utils.ForgotPasswordToken)
	})

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	user := app.Party("/api/user")
	{
		user.Post("/register/otp", routes.RequestRegistrationOTP)
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/forgotpassword", routes.ForgotPassword)
		user.Post("/resetpassword", resetTokenVerifierMiddleware, routes.ResetPassword)
		user.Get("/profile", accessTokenVerifierMiddleware, routes.GetProfile)
		user.Patch("/profile", accessTokenVerifierMiddleware, routes.UpdateProfile)
	}

	applications := app.Party("/api/applications", accessTokenVerifierMiddleware)
	{
		applications.Post("/", routes.SubmitApplication)
		applications.Get("/mine", routes.GetMyApplications)
		applications.Get("/{id:uint}", routes.GetApplication)
		applications.Delete("/{id:uint}", routes.WithdrawApplication)
		applications.Put("/{id:uint}/approve", utils.OfficerOnlyMiddleware, routes.DecideApplication)
	}

	approvals := app.Party("/api/approvals", accessTokenVerifierMiddleware, utils.OfficerOnlyMiddleware)
	{
		approvals.Get("/pending", routes.GetPendingApprovals)
		approvals.Get("/{id:uint}", routes.GetApprovalDetail)
	}

	certificates := app.Party("/api/certificates")
	{
		certificates.Get("/mine", accessTokenVerifierMiddleware, routes.GetMyCertificates)
		certificates.Get("/{id:uint}/download", accessTokenVerifierMiddleware, routes.DownloadCertificate)
		certificates.Get("/verify/{serial:string}", routes.VerifyCertificate)
	}

	villagers := app.Party("/api/villagers", accessTokenVerifierMiddleware, utils.OfficerOnlyMiddleware)
	{
		villagers.Get("/", routes.ListVillagers)
		villagers.Post("/", routes.CreateVillager)
		villagers.Put("/{id:uint}", routes.UpdateVillager)
		villagers.Delete("/{id:uint}", routes.DeleteVillager)
	}

	divisions := app.Party("/api/divisions")
	{
		divisions.Get("/", routes.ListDivisions)
		divisions.Post("/", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.CreateDivision)
		divisions.Put("/{id:uint}", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.UpdateDivision)
		divisions.Post("/{id:uint}/gn", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.CreateGNDivision)
		divisions.Delete("/gn/{gnID:uint}", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.DeleteGNDivision)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Post("/officers", routes.AdminCreateOfficer)
		admin.Patch("/users/{id:uint}/role", utils.SuperAdminOnlyMiddleware, routes.AdminChangeUserRole)
		admin.Post("/users/{id:uint}/verify", routes.AdminVerifyUser)
		admin.Get("/orders", routes.AdminListOrders)
		admin.Patch("/orders/{id:uint}/status", routes.AdminUpdateOrderStatus)
		admin.Get("/feedback", routes.AdminListFeedback)
		admin.Get("/stats", routes.AdminStats)
		admin.Get("/activity", routes.AdminActivity)
	}

	products := app.Party("/api/products")
	{
		products.Get("/", routes.ListProducts)
		products.Get("/{id:uint}", routes.GetProduct)
		products.Post("/", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.AdminCreateProduct)
		products.Put("/{id:uint}", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.AdminUpdateProduct)
		products.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.AdminDeleteProduct)
	}

	orders := app.Party("/api/orders", accessTokenVerifierMiddleware)
	{
		orders.Post("/", routes.CreateOrder)
		orders.Get("/mine", routes.GetMyOrders)
		orders.Post("/{id:uint}/cancel", routes.CancelOrder)
	}

	conversation := app.Party("/api/conversation", accessTokenVerifierMiddleware)
	{
		conversation.Post("/", routes.StartConversation)
		conversation.Get("/mine", routes.GetMyConversations)
	}

	messages := app.Party("/api/messages", accessTokenVerifierMiddleware)
	{
		messages.Post("/", routes.CreateMessage)
		messages.Get("/", routes.ListMessages)
		messages.Post("/read", routes.MarkMessagesRead)
	}

	notifications := app.Party("/api/notifications", accessTokenVerifierMiddleware)
	{
		notifications.Get("/", routes.GetMyNotifications)
		notifications.Get("/ws", routes.StreamNotifications)
		notifications.Patch("/{id:uint}/read", routes.MarkNotificationRead)
		notifications.Post("/read-all", routes.MarkAllNotificationsRead)
	}

	permits := app.Party("/api/permits", accessTokenVerifierMiddleware)
	{
		permits.Post("/", utils.OfficerOnlyMiddleware, routes.IssuePermit)
		permits.Get("/mine", routes.GetMyPermits)
		permits.Post("/{id:uint}/revoke", utils.OfficerOnlyMiddleware, routes.RevokePermit)
	}

	documents := app.Party("/api/documents", accessTokenVerifierMiddleware)
	{
		documents.Post("/", routes.UploadAttachment)
	}

	app.Post("/api/feedback", accessTokenVerifierMiddleware, routes.CreateFeedback)
	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
