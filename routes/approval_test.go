package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/jeyapragash1/Smart-Citizen-sub000/models"
	"github.com/jeyapragash1/Smart-Citizen-sub000/storage"
	"github.com/jeyapragash1/Smart-Citizen-sub000/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// buildApprovalApp creates a minimal Iris app with the approval routes and
// JWT verifier backed by an in-memory database.
func buildApprovalApp(t *testing.T) *iris.Application {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Division{}, &models.GNDivision{}, &models.User{},
		&models.Application{}, &models.ApprovalAction{},
		&models.Certificate{}, &models.Notification{}, &models.AuditLog{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	storage.DB = db

	app := iris.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	applications := app.Party("/api/applications", accessTokenVerifierMiddleware)
	{
		applications.Put("/{id:uint}/approve", utils.OfficerOnlyMiddleware, DecideApplication)
	}
	approvals := app.Party("/api/approvals", accessTokenVerifierMiddleware, utils.OfficerOnlyMiddleware)
	{
		approvals.Get("/pending", GetPendingApprovals)
	}

	if err := app.Build(); err != nil {
		t.Fatalf("failed to build app: %v", err)
	}
	return app
}

func signAccessToken(t *testing.T, claims utils.AccessToken) string {
	t.Helper()
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, err := signer.Sign(claims)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return string(token)
}

func seedPendingApplication(t *testing.T) (*models.Application, *models.User) {
	t.Helper()
	division := models.Division{Name: "Kandy DS", Code: "K/DS", District: "Kandy"}
	storage.DB.Create(&division)
	gn := models.GNDivision{DivisionID: division.ID, Name: "Peradeniya", Code: "K/210"}
	storage.DB.Create(&gn)

	citizen := models.User{FullName: "A Citizen", NIC: "912345678V", Role: models.RoleCitizen, GNDivisionID: &gn.ID}
	storage.DB.Create(&citizen)
	gs := models.User{FullName: "GS Officer", NIC: "199011111111", Role: models.RoleGS, GNDivisionID: &gn.ID}
	storage.DB.Create(&gs)

	app := models.Application{
		ServiceType:  "Birth Certificate",
		ApplicantID:  citizen.ID,
		GNDivisionID: gn.ID,
		Status:       models.StatusPending,
		CurrentStage: models.StageGS,
	}
	storage.DB.Create(&app)
	return &app, &gs
}

func TestDecideApplicationRBAC(t *testing.T) {
	app := buildApprovalApp(t)
	pending, _ := seedPendingApplication(t)

	body := `{"action":"Approved","comments":"Verified"}`

	// No token -> rejected by the verifier.
	req := httptest.NewRequest(http.MethodPut, "/api/applications/1/approve", strings.NewReader(body))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}

	// Citizen token -> 403 from OfficerOnlyMiddleware.
	req2 := httptest.NewRequest(http.MethodPut, "/api/applications/1/approve", strings.NewReader(body))
	req2.Header.Set("Authorization", "Bearer "+signAccessToken(t, utils.AccessToken{ID: 99, Role: models.RoleCitizen}))
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for citizen role, got %d", resp2.Code)
	}

	// Chain untouched by rejected requests.
	var count int64
	storage.DB.Model(&models.ApprovalAction{}).Where("application_id = ?", pending.ID).Count(&count)
	if count != 0 {
		t.Fatalf("expected empty chain, found %d entries", count)
	}
}

func TestDecideApplicationApprove(t *testing.T) {
	app := buildApprovalApp(t)
	pending, gs := seedPendingApplication(t)

	req := httptest.NewRequest(http.MethodPut, "/api/applications/1/approve",
		strings.NewReader(`{"action":"Approved","comments":"Verified"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signAccessToken(t, utils.AccessToken{ID: gs.ID, NIC: gs.NIC, Role: models.RoleGS}))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var updated models.Application
	storage.DB.First(&updated, pending.ID)
	if updated.CurrentStage != models.StageDS {
		t.Fatalf("expected stage ds after GS approval, got %s", updated.CurrentStage)
	}
	if updated.Status != models.StatusPending {
		t.Fatalf("expected status still Pending, got %s", updated.Status)
	}

	var chain []models.ApprovalAction
	storage.DB.Where("application_id = ?", pending.ID).Find(&chain)
	if len(chain) != 1 {
		t.Fatalf("expected exactly one chain entry, got %d", len(chain))
	}
	if chain[0].Action != models.ActionApproved || chain[0].Comments != "Verified" || chain[0].Stage != models.StageGS {
		t.Fatalf("unexpected chain entry: %+v", chain[0])
	}
}

func TestDecideApplicationRejectNeedsComments(t *testing.T) {
	app := buildApprovalApp(t)
	pending, gs := seedPendingApplication(t)

	req := httptest.NewRequest(http.MethodPut, "/api/applications/1/approve",
		strings.NewReader(`{"action":"Rejected","comments":""}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signAccessToken(t, utils.AccessToken{ID: gs.ID, NIC: gs.NIC, Role: models.RoleGS}))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for reject without comments, got %d", resp.Code)
	}

	var updated models.Application
	storage.DB.First(&updated, pending.ID)
	if updated.Status != models.StatusPending || updated.CurrentStage != models.StageGS {
		t.Fatalf("failed reject must not move the application: %s/%s", updated.Status, updated.CurrentStage)
	}
}

func TestGetPendingApprovalsScopedToStage(t *testing.T) {
	app := buildApprovalApp(t)
	_, gs := seedPendingApplication(t)

	// The GS officer sees the freshly submitted application.
	req := httptest.NewRequest(http.MethodGet, "/api/approvals/pending", nil)
	req.Header.Set("Authorization", "Bearer "+signAccessToken(t, utils.AccessToken{ID: gs.ID, NIC: gs.NIC, Role: models.RoleGS}))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for gs queue, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "Birth Certificate") {
		t.Fatalf("expected application in gs queue, got %s", resp.Body.String())
	}

	// A DS officer's queue is empty: the application has not reached ds.
	ds := models.User{FullName: "DS Officer", NIC: "199022222222", Role: models.RoleDS}
	storage.DB.Create(&ds)

	req2 := httptest.NewRequest(http.MethodGet, "/api/approvals/pending", nil)
	req2.Header.Set("Authorization", "Bearer "+signAccessToken(t, utils.AccessToken{ID: ds.ID, NIC: ds.NIC, Role: models.RoleDS}))
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusOK {
		t.Fatalf("expected 200 for ds queue, got %d", resp2.Code)
	}
	if strings.Contains(resp2.Body.String(), "Birth Certificate") {
		t.Fatalf("ds queue must not contain a gs-stage application")
	}
}
