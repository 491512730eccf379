package services

import (
	"errors"
	"testing"

	"github.com/jeyapragash1/Smart-Citizen-sub000/models"
	"github.com/jeyapragash1/Smart-Citizen-sub000/storage"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestNextStage(t *testing.T) {
	cases := []struct {
		stage string
		next  string
		err   error
	}{
		{models.StageGS, models.StageDS, nil},
		{models.StageDS, models.StageDistrict, nil},
		{models.StageDistrict, models.StageMinistry, nil},
		{models.StageMinistry, models.StageCompleted, nil},
		{models.StageCompleted, "", ErrTerminalStage},
		{"bogus", "", ErrUnknownStage},
	}

	for _, c := range cases {
		next, err := NextStage(c.stage)
		if !errors.Is(err, c.err) {
			t.Fatalf("NextStage(%q): expected error %v, got %v", c.stage, c.err, err)
		}
		if next != c.next {
			t.Fatalf("NextStage(%q): expected %q, got %q", c.stage, c.next, next)
		}
	}
}

func TestStageRoleMapping(t *testing.T) {
	for _, stage := range []string{models.StageGS, models.StageDS, models.StageDistrict, models.StageMinistry} {
		role, err := RoleForStage(stage)
		if err != nil {
			t.Fatalf("RoleForStage(%q): %v", stage, err)
		}
		if StageForRole(role) != stage {
			t.Fatalf("StageForRole(RoleForStage(%q)) != %q", stage, stage)
		}
	}

	if _, err := RoleForStage(models.StageCompleted); !errors.Is(err, ErrUnknownStage) {
		t.Fatalf("completed stage must have no acting role")
	}
	if StageForRole(models.RoleCitizen) != "" {
		t.Fatalf("citizens must not map to a stage")
	}

	for _, stage := range []string{models.StageGS, models.StageDS, models.StageDistrict, models.StageMinistry, models.StageCompleted} {
		if !ValidStage(stage) {
			t.Fatalf("ValidStage(%q) = false", stage)
		}
	}
	if ValidStage("bogus") {
		t.Fatalf("ValidStage accepted an unknown stage")
	}
}

func setupWorkflowDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Division{}, &models.GNDivision{}, &models.User{},
		&models.Application{}, &models.ApprovalAction{},
		&models.Certificate{}, &models.Notification{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	storage.DB = db
	return db
}

func seedApplication(t *testing.T, db *gorm.DB) *models.Application {
	t.Helper()
	division := models.Division{Name: "Jaffna DS", Code: "J/DS", District: "Jaffna"}
	db.Create(&division)
	gn := models.GNDivision{DivisionID: division.ID, Name: "Nallur", Code: "J/100"}
	db.Create(&gn)

	citizen := models.User{FullName: "Citizen", NIC: "912345678V", Role: models.RoleCitizen, GNDivisionID: &gn.ID}
	db.Create(&citizen)

	app := models.Application{
		ServiceType:  "Birth Certificate",
		ApplicantID:  citizen.ID,
		GNDivisionID: gn.ID,
		Status:       models.StatusPending,
		CurrentStage: models.StageGS,
	}
	db.Create(&app)
	app.Applicant = citizen
	return &app
}

func officerFor(t *testing.T, db *gorm.DB, role string, gnID *uint) *models.User {
	t.Helper()
	var officer models.User
	if err := db.Where("role = ?", role).First(&officer).Error; err == nil {
		return &officer
	}
	officer = models.User{FullName: role + " officer", NIC: roleNIC(role), Role: role, GNDivisionID: gnID}
	db.Create(&officer)
	return &officer
}

func roleNIC(role string) string {
	// Distinct valid 12-digit NICs per role.
	switch role {
	case models.RoleGS:
		return "199011111111"
	case models.RoleDS:
		return "199022222222"
	case models.RoleDistrict:
		return "199033333333"
	default:
		return "199044444444"
	}
}

func TestDecideFullApprovalPath(t *testing.T) {
	db := setupWorkflowDB(t)
	app := seedApplication(t, db)

	order := []string{models.RoleGS, models.RoleDS, models.RoleDistrict, models.RoleMinistry}
	for i, role := range order {
		officer := officerFor(t, db, role, &app.GNDivisionID)
		decision, err := Decide(db, app, officer, models.ActionApproved, "")
		if err != nil {
			t.Fatalf("stage %d (%s): unexpected error %v", i, role, err)
		}
		if decision.Entry.Comments != "Approved" {
			t.Fatalf("empty comments must default to \"Approved\", got %q", decision.Entry.Comments)
		}
	}

	if app.CurrentStage != models.StageCompleted {
		t.Fatalf("expected completed stage, got %s", app.CurrentStage)
	}
	if app.Status != models.StatusCompleted {
		t.Fatalf("expected Completed status, got %s", app.Status)
	}

	var chain []models.ApprovalAction
	db.Where("application_id = ?", app.ID).Order("created_at ASC").Find(&chain)
	if len(chain) != 4 {
		t.Fatalf("expected 4 chain entries, got %d", len(chain))
	}
	for i, stage := range []string{models.StageGS, models.StageDS, models.StageDistrict, models.StageMinistry} {
		if chain[i].Stage != stage {
			t.Fatalf("chain entry %d: expected stage %s, got %s", i, stage, chain[i].Stage)
		}
	}

	// Completed applications accept no further decisions.
	ministry := officerFor(t, db, models.RoleMinistry, nil)
	if _, err := Decide(db, app, ministry, models.ActionApproved, "again"); !errors.Is(err, ErrNotPending) && !errors.Is(err, ErrTerminalStage) {
		t.Fatalf("expected terminal error, got %v", err)
	}
}

func TestDecideRejectIsTerminal(t *testing.T) {
	db := setupWorkflowDB(t)
	app := seedApplication(t, db)

	gs := officerFor(t, db, models.RoleGS, &app.GNDivisionID)
	if _, err := Decide(db, app, gs, models.ActionApproved, "forwarded"); err != nil {
		t.Fatalf("gs approve failed: %v", err)
	}

	ds := officerFor(t, db, models.RoleDS, nil)
	decision, err := Decide(db, app, ds, models.ActionRejected, "incomplete documents")
	if err != nil {
		t.Fatalf("ds reject failed: %v", err)
	}
	if decision.NewStatus != models.StatusRejected {
		t.Fatalf("expected Rejected status, got %s", decision.NewStatus)
	}
	// Stage freezes where the rejection happened.
	if app.CurrentStage != models.StageDS {
		t.Fatalf("expected stage frozen at ds, got %s", app.CurrentStage)
	}

	district := officerFor(t, db, models.RoleDistrict, nil)
	if _, err := Decide(db, app, district, models.ActionApproved, "resume"); !errors.Is(err, ErrNotPending) {
		t.Fatalf("rejected application must be terminal, got %v", err)
	}
}

func TestDecideGuards(t *testing.T) {
	db := setupWorkflowDB(t)
	app := seedApplication(t, db)

	// Wrong role for the current stage.
	ds := officerFor(t, db, models.RoleDS, nil)
	if _, err := Decide(db, app, ds, models.ActionApproved, "x"); !errors.Is(err, ErrWrongOfficer) {
		t.Fatalf("expected ErrWrongOfficer, got %v", err)
	}

	gs := officerFor(t, db, models.RoleGS, &app.GNDivisionID)

	// Rejection without comments is blocked.
	if _, err := Decide(db, app, gs, models.ActionRejected, ""); !errors.Is(err, ErrCommentsRequired) {
		t.Fatalf("expected ErrCommentsRequired, got %v", err)
	}

	// Unknown action.
	if _, err := Decide(db, app, gs, "Maybe", "x"); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}

	// Nothing above may have touched the chain.
	var count int64
	db.Model(&models.ApprovalAction{}).Where("application_id = ?", app.ID).Count(&count)
	if count != 0 {
		t.Fatalf("failed guards must not append chain entries, found %d", count)
	}
}
