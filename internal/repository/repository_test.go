package repository

import (
	"errors"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"block-builder-backend/internal/authorization"
	"block-builder-backend/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	// a single connection keeps the in-memory database alive for the whole test
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&models.User{}, &models.BlockConfig{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func strPtr(v string) *string { return &v }

func TestBlockConfigRepositoryRoundTrip(t *testing.T) {
	repo := NewBlockConfigRepository(openTestDB(t))

	cfg := models.BlockConfigData{
		Title: "Pro Plan",
		Colors: models.BlockColors{
			Background:  "#fff",
			AccentColor: "#06c",
		},
		Content: models.BlockContent{
			Items:  []models.BlockItem{{ID: "a", Content: "Unlimited projects", Icon: "check"}},
			Button: &models.BlockButton{Text: "Buy"},
		},
	}
	block := &models.BlockConfig{
		UserID:       7,
		Name:         "Pricing",
		TemplateType: models.TemplatePricingCard,
		Config:       datatypes.NewJSONType(cfg),
	}
	if err := repo.Create(block); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if block.ID == 0 {
		t.Fatalf("expected id to be assigned")
	}

	stored, err := repo.GetByID(block.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	data := stored.Config.Data()
	if data.Title != "Pro Plan" || data.Colors.AccentColor != "#06c" {
		t.Fatalf("unexpected config after round trip: %+v", data)
	}
	if len(data.Content.Items) != 1 || data.Content.Items[0].Icon != "check" {
		t.Fatalf("expected items to survive round trip, got %+v", data.Content.Items)
	}
	if data.Content.Button == nil || data.Content.Button.Text != "Buy" {
		t.Fatalf("expected button to survive round trip, got %+v", data.Content.Button)
	}

	stored.Name = "Pricing v2"
	stored.GeneratedHTML = "<div></div>"
	if err := repo.Update(stored); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	updated, err := repo.GetByID(block.ID)
	if err != nil {
		t.Fatalf("GetByID after update returned error: %v", err)
	}
	if updated.Name != "Pricing v2" || updated.GeneratedHTML != "<div></div>" {
		t.Fatalf("unexpected block after update: %+v", updated)
	}

	if err := repo.Delete(block.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := repo.GetByID(block.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found after delete, got %v", err)
	}
}

func TestBlockConfigRepositoryGetByUser(t *testing.T) {
	repo := NewBlockConfigRepository(openTestDB(t))

	for _, block := range []*models.BlockConfig{
		{UserID: 1, Name: "first", TemplateType: models.TemplateCustom},
		{UserID: 2, Name: "other", TemplateType: models.TemplateCustom},
		{UserID: 1, Name: "second", TemplateType: models.TemplateHeroSection},
	} {
		if err := repo.Create(block); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	blocks, err := repo.GetByUser(1)
	if err != nil {
		t.Fatalf("GetByUser returned error: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	for _, block := range blocks {
		if block.UserID != 1 {
			t.Fatalf("unexpected block for another user: %+v", block)
		}
	}

	count, err := repo.CountByUser(2)
	if err != nil {
		t.Fatalf("CountByUser returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 block for user 2, got %d", count)
	}
}

func TestUserRepositoryUpsert(t *testing.T) {
	repo := NewUserRepository(openTestDB(t))

	created, err := repo.Upsert(models.UserIdentity{
		OpenID: "open-1",
		Name:   strPtr("Ada"),
		Email:  strPtr("ada@example.com"),
	})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if created.ID == 0 || created.Role != authorization.RoleUser {
		t.Fatalf("unexpected created user: %+v", created)
	}
	if created.LastSignedIn.IsZero() {
		t.Fatalf("expected last sign-in to be set")
	}

	admin := authorization.RoleAdmin
	updated, err := repo.Upsert(models.UserIdentity{
		OpenID: "open-1",
		Name:   strPtr("Ada Lovelace"),
		Role:   &admin,
	})
	if err != nil {
		t.Fatalf("Upsert update returned error: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("expected same user id, got %d and %d", created.ID, updated.ID)
	}
	if updated.Name == nil || *updated.Name != "Ada Lovelace" {
		t.Fatalf("expected name to be updated, got %v", updated.Name)
	}
	if updated.Email == nil || *updated.Email != "ada@example.com" {
		t.Fatalf("expected email to be preserved, got %v", updated.Email)
	}
	if updated.Role != authorization.RoleAdmin {
		t.Fatalf("expected admin role, got %s", updated.Role)
	}

	byID, err := repo.GetByID(created.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if byID.OpenID != "open-1" {
		t.Fatalf("expected open id open-1, got %s", byID.OpenID)
	}

	if _, err := repo.GetByID(created.ID + 100); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}
