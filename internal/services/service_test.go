package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/oliverdacre/travel-together/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database per test. The single
// connection serializes transactions the way row locks do in production.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.TripProposal{},
		&models.TripProposalParticipation{},
		&models.Meetup{},
		&models.Message{},
		&models.Image{},
		&models.UserRating{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        name + "@example.com",
		Name:         name,
		PasswordHash: "not-a-real-hash",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return user
}

func baseProposalInput() CreateProposalInput {
	start := time.Now().AddDate(0, 1, 0)
	return CreateProposalInput{
		Title:           "Lisbon getaway",
		Description:     "A week of food and fado",
		Destination:     "Lisbon",
		StartDate:       start,
		EndDate:         start.AddDate(0, 0, 7),
		MaxParticipants: 4,
	}
}

func createProposal(t *testing.T, db *gorm.DB, creatorID uuid.UUID, mutate func(*CreateProposalInput)) *models.TripProposal {
	t.Helper()
	in := baseProposalInput()
	if mutate != nil {
		mutate(&in)
	}
	proposal, err := NewProposalService(db).Create(creatorID, in)
	if err != nil {
		t.Fatalf("create proposal: %v", err)
	}
	return proposal
}

func joinProposal(t *testing.T, db *gorm.DB, userID, proposalID uuid.UUID) {
	t.Helper()
	if _, _, err := NewParticipationService(db).Join(userID, proposalID); err != nil {
		t.Fatalf("join proposal: %v", err)
	}
}

func reloadProposal(t *testing.T, db *gorm.DB, id uuid.UUID) *models.TripProposal {
	t.Helper()
	var proposal models.TripProposal
	if err := db.First(&proposal, "id = ?", id).Error; err != nil {
		t.Fatalf("reload proposal: %v", err)
	}
	return &proposal
}
