package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"designmarket/internal/database"
	"designmarket/internal/domain"
	"designmarket/internal/modules/wallet"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "designmarket.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (children first to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM messages")
	db.Exec("DELETE FROM conversations")
	db.Exec("DELETE FROM wallet_transactions")
	db.Exec("DELETE FROM wallets")
	db.Exec("DELETE FROM proposals")
	db.Exec("DELETE FROM design_requests")
	db.Exec("DELETE FROM users")

	ctx := context.Background()

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@designmarket.io",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Admin",
	}
	db.Create(&admin)
	log.Println("Admin created: admin@designmarket.io / admin123")

	clients := []domain.User{}
	for i, email := range []string{"alice@example.com", "bob@example.com"} {
		hash, _ := bcrypt.GenerateFromPassword([]byte("client123"), bcrypt.DefaultCost)
		u := domain.User{
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleClient,
			Name:         fmt.Sprintf("Client %d", i+1),
			Phone:        fmt.Sprintf("+1 555 010 %04d", i+1),
		}
		db.Create(&u)
		clients = append(clients, u)
	}

	designers := []domain.User{}
	for i, email := range []string{"nora@studio.io", "pavel@studio.io", "mia@studio.io"} {
		hash, _ := bcrypt.GenerateFromPassword([]byte("designer123"), bcrypt.DefaultCost)
		u := domain.User{
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleDesigner,
			Name:         fmt.Sprintf("Designer %d", i+1),
			Bio:          "Interior designer with a focus on small apartments.",
		}
		db.Create(&u)
		designers = append(designers, u)
	}

	// ================== REQUESTS ==================
	log.Println("Creating design requests...")

	requests := []domain.DesignRequest{
		{
			ClientID:     clients[0].ID,
			Title:        "Scandinavian living room",
			Description:  "Light palette, lots of storage, 24 sqm.",
			RoomType:     "living_room",
			Budget:       150000,
			DurationDays: 21,
			Status:       domain.RequestPending,
		},
		{
			ClientID:     clients[0].ID,
			Title:        "Kids bedroom refresh",
			Description:  "Two kids, ages 4 and 7, need a play corner.",
			RoomType:     "bedroom",
			Budget:       80000,
			DurationDays: 14,
			Status:       domain.RequestPending,
		},
		{
			ClientID:     clients[1].ID,
			Title:        "Home office",
			Description:  "Video-call friendly backdrop, standing desk.",
			RoomType:     "office",
			Budget:       60000,
			DurationDays: 10,
			Status:       domain.RequestPending,
		},
	}
	for i := range requests {
		db.Create(&requests[i])
	}

	// ================== PROPOSALS ==================
	log.Println("Creating proposals...")

	proposals := []domain.Proposal{
		{
			RequestID:     requests[0].ID,
			DesignerID:    designers[0].ID,
			Price:         120000,
			EstimatedDays: 18,
			Description:   "Three concept boards plus a full furniture list.",
			Status:        domain.ProposalPending,
		},
		{
			RequestID:     requests[0].ID,
			DesignerID:    designers[1].ID,
			Price:         140000,
			EstimatedDays: 15,
			Description:   "Includes 3D render of the final layout.",
			Status:        domain.ProposalPending,
		},
	}
	for i := range proposals {
		db.Create(&proposals[i])
	}
	db.Model(&domain.DesignRequest{}).
		Where("id = ?", requests[0].ID).
		Update("status", domain.RequestProposalSubmitted)

	// ================== WALLETS ==================
	log.Println("Funding wallets...")

	walletService := wallet.NewService(db)
	for _, c := range clients {
		if _, _, err := walletService.Deposit(ctx, c.ID, 200000); err != nil {
			log.Fatal("wallet deposit failed:", err)
		}
	}

	log.Println("Seed finished at", time.Now().Format(time.RFC3339))
}
