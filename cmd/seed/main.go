package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"virtual-attendant-be/internal/mapper"
	"virtual-attendant-be/internal/repository/unitofwork"
	"virtual-attendant-be/pkg/catalog"
	"virtual-attendant-be/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	password := flag.String("hash-password", "", "print the bcrypt hash for ADMIN_PASSWORD_HASH and exit")
	flag.Parse()

	if *password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		fmt.Println(string(hash))
		return
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("Seeding built-in intentions...")

	// stored copies become editable from the admin API
	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork()
	if err := uow.Begin(ctx); err != nil {
		log.Fatalf("Error: Failed to start transaction: %v", err)
	}
	repo := uow.IntentionRepository()
	m := mapper.NewIntentionMapper()
	for _, in := range catalog.DefaultIntentions() {
		if err := repo.Upsert(ctx, m.FromDomain(in)); err != nil {
			_ = uow.Rollback()
			log.Fatalf("Error: Failed to seed %s: %v", in.ID, err)
		}
		log.Printf("Seeded %s", in.ID)
	}
	if err := uow.Commit(); err != nil {
		log.Fatalf("Error: Commit failed: %v", err)
	}
	log.Println("Success: Seeding completed.")
}
