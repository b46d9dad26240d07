package main

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"gadgetry/internal/codename"
	"gadgetry/internal/config"
	"gadgetry/internal/db"
	"gadgetry/internal/model"
	"gadgetry/internal/repository"
)

// seedGadgets are the demo inventory items created by the seed script.
var seedGadgets = []struct {
	name   string
	status model.GadgetStatus
}{
	{"Grappling Hook Watch", model.GadgetStatusAvailable},
	{"Exploding Chewing Gum", model.GadgetStatusAvailable},
	{"Laser Cufflinks", model.GadgetStatusDeployed},
	{"Jetpack Briefcase", model.GadgetStatusDecommissioned},
	{"Micro Drone Swarm", model.GadgetStatusAvailable},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Gadget{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	gadgetRepo := repository.NewGadgetRepository(gormDB)

	// Demo login: agent@example.com / secret123
	if _, err := userRepo.FindByEmail(ctx, "agent@example.com"); err != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), 10)
		if err != nil {
			log.Fatalf("Failed to hash demo password: %v", err)
		}
		user := &model.User{
			Name:         "Demo Agent",
			Email:        "agent@example.com",
			PasswordHash: string(hash),
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create demo user: %v", err)
		}
		log.Printf("Created demo user %s", user.Email)
	} else {
		log.Println("Demo user already exists, skipping")
	}

	codenames := codename.NewGenerator(gadgetRepo.CodenameExists)

	created := 0
	for _, seed := range seedGadgets {
		cn, err := codenames.Generate(ctx)
		if err != nil {
			log.Fatalf("Failed to generate codename: %v", err)
		}

		gadget := &model.Gadget{
			Name:     seed.name,
			Codename: cn,
			Status:   seed.status,
		}
		if seed.status == model.GadgetStatusDecommissioned {
			now := time.Now()
			gadget.DecommissionedAt = &now
		}

		if err := gadgetRepo.Create(ctx, gadget); err != nil {
			log.Printf("Skipping gadget %q: %v", seed.name, err)
			continue
		}
		created++
		log.Printf("Created gadget %q (%s, %s)", gadget.Name, gadget.Codename, gadget.Status)
	}

	log.Printf("Seed complete: %d gadgets created", created)
}
