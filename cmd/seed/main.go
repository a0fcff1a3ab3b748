package main

import (
	"log"
	"os"

	"invoiceflow-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("=== InvoiceFlow Seeder ===")

	color.Yellow("Seeding Notification Types...")
	SeedNotificationTypes(db)

	color.Yellow("Seeding Demo Parties...")
	SeedDemoParties(db)

	color.Green("✅ Seeding completed!")
}
