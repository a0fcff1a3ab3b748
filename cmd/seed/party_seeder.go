package main

import (
	"log"

	"invoiceflow-be/internal/model"

	"gorm.io/gorm"
)

// SeedDemoParties inserts a demo provider and customer for local development.
func SeedDemoParties(db *gorm.DB) {
	provider := model.ServiceProvider{
		CompanyName: "Acme Utilities",
		Email:       "billing@acme-utilities.test",
		Phone:       "+1-555-0100",
		Status:      "active",
	}

	var existingProvider model.ServiceProvider
	if err := db.Where("email = ?", provider.Email).First(&existingProvider).Error; err == nil {
		log.Printf("Provider '%s' already exists, skipping...", provider.Email)
	} else if err := db.Create(&provider).Error; err != nil {
		log.Printf("Error creating provider: %v", err)
	} else {
		log.Printf("Created provider: %s (%s)", provider.CompanyName, provider.Id)
	}

	customer := model.Customer{
		FullName: "Jane Doe",
		Email:    "jane.doe@example.test",
		Phone:    "+1-555-0101",
		Status:   "active",
	}

	var existingCustomer model.Customer
	if err := db.Where("email = ?", customer.Email).First(&existingCustomer).Error; err == nil {
		log.Printf("Customer '%s' already exists, skipping...", customer.Email)
	} else if err := db.Create(&customer).Error; err != nil {
		log.Printf("Error creating customer: %v", err)
	} else {
		log.Printf("Created customer: %s (%s)", customer.FullName, customer.Id)
	}
}
