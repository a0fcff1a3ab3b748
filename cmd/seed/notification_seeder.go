package main

import (
	"log"

	"invoiceflow-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedNotificationTypes populates the database with default notification types.
// Type codes mirror the billing event catalog so the notification worker
// can resolve a template directly from the NATS subject.
func SeedNotificationTypes(db *gorm.DB) {
	types := []model.NotificationType{
		{
			Code:        "invoice.created",
			DisplayName: "Invoice Issued",
			Template:    "Invoice {invoice_number} for {total_amount} is due {due_date}",
			TargetType:  "CUSTOMER",
			Priority:    "MEDIUM",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
		},
		{
			Code:        "invoice.paid",
			DisplayName: "Invoice Paid",
			Template:    "Invoice {invoice_number} has been paid in full",
			TargetType:  "BOTH",
			Priority:    "MEDIUM",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
		},
		{
			Code:        "invoice.overdue",
			DisplayName: "Invoice Overdue",
			Template:    "Invoice {invoice_number} is past due ({total_amount})",
			TargetType:  "BOTH",
			Priority:    "HIGH",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
		},
		{
			Code:        "invoice.cancelled",
			DisplayName: "Invoice Cancelled",
			Template:    "Invoice {invoice_number} was cancelled: {cancellation_reason}",
			TargetType:  "BOTH",
			Priority:    "MEDIUM",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "payment.completed",
			DisplayName: "Payment Received",
			Template:    "Payment {reference} of {amount} confirmed for invoice {invoice_number}",
			TargetType:  "BOTH",
			Priority:    "MEDIUM",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "payment.failed",
			DisplayName: "Payment Failed",
			Template:    "Payment {reference} for invoice {invoice_number} failed",
			TargetType:  "CUSTOMER",
			Priority:    "HIGH",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
		},
		{
			Code:        "refund.completed",
			DisplayName: "Refund Issued",
			Template:    "Refund {reference} of {amount} issued for invoice {invoice_number}",
			TargetType:  "BOTH",
			Priority:    "MEDIUM",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
		},
	}

	for _, t := range types {
		var existing model.NotificationType
		if err := db.Where("code = ?", t.Code).First(&existing).Error; err == nil {
			log.Printf("Notification type '%s' already exists, skipping...", t.Code)
			continue
		}

		if err := db.Create(&t).Error; err != nil {
			log.Printf("Error creating notification type '%s': %v", t.Code, err)
		} else {
			log.Printf("Created notification type: %s", t.Code)
		}
	}
}
