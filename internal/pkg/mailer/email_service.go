package mailer

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendOverdueReminder(toEmail, customerName, invoiceNumber string, amountDue decimal.Decimal, currency, dueDate string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendOverdueReminder(toEmail, customerName, invoiceNumber string, amountDue decimal.Decimal, currency, dueDate string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Invoice %s is overdue", invoiceNumber))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Payment Reminder</h2>
			<p>Hi %s,</p>
			<p>Invoice <strong>%s</strong> was due on %s and is still unpaid.</p>
			<h1 style="color: #D32F2F;">%s %s</h1>
			<p>Please settle the outstanding balance to avoid service interruption.</p>
			<p>If you already paid, you can ignore this email.</p>
		</div>
	`, customerName, invoiceNumber, dueDate, amountDue.StringFixed(2), currency)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send overdue reminder to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Overdue reminder for %s sent to %s\n", invoiceNumber, toEmail)
	return nil
}
