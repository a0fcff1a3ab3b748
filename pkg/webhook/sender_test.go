package webhook

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSenderSendSuccess(t *testing.T) {
	body := []byte(`{"event":"invoice.paid","timestamp":"2025-03-15T12:00:00Z"}`)
	secret := "whsec_test"

	var gotEvent, gotSignature, gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEvent = r.Header.Get(HeaderEvent)
		gotSignature = r.Header.Get(HeaderSignature)
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sender := NewSender(5 * time.Second)
	status, err := sender.Send(context.Background(), srv.URL, secret, "invoice.paid", body)
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if status != http.StatusOK {
		t.Errorf("status = %d", status)
	}

	if gotEvent != "invoice.paid" {
		t.Errorf("%s = %q", HeaderEvent, gotEvent)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if string(gotBody) != string(body) {
		t.Errorf("body = %q, want exact bytes", gotBody)
	}
	// Receiver-side verification over the received bytes.
	if want := Sign(secret, gotBody); gotSignature != want {
		t.Errorf("signature = %s, want %s", gotSignature, want)
	}
}

func TestSenderOmitsSignatureWithoutSecret(t *testing.T) {
	var signaturePresent bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, signaturePresent = r.Header[HeaderSignature]
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sender := NewSender(5 * time.Second)
	status, err := sender.Send(context.Background(), srv.URL, "", "invoice.created", []byte(`{}`))
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if status != http.StatusNoContent {
		t.Errorf("status = %d, want 204 accepted as success", status)
	}
	if signaturePresent {
		t.Error("signature header present without a secret")
	}
}

func TestSenderNon2xxIsDeliveryError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	sender := NewSender(5 * time.Second)
	status, err := sender.Send(context.Background(), srv.URL, "s", "invoice.paid", []byte(`{}`))

	if status != http.StatusInternalServerError {
		t.Errorf("status = %d", status)
	}
	var dErr *DeliveryError
	if !errors.As(err, &dErr) {
		t.Fatalf("err = %v, want *DeliveryError", err)
	}
	if dErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("DeliveryError.StatusCode = %d", dErr.StatusCode)
	}
}

func TestSenderTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	sender := NewSender(time.Second)
	status, err := sender.Send(context.Background(), srv.URL, "s", "invoice.paid", []byte(`{}`))

	if status != 0 {
		t.Errorf("status = %d, want 0 when no response received", status)
	}
	var dErr *DeliveryError
	if !errors.As(err, &dErr) {
		t.Fatalf("err = %v, want *DeliveryError", err)
	}
	if dErr.StatusCode != 0 {
		t.Errorf("DeliveryError.StatusCode = %d, want 0", dErr.StatusCode)
	}
}
