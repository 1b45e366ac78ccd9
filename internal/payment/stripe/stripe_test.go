package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/storefront-next/internal/config"
)

func testConfig(apiBaseURL string) *config.StripeConfig {
	return &config.StripeConfig{
		Enabled:       true,
		SecretKey:     "sk_test_123",
		WebhookSecret: "whsec_test",
		SuccessURL:    "https://shop.example/pay/success",
		CancelURL:     "https://shop.example/pay/cancel",
		APIBaseURL:    apiBaseURL,
	}
}

func TestNewClientDisabled(t *testing.T) {
	if NewClient(nil) != nil {
		t.Fatalf("expected nil client for nil config")
	}
	if NewClient(&config.StripeConfig{Enabled: false}) != nil {
		t.Fatalf("expected nil client when disabled")
	}
	var client *Client
	if client.Enabled() {
		t.Fatalf("nil client must report disabled")
	}
}

func TestCreatePayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_123" {
			t.Errorf("unexpected authorization header: %s", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form failed: %v", err)
		}
		if got := r.PostForm.Get("line_items[0][price_data][unit_amount]"); got != "123450" {
			t.Errorf("unexpected minor amount: %s", got)
		}
		if got := r.PostForm.Get("metadata[order_no]"); got != "SF1001" {
			t.Errorf("unexpected order no: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"cs_test_1","url":"https://checkout.stripe.com/pay/cs_test_1","status":"open"}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	result, err := client.CreatePayment(context.Background(), CreateInput{
		OrderNo:   "SF1001",
		PaymentID: 7,
		Amount:    "1234.50",
		Currency:  "KES",
	})
	if err != nil {
		t.Fatalf("create payment failed: %v", err)
	}
	if result.SessionID != "cs_test_1" {
		t.Fatalf("unexpected session id: %s", result.SessionID)
	}
	if result.URL == "" {
		t.Fatalf("expected checkout url")
	}
}

func TestCreatePaymentRejectsZeroAmount(t *testing.T) {
	client := NewClient(testConfig("https://api.stripe.test"))
	_, err := client.CreatePayment(context.Background(), CreateInput{
		OrderNo:  "SF1001",
		Amount:   "0",
		Currency: "KES",
	})
	if !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected config invalid, got: %v", err)
	}
}

func buildWebhookBody(t *testing.T, eventType string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"id":   "evt_1",
		"type": eventType,
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":             "cs_test_1",
				"object":         "checkout.session",
				"currency":       "kes",
				"amount_total":   123450,
				"payment_status": "paid",
				"created":        time.Now().Unix(),
				"metadata": map[string]interface{}{
					"payment_id": "7",
					"order_no":   "SF1001",
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("marshal webhook body failed: %v", err)
	}
	return body
}

func TestVerifyAndParseWebhook(t *testing.T) {
	client := NewClient(testConfig("https://api.stripe.test"))
	body := buildWebhookBody(t, "checkout.session.completed")
	now := time.Now()
	signature := computeSignature("whsec_test", now.Unix(), body)
	headers := map[string]string{
		"Stripe-Signature": fmt.Sprintf("t=%d,v1=%s", now.Unix(), signature),
	}

	result, err := client.VerifyAndParseWebhook(headers, body, now)
	if err != nil {
		t.Fatalf("verify webhook failed: %v", err)
	}
	if result.Status != "success" {
		t.Fatalf("expected success status, got %s", result.Status)
	}
	if result.PaymentID != 7 {
		t.Fatalf("expected payment id 7, got %d", result.PaymentID)
	}
	if result.ProviderRef != "cs_test_1" {
		t.Fatalf("unexpected provider ref: %s", result.ProviderRef)
	}
	if result.Amount != "1234.50" {
		t.Fatalf("unexpected amount: %s", result.Amount)
	}
}

func TestVerifyAndParseWebhookBadSignature(t *testing.T) {
	client := NewClient(testConfig("https://api.stripe.test"))
	body := buildWebhookBody(t, "checkout.session.completed")
	now := time.Now()
	headers := map[string]string{
		"Stripe-Signature": fmt.Sprintf("t=%d,v1=%s", now.Unix(), "deadbeef"),
	}

	_, err := client.VerifyAndParseWebhook(headers, body, now)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected signature invalid, got: %v", err)
	}
}

func TestVerifyAndParseWebhookStaleTimestamp(t *testing.T) {
	client := NewClient(testConfig("https://api.stripe.test"))
	body := buildWebhookBody(t, "checkout.session.completed")
	old := time.Now().Add(-time.Hour)
	signature := computeSignature("whsec_test", old.Unix(), body)
	headers := map[string]string{
		"Stripe-Signature": fmt.Sprintf("t=%d,v1=%s", old.Unix(), signature),
	}

	_, err := client.VerifyAndParseWebhook(headers, body, time.Now())
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected stale timestamp rejection, got: %v", err)
	}
}

func TestMinorAmountRoundTrip(t *testing.T) {
	minor, err := toMinorAmount("99.99", "KES")
	if err != nil {
		t.Fatalf("to minor failed: %v", err)
	}
	if minor != 9999 {
		t.Fatalf("expected 9999, got %d", minor)
	}
	if got := fromMinorAmount(9999, "KES"); got != "99.99" {
		t.Fatalf("expected 99.99, got %s", got)
	}

	minor, err = toMinorAmount("500", "JPY")
	if err != nil {
		t.Fatalf("to minor failed: %v", err)
	}
	if minor != 500 {
		t.Fatalf("expected zero-decimal currency untouched, got %d", minor)
	}
}
