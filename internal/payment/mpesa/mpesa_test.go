package mpesa

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/storefront-next/internal/config"
)

func testConfig(apiBaseURL string) *config.MpesaConfig {
	return &config.MpesaConfig{
		Enabled:        true,
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		ShortCode:      "174379",
		Passkey:        "passkey",
		CallbackURL:    "https://shop.example/api/payments/mpesa/callback",
		APIBaseURL:     apiBaseURL,
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0712345678", "254712345678"},
		{"+254712345678", "254712345678"},
		{"254712345678", "254712345678"},
		{"712345678", "254712345678"},
		{"0712 345 678", "254712345678"},
	}
	for _, c := range cases {
		got, err := NormalizePhone(c.in)
		if err != nil {
			t.Fatalf("normalize %q failed: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("normalize %q: expected %s, got %s", c.in, c.want, got)
		}
	}

	for _, bad := range []string{"", "12345", "25571234567x", "441234567890"} {
		if _, err := NormalizePhone(bad); !errors.Is(err, ErrPhoneInvalid) {
			t.Fatalf("expected phone invalid for %q, got: %v", bad, err)
		}
	}
}

func TestSTKPush(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/v1/generate":
			user, pass, ok := r.BasicAuth()
			if !ok || user != "key" || pass != "secret" {
				t.Errorf("unexpected basic auth: %s/%s", user, pass)
			}
			fmt.Fprint(w, `{"access_token":"token123","expires_in":"3599"}`)
		case "/mpesa/stkpush/v1/processrequest":
			if got := r.Header.Get("Authorization"); got != "Bearer token123" {
				t.Errorf("unexpected authorization: %s", got)
			}
			fmt.Fprint(w, `{"MerchantRequestID":"mr-1","CheckoutRequestID":"ws_CO_1","ResponseCode":"0","CustomerMessage":"Success. Request accepted for processing"}`)
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	result, err := client.STKPush(context.Background(), STKPushInput{
		OrderNo:   "SF1001",
		PaymentID: 7,
		Amount:    "1234.50",
		Phone:     "0712345678",
	})
	if err != nil {
		t.Fatalf("stk push failed: %v", err)
	}
	if result.CheckoutRequestID != "ws_CO_1" {
		t.Fatalf("unexpected checkout request id: %s", result.CheckoutRequestID)
	}
	if result.CustomerMessage == "" {
		t.Fatalf("expected customer message")
	}
}

func TestSTKPushRejectedResponseCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/v1/generate" {
			fmt.Fprint(w, `{"access_token":"token123","expires_in":"3599"}`)
			return
		}
		fmt.Fprint(w, `{"MerchantRequestID":"mr-1","CheckoutRequestID":"ws_CO_1","ResponseCode":"1"}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	_, err := client.STKPush(context.Background(), STKPushInput{
		OrderNo: "SF1001",
		Amount:  "100",
		Phone:   "0712345678",
	})
	if !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("expected response invalid, got: %v", err)
	}
}

func TestParseCallbackSuccess(t *testing.T) {
	body := []byte(`{
		"Body": {
			"stkCallback": {
				"MerchantRequestID": "mr-1",
				"CheckoutRequestID": "ws_CO_1",
				"ResultCode": 0,
				"ResultDesc": "The service request is processed successfully.",
				"CallbackMetadata": {
					"Item": [
						{"Name": "Amount", "Value": 1235},
						{"Name": "MpesaReceiptNumber", "Value": "NLJ7RT61SV"},
						{"Name": "PhoneNumber", "Value": 254712345678}
					]
				}
			}
		}
	}`)
	result, err := ParseCallback(body)
	if err != nil {
		t.Fatalf("parse callback failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success")
	}
	if result.CheckoutRequestID != "ws_CO_1" {
		t.Fatalf("unexpected checkout request id: %s", result.CheckoutRequestID)
	}
	if result.ReceiptNumber != "NLJ7RT61SV" {
		t.Fatalf("unexpected receipt: %s", result.ReceiptNumber)
	}
	if result.Amount != "1235" {
		t.Fatalf("unexpected amount: %s", result.Amount)
	}
	if result.Phone != "254712345678" {
		t.Fatalf("unexpected phone: %s", result.Phone)
	}
}

func TestParseCallbackFailure(t *testing.T) {
	body := []byte(`{
		"Body": {
			"stkCallback": {
				"MerchantRequestID": "mr-1",
				"CheckoutRequestID": "ws_CO_1",
				"ResultCode": 1032,
				"ResultDesc": "Request cancelled by user"
			}
		}
	}`)
	result, err := ParseCallback(body)
	if err != nil {
		t.Fatalf("parse callback failed: %v", err)
	}
	if result.Success {
		t.Fatalf("expected failure result")
	}
	if result.ResultCode != 1032 {
		t.Fatalf("unexpected result code: %d", result.ResultCode)
	}
}

func TestParseCallbackInvalidBody(t *testing.T) {
	if _, err := ParseCallback([]byte(`{}`)); !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("expected response invalid, got: %v", err)
	}
	if _, err := ParseCallback(nil); !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("expected response invalid, got: %v", err)
	}
}

func TestWholeAmountCeil(t *testing.T) {
	amount, err := toWholeAmount("1234.50")
	if err != nil {
		t.Fatalf("to whole amount failed: %v", err)
	}
	if amount != 1235 {
		t.Fatalf("expected ceil to 1235, got %d", amount)
	}
}
