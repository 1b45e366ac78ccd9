package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/storefront-next/internal/config"

	"github.com/shopspring/decimal"
)

var (
	ErrConfigInvalid   = errors.New("mpesa config invalid")
	ErrRequestFailed   = errors.New("mpesa request failed")
	ErrResponseInvalid = errors.New("mpesa response invalid")
	ErrPhoneInvalid    = errors.New("mpesa phone invalid")
)

const (
	defaultAPIBaseURL = "https://sandbox.safaricom.co.ke"
	defaultTimeout    = 15 * time.Second
)

// Client M-Pesa Daraja STK Push 客户端。
type Client struct {
	cfg config.MpesaConfig

	token       string
	tokenExpiry time.Time
}

// NewClient 创建客户端，配置缺失时返回 nil。
func NewClient(cfg *config.MpesaConfig) *Client {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	normalized := *cfg
	normalized.ConsumerKey = strings.TrimSpace(normalized.ConsumerKey)
	normalized.ConsumerSecret = strings.TrimSpace(normalized.ConsumerSecret)
	normalized.ShortCode = strings.TrimSpace(normalized.ShortCode)
	normalized.Passkey = strings.TrimSpace(normalized.Passkey)
	normalized.CallbackURL = strings.TrimSpace(normalized.CallbackURL)
	normalized.APIBaseURL = strings.TrimRight(strings.TrimSpace(normalized.APIBaseURL), "/")
	if normalized.APIBaseURL == "" {
		normalized.APIBaseURL = defaultAPIBaseURL
	}
	return &Client{cfg: normalized}
}

// Enabled 客户端是否可用。
func (c *Client) Enabled() bool {
	return c != nil && c.cfg.ConsumerKey != "" && c.cfg.ConsumerSecret != ""
}

// STKPushInput 发起 STK Push 输入。
type STKPushInput struct {
	OrderNo   string
	PaymentID uint
	Amount    string
	Phone     string
}

// STKPushResult 发起 STK Push 返回。
type STKPushResult struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResponseCode      string
	CustomerMessage   string
	Raw               map[string]interface{}
}

// CallbackResult STK Push 回调解析结果。
type CallbackResult struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResultCode        int
	ResultDesc        string
	Amount            string
	ReceiptNumber     string
	Phone             string
	Success           bool
}

func (c *Client) validate() error {
	if c == nil {
		return fmt.Errorf("%w: client is nil", ErrConfigInvalid)
	}
	if c.cfg.ConsumerKey == "" || c.cfg.ConsumerSecret == "" {
		return fmt.Errorf("%w: consumer credentials are required", ErrConfigInvalid)
	}
	if c.cfg.ShortCode == "" || c.cfg.Passkey == "" {
		return fmt.Errorf("%w: short_code and passkey are required", ErrConfigInvalid)
	}
	if c.cfg.CallbackURL == "" {
		return fmt.Errorf("%w: callback_url is required", ErrConfigInvalid)
	}
	return nil
}

// STKPush 向用户手机推送支付请求。
func (c *Client) STKPush(ctx context.Context, input STKPushInput) (*STKPushResult, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	phone, err := NormalizePhone(input.Phone)
	if err != nil {
		return nil, err
	}
	amount, err := toWholeAmount(input.Amount)
	if err != nil {
		return nil, err
	}
	orderNo := strings.TrimSpace(input.OrderNo)
	if orderNo == "" {
		return nil, fmt.Errorf("%w: order_no is required", ErrConfigInvalid)
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := time.Now().Format("20060102150405")
	password := base64.StdEncoding.EncodeToString([]byte(c.cfg.ShortCode + c.cfg.Passkey + timestamp))
	payload := map[string]interface{}{
		"BusinessShortCode": c.cfg.ShortCode,
		"Password":          password,
		"Timestamp":         timestamp,
		"TransactionType":   "CustomerPayBillOnline",
		"Amount":            amount,
		"PartyA":            phone,
		"PartyB":            c.cfg.ShortCode,
		"PhoneNumber":       phone,
		"CallBackURL":       c.cfg.CallbackURL,
		"AccountReference":  orderNo,
		"TransactionDesc":   orderNo,
	}

	raw, statusCode, err := c.doJSONRequest(ctx, "/mpesa/stkpush/v1/processrequest", token, payload)
	if err != nil {
		return nil, err
	}
	if statusCode < 200 || statusCode >= 300 {
		return nil, fmt.Errorf("%w: stk push status %d", ErrResponseInvalid, statusCode)
	}

	result := &STKPushResult{Raw: raw}
	result.MerchantRequestID = readString(raw, "MerchantRequestID")
	result.CheckoutRequestID = readString(raw, "CheckoutRequestID")
	result.ResponseCode = readString(raw, "ResponseCode")
	result.CustomerMessage = readString(raw, "CustomerMessage")
	if result.CheckoutRequestID == "" {
		return nil, fmt.Errorf("%w: missing checkout request id", ErrResponseInvalid)
	}
	if result.ResponseCode != "0" {
		return nil, fmt.Errorf("%w: response code %s", ErrResponseInvalid, result.ResponseCode)
	}
	return result, nil
}

// ParseCallback 解析 STK Push 异步回调。
func ParseCallback(body []byte) (*CallbackResult, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: body is empty", ErrResponseInvalid)
	}
	var envelope struct {
		Body struct {
			StkCallback struct {
				MerchantRequestID string `json:"MerchantRequestID"`
				CheckoutRequestID string `json:"CheckoutRequestID"`
				ResultCode        int    `json:"ResultCode"`
				ResultDesc        string `json:"ResultDesc"`
				CallbackMetadata  struct {
					Item []struct {
						Name  string      `json:"Name"`
						Value interface{} `json:"Value"`
					} `json:"Item"`
				} `json:"CallbackMetadata"`
			} `json:"stkCallback"`
		} `json:"Body"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode callback failed", ErrResponseInvalid)
	}
	cb := envelope.Body.StkCallback
	if strings.TrimSpace(cb.CheckoutRequestID) == "" {
		return nil, fmt.Errorf("%w: missing checkout request id", ErrResponseInvalid)
	}

	result := &CallbackResult{
		MerchantRequestID: strings.TrimSpace(cb.MerchantRequestID),
		CheckoutRequestID: strings.TrimSpace(cb.CheckoutRequestID),
		ResultCode:        cb.ResultCode,
		ResultDesc:        strings.TrimSpace(cb.ResultDesc),
		Success:           cb.ResultCode == 0,
	}
	for _, item := range cb.CallbackMetadata.Item {
		switch item.Name {
		case "Amount":
			result.Amount = stringifyValue(item.Value)
		case "MpesaReceiptNumber":
			result.ReceiptNumber = stringifyValue(item.Value)
		case "PhoneNumber":
			result.Phone = stringifyValue(item.Value)
		}
	}
	return result, nil
}

// NormalizePhone 手机号标准化为 2547XXXXXXXX 格式。
func NormalizePhone(phone string) (string, error) {
	cleaned := strings.TrimSpace(phone)
	cleaned = strings.TrimPrefix(cleaned, "+")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	if cleaned == "" {
		return "", fmt.Errorf("%w: phone is empty", ErrPhoneInvalid)
	}
	if strings.HasPrefix(cleaned, "0") {
		cleaned = "254" + cleaned[1:]
	}
	if strings.HasPrefix(cleaned, "7") || strings.HasPrefix(cleaned, "1") {
		cleaned = "254" + cleaned
	}
	if !strings.HasPrefix(cleaned, "254") || len(cleaned) != 12 {
		return "", fmt.Errorf("%w: %s", ErrPhoneInvalid, phone)
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: %s", ErrPhoneInvalid, phone)
		}
	}
	return cleaned, nil
}

// accessToken 获取 OAuth token，带简单的内存缓存
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}
	endpoint := c.cfg.APIBaseURL + "/oauth/v1/generate?grant_type=client_credentials"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build token request failed", ErrRequestFailed)
	}
	req.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret)

	resp, err := (&http.Client{Timeout: defaultTimeout}).Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read token response failed", ErrResponseInvalid)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: token status %d", ErrResponseInvalid, resp.StatusCode)
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   string `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode token response failed", ErrResponseInvalid)
	}
	if strings.TrimSpace(parsed.AccessToken) == "" {
		return "", fmt.Errorf("%w: missing access token", ErrResponseInvalid)
	}
	expiresIn, err := strconv.Atoi(strings.TrimSpace(parsed.ExpiresIn))
	if err != nil || expiresIn <= 60 {
		expiresIn = 3600
	}
	c.token = strings.TrimSpace(parsed.AccessToken)
	c.tokenExpiry = time.Now().Add(time.Duration(expiresIn-60) * time.Second)
	return c.token, nil
}

func (c *Client) doJSONRequest(ctx context.Context, path string, token string, payload map[string]interface{}) (map[string]interface{}, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: marshal request failed", ErrRequestFailed)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIBaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := (&http.Client{Timeout: defaultTimeout}).Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read response failed", ErrResponseInvalid)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: decode response failed", ErrResponseInvalid)
	}
	return raw, resp.StatusCode, nil
}

// toWholeAmount M-Pesa 只接受整数金额，向上取整避免少收
func toWholeAmount(amount string) (int64, error) {
	parsed, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return 0, fmt.Errorf("%w: amount is invalid", ErrConfigInvalid)
	}
	if parsed.LessThanOrEqual(decimal.Zero) {
		return 0, fmt.Errorf("%w: amount must be greater than zero", ErrConfigInvalid)
	}
	return parsed.Ceil().IntPart(), nil
}

func readString(raw map[string]interface{}, key string) string {
	if raw == nil {
		return ""
	}
	value, ok := raw[key]
	if !ok || value == nil {
		return ""
	}
	return stringifyValue(value)
}

func stringifyValue(value interface{}) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case json.Number:
		return typed.String()
	case float64:
		if typed == float64(int64(typed)) {
			return strconv.FormatInt(int64(typed), 10)
		}
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(typed, 10)
	default:
		return ""
	}
}
