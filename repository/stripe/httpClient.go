package striperepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/miccx-24/boardinghousebackend/util/httpx"
)

const apiBase = "https://api.stripe.com/v1"

type httpRepo struct {
	apiKey string
	client *http.Client
}

func NewHTTP(apiKey string) Repo { return &httpRepo{apiKey: apiKey, client: httpx.Client()} }

func (r *httpRepo) Charge(ctx context.Context, req ChargeReq) (*ChargeResp, error) {
	form := url.Values{}
	// Stripe amounts are integer minor units.
	form.Set("amount", req.Amount.Mul(hundred).Round(0).String())
	form.Set("currency", "usd")
	form.Set("customer", req.CustomerRef)
	form.Set("payment_method", req.Method)
	form.Set("confirm", "true")

	var out struct {
		ID string `json:"id"`
	}
	if err := r.do(ctx, "POST", "/payment_intents", form, req.IdempotencyKey, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.New("stripe: empty payment intent id")
	}
	return &ChargeResp{TransactionID: out.ID}, nil
}

func (r *httpRepo) Refund(ctx context.Context, transactionID string) error {
	form := url.Values{}
	form.Set("payment_intent", transactionID)
	return r.do(ctx, "POST", "/refunds", form, "", nil)
}

func (r *httpRepo) CreateInvoice(ctx context.Context, req CreateInvoiceReq) (*CreateInvoiceResp, error) {
	form := url.Values{}
	form.Set("customer", req.CustomerRef)
	form.Set("amount", req.Amount.Mul(hundred).Round(0).String())
	form.Set("description", req.Description)
	form.Set("collection_method", "send_invoice")
	form.Set("due_date", fmt.Sprintf("%d", req.DueDate.Unix()))

	var out struct {
		ID string `json:"id"`
	}
	if err := r.do(ctx, "POST", "/invoices", form, "", &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.New("stripe: empty invoice id")
	}
	return &CreateInvoiceResp{InvoiceID: out.ID}, nil
}

func (r *httpRepo) CancelInvoice(ctx context.Context, invoiceID string) error {
	return r.do(ctx, "POST", "/invoices/"+invoiceID+"/void", url.Values{}, "", nil)
}

func (r *httpRepo) do(ctx context.Context, method, path string, form url.Values, idemKey string, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, method, apiBase+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	httpReq.SetBasicAuth(r.apiKey, "")
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if idemKey != "" {
		httpReq.Header.Set("Idempotency-Key", idemKey)
	}

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return &GatewayError{Status: 0, Msg: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var body struct {
			Error struct {
				Code string `json:"code"`
				Type string `json:"type"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return &GatewayError{
			Status:   resp.StatusCode,
			Code:     body.Error.Code,
			Declined: resp.StatusCode == http.StatusPaymentRequired || body.Error.Type == "card_error",
			Msg:      "request failed: " + resp.Status,
		}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
