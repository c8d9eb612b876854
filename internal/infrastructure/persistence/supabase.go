package persistence

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bikeship/internal/domain"
	"bikeship/internal/domain/entity"
	"bikeship/internal/domain/value"
	"bikeship/pkg/errcodes"
	"bikeship/pkg/httpx"
	"bikeship/pkg/logx"
)

const (
	supabaseErrorBodyLimit = 2048
	supabaseLogFieldMaxLen = 4096
)

// SupabaseBackend keeps shipments in one table behind the Supabase PostgREST
// API.
type SupabaseBackend struct {
	tableURL string
	apiKey   string
	client   *http.Client
}

func NewSupabaseBackend(baseURL, apiKey, table string) *SupabaseBackend {
	transport := httpx.NewLoggingRoundTripper(
		httpx.NewAuthBearerRoundTripper(http.DefaultTransport, httpx.StaticToken(apiKey)),
		httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
		httpx.WithLogFieldMaxLen(supabaseLogFieldMaxLen),
	)

	return &SupabaseBackend{
		tableURL: strings.TrimRight(baseURL, "/") + "/rest/v1/" + table,
		apiKey:   apiKey,
		client:   &http.Client{Transport: transport},
	}
}

// WithHTTPClient replaces the client requests are sent with. The client is
// expected to authorize requests itself.
func (b *SupabaseBackend) WithHTTPClient(client *http.Client) *SupabaseBackend {
	b.client = client
	return b
}

func (b *SupabaseBackend) Name() string {
	return "supabase"
}

func (b *SupabaseBackend) List(ctx context.Context) ([]entity.Shipment, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc")

	var rows []shipmentRow
	if err := b.do(ctx, http.MethodGet, q, nil, &rows); err != nil {
		return nil, fmt.Errorf("supabase.List: %w", err)
	}

	return rowsToDomain(rows)
}

func (b *SupabaseBackend) Create(ctx context.Context, s entity.Shipment) (entity.Shipment, error) {
	var rows []shipmentRow
	if err := b.do(ctx, http.MethodPost, nil, fromShipment(s), &rows); err != nil {
		return entity.Shipment{}, fmt.Errorf("supabase.Create: %w", err)
	}

	if len(rows) == 0 {
		return entity.Shipment{}, domain.NewError(errcodes.BackendUnavailable, "supabase returned no created row")
	}

	return rows[0].toDomain()
}

func (b *SupabaseBackend) Get(ctx context.Context, id value.ShipmentID) (entity.Shipment, error) {
	q := byID(id)
	q.Set("select", "*")
	q.Set("limit", "1")

	var rows []shipmentRow
	if err := b.do(ctx, http.MethodGet, q, nil, &rows); err != nil {
		return entity.Shipment{}, fmt.Errorf("supabase.Get: %w", err)
	}

	if len(rows) == 0 {
		return entity.Shipment{}, errNotFound(id)
	}

	return rows[0].toDomain()
}

func (b *SupabaseBackend) Update(
	ctx context.Context,
	id value.ShipmentID,
	patch entity.ShipmentPatch,
	updatedAt time.Time,
) (entity.Shipment, error) {
	var rows []shipmentRow
	if err := b.do(ctx, http.MethodPatch, byID(id), patchColumns(patch, updatedAt), &rows); err != nil {
		return entity.Shipment{}, fmt.Errorf("supabase.Update: %w", err)
	}

	if len(rows) == 0 {
		return entity.Shipment{}, errNotFound(id)
	}

	return rows[0].toDomain()
}

func (b *SupabaseBackend) Delete(ctx context.Context, id value.ShipmentID) error {
	var rows []shipmentRow
	if err := b.do(ctx, http.MethodDelete, byID(id), nil, &rows); err != nil {
		return fmt.Errorf("supabase.Delete: %w", err)
	}

	if len(rows) == 0 {
		return errNotFound(id)
	}

	return nil
}

// Ping reads a single id from the table.
func (b *SupabaseBackend) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("select", "id")
	q.Set("limit", "1")

	var rows []struct {
		ID string `json:"id"`
	}
	if err := b.do(ctx, http.MethodGet, q, nil, &rows); err != nil {
		return fmt.Errorf("supabase.Ping: %w", err)
	}

	return nil
}

func (b *SupabaseBackend) do(ctx context.Context, method string, query url.Values, payload, out any) error {
	var body io.Reader = http.NoBody

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to encode request")
		}
		body = bytes.NewReader(data)
	}

	target := b.tableURL
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to build request")
	}

	req.Header.Set("apikey", b.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return domain.WrapError(err, errcodes.BackendUnavailable, "supabase request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, supabaseErrorBodyLimit))
		return domain.NewError(errcodes.BackendUnavailable,
			fmt.Sprintf("supabase status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.WrapError(err, errcodes.BackendUnavailable, "failed to decode supabase response")
	}

	return nil
}

func byID(id value.ShipmentID) url.Values {
	q := url.Values{}
	q.Set("id", "eq."+id.String())
	return q
}
