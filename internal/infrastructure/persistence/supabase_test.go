package persistence_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"bikeship/internal/domain"
	"bikeship/internal/domain/entity"
	"bikeship/internal/domain/value"
	"bikeship/internal/infrastructure/persistence"
	"bikeship/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const testAPIKey = "anon-key"

// fakePostgREST serves one table the way PostgREST does for the filters the
// backend uses: id=eq.<id>, select, order and limit.
type fakePostgREST struct {
	mu      sync.Mutex
	rows    []map[string]any
	fail    bool
	methods []string
}

func (f *fakePostgREST) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.methods = append(f.methods, r.Method)

	if r.Header.Get("apikey") != testAPIKey || r.Header.Get("Authorization") != "Bearer "+testAPIKey {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if f.fail {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"upstream down"}`))
		return
	}
	if !strings.HasSuffix(r.URL.Path, "/rest/v1/shipments") {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if r.Method != http.MethodGet && r.Header.Get("Prefer") != "return=representation" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	id := strings.TrimPrefix(r.URL.Query().Get("id"), "eq.")
	matches := func(row map[string]any) bool { return id == "" || row["id"] == id }

	var out []map[string]any

	switch r.Method {
	case http.MethodGet:
		// Rows are kept newest first, which is what order=created_at.desc asks for.
		for _, row := range f.rows {
			if matches(row) {
				out = append(out, row)
			}
		}
		if r.URL.Query().Get("limit") == "1" && len(out) > 1 {
			out = out[:1]
		}
	case http.MethodPost:
		var row map[string]any
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &row); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.rows = append([]map[string]any{row}, f.rows...)
		out = append(out, row)
		w.WriteHeader(http.StatusCreated)
	case http.MethodPatch:
		var patch map[string]any
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &patch); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		for _, row := range f.rows {
			if matches(row) {
				for k, v := range patch {
					row[k] = v
				}
				out = append(out, row)
			}
		}
	case http.MethodDelete:
		kept := f.rows[:0]
		for _, row := range f.rows {
			if matches(row) {
				out = append(out, row)
				continue
			}
			kept = append(kept, row)
		}
		f.rows = kept
	}

	if out == nil {
		out = []map[string]any{}
	}
	_ = json.NewEncoder(w).Encode(out)
}

func newSupabase(t *testing.T) (*persistence.SupabaseBackend, *fakePostgREST) {
	t.Helper()

	fake := &fakePostgREST{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	return persistence.NewSupabaseBackend(srv.URL+"/", testAPIKey, "shipments"), fake
}

func TestSupabaseBackendLifecycle(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	b, fake := newSupabase(t)
	rq.Equal("supabase", b.Name())
	rq.NoError(b.Ping(ctx))

	list, err := b.List(ctx)
	rq.NoError(err)
	rq.Empty(list)

	s := storedShipment(1)
	s.TrackingCode = ""

	created, err := b.Create(ctx, s)
	rq.NoError(err)
	requireSameShipment(rq, s, created)

	// Absent fields are stored as NULL under snake_case names.
	rq.Contains(fake.rows[0], "customer_name")
	rq.Nil(fake.rows[0]["tracking_code"])

	got, err := b.Get(ctx, s.ID)
	rq.NoError(err)
	requireSameShipment(rq, s, got)

	updatedAt := baseTime.Add(time.Hour)
	updated, err := b.Update(ctx, s.ID, entity.ShipmentPatch{Status: lo.ToPtr(value.StatusDelivered)}, updatedAt)
	rq.NoError(err)

	want := s.Clone()
	want.Status = value.StatusDelivered
	want.UpdatedAt = &updatedAt
	requireSameShipment(rq, want, updated)

	rq.NoError(b.Delete(ctx, s.ID))
	rq.True(domain.HasCode(b.Delete(ctx, s.ID), errcodes.ShipmentNotFound))

	_, err = b.Get(ctx, s.ID)
	rq.True(domain.HasCode(err, errcodes.ShipmentNotFound))

	_, err = b.Update(ctx, s.ID, entity.ShipmentPatch{Status: lo.ToPtr(value.StatusDelivered)}, updatedAt)
	rq.True(domain.HasCode(err, errcodes.ShipmentNotFound))
}

func TestSupabaseBackendReportsRemoteErrors(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	b, fake := newSupabase(t)
	fake.fail = true

	_, err := b.List(ctx)
	rq.True(domain.HasCode(err, errcodes.BackendUnavailable))
	rq.Contains(err.Error(), "upstream down")

	err = b.Ping(ctx)
	rq.True(domain.HasCode(err, errcodes.BackendUnavailable))
}

func TestSupabaseBackendRejectedKey(t *testing.T) {
	rq := require.New(t)

	fake := &fakePostgREST{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	b := persistence.NewSupabaseBackend(srv.URL, "wrong-key", "shipments")

	err := b.Ping(context.Background())
	rq.True(domain.HasCode(err, errcodes.BackendUnavailable))
}

func TestGatewayOverUnavailableSupabase(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	remote, fake := newSupabase(t)
	fake.fail = true

	local, _ := newLocal()
	g := persistence.NewGateway(local).WithRemote(remote)

	created, err := g.Create(ctx, sampleShipment())
	rq.NoError(err)

	got, err := g.Get(ctx, created.ID)
	rq.NoError(err)
	rq.Equal(created.ID, got.ID)

	got, err = local.Get(ctx, created.ID)
	rq.NoError(err)
	rq.Equal(created.ID, got.ID)

	status := g.ConnectionStatus(ctx)
	rq.Equal(entity.ConnectionError, status.State)
	rq.Contains(status.Reason, "503")
}
