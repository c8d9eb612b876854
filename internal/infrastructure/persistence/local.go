package persistence

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"bikeship/internal/domain"
	"bikeship/internal/domain/entity"
	"bikeship/internal/domain/value"
	"bikeship/pkg/errcodes"
)

// DefaultLocalKey is the storage key the local shipment sequence lives under.
const DefaultLocalKey = "bikeship_data_v1"

// KeyValue is the raw storage under the local backend. Load returns nil data
// and no error when key holds nothing yet.
type KeyValue interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Store(ctx context.Context, key string, data []byte) error
}

// LocalBackend keeps every shipment as one JSON array under a single key.
// Each mutation loads the whole array, changes it in memory and stores it
// back; mu serializes those cycles within the process.
type LocalBackend struct {
	kv  KeyValue
	key string
	mu  sync.Mutex
}

func NewLocalBackend(kv KeyValue, key string) *LocalBackend {
	if key == "" {
		key = DefaultLocalKey
	}
	return &LocalBackend{kv: kv, key: key}
}

func (b *LocalBackend) Name() string {
	return "local"
}

func (b *LocalBackend) List(ctx context.Context) ([]entity.Shipment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	shipments, err := b.load(ctx)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(shipments, func(a, b entity.Shipment) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return shipments, nil
}

// Create puts s in front of the stored sequence.
func (b *LocalBackend) Create(ctx context.Context, s entity.Shipment) (entity.Shipment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	shipments, err := b.load(ctx)
	if err != nil {
		return entity.Shipment{}, err
	}

	shipments = slices.Insert(shipments, 0, s.Clone())

	if err := b.store(ctx, shipments); err != nil {
		return entity.Shipment{}, err
	}

	return s.Clone(), nil
}

func (b *LocalBackend) Get(ctx context.Context, id value.ShipmentID) (entity.Shipment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	shipments, err := b.load(ctx)
	if err != nil {
		return entity.Shipment{}, err
	}

	i := indexOf(shipments, id)
	if i < 0 {
		return entity.Shipment{}, errNotFound(id)
	}

	return shipments[i], nil
}

// Update merges patch into the stored record. An unknown id leaves the store
// untouched.
func (b *LocalBackend) Update(
	ctx context.Context,
	id value.ShipmentID,
	patch entity.ShipmentPatch,
	updatedAt time.Time,
) (entity.Shipment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	shipments, err := b.load(ctx)
	if err != nil {
		return entity.Shipment{}, err
	}

	i := indexOf(shipments, id)
	if i < 0 {
		return entity.Shipment{}, errNotFound(id)
	}

	shipments[i] = patch.Apply(shipments[i], updatedAt)

	if err := b.store(ctx, shipments); err != nil {
		return entity.Shipment{}, err
	}

	return shipments[i].Clone(), nil
}

func (b *LocalBackend) Delete(ctx context.Context, id value.ShipmentID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	shipments, err := b.load(ctx)
	if err != nil {
		return err
	}

	i := indexOf(shipments, id)
	if i < 0 {
		return errNotFound(id)
	}

	return b.store(ctx, slices.Delete(shipments, i, i+1))
}

// Ping checks that the stored sequence can be read and decoded.
func (b *LocalBackend) Ping(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.load(ctx)
	return err
}

func (b *LocalBackend) load(ctx context.Context) ([]entity.Shipment, error) {
	data, err := b.kv.Load(ctx, b.key)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.PersistenceFailure, "failed to read local store")
	}

	if len(data) == 0 {
		return []entity.Shipment{}, nil
	}

	var shipments []entity.Shipment
	if err := json.Unmarshal(data, &shipments); err != nil {
		return nil, domain.WrapError(err, errcodes.PersistenceFailure, "local store is corrupted")
	}

	if shipments == nil {
		shipments = []entity.Shipment{}
	}

	return shipments, nil
}

func (b *LocalBackend) store(ctx context.Context, shipments []entity.Shipment) error {
	data, err := json.Marshal(shipments)
	if err != nil {
		return domain.WrapError(err, errcodes.PersistenceFailure, "failed to encode local store")
	}

	if err := b.kv.Store(ctx, b.key, data); err != nil {
		return domain.WrapError(fmt.Errorf("kv.Store: %w", err), errcodes.PersistenceFailure,
			"failed to write local store")
	}

	return nil
}

func indexOf(shipments []entity.Shipment, id value.ShipmentID) int {
	return slices.IndexFunc(shipments, func(s entity.Shipment) bool { return s.ID == id })
}
