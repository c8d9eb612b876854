package value

import (
	"strconv"

	"github.com/google/uuid"

	"bikeship/internal/domain"
	"bikeship/pkg/errcodes"
)

// ShipmentID is assigned by the persistence gateway at creation time.
type ShipmentID uuid.UUID

func NewShipmentID() ShipmentID {
	return ShipmentID(uuid.New())
}

func ParseShipmentID(s string) (ShipmentID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ShipmentID{}, domain.WrapError(err, errcodes.InvalidShipmentID, "invalid shipment id")
	}

	return ShipmentID(id), nil
}

func (id ShipmentID) String() string {
	return uuid.UUID(id).String()
}

func (id ShipmentID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id ShipmentID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ShipmentID) UnmarshalText(text []byte) error {
	parsed, err := ParseShipmentID(string(text))
	if err != nil {
		return err
	}

	*id = parsed

	return nil
}

// QuoteID identifies a quote inside its quote set only.
type QuoteID int64

func (id QuoteID) String() string {
	return strconv.FormatInt(int64(id), 10)
}
