package server

import (
	"context"
	"fmt"
	"net/http"

	"bikeship/internal/domain/entity"
	"bikeship/internal/domain/value"
	"bikeship/pkg/httpx/reply"
	"bikeship/pkg/httpx/req"
	"bikeship/pkg/rest"
)

type shipmentService interface {
	List(ctx context.Context) ([]entity.Shipment, error)
	Get(ctx context.Context, id value.ShipmentID) (entity.Shipment, error)
	Save(ctx context.Context, draft entity.ShipmentDraft) (entity.Shipment, error)
	Edit(ctx context.Context, id value.ShipmentID, edit entity.ShipmentEdit) (entity.Shipment, error)
	UpdateStatus(ctx context.Context, id value.ShipmentID, status value.Status) (entity.Shipment, error)
	Delete(ctx context.Context, id value.ShipmentID) error
}

type ShipmentServer struct {
	shipmentService shipmentService
}

func NewShipmentServer(shipmentService shipmentService) ShipmentServer {
	return ShipmentServer{
		shipmentService: shipmentService,
	}
}

func (s ShipmentServer) getV1Shipments(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	shipments, err := s.shipmentService.List(ctx)
	if err != nil {
		return fmt.Errorf("shipmentService.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTShipments(shipments))

	return nil
}

func (s ShipmentServer) postV1Shipments(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.ShipmentDraft

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	draft, err := newDomainDraft(request)
	if err != nil {
		return fmt.Errorf("newDomainDraft: %w", err)
	}

	created, err := s.shipmentService.Save(ctx, draft)
	if err != nil {
		return fmt.Errorf("shipmentService.Save: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTShipment(created))

	return nil
}

func (s ShipmentServer) getV1Shipment(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := value.ParseShipmentID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseShipmentID: %w", err)
	}

	shipment, err := s.shipmentService.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("shipmentService.Get: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTShipment(shipment))

	return nil
}

func (s ShipmentServer) patchV1Shipment(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := value.ParseShipmentID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseShipmentID: %w", err)
	}

	var request rest.ShipmentEdit

	if err = req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	edit, err := newDomainEdit(request)
	if err != nil {
		return fmt.Errorf("newDomainEdit: %w", err)
	}

	updated, err := s.shipmentService.Edit(ctx, id, edit)
	if err != nil {
		return fmt.Errorf("shipmentService.Edit: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTShipment(updated))

	return nil
}

func (s ShipmentServer) putV1ShipmentStatus(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := value.ParseShipmentID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseShipmentID: %w", err)
	}

	var request rest.StatusUpdate

	if err = req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	status, err := value.ParseStatus(request.Status)
	if err != nil {
		return fmt.Errorf("value.ParseStatus: %w", err)
	}

	updated, err := s.shipmentService.UpdateStatus(ctx, id, status)
	if err != nil {
		return fmt.Errorf("shipmentService.UpdateStatus: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTShipment(updated))

	return nil
}

// deleteV1Shipment answers 204 for unknown ids as well.
func (s ShipmentServer) deleteV1Shipment(w http.ResponseWriter, r *http.Request) error {
	id, err := value.ParseShipmentID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseShipmentID: %w", err)
	}

	if err = s.shipmentService.Delete(r.Context(), id); err != nil {
		return fmt.Errorf("shipmentService.Delete: %w", err)
	}

	reply.NoContent(w)

	return nil
}
