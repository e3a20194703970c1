package response

import (
	"time"

	"salon-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type AppointmentServiceResponse struct {
	ServiceID   uuid.UUID `json:"serviceId"`
	Name        string    `json:"name"`
	DurationMin int       `json:"durationMin"`
	PriceCents  int64     `json:"priceCents"`
}

type AppointmentResponse struct {
	ID          uuid.UUID                    `json:"id"`
	ClientID    uuid.UUID                    `json:"clientId"`
	ClientName  string                       `json:"clientName"`
	ClientEmail string                       `json:"clientEmail"`
	ClientPhone string                       `json:"clientPhone"`
	StaffID     uuid.UUID                    `json:"staffId"`
	StaffName   string                       `json:"staffName"`
	ComboID     *uuid.UUID                   `json:"comboId,omitempty"`
	StartAt     time.Time                    `json:"startAt"`
	EndAt       time.Time                    `json:"endAt"`
	Status      string                       `json:"status"`
	Notes       string                       `json:"notes"`
	TotalCents  int64                        `json:"totalCents"`
	Services    []AppointmentServiceResponse `json:"services"`
	CreatedAt   time.Time                    `json:"createdAt"`
	UpdatedAt   time.Time                    `json:"updatedAt"`
}

type AppointmentListResponse struct {
	Items      []*AppointmentResponse `json:"items"`
	NextCursor string                 `json:"nextCursor,omitempty"`
}

func FromAppointmentView(v *queries.AppointmentView) *AppointmentResponse {
	services := make([]AppointmentServiceResponse, len(v.Services))
	for i, s := range v.Services {
		services[i] = AppointmentServiceResponse{
			ServiceID:   s.ServiceID,
			Name:        s.Name,
			DurationMin: s.DurationMin,
			PriceCents:  s.PriceCents,
		}
	}
	return &AppointmentResponse{
		ID:          v.ID,
		ClientID:    v.ClientID,
		ClientName:  v.ClientName,
		ClientEmail: v.ClientEmail,
		ClientPhone: v.ClientPhone,
		StaffID:     v.StaffID,
		StaffName:   v.StaffName,
		ComboID:     v.ComboID,
		StartAt:     v.StartAt,
		EndAt:       v.EndAt,
		Status:      v.Status,
		Notes:       v.Notes,
		TotalCents:  v.TotalCents,
		Services:    services,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

func FromAppointmentPage(p *queries.AppointmentPage) *AppointmentListResponse {
	items := make([]*AppointmentResponse, len(p.Items))
	for i := range p.Items {
		items[i] = FromAppointmentView(&p.Items[i])
	}
	return &AppointmentListResponse{Items: items, NextCursor: p.NextCursor}
}

type SlotResponse struct {
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
}

type AvailabilityResponse struct {
	StaffID     uuid.UUID      `json:"staffId"`
	Date        string         `json:"date"`
	DurationMin int            `json:"durationMin"`
	Slots       []SlotResponse `json:"slots"`
	Reason      string         `json:"reason,omitempty"`
}

func FromAvailabilityView(v *queries.AvailabilityView) *AvailabilityResponse {
	slots := make([]SlotResponse, len(v.Slots))
	for i, s := range v.Slots {
		slots[i] = SlotResponse(s)
	}
	return &AvailabilityResponse{
		StaffID:     v.StaffID,
		Date:        v.Date,
		DurationMin: v.DurationMin,
		Slots:       slots,
		Reason:      v.Reason,
	}
}
