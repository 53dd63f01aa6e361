package response

import (
	"rental-engine/internal/usecase/commands"

	"github.com/google/uuid"
)

type FuelFeeResponse struct {
	MissingLiters int     `json:"missingLiters"`
	BaseFee       float64 `json:"baseFee"`
	LiterFee      float64 `json:"literFee"`
	Total         float64 `json:"total"`
}

type InspectionResponse struct {
	InspectionID uuid.UUID        `json:"inspectionId"`
	FuelFee      *FuelFeeResponse `json:"fuelFee,omitempty"`
}

func FromInspectionResult(r *commands.InspectionResult) *InspectionResponse {
	resp := &InspectionResponse{InspectionID: r.InspectionID}
	if f := r.FuelFee; f != nil {
		resp.FuelFee = &FuelFeeResponse{
			MissingLiters: f.MissingLiters,
			BaseFee:       f.BaseFee.Float(),
			LiterFee:      f.LiterFee.Float(),
			Total:         f.Total.Float(),
		}
	}
	return resp
}

type CheckoutResponse struct {
	BookingID     uuid.UUID `json:"bookingId"`
	PaymentMethod *string   `json:"paymentMethod,omitempty"`
	RedirectURL   string    `json:"redirectUrl,omitempty"`
}

func FromCheckoutResult(r *commands.CheckoutResult) *CheckoutResponse {
	resp := &CheckoutResponse{BookingID: r.BookingID, RedirectURL: r.RedirectURL}
	if r.Method != nil {
		s := string(*r.Method)
		resp.PaymentMethod = &s
	}
	return resp
}
