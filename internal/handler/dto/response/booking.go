package response

import (
	"time"

	"rental-engine/internal/domain/booking"
	"rental-engine/internal/domain/interval"
	"rental-engine/internal/domain/pricing"
	"rental-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type ChargesResponse struct {
	UnitPrice              float64 `json:"unitPrice"`
	UnitLabel              string  `json:"unitLabel"`
	BillableUnitCount      int     `json:"billableUnitCount"`
	RentalTotal            float64 `json:"rentalTotal"`
	Deposit                float64 `json:"deposit"`
	PrepaidRent            float64 `json:"prepaidRent"`
	DeductibleInsuranceFee float64 `json:"deductibleInsuranceFee"`
	ReferralDiscount       float64 `json:"referralDiscount"`
	GrandTotal             float64 `json:"grandTotal"`
}

type InsuranceResponse struct {
	DaysCovered        int     `json:"daysCovered"`
	DailyRate          float64 `json:"dailyRate"`
	Amount             float64 `json:"amount"`
	OriginalDeductible float64 `json:"originalDeductible"`
	NewDeductible      float64 `json:"newDeductible"`
}

type BookingResponse struct {
	ID            uuid.UUID          `json:"id"`
	VehicleID     uuid.UUID          `json:"vehicleId"`
	VehicleName   string             `json:"vehicleName"`
	RenterID      uuid.UUID          `json:"renterId"`
	StartDate     string             `json:"startDate"`
	EndDate       string             `json:"endDate"`
	Tier          string             `json:"tier"`
	Status        string             `json:"status"`
	Charges       ChargesResponse    `json:"charges"`
	Insurance     *InsuranceResponse `json:"insurance,omitempty"`
	PaymentMethod *string            `json:"paymentMethod,omitempty"`
	FuelFee       *float64           `json:"fuelFee,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

func FromCharges(c pricing.ChargeBreakdown) ChargesResponse {
	return ChargesResponse{
		UnitPrice:              c.UnitPrice.Float(),
		UnitLabel:              c.UnitLabel,
		BillableUnitCount:      c.BillableUnitCount,
		RentalTotal:            c.RentalTotal.Float(),
		Deposit:                c.Deposit.Float(),
		PrepaidRent:            c.PrepaidRent.Float(),
		DeductibleInsuranceFee: c.DeductibleInsuranceFee.Float(),
		ReferralDiscount:       c.ReferralDiscount.Float(),
		GrandTotal:             c.GrandTotal.Float(),
	}
}

func FromInsurance(c *booking.InsuranceCoverage) *InsuranceResponse {
	if c == nil {
		return nil
	}
	return &InsuranceResponse{
		DaysCovered:        c.DaysCovered,
		DailyRate:          c.DailyRate.Float(),
		Amount:             c.Amount.Float(),
		OriginalDeductible: c.OriginalDeductible.Float(),
		NewDeductible:      c.NewDeductible.Float(),
	}
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	b := v.Booking
	resp := &BookingResponse{
		ID:          b.ID(),
		VehicleID:   b.VehicleID(),
		VehicleName: v.VehicleName,
		RenterID:    b.RenterID(),
		StartDate:   interval.FormatDate(b.Period().Start()),
		EndDate:     interval.FormatDate(b.Period().End()),
		Tier:        b.Tier().String(),
		Status:      string(b.Status()),
		Charges:     FromCharges(b.Charges()),
		Insurance:   FromInsurance(b.Insurance()),
		CreatedAt:   b.CreatedAt(),
		UpdatedAt:   b.UpdatedAt(),
	}
	if m := b.PaymentMethod(); m != nil {
		s := string(*m)
		resp.PaymentMethod = &s
	}
	if fee := b.FuelFee(); fee != nil {
		f := fee.Float()
		resp.FuelFee = &f
	}
	return resp
}

type QuoteResponse struct {
	Tier              string             `json:"tier"`
	BillableUnitCount int                `json:"billableUnitCount"`
	Charges           ChargesResponse    `json:"charges"`
	Insurance         *InsuranceResponse `json:"insurance,omitempty"`
}

func FromPriced(p booking.Priced) *QuoteResponse {
	return &QuoteResponse{
		Tier:              p.Quote.Tier.String(),
		BillableUnitCount: p.Quote.BillableUnitCount,
		Charges:           FromCharges(p.Charges),
		Insurance:         FromInsurance(p.Insurance),
	}
}

type CalendarDayResponse struct {
	Date   string `json:"date"`
	Booked bool   `json:"booked"`
}

type AvailabilityResponse struct {
	VehicleID     uuid.UUID             `json:"vehicleId"`
	From          string                `json:"from"`
	Days          []CalendarDayResponse `json:"days"`
	BookedDates   []string              `json:"bookedDates"`
	NextAvailable *string               `json:"nextAvailable,omitempty"`
}

func FromAvailabilityView(v *queries.AvailabilityView) *AvailabilityResponse {
	resp := &AvailabilityResponse{
		VehicleID:   v.VehicleID,
		From:        interval.FormatDate(v.From),
		Days:        make([]CalendarDayResponse, len(v.Days)),
		BookedDates: make([]string, len(v.BookedDates)),
	}
	for i, d := range v.Days {
		resp.Days[i] = CalendarDayResponse{Date: interval.FormatDate(d.Date), Booked: d.Booked}
	}
	for i, d := range v.BookedDates {
		resp.BookedDates[i] = interval.FormatDate(d)
	}
	if v.NextAvailable != nil {
		s := interval.FormatDate(*v.NextAvailable)
		resp.NextAvailable = &s
	}
	return resp
}
