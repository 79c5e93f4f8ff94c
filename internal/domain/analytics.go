package domain

import "time"

type ClinicStats struct {
	ClinicID   int64   `json:"clinic_id"`
	ClinicName string  `json:"clinic_name"`
	Bookings   int     `json:"bookings"`
	Revenue    float64 `json:"revenue"`
}

type DoctorStats struct {
	DoctorID         int64                 `json:"doctor_id"`
	From             time.Time             `json:"from"`
	To               time.Time             `json:"to"`
	Total            int                   `json:"total"`
	ByStatus         map[BookingStatus]int `json:"by_status"`
	ByType           map[BookingType]int   `json:"by_type"`
	ByClinic         []ClinicStats         `json:"by_clinic"`
	CompletedRevenue float64               `json:"completed_revenue"`
	CancellationRate float64               `json:"cancellation_rate"`
}

type ExportResult struct {
	ObjectURL    string    `json:"object_url"`
	DownloadURL  string    `json:"download_url"`
	Rows         int       `json:"rows"`
	GeneratedAt  time.Time `json:"generated_at"`
	ExpiresAfter string    `json:"expires_after"`
}

type ExportRequestDTO struct {
	From string `json:"from" binding:"required" example:"2026-01-01"`
	To   string `json:"to" binding:"required" example:"2026-01-31"`
}
