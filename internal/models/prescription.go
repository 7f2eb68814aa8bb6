package models

import "time"

// PrescriptionStatus is the lifecycle state of a prescription.
type PrescriptionStatus string

const (
	PrescriptionActive    PrescriptionStatus = "active"
	PrescriptionCompleted PrescriptionStatus = "completed"
	PrescriptionCancelled PrescriptionStatus = "cancelled"
)

// ValidPrescriptionStatus reports whether s is one of the three states.
func ValidPrescriptionStatus(s string) bool {
	switch PrescriptionStatus(s) {
	case PrescriptionActive, PrescriptionCompleted, PrescriptionCancelled:
		return true
	}
	return false
}

// Prescription links a patient and a doctor, optionally in the context of an
// emergency request. Created active by doctor action; status mutable after.
type Prescription struct {
	ID                 string             `json:"id" gorm:"primaryKey"`
	PatientID          string             `json:"patient_id" gorm:"not null"`
	DoctorID           string             `json:"doctor_id" gorm:"not null"`
	EmergencyRequestID *string            `json:"emergency_request_id"`
	MedicationName     string             `json:"medication_name" gorm:"not null"`
	Dosage             string             `json:"dosage" gorm:"not null"`
	Frequency          string             `json:"frequency" gorm:"not null"`
	Duration           string             `json:"duration" gorm:"not null"`
	Instructions       *string            `json:"instructions"`
	Status             PrescriptionStatus `json:"status" gorm:"not null;default:active"`
	CreatedAt          time.Time          `json:"created_at" gorm:"autoCreateTime"`

	Patient   *User             `json:"-" gorm:"foreignKey:PatientID"`
	Doctor    *User             `json:"-" gorm:"foreignKey:DoctorID"`
	Emergency *EmergencyRequest `json:"-" gorm:"foreignKey:EmergencyRequestID"`
}

// PrescriptionWithDoctor is the display row: the prescription joined with the
// prescribing doctor's name.
type PrescriptionWithDoctor struct {
	Prescription
	DoctorName string `json:"doctor_name"`
}
