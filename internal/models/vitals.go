package models

import "time"

// VitalSigns is one timestamped snapshot of measurable physiological
// parameters for a patient. Every measurement is independently optional;
// records form an append-only series per patient.
type VitalSigns struct {
	ID                     string    `json:"id" gorm:"primaryKey"`
	PatientID              string    `json:"patient_id" gorm:"not null"`
	EmergencyRequestID     *string   `json:"emergency_request_id"`
	HeartRate              *int      `json:"heart_rate"`
	BloodPressureSystolic  *int      `json:"blood_pressure_systolic"`
	BloodPressureDiastolic *int      `json:"blood_pressure_diastolic"`
	Temperature            *float64  `json:"temperature"`
	OxygenSaturation       *int      `json:"oxygen_saturation"`
	RespiratoryRate        *int      `json:"respiratory_rate"`
	RecordedBy             string    `json:"recorded_by" gorm:"not null"`
	CreatedAt              time.Time `json:"created_at" gorm:"autoCreateTime"`

	Patient   *User             `json:"-" gorm:"foreignKey:PatientID"`
	Emergency *EmergencyRequest `json:"-" gorm:"foreignKey:EmergencyRequestID"`
	Recorder  *User             `json:"-" gorm:"foreignKey:RecordedBy"`
}

// VitalSignsWithRecorder is the display row: the snapshot joined with the
// name of whoever recorded it.
type VitalSignsWithRecorder struct {
	VitalSigns
	RecordedByName string `json:"recorded_by_name"`
}
