package models

import "time"

// Severity is the urgency classification of an emergency request.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ValidSeverity reports whether s is one of the four severity levels.
func ValidSeverity(s string) bool {
	switch Severity(s) {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// EmergencyStatus is the lifecycle state of an emergency request.
type EmergencyStatus string

const (
	StatusPending    EmergencyStatus = "pending"
	StatusAssigned   EmergencyStatus = "assigned"
	StatusInProgress EmergencyStatus = "in_progress"
	StatusResolved   EmergencyStatus = "resolved"
	StatusCancelled  EmergencyStatus = "cancelled"
)

// ValidEmergencyStatus reports whether s is one of the five lifecycle states.
func ValidEmergencyStatus(s string) bool {
	switch EmergencyStatus(s) {
	case StatusPending, StatusAssigned, StatusInProgress, StatusResolved, StatusCancelled:
		return true
	}
	return false
}

// transitions is the legal lifecycle graph. resolved and cancelled are
// terminal.
var transitions = map[EmergencyStatus][]EmergencyStatus{
	StatusPending:    {StatusAssigned, StatusCancelled},
	StatusAssigned:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusResolved, StatusCancelled},
	StatusResolved:   {},
	StatusCancelled:  {},
}

// CanTransition reports whether from -> to is legal. A self-transition is
// always legal: it carries an assignment change without moving state.
func CanTransition(from, to EmergencyStatus) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// EmergencyRequest is a passenger-initiated case record tracking a medical
// incident from report to resolution. It is created pending and never
// deleted.
type EmergencyRequest struct {
	ID                  string          `json:"id" gorm:"primaryKey"`
	PassengerID         string          `json:"passenger_id" gorm:"not null"`
	TrainID             string          `json:"train_id" gorm:"not null"`
	Description         string          `json:"description" gorm:"not null"`
	Severity            Severity        `json:"severity" gorm:"not null"`
	Status              EmergencyStatus `json:"status" gorm:"not null;default:pending"`
	AssignedAttendantID *string         `json:"assigned_attendant_id"`
	AssignedDoctorID    *string         `json:"assigned_doctor_id"`
	Location            *string         `json:"location"`
	CreatedAt           time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt           time.Time       `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations, declared so the relational backend gets real foreign-key
	// constraints. Never serialized.
	Passenger *User `json:"-" gorm:"foreignKey:PassengerID"`
	Attendant *User `json:"-" gorm:"foreignKey:AssignedAttendantID"`
	Doctor    *User `json:"-" gorm:"foreignKey:AssignedDoctorID"`
}

// EmergencySummary is the pending-queue row: the request joined with the
// reporting passenger for the triage views.
type EmergencySummary struct {
	EmergencyRequest
	PassengerName  string `json:"passenger_name"`
	PassengerEmail string `json:"passenger_email"`
}

// EmergencyDetail is the full display row: the request joined with the names
// and emails of the passenger and any assigned staff.
type EmergencyDetail struct {
	EmergencyRequest
	PassengerName  string  `json:"passenger_name"`
	PassengerEmail string  `json:"passenger_email"`
	AttendantName  *string `json:"attendant_name"`
	AttendantEmail *string `json:"attendant_email"`
	DoctorName     *string `json:"doctor_name"`
	DoctorEmail    *string `json:"doctor_email"`
}
