// Package store is the persistence layer. Every access path is a named,
// pre-validated operation; there is no generic query surface. Two
// implementations exist behind the Store interface: a durable sqlite-backed
// store and a volatile in-memory store for hosts without writable local
// disk. Both return structurally identical shapes so handlers stay
// backend-agnostic.
package store

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"healthontrack/internal/models"
	"healthontrack/pkg/config"
)

var (
	// ErrNotFound means the identifier matched no row.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicateEmail means a user with that email already exists.
	ErrDuplicateEmail = errors.New("store: email already registered")
	// ErrInvalidTransition means the requested status change is not legal
	// from the record's current state (strict mode only).
	ErrInvalidTransition = errors.New("store: illegal status transition")
)

// EmergencyStatusUpdate carries a PATCH to an emergency request. Status and
// both assignment fields are overwritten unconditionally once the transition
// is accepted; Override skips the transition check even in strict mode.
type EmergencyStatusUpdate struct {
	Status      models.EmergencyStatus
	AttendantID *string
	DoctorID    *string
	Override    bool
}

// Store is the full persistence operation set.
type Store interface {
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	TouchUser(ctx context.Context, id string) error

	CreateEmergency(ctx context.Context, e *models.EmergencyRequest) error
	FindEmergencyByID(ctx context.Context, id string) (*models.EmergencyDetail, error)
	FindEmergenciesByPassenger(ctx context.Context, passengerID string) ([]models.EmergencyRequest, error)
	FindPendingEmergencies(ctx context.Context) ([]models.EmergencySummary, error)
	UpdateEmergencyStatus(ctx context.Context, id string, upd EmergencyStatusUpdate) (*models.EmergencyDetail, error)

	CreateMessage(ctx context.Context, m *models.Message) (*models.MessageWithSender, error)
	FindMessagesByEmergency(ctx context.Context, emergencyRequestID string) ([]models.MessageWithSender, error)

	CreateVitals(ctx context.Context, v *models.VitalSigns) (*models.VitalSignsWithRecorder, error)
	FindVitalsByPatient(ctx context.Context, patientID string) ([]models.VitalSignsWithRecorder, error)
	FindLatestVitalsByPatient(ctx context.Context, patientID string) (*models.VitalSignsWithRecorder, error)

	CreatePrescription(ctx context.Context, p *models.Prescription) (*models.PrescriptionWithDoctor, error)
	FindPrescriptionsByPatient(ctx context.Context, patientID string) ([]models.PrescriptionWithDoctor, error)
	UpdatePrescriptionStatus(ctx context.Context, id string, status models.PrescriptionStatus) (*models.Prescription, error)

	FindAllTrains(ctx context.Context) ([]models.Train, error)
	FindTrainByID(ctx context.Context, id string) (*models.Train, error)
	UpdateTrainLocation(ctx context.Context, id, location string) (*models.Train, error)

	Ping(ctx context.Context) error
	Close() error
}

// Open selects and constructs the backend once, at process start. The choice
// is never re-checked per call.
func Open(cfg *config.Config, log *zap.Logger) (Store, error) {
	switch cfg.DBBackend {
	case "memory":
		log.Warn("using volatile in-memory store; state is lost on restart")
		return NewMemory(cfg.StrictTransitions), nil
	default:
		return NewSQLite(cfg.DBPath, cfg.StrictTransitions)
	}
}

// seedTrain is the reference train inserted when the train table is empty.
func seedTrain() models.Train {
	return models.Train{
		ID:              "TR-001",
		Name:            "Express 12A",
		Route:           "Mumbai - Delhi",
		CurrentLocation: "Central Station",
		Status:          models.TrainActive,
		MedicalEquipment: models.EquipmentList{
			"AED", "Oxygen Tank", "First Aid Kit", "Blood Pressure Monitor", "Thermometer",
		},
	}
}
