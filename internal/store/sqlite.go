package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"healthontrack/internal/models"
)

// SQLiteStore is the durable backend: a transactional on-disk relational
// store with foreign-key constraints enabled. Schema creation is idempotent
// and runs on open.
type SQLiteStore struct {
	db     *gorm.DB
	strict bool
}

// NewSQLite opens (creating if needed) the database at path and migrates the
// schema. An empty trains table is seeded with the reference train.
func NewSQLite(path string, strict bool) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path+"?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Train{},
		&models.EmergencyRequest{},
		&models.Message{},
		&models.VitalSigns{},
		&models.Prescription{},
	); err != nil {
		return nil, err
	}

	var trains int64
	if err := db.Model(&models.Train{}).Count(&trains).Error; err != nil {
		return nil, err
	}
	if trains == 0 {
		t := seedTrain()
		if err := db.Create(&t).Error; err != nil {
			return nil, err
		}
	}

	return &SQLiteStore{db: db, strict: strict}, nil
}

// --- users ---

func (s *SQLiteStore) CreateUser(ctx context.Context, u *models.User) error {
	err := s.db.WithContext(ctx).Create(u).Error
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (s *SQLiteStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *SQLiteStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *SQLiteStore) TouchUser(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("updated_at", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- emergency requests ---

const emergencyDetailQuery = `
SELECT er.*,
       p.name  AS passenger_name, p.email AS passenger_email,
       a.name  AS attendant_name, a.email AS attendant_email,
       d.name  AS doctor_name,    d.email AS doctor_email
FROM emergency_requests er
JOIN users p ON er.passenger_id = p.id
LEFT JOIN users a ON er.assigned_attendant_id = a.id
LEFT JOIN users d ON er.assigned_doctor_id = d.id
WHERE er.id = ?`

func (s *SQLiteStore) CreateEmergency(ctx context.Context, e *models.EmergencyRequest) error {
	// Initial state is not caller-settable.
	e.Status = models.StatusPending
	return s.db.WithContext(ctx).Create(e).Error
}

func (s *SQLiteStore) FindEmergencyByID(ctx context.Context, id string) (*models.EmergencyDetail, error) {
	var detail models.EmergencyDetail
	res := s.db.WithContext(ctx).Raw(emergencyDetailQuery, id).Scan(&detail)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &detail, nil
}

func (s *SQLiteStore) FindEmergenciesByPassenger(ctx context.Context, passengerID string) ([]models.EmergencyRequest, error) {
	var reqs []models.EmergencyRequest
	err := s.db.WithContext(ctx).
		Where("passenger_id = ?", passengerID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (s *SQLiteStore) FindPendingEmergencies(ctx context.Context) ([]models.EmergencySummary, error) {
	var rows []models.EmergencySummary
	err := s.db.WithContext(ctx).Raw(`
SELECT er.*, u.name AS passenger_name, u.email AS passenger_email
FROM emergency_requests er
JOIN users u ON er.passenger_id = u.id
WHERE er.status = ?
ORDER BY er.created_at DESC`, models.StatusPending).Scan(&rows).Error
	return rows, err
}

func (s *SQLiteStore) UpdateEmergencyStatus(ctx context.Context, id string, upd EmergencyStatusUpdate) (*models.EmergencyDetail, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.EmergencyRequest
		if err := tx.Where("id = ?", id).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if s.strict && !upd.Override && !models.CanTransition(current.Status, upd.Status) {
			return ErrInvalidTransition
		}
		// Status and both assignment fields are overwritten with whatever
		// the caller sent.
		return tx.Model(&models.EmergencyRequest{}).Where("id = ?", id).Updates(map[string]interface{}{
			"status":                upd.Status,
			"assigned_attendant_id": upd.AttendantID,
			"assigned_doctor_id":    upd.DoctorID,
			"updated_at":            time.Now(),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.FindEmergencyByID(ctx, id)
}

// --- messages ---

const messageWithSenderQuery = `
SELECT m.*, u.name AS sender_name, u.role AS sender_role
FROM messages m
JOIN users u ON m.sender_id = u.id`

func (s *SQLiteStore) CreateMessage(ctx context.Context, m *models.Message) (*models.MessageWithSender, error) {
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	var row models.MessageWithSender
	res := s.db.WithContext(ctx).Raw(messageWithSenderQuery+" WHERE m.id = ?", m.ID).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (s *SQLiteStore) FindMessagesByEmergency(ctx context.Context, emergencyRequestID string) ([]models.MessageWithSender, error) {
	var rows []models.MessageWithSender
	err := s.db.WithContext(ctx).
		Raw(messageWithSenderQuery+" WHERE m.emergency_request_id = ? ORDER BY m.created_at ASC", emergencyRequestID).
		Scan(&rows).Error
	return rows, err
}

// --- vital signs ---

const vitalsWithRecorderQuery = `
SELECT vs.*, u.name AS recorded_by_name
FROM vital_signs vs
JOIN users u ON vs.recorded_by = u.id`

func (s *SQLiteStore) CreateVitals(ctx context.Context, v *models.VitalSigns) (*models.VitalSignsWithRecorder, error) {
	if err := s.db.WithContext(ctx).Create(v).Error; err != nil {
		return nil, err
	}
	var row models.VitalSignsWithRecorder
	res := s.db.WithContext(ctx).Raw(vitalsWithRecorderQuery+" WHERE vs.id = ?", v.ID).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (s *SQLiteStore) FindVitalsByPatient(ctx context.Context, patientID string) ([]models.VitalSignsWithRecorder, error) {
	var rows []models.VitalSignsWithRecorder
	err := s.db.WithContext(ctx).
		Raw(vitalsWithRecorderQuery+" WHERE vs.patient_id = ? ORDER BY vs.created_at DESC", patientID).
		Scan(&rows).Error
	return rows, err
}

func (s *SQLiteStore) FindLatestVitalsByPatient(ctx context.Context, patientID string) (*models.VitalSignsWithRecorder, error) {
	var row models.VitalSignsWithRecorder
	res := s.db.WithContext(ctx).
		Raw(vitalsWithRecorderQuery+" WHERE vs.patient_id = ? ORDER BY vs.created_at DESC LIMIT 1", patientID).
		Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &row, nil
}

// --- prescriptions ---

const prescriptionWithDoctorQuery = `
SELECT p.*, d.name AS doctor_name
FROM prescriptions p
JOIN users d ON p.doctor_id = d.id`

func (s *SQLiteStore) CreatePrescription(ctx context.Context, p *models.Prescription) (*models.PrescriptionWithDoctor, error) {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	var row models.PrescriptionWithDoctor
	res := s.db.WithContext(ctx).Raw(prescriptionWithDoctorQuery+" WHERE p.id = ?", p.ID).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (s *SQLiteStore) FindPrescriptionsByPatient(ctx context.Context, patientID string) ([]models.PrescriptionWithDoctor, error) {
	var rows []models.PrescriptionWithDoctor
	err := s.db.WithContext(ctx).
		Raw(prescriptionWithDoctorQuery+" WHERE p.patient_id = ? ORDER BY p.created_at DESC", patientID).
		Scan(&rows).Error
	return rows, err
}

func (s *SQLiteStore) UpdatePrescriptionStatus(ctx context.Context, id string, status models.PrescriptionStatus) (*models.Prescription, error) {
	res := s.db.WithContext(ctx).Model(&models.Prescription{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	var p models.Prescription
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// --- trains ---

func (s *SQLiteStore) FindAllTrains(ctx context.Context) ([]models.Train, error) {
	var trains []models.Train
	err := s.db.WithContext(ctx).Order("name").Find(&trains).Error
	return trains, err
}

func (s *SQLiteStore) FindTrainByID(ctx context.Context, id string) (*models.Train, error) {
	var t models.Train
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *SQLiteStore) UpdateTrainLocation(ctx context.Context, id, location string) (*models.Train, error) {
	res := s.db.WithContext(ctx).Model(&models.Train{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"current_location": location, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.FindTrainByID(ctx, id)
}

// --- lifecycle ---

func (s *SQLiteStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// isUniqueViolation recognizes a unique-constraint failure from the driver.
// TranslateError covers most cases; the string check catches drivers that
// report the raw sqlite error.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}
