package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"healthontrack/internal/auth"
	"healthontrack/internal/models"
)

// MemoryStore is the volatile backend: process-local collections for hosts
// without writable local disk. It is a demo/fallback, never the system of
// record. Unlike the durable backend it enforces no referential integrity;
// dangling references are tolerated and joins are resolved at read time.
//
// The original design shared these collections across requests without
// locking. In Go a concurrent map or slice mutation is a crash, so the store
// takes a mutex; semantics are otherwise unchanged.
type MemoryStore struct {
	mu     sync.RWMutex
	strict bool

	users         []models.User
	emergencies   []models.EmergencyRequest
	messages      []models.Message
	vitals        []models.VitalSigns
	prescriptions []models.Prescription
	trains        []models.Train
}

// NewMemory creates the store seeded with two demo accounts and the
// reference train. Both demo accounts use the password "password123".
func NewMemory(strict bool) *MemoryStore {
	now := time.Now()
	return &MemoryStore{
		strict: strict,
		users: []models.User{
			{
				ID:           "user_demo_passenger",
				Name:         "John Doe",
				Email:        "passenger@demo.com",
				PasswordHash: auth.HashPassword("password123"),
				Role:         models.RolePassenger,
				TrainID:      "TR-001",
				CreatedAt:    now,
				UpdatedAt:    now,
			},
			{
				ID:           "user_demo_doctor",
				Name:         "Dr. Smith",
				Email:        "doctor@demo.com",
				PasswordHash: auth.HashPassword("password123"),
				Role:         models.RoleDoctor,
				TrainID:      "TR-001",
				CreatedAt:    now,
				UpdatedAt:    now,
			},
		},
		trains: []models.Train{seedTrain()},
	}
}

// --- users ---

func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users = append(s.users, *u)
	return nil
}

func (s *MemoryStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if s.users[i].Email == email {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u := s.userByID(id); u != nil {
		cp := *u
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) TouchUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrNotFound
}

// userByID returns a pointer into the users slice; callers hold the lock.
func (s *MemoryStore) userByID(id string) *models.User {
	for i := range s.users {
		if s.users[i].ID == id {
			return &s.users[i]
		}
	}
	return nil
}

func (s *MemoryStore) userName(id string) string {
	if u := s.userByID(id); u != nil {
		return u.Name
	}
	return "Unknown User"
}

// --- emergency requests ---

func (s *MemoryStore) CreateEmergency(_ context.Context, e *models.EmergencyRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	e.Status = models.StatusPending
	e.CreatedAt = now
	e.UpdatedAt = now
	s.emergencies = append(s.emergencies, *e)
	return nil
}

func (s *MemoryStore) FindEmergencyByID(_ context.Context, id string) (*models.EmergencyDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.emergencies {
		if s.emergencies[i].ID == id {
			d := s.emergencyDetail(s.emergencies[i])
			return &d, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) emergencyDetail(e models.EmergencyRequest) models.EmergencyDetail {
	d := models.EmergencyDetail{EmergencyRequest: e}
	if p := s.userByID(e.PassengerID); p != nil {
		d.PassengerName = p.Name
		d.PassengerEmail = p.Email
	} else {
		d.PassengerName = "Unknown User"
	}
	if e.AssignedAttendantID != nil {
		if a := s.userByID(*e.AssignedAttendantID); a != nil {
			d.AttendantName = &a.Name
			d.AttendantEmail = &a.Email
		}
	}
	if e.AssignedDoctorID != nil {
		if doc := s.userByID(*e.AssignedDoctorID); doc != nil {
			d.DoctorName = &doc.Name
			d.DoctorEmail = &doc.Email
		}
	}
	return d
}

func (s *MemoryStore) FindEmergenciesByPassenger(_ context.Context, passengerID string) ([]models.EmergencyRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.EmergencyRequest
	for i := range s.emergencies {
		if s.emergencies[i].PassengerID == passengerID {
			out = append(out, s.emergencies[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) FindPendingEmergencies(_ context.Context) ([]models.EmergencySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.EmergencySummary
	for i := range s.emergencies {
		if s.emergencies[i].Status != models.StatusPending {
			continue
		}
		row := models.EmergencySummary{EmergencyRequest: s.emergencies[i]}
		if p := s.userByID(s.emergencies[i].PassengerID); p != nil {
			row.PassengerName = p.Name
			row.PassengerEmail = p.Email
		} else {
			row.PassengerName = "Unknown User"
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) UpdateEmergencyStatus(_ context.Context, id string, upd EmergencyStatusUpdate) (*models.EmergencyDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.emergencies {
		if s.emergencies[i].ID != id {
			continue
		}
		if s.strict && !upd.Override && !models.CanTransition(s.emergencies[i].Status, upd.Status) {
			return nil, ErrInvalidTransition
		}
		s.emergencies[i].Status = upd.Status
		s.emergencies[i].AssignedAttendantID = upd.AttendantID
		s.emergencies[i].AssignedDoctorID = upd.DoctorID
		s.emergencies[i].UpdatedAt = time.Now()
		d := s.emergencyDetail(s.emergencies[i])
		return &d, nil
	}
	return nil, ErrNotFound
}

// --- messages ---

func (s *MemoryStore) CreateMessage(_ context.Context, m *models.Message) (*models.MessageWithSender, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.CreatedAt = time.Now()
	s.messages = append(s.messages, *m)
	return s.messageWithSender(*m), nil
}

func (s *MemoryStore) messageWithSender(m models.Message) *models.MessageWithSender {
	row := &models.MessageWithSender{Message: m}
	if u := s.userByID(m.SenderID); u != nil {
		row.SenderName = u.Name
		row.SenderRole = u.Role
	} else {
		row.SenderName = "Unknown User"
	}
	return row
}

func (s *MemoryStore) FindMessagesByEmergency(_ context.Context, emergencyRequestID string) ([]models.MessageWithSender, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.MessageWithSender
	for i := range s.messages {
		if s.messages[i].EmergencyRequestID == emergencyRequestID {
			out = append(out, *s.messageWithSender(s.messages[i]))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// --- vital signs ---

func (s *MemoryStore) CreateVitals(_ context.Context, v *models.VitalSigns) (*models.VitalSignsWithRecorder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.CreatedAt = time.Now()
	s.vitals = append(s.vitals, *v)
	return &models.VitalSignsWithRecorder{VitalSigns: *v, RecordedByName: s.userName(v.RecordedBy)}, nil
}

func (s *MemoryStore) FindVitalsByPatient(_ context.Context, patientID string) ([]models.VitalSignsWithRecorder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.VitalSignsWithRecorder
	for i := range s.vitals {
		if s.vitals[i].PatientID == patientID {
			out = append(out, models.VitalSignsWithRecorder{
				VitalSigns:     s.vitals[i],
				RecordedByName: s.userName(s.vitals[i].RecordedBy),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) FindLatestVitalsByPatient(ctx context.Context, patientID string) (*models.VitalSignsWithRecorder, error) {
	rows, err := s.FindVitalsByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// --- prescriptions ---

func (s *MemoryStore) CreatePrescription(_ context.Context, p *models.Prescription) (*models.PrescriptionWithDoctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.CreatedAt = time.Now()
	if p.Status == "" {
		p.Status = models.PrescriptionActive
	}
	s.prescriptions = append(s.prescriptions, *p)
	return &models.PrescriptionWithDoctor{Prescription: *p, DoctorName: s.doctorName(p.DoctorID)}, nil
}

func (s *MemoryStore) doctorName(id string) string {
	if u := s.userByID(id); u != nil {
		return u.Name
	}
	return "Unknown Doctor"
}

func (s *MemoryStore) FindPrescriptionsByPatient(_ context.Context, patientID string) ([]models.PrescriptionWithDoctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.PrescriptionWithDoctor
	for i := range s.prescriptions {
		if s.prescriptions[i].PatientID == patientID {
			out = append(out, models.PrescriptionWithDoctor{
				Prescription: s.prescriptions[i],
				DoctorName:   s.doctorName(s.prescriptions[i].DoctorID),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) UpdatePrescriptionStatus(_ context.Context, id string, status models.PrescriptionStatus) (*models.Prescription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.prescriptions {
		if s.prescriptions[i].ID == id {
			s.prescriptions[i].Status = status
			p := s.prescriptions[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

// --- trains ---

func (s *MemoryStore) FindAllTrains(_ context.Context) ([]models.Train, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Train, len(s.trains))
	copy(out, s.trains)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) FindTrainByID(_ context.Context, id string) (*models.Train, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.trains {
		if s.trains[i].ID == id {
			t := s.trains[i]
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdateTrainLocation(_ context.Context, id, location string) (*models.Train, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.trains {
		if s.trains[i].ID == id {
			s.trains[i].CurrentLocation = location
			s.trains[i].UpdatedAt = time.Now()
			t := s.trains[i]
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

// --- lifecycle ---

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
