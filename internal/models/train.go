package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TrainStatus is the operational state of a train.
type TrainStatus string

const (
	TrainActive      TrainStatus = "active"
	TrainMaintenance TrainStatus = "maintenance"
	TrainInactive    TrainStatus = "inactive"
)

// EquipmentList is the set of medical-equipment labels on board. It is stored
// as a JSON-encoded string in the relational backend and serialized as a
// plain array on the wire.
type EquipmentList []string

// Value implements driver.Valuer.
func (e EquipmentList) Value() (driver.Value, error) {
	if e == nil {
		return nil, nil
	}
	b, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner. NULL scans to an empty list.
func (e *EquipmentList) Scan(src interface{}) error {
	if src == nil {
		*e = EquipmentList{}
		return nil
	}
	switch v := src.(type) {
	case string:
		return json.Unmarshal([]byte(v), e)
	case []byte:
		return json.Unmarshal(v, e)
	}
	return fmt.Errorf("cannot scan %T into EquipmentList", src)
}

// Train is seed/reference data; trains are not created through the API.
type Train struct {
	ID               string        `json:"id" gorm:"primaryKey"`
	Name             string        `json:"name" gorm:"not null"`
	Route            string        `json:"route" gorm:"not null"`
	CurrentLocation  string        `json:"current_location"`
	Status           TrainStatus   `json:"status" gorm:"not null;default:active"`
	MedicalEquipment EquipmentList `json:"medical_equipment" gorm:"type:text"`
	CreatedAt        time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}
