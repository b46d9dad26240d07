package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GadgetStatus represents the lifecycle status of a gadget.
type GadgetStatus string

const (
	GadgetStatusAvailable      GadgetStatus = "Available"
	GadgetStatusDeployed       GadgetStatus = "Deployed"
	GadgetStatusDestroyed      GadgetStatus = "Destroyed"
	GadgetStatusDecommissioned GadgetStatus = "Decommissioned"
)

// Valid reports whether the status is one of the known enum values.
func (s GadgetStatus) Valid() bool {
	switch s {
	case GadgetStatusAvailable, GadgetStatusDeployed, GadgetStatusDestroyed, GadgetStatusDecommissioned:
		return true
	}
	return false
}

// Gadget represents a tracked inventory item. Gadgets are never deleted:
// decommission and self-destruct are status transitions.
type Gadget struct {
	ID               uuid.UUID    `json:"id" gorm:"type:char(36);primaryKey"`
	Name             string       `json:"name" gorm:"size:255;not null"`
	Codename         string       `json:"codename" gorm:"uniqueIndex;size:255;not null"`
	Status           GadgetStatus `json:"status" gorm:"type:varchar(20);not null;default:'Available';index"`
	DecommissionedAt *time.Time   `json:"decommissionedAt,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (g *Gadget) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
