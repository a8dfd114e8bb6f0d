package model

import (
	"time"

	"gopkg.in/guregu/null.v3"
)

type SourceSystem struct {
	ID          int       `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	IsEnabled   bool      `db:"is_enabled" json:"isEnabled"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

type Domain struct {
	ID          int       `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	IsEnabled   bool      `db:"is_enabled" json:"isEnabled"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Synonym is an alternative business name for a domain.
type Synonym struct {
	ID        int       `db:"id" json:"id"`
	DomainID  int       `db:"domain_id" json:"domainId"`
	Title     string    `db:"title" json:"title"`
	IsEnabled bool      `db:"is_enabled" json:"isEnabled"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type DQCheck struct {
	ID             int       `db:"id" json:"id"`
	Title          string    `db:"title" json:"title"`
	Description    string    `db:"description" json:"description"`
	SourceSystemID int       `db:"source_system_id" json:"sourceSystemId"`
	DomainID       null.Int  `db:"domain_id" json:"domainId"`
	SQLText        string    `db:"sql_text" json:"sqlText"`
	IsEnabled      bool      `db:"is_enabled" json:"isEnabled"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

type DQEmail struct {
	ID        int       `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Subject   string    `db:"subject" json:"subject"`
	Body      string    `db:"body" json:"body"`
	IsEnabled bool      `db:"is_enabled" json:"isEnabled"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// DistributionGroup is a named list of e-mail recipients, stored
// semicolon-separated.
type DistributionGroup struct {
	ID         int       `db:"id" json:"id"`
	Title      string    `db:"title" json:"title"`
	Recipients string    `db:"recipients" json:"recipients"`
	IsEnabled  bool      `db:"is_enabled" json:"isEnabled"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}
