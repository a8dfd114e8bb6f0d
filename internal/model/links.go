package model

import "time"

// Link is one row of a many-to-many association table: DQ check to
// schedule, DQ email to schedule, or DQ email to distribution group.
type Link struct {
	ID        int       `db:"id" json:"id"`
	ParentID  int       `db:"parent_id" json:"parentId"`
	ChildID   int       `db:"child_id" json:"childId"`
	IsEnabled bool      `db:"is_enabled" json:"isEnabled"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// ScheduleLinkCounts aggregates the association rows pointing at a schedule.
type ScheduleLinkCounts struct {
	ScheduleID     int    `db:"schedule_id" json:"scheduleId"`
	Title          string `db:"title" json:"title"`
	IsEnabled      bool   `db:"is_enabled" json:"isEnabled"`
	ChecksEnabled  int    `db:"checks_enabled" json:"checksEnabled"`
	ChecksDisabled int    `db:"checks_disabled" json:"checksDisabled"`
	EmailsEnabled  int    `db:"emails_enabled" json:"emailsEnabled"`
	EmailsDisabled int    `db:"emails_disabled" json:"emailsDisabled"`
}

// ScheduleReport is one row of the schedule usage report.
type ScheduleReport struct {
	ScheduleLinkCounts
	ActiveNow    bool `json:"activeNow"`
	ChecksActive int  `json:"checksActive"`
	EmailsActive int  `json:"emailsActive"`
}
