package packets

import (
	"time"

	"gopkg.in/guregu/null.v3"

	"github.com/Nixie-Tech-LLC/dqdash/internal/db"
	"github.com/Nixie-Tech-LLC/dqdash/internal/http/api"
	"github.com/Nixie-Tech-LLC/dqdash/internal/model"
	"github.com/Nixie-Tech-LLC/dqdash/internal/schedule"
)

// CreateCatalogRequest is shared by source systems and domains.
type CreateCatalogRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=2000"`
	IsEnabled   *bool  `json:"isEnabled"`
}

type UpdateCatalogRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	IsEnabled   *bool   `json:"isEnabled"`
}

func (r UpdateCatalogRequest) Changes() db.Changes {
	c := db.Changes{}
	set(c, "title", r.Title)
	set(c, "description", r.Description)
	set(c, "is_enabled", r.IsEnabled)
	return c
}

type CreateSynonymRequest struct {
	DomainID  int    `json:"domainId" binding:"required,min=1"`
	Title     string `json:"title" binding:"required,max=200"`
	IsEnabled *bool  `json:"isEnabled"`
}

type UpdateSynonymRequest struct {
	Title     *string `json:"title" binding:"omitempty,min=1,max=200"`
	IsEnabled *bool   `json:"isEnabled"`
}

func (r UpdateSynonymRequest) Changes() db.Changes {
	c := db.Changes{}
	set(c, "title", r.Title)
	set(c, "is_enabled", r.IsEnabled)
	return c
}

type CreateDQCheckRequest struct {
	Title          string `json:"title" binding:"required,max=200"`
	Description    string `json:"description" binding:"max=2000"`
	SourceSystemID int    `json:"sourceSystemId" binding:"required,min=1"`
	DomainID       *int   `json:"domainId" binding:"omitempty,min=1"`
	SQLText        string `json:"sqlText"`
	IsEnabled      *bool  `json:"isEnabled"`
}

func (r CreateDQCheckRequest) Model() model.DQCheck {
	return model.DQCheck{
		Title:          r.Title,
		Description:    r.Description,
		SourceSystemID: r.SourceSystemID,
		DomainID:       null.IntFromPtr(int64Ptr(r.DomainID)),
		SQLText:        r.SQLText,
		IsEnabled:      enabled(r.IsEnabled),
	}
}

type UpdateDQCheckRequest struct {
	Title          *string `json:"title" binding:"omitempty,min=1,max=200"`
	Description    *string `json:"description" binding:"omitempty,max=2000"`
	SourceSystemID *int    `json:"sourceSystemId" binding:"omitempty,min=1"`
	DomainID       *int    `json:"domainId" binding:"omitempty,min=1"`
	ClearDomainID  bool    `json:"clearDomainId" binding:"excluded_with=DomainID"`
	SQLText        *string `json:"sqlText"`
	IsEnabled      *bool   `json:"isEnabled"`
}

func (r UpdateDQCheckRequest) Changes() db.Changes {
	c := db.Changes{}
	set(c, "title", r.Title)
	set(c, "description", r.Description)
	set(c, "source_system_id", r.SourceSystemID)
	set(c, "domain_id", r.DomainID)
	if r.ClearDomainID {
		c["domain_id"] = nil
	}
	set(c, "sql_text", r.SQLText)
	set(c, "is_enabled", r.IsEnabled)
	return c
}

type CreateDQEmailRequest struct {
	Title     string `json:"title" binding:"required,max=200"`
	Subject   string `json:"subject" binding:"max=500"`
	Body      string `json:"body"`
	IsEnabled *bool  `json:"isEnabled"`
}

type UpdateDQEmailRequest struct {
	Title     *string `json:"title" binding:"omitempty,min=1,max=200"`
	Subject   *string `json:"subject" binding:"omitempty,max=500"`
	Body      *string `json:"body"`
	IsEnabled *bool   `json:"isEnabled"`
}

func (r UpdateDQEmailRequest) Changes() db.Changes {
	c := db.Changes{}
	set(c, "title", r.Title)
	set(c, "subject", r.Subject)
	set(c, "body", r.Body)
	set(c, "is_enabled", r.IsEnabled)
	return c
}

type CreateDistributionGroupRequest struct {
	Title      string `json:"title" binding:"required,max=200"`
	Recipients string `json:"recipients" binding:"recipients"`
	IsEnabled  *bool  `json:"isEnabled"`
}

type UpdateDistributionGroupRequest struct {
	Title      *string `json:"title" binding:"omitempty,min=1,max=200"`
	Recipients *string `json:"recipients" binding:"omitempty,recipients"`
	IsEnabled  *bool   `json:"isEnabled"`
}

func (r UpdateDistributionGroupRequest) Changes() db.Changes {
	c := db.Changes{}
	set(c, "title", r.Title)
	set(c, "recipients", r.Recipients)
	set(c, "is_enabled", r.IsEnabled)
	return c
}

// CreateScheduleRequest dates are YYYY-MM-DD. activeFrom defaults to today.
type CreateScheduleRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description string  `json:"description" binding:"max=2000"`
	ActiveFrom  string  `json:"activeFrom" binding:"omitempty,datetime=2006-01-02"`
	ActiveTo    *string `json:"activeTo" binding:"omitempty,datetime=2006-01-02,notbefore=ActiveFrom"`
	IsEnabled   *bool   `json:"isEnabled"`
}

func (r CreateScheduleRequest) Model() (model.Schedule, error) {
	out := model.Schedule{
		Title:       r.Title,
		Description: r.Description,
		IsEnabled:   enabled(r.IsEnabled),
	}
	if r.ActiveFrom != "" {
		from, err := schedule.ParseDate(r.ActiveFrom)
		if err != nil {
			return out, err
		}
		out.ActiveFrom = from
	}
	if r.ActiveTo != nil {
		to, err := schedule.ParseDate(*r.ActiveTo)
		if err != nil {
			return out, err
		}
		out.ActiveTo = null.TimeFrom(to)
	}
	return out, nil
}

// UpdateScheduleRequest sets clearActiveTo to make a schedule open-ended.
type UpdateScheduleRequest struct {
	Title         *string `json:"title" binding:"omitempty,min=1,max=200"`
	Description   *string `json:"description" binding:"omitempty,max=2000"`
	ActiveFrom    *string `json:"activeFrom" binding:"omitempty,datetime=2006-01-02"`
	ActiveTo      *string `json:"activeTo" binding:"omitempty,datetime=2006-01-02,notbefore=ActiveFrom"`
	ClearActiveTo bool    `json:"clearActiveTo" binding:"excluded_with=ActiveTo"`
	IsEnabled     *bool   `json:"isEnabled"`
}

func (r UpdateScheduleRequest) Changes() (db.Changes, error) {
	c := db.Changes{}
	set(c, "title", r.Title)
	set(c, "description", r.Description)
	set(c, "is_enabled", r.IsEnabled)
	if r.ActiveFrom != nil {
		from, err := schedule.ParseDate(*r.ActiveFrom)
		if err != nil {
			return nil, err
		}
		c["active_from"] = from
	}
	if r.ActiveTo != nil {
		to, err := schedule.ParseDate(*r.ActiveTo)
		if err != nil {
			return nil, err
		}
		c["active_to"] = to
	}
	if r.ClearActiveTo {
		c["active_to"] = nil
	}
	return c, nil
}

// ScheduleDaysRequest replaces the whole day record; every flag is required.
type ScheduleDaysRequest struct {
	Monday          *bool `json:"monday" binding:"required"`
	Tuesday         *bool `json:"tuesday" binding:"required"`
	Wednesday       *bool `json:"wednesday" binding:"required"`
	Thursday        *bool `json:"thursday" binding:"required"`
	Friday          *bool `json:"friday" binding:"required"`
	Saturday        *bool `json:"saturday" binding:"required"`
	Sunday          *bool `json:"sunday" binding:"required"`
	IncludeBankHols *bool `json:"includeBankHols" binding:"required"`
}

func (r ScheduleDaysRequest) Days() schedule.Days {
	return schedule.Days{
		Flags: []bool{
			*r.Monday, *r.Tuesday, *r.Wednesday, *r.Thursday,
			*r.Friday, *r.Saturday, *r.Sunday,
		},
		IncludeBankHols: *r.IncludeBankHols,
	}
}

// ScheduleHoursRequest replaces all 24 hour flags, index 0 = 00:00-00:59.
// Entries are pointers so that null is rejected rather than read as false.
type ScheduleHoursRequest struct {
	Hours []*bool `json:"hours" binding:"required,len=24,dive,required"`
}

func (r ScheduleHoursRequest) Flags() schedule.Hours {
	out := make(schedule.Hours, len(r.Hours))
	for i, on := range r.Hours {
		out[i] = *on
	}
	return out
}

type ScheduleLinkRequest struct {
	ScheduleID int   `json:"scheduleId" binding:"required,min=1"`
	IsEnabled  *bool `json:"isEnabled"`
}

type GroupLinkRequest struct {
	DistributionGroupID int   `json:"distributionGroupId" binding:"required,min=1"`
	IsEnabled           *bool `json:"isEnabled"`
}

type UpdateLinkRequest struct {
	IsEnabled *bool `json:"isEnabled" binding:"required"`
}

type StatusQuery struct {
	At string `form:"at" binding:"omitempty,instant"`
}

func (q StatusQuery) Time() time.Time {
	if q.At == "" {
		return time.Time{}
	}
	t, _ := api.ParseInstant(q.At)
	return t
}

func set[T any](c db.Changes, column string, v *T) {
	if v != nil {
		c[column] = *v
	}
}

// enabled treats a missing isEnabled as true.
func enabled(v *bool) bool {
	return v == nil || *v
}

func int64Ptr(v *int) *int64 {
	if v == nil {
		return nil
	}
	n := int64(*v)
	return &n
}
