package packets

// RESPONSES FOR /api/*
// Times are RFC3339, calendar dates are YYYY-MM-DD.

import (
	"time"

	"github.com/samber/lo"

	"github.com/Nixie-Tech-LLC/dqdash/internal/db"
	"github.com/Nixie-Tech-LLC/dqdash/internal/holiday"
	"github.com/Nixie-Tech-LLC/dqdash/internal/model"
	"github.com/Nixie-Tech-LLC/dqdash/internal/schedule"
	"github.com/Nixie-Tech-LLC/dqdash/internal/service"
)

type CatalogResponse struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsEnabled   bool   `json:"isEnabled"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func SourceSystem(m model.SourceSystem) CatalogResponse {
	return CatalogResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		IsEnabled:   m.IsEnabled,
		CreatedAt:   stamp(m.CreatedAt),
		UpdatedAt:   stamp(m.UpdatedAt),
	}
}

func Domain(m model.Domain) CatalogResponse {
	return CatalogResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		IsEnabled:   m.IsEnabled,
		CreatedAt:   stamp(m.CreatedAt),
		UpdatedAt:   stamp(m.UpdatedAt),
	}
}

type SynonymResponse struct {
	ID        int    `json:"id"`
	DomainID  int    `json:"domainId"`
	Title     string `json:"title"`
	IsEnabled bool   `json:"isEnabled"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func Synonym(m model.Synonym) SynonymResponse {
	return SynonymResponse{
		ID:        m.ID,
		DomainID:  m.DomainID,
		Title:     m.Title,
		IsEnabled: m.IsEnabled,
		CreatedAt: stamp(m.CreatedAt),
		UpdatedAt: stamp(m.UpdatedAt),
	}
}

type DQCheckResponse struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	SourceSystemID int    `json:"sourceSystemId"`
	DomainID       *int   `json:"domainId"`
	SQLText        string `json:"sqlText"`
	IsEnabled      bool   `json:"isEnabled"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

func DQCheck(m model.DQCheck) DQCheckResponse {
	out := DQCheckResponse{
		ID:             m.ID,
		Title:          m.Title,
		Description:    m.Description,
		SourceSystemID: m.SourceSystemID,
		SQLText:        m.SQLText,
		IsEnabled:      m.IsEnabled,
		CreatedAt:      stamp(m.CreatedAt),
		UpdatedAt:      stamp(m.UpdatedAt),
	}
	if m.DomainID.Valid {
		out.DomainID = lo.ToPtr(int(m.DomainID.Int64))
	}
	return out
}

type DQEmailResponse struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	IsEnabled bool   `json:"isEnabled"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func DQEmail(m model.DQEmail) DQEmailResponse {
	return DQEmailResponse{
		ID:        m.ID,
		Title:     m.Title,
		Subject:   m.Subject,
		Body:      m.Body,
		IsEnabled: m.IsEnabled,
		CreatedAt: stamp(m.CreatedAt),
		UpdatedAt: stamp(m.UpdatedAt),
	}
}

type DistributionGroupResponse struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Recipients string `json:"recipients"`
	IsEnabled  bool   `json:"isEnabled"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

func DistributionGroup(m model.DistributionGroup) DistributionGroupResponse {
	return DistributionGroupResponse{
		ID:         m.ID,
		Title:      m.Title,
		Recipients: m.Recipients,
		IsEnabled:  m.IsEnabled,
		CreatedAt:  stamp(m.CreatedAt),
		UpdatedAt:  stamp(m.UpdatedAt),
	}
}

type ScheduleResponse struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ActiveFrom  string  `json:"activeFrom"`
	ActiveTo    *string `json:"activeTo"`
	IsEnabled   bool    `json:"isEnabled"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func Schedule(m model.Schedule) ScheduleResponse {
	out := ScheduleResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		ActiveFrom:  schedule.FormatDate(m.ActiveFrom),
		IsEnabled:   m.IsEnabled,
		CreatedAt:   stamp(m.CreatedAt),
		UpdatedAt:   stamp(m.UpdatedAt),
	}
	if m.ActiveTo.Valid {
		out.ActiveTo = lo.ToPtr(schedule.FormatDate(m.ActiveTo.Time))
	}
	return out
}

type ScheduleDaysResponse struct {
	ScheduleID      int    `json:"scheduleId"`
	Monday          bool   `json:"monday"`
	Tuesday         bool   `json:"tuesday"`
	Wednesday       bool   `json:"wednesday"`
	Thursday        bool   `json:"thursday"`
	Friday          bool   `json:"friday"`
	Saturday        bool   `json:"saturday"`
	Sunday          bool   `json:"sunday"`
	IncludeBankHols bool   `json:"includeBankHols"`
	UpdatedAt       string `json:"updatedAt"`
}

func ScheduleDays(m model.ScheduleDays) ScheduleDaysResponse {
	return ScheduleDaysResponse{
		ScheduleID:      m.ScheduleID,
		Monday:          m.Monday,
		Tuesday:         m.Tuesday,
		Wednesday:       m.Wednesday,
		Thursday:        m.Thursday,
		Friday:          m.Friday,
		Saturday:        m.Saturday,
		Sunday:          m.Sunday,
		IncludeBankHols: m.IncludeBankHols,
		UpdatedAt:       stamp(m.UpdatedAt),
	}
}

type ScheduleHoursResponse struct {
	ScheduleID int    `json:"scheduleId"`
	Hours      []bool `json:"hours"`
	UpdatedAt  string `json:"updatedAt"`
}

func ScheduleHours(m model.ScheduleHours) ScheduleHoursResponse {
	return ScheduleHoursResponse{
		ScheduleID: m.ScheduleID,
		Hours:      m.Hours(),
		UpdatedAt:  stamp(m.UpdatedAt),
	}
}

type StatusResponse struct {
	ScheduleID   int     `json:"scheduleId"`
	Active       bool    `json:"active"`
	EvaluatedAt  string  `json:"evaluatedAt"`
	LocalDate    string  `json:"localDate"`
	LocalHour    int     `json:"localHour"`
	Timezone     string  `json:"timezone"`
	NextActiveAt *string `json:"nextActiveAt"`
}

func Status(st service.Status) StatusResponse {
	out := StatusResponse{
		ScheduleID:  st.ScheduleID,
		Active:      st.Active,
		EvaluatedAt: stamp(st.EvaluatedAt),
		LocalDate:   schedule.FormatDate(st.LocalDate),
		LocalHour:   st.LocalHour,
		Timezone:    st.Timezone,
	}
	if st.NextActiveAt != nil {
		out.NextActiveAt = lo.ToPtr(stamp(*st.NextActiveAt))
	}
	return out
}

// LinkResponse names the two ends of an association row by their entity.
type LinkResponse struct {
	ID                  int    `json:"id"`
	DQCheckID           int    `json:"dqCheckId,omitempty"`
	DQEmailID           int    `json:"dqEmailId,omitempty"`
	ScheduleID          int    `json:"scheduleId,omitempty"`
	DistributionGroupID int    `json:"distributionGroupId,omitempty"`
	IsEnabled           bool   `json:"isEnabled"`
	CreatedAt           string `json:"createdAt"`
	UpdatedAt           string `json:"updatedAt"`
}

func Link(kind db.LinkKind, m model.Link) LinkResponse {
	out := LinkResponse{
		ID:        m.ID,
		IsEnabled: m.IsEnabled,
		CreatedAt: stamp(m.CreatedAt),
		UpdatedAt: stamp(m.UpdatedAt),
	}
	switch kind {
	case db.CheckSchedules:
		out.DQCheckID, out.ScheduleID = m.ParentID, m.ChildID
	case db.EmailSchedules:
		out.DQEmailID, out.ScheduleID = m.ParentID, m.ChildID
	case db.EmailGroups:
		out.DQEmailID, out.DistributionGroupID = m.ParentID, m.ChildID
	}
	return out
}

func Links(kind db.LinkKind, links []model.Link) []LinkResponse {
	return lo.Map(links, func(m model.Link, _ int) LinkResponse { return Link(kind, m) })
}

type ScheduleReportResponse struct {
	ScheduleID     int    `json:"scheduleId"`
	Title          string `json:"title"`
	IsEnabled      bool   `json:"isEnabled"`
	ActiveNow      bool   `json:"activeNow"`
	ChecksEnabled  int    `json:"checksEnabled"`
	ChecksDisabled int    `json:"checksDisabled"`
	ChecksActive   int    `json:"checksActive"`
	EmailsEnabled  int    `json:"emailsEnabled"`
	EmailsDisabled int    `json:"emailsDisabled"`
	EmailsActive   int    `json:"emailsActive"`
}

func ScheduleReport(m model.ScheduleReport) ScheduleReportResponse {
	return ScheduleReportResponse{
		ScheduleID:     m.ScheduleID,
		Title:          m.Title,
		IsEnabled:      m.IsEnabled,
		ActiveNow:      m.ActiveNow,
		ChecksEnabled:  m.ChecksEnabled,
		ChecksDisabled: m.ChecksDisabled,
		ChecksActive:   m.ChecksActive,
		EmailsEnabled:  m.EmailsEnabled,
		EmailsDisabled: m.EmailsDisabled,
		EmailsActive:   m.EmailsActive,
	}
}

type BankHolidayResponse struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

func BankHolidays(list []holiday.Holiday) []BankHolidayResponse {
	return lo.Map(list, func(h holiday.Holiday, _ int) BankHolidayResponse {
		return BankHolidayResponse{Date: h.Date, Name: h.Name}
	})
}

// Each maps a slice through one of the converters above.
func Each[M, R any](in []M, fn func(M) R) []R {
	return lo.Map(in, func(m M, _ int) R { return fn(m) })
}

func stamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
