package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/dqdash/internal/cache"
	"github.com/Nixie-Tech-LLC/dqdash/internal/db"
	"github.com/Nixie-Tech-LLC/dqdash/internal/holiday"
	"github.com/Nixie-Tech-LLC/dqdash/internal/http/api"
	"github.com/Nixie-Tech-LLC/dqdash/internal/notify"
	"github.com/Nixie-Tech-LLC/dqdash/internal/service"
)

// wednesday 2024-06-12, 10:30 in London
var now = time.Date(2024, 6, 12, 9, 30, 0, 0, time.UTC)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)
	cal, err := holiday.New([]holiday.Holiday{
		{Date: "2024-08-26", Name: "Summer bank holiday"},
		{Date: "2024-12-25", Name: "Christmas Day"},
	})
	require.NoError(t, err)

	store, _ := db.NewTestStore(t)
	svc := service.NewSchedules(store, cal, cache.NewMemory(), notify.Nop{}, service.Options{
		Location: london,
		Clock:    service.FixedClock{At: now},
	})

	r := gin.New()
	api.MountGroup(r, api.GroupConfig{Prefix: "/api"},
		CatalogModule(store),
		ChecksModule(store, svc),
		ScheduleModule(store, svc),
		LinksModule(store, svc),
		ReportsModule(svc, cal),
	)
	api.MountGroup(r, api.GroupConfig{}, HealthModule(store))
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type idResponse struct {
	ID int `json:"id"`
}

type errorResponse struct {
	Error struct {
		Code       string `json:"code"`
		Message    string `json:"message"`
		Violations []struct {
			Field     string `json:"field"`
			Violation string `json:"violation"`
		} `json:"violations"`
	} `json:"error"`
}

func createSchedule(t *testing.T, r http.Handler, body string) int {
	t.Helper()
	w := do(r, http.MethodPost, "/api/schedules", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[idResponse](t, w).ID
}

func TestScheduleLifecycle(t *testing.T) {
	r := newRouter(t)
	id := createSchedule(t, r, `{"title":"Office hours","activeFrom":"2024-01-01"}`)

	w := do(r, http.MethodGet, fmt.Sprintf("/api/schedules/%d", id), "")
	require.Equal(t, http.StatusOK, w.Code)
	sc := decode[map[string]any](t, w)
	assert.Equal(t, "Office hours", sc["title"])
	assert.Equal(t, "2024-01-01", sc["activeFrom"])
	assert.Nil(t, sc["activeTo"])
	assert.Equal(t, true, sc["isEnabled"])

	w = do(r, http.MethodPut, fmt.Sprintf("/api/schedules/%d", id), `{"activeTo":"2024-12-31","description":"weekday cover"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sc = decode[map[string]any](t, w)
	assert.Equal(t, "2024-12-31", sc["activeTo"])
	assert.Equal(t, "weekday cover", sc["description"])

	w = do(r, http.MethodPut, fmt.Sprintf("/api/schedules/%d", id), `{"clearActiveTo":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Nil(t, decode[map[string]any](t, w)["activeTo"])

	w = do(r, http.MethodGet, "/api/schedules", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]idResponse](t, w), 1)

	w = do(r, http.MethodDelete, fmt.Sprintf("/api/schedules/%d", id), "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodGet, fmt.Sprintf("/api/schedules/%d", id), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, api.CodeNotFound, decode[errorResponse](t, w).Error.Code)
}

func TestScheduleDefaultsCalendar(t *testing.T) {
	r := newRouter(t)
	id := createSchedule(t, r, `{"title":"Defaults"}`)

	w := do(r, http.MethodGet, fmt.Sprintf("/api/schedules/%d/days", id), "")
	require.Equal(t, http.StatusOK, w.Code)
	days := decode[map[string]any](t, w)
	for _, d := range []string{"monday", "tuesday", "wednesday", "thursday", "friday"} {
		assert.Equal(t, true, days[d], d)
	}
	assert.Equal(t, false, days["saturday"])
	assert.Equal(t, false, days["sunday"])
	assert.Equal(t, false, days["includeBankHols"])

	w = do(r, http.MethodGet, fmt.Sprintf("/api/schedules/%d/hours", id), "")
	require.Equal(t, http.StatusOK, w.Code)
	hours := decode[struct {
		Hours []bool `json:"hours"`
	}](t, w).Hours
	require.Len(t, hours, 24)
	for h, on := range hours {
		assert.Equal(t, h >= 9 && h <= 17, on, "hour %d", h)
	}

	// created without activeFrom: starts today
	w = do(r, http.MethodGet, fmt.Sprintf("/api/schedules/%d", id), "")
	assert.Equal(t, "2024-06-12", decode[map[string]any](t, w)["activeFrom"])
}

func TestScheduleCalendarValidation(t *testing.T) {
	r := newRouter(t)
	id := createSchedule(t, r, `{"title":"Strict","activeFrom":"2024-01-01"}`)

	short := "[" + strings.TrimSuffix(strings.Repeat("true,", 23), ",") + "]"
	w := do(r, http.MethodPut, fmt.Sprintf("/api/schedules/%d/hours", id), `{"hours":`+short+`}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[errorResponse](t, w)
	require.Len(t, body.Error.Violations, 1)
	assert.Equal(t, "len", body.Error.Violations[0].Violation)

	rest := strings.Repeat(",true", 23)
	w = do(r, http.MethodPut, fmt.Sprintf("/api/schedules/%d/hours", id), `{"hours":[null`+rest+`]}`)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	body = decode[errorResponse](t, w)
	require.Len(t, body.Error.Violations, 1)
	assert.Equal(t, "ScheduleHoursRequest.hours[0]", body.Error.Violations[0].Field)
	assert.Equal(t, "required", body.Error.Violations[0].Violation)

	for _, entry := range []string{`1`, `"true"`, `{}`} {
		w = do(r, http.MethodPut, fmt.Sprintf("/api/schedules/%d/hours", id), `{"hours":[`+entry+rest+`]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code, entry)
	}

	// nothing above was stored
	w = do(r, http.MethodGet, fmt.Sprintf("/api/schedules/%d/hours", id), "")
	require.Equal(t, http.StatusOK, w.Code)
	hours := decode[hoursResponse](t, w).Hours
	require.Len(t, hours, 24)
	assert.False(t, hours[1])

	w = do(r, http.MethodPut, fmt.Sprintf("/api/schedules/%d/days", id),
		`{"monday":true,"tuesday":true,"wednesday":true,"thursday":true,"friday":true,"saturday":false,"includeBankHols":false}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body = decode[errorResponse](t, w)
	require.Len(t, body.Error.Violations, 1)
	assert.Equal(t, "ScheduleDaysRequest.sunday", body.Error.Violations[0].Field)

	w = do(r, http.MethodPut, fmt.Sprintf("/api/schedules/%d", id), `{"activeFrom":"2024-06-01","activeTo":"2024-05-01"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// the stored activeFrom is later than the new activeTo
	w = do(r, http.MethodPut, fmt.Sprintf("/api/schedules/%d", id), `{"activeTo":"2023-12-31"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/schedules", `{"title":"x","owner":"me"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/schedules/abc/days", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/schedules/999/days", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type hoursResponse struct {
	Hours []bool `json:"hours"`
}

type statusResponse struct {
	Active       bool    `json:"active"`
	LocalDate    string  `json:"localDate"`
	LocalHour    int     `json:"localHour"`
	Timezone     string  `json:"timezone"`
	NextActiveAt *string `json:"nextActiveAt"`
}

func TestScheduleStatus(t *testing.T) {
	r := newRouter(t)
	id := createSchedule(t, r, `{"title":"Office hours","activeFrom":"2024-01-01"}`)
	path := fmt.Sprintf("/api/schedules/%d/status", id)

	w := do(r, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	st := decode[statusResponse](t, w)
	assert.True(t, st.Active)
	assert.Equal(t, "2024-06-12", st.LocalDate)
	assert.Equal(t, 10, st.LocalHour)
	assert.Equal(t, "Europe/London", st.Timezone)

	tests := []struct {
		name   string
		at     string
		active bool
		next   string
	}{
		{"saturday", "2024-06-15T09:00:00Z", false, "2024-06-17T08:00:00Z"},
		{"weekday evening", "2024-06-12T19:00:00Z", false, "2024-06-13T08:00:00Z"},
		{"before activeFrom", "2023-06-12T09:00:00Z", false, "2024-01-01T09:00:00Z"},
		{"bank holiday excluded", "2024-08-26T09:00:00Z", false, "2024-08-27T08:00:00Z"},
		{"weekday morning", "2024-06-12T09:00:00Z", true, "2024-06-12T09:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, path+"?at="+tt.at, "")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			st := decode[statusResponse](t, w)
			assert.Equal(t, tt.active, st.Active)
			require.NotNil(t, st.NextActiveAt)
			assert.Equal(t, tt.next, *st.NextActiveAt)
		})
	}

	// '+' left unescaped in the query decodes as a space
	w = do(r, http.MethodGet, path+"?at=2024-06-12T20:30:00+01:00", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	st = decode[statusResponse](t, w)
	assert.False(t, st.Active)
	assert.Equal(t, 20, st.LocalHour)

	w = do(r, http.MethodGet, path+"?at=2024-06-12T09:30:00%2B01:00", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode[statusResponse](t, w).Active)

	w = do(r, http.MethodGet, path+"?at=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleStatusBankHolidayIncluded(t *testing.T) {
	r := newRouter(t)
	id := createSchedule(t, r, `{"title":"Holiday cover","activeFrom":"2024-01-01"}`)

	w := do(r, http.MethodPut, fmt.Sprintf("/api/schedules/%d/days", id),
		`{"monday":false,"tuesday":false,"wednesday":false,"thursday":false,"friday":false,"saturday":false,"sunday":false,"includeBankHols":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(r, http.MethodGet, fmt.Sprintf("/api/schedules/%d/status?at=2024-08-26T10:00:00Z", id), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[statusResponse](t, w).Active)

	w = do(r, http.MethodGet, fmt.Sprintf("/api/schedules/%d/status?at=2024-08-27T10:00:00Z", id), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[statusResponse](t, w).Active)
}

func TestLinksAndReports(t *testing.T) {
	r := newRouter(t)
	scheduleID := createSchedule(t, r, `{"title":"Office hours","activeFrom":"2024-01-01"}`)

	w := do(r, http.MethodPost, "/api/source-systems", `{"title":"Warehouse"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sourceID := decode[idResponse](t, w).ID

	w = do(r, http.MethodPost, "/api/dq-checks", fmt.Sprintf(`{"title":"Null keys","sourceSystemId":%d,"sqlText":"SELECT 1"}`, sourceID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	checkID := decode[idResponse](t, w).ID

	w = do(r, http.MethodPost, "/api/dq-emails", `{"title":"Daily digest","subject":"DQ results"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	emailID := decode[idResponse](t, w).ID

	w = do(r, http.MethodPost, "/api/distribution-groups", `{"title":"Data team","recipients":"a@example.com; b@example.com"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	groupID := decode[idResponse](t, w).ID

	w = do(r, http.MethodPost, fmt.Sprintf("/api/dq-checks/%d/schedules", checkID), fmt.Sprintf(`{"scheduleId":%d}`, scheduleID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	checkLink := decode[map[string]any](t, w)
	assert.EqualValues(t, checkID, checkLink["dqCheckId"])
	assert.EqualValues(t, scheduleID, checkLink["scheduleId"])

	w = do(r, http.MethodPost, fmt.Sprintf("/api/dq-checks/%d/schedules", checkID), fmt.Sprintf(`{"scheduleId":%d}`, scheduleID))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, fmt.Sprintf("/api/dq-emails/%d/schedules", emailID), fmt.Sprintf(`{"scheduleId":%d,"isEnabled":false}`, scheduleID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	emailLinkID := decode[idResponse](t, w).ID

	w = do(r, http.MethodPost, fmt.Sprintf("/api/dq-emails/%d/distribution-groups", emailID), fmt.Sprintf(`{"distributionGroupId":%d}`, groupID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, http.MethodGet, fmt.Sprintf("/api/dq-emails/%d/distribution-groups", emailID), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]idResponse](t, w), 1)

	w = do(r, http.MethodGet, "/api/dq-checks/999/schedules", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPost, fmt.Sprintf("/api/dq-checks/%d/schedules", checkID), `{"scheduleId":999}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// still referenced
	w = do(r, http.MethodDelete, fmt.Sprintf("/api/schedules/%d", scheduleID), "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodGet, fmt.Sprintf("/api/schedules/%d/relationships", scheduleID), "")
	require.Equal(t, http.StatusOK, w.Code)
	rel := decode[map[string]any](t, w)
	assert.Equal(t, true, rel["activeNow"])
	assert.EqualValues(t, 1, rel["checksEnabled"])
	assert.EqualValues(t, 1, rel["checksActive"])
	assert.EqualValues(t, 1, rel["emailsDisabled"])
	assert.EqualValues(t, 0, rel["emailsActive"])

	w = do(r, http.MethodPut, fmt.Sprintf("/api/dq-email-schedules/%d", emailLinkID), `{"isEnabled":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode[map[string]any](t, w)["isEnabled"])

	w = do(r, http.MethodPut, fmt.Sprintf("/api/dq-email-schedules/%d", emailLinkID), `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/reports/schedules", "")
	require.Equal(t, http.StatusOK, w.Code)
	rows := decode[[]map[string]any](t, w)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 1, rows[0]["emailsActive"])

	w = do(r, http.MethodGet, "/api/reports/schedules.xlsx", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "schedules-2024-06-12.xlsx")
	assert.True(t, strings.HasPrefix(w.Body.String(), "PK"))

	w = do(r, http.MethodDelete, fmt.Sprintf("/api/dq-checks/%d", checkID), "")
	require.Equal(t, http.StatusNoContent, w.Code)
	w = do(r, http.MethodDelete, fmt.Sprintf("/api/dq-email-schedules/%d", emailLinkID), "")
	require.Equal(t, http.StatusNoContent, w.Code)
	w = do(r, http.MethodDelete, fmt.Sprintf("/api/schedules/%d", scheduleID), "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCatalog(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodPost, "/api/domains", `{"title":"Customer","description":"people we sell to"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	domainID := decode[idResponse](t, w).ID

	w = do(r, http.MethodPost, "/api/domains", `{"title":"Customer"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/api/synonyms", fmt.Sprintf(`{"domainId":%d,"title":"Client"}`, domainID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, http.MethodPost, "/api/synonyms", `{"domainId":999,"title":"Client"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, fmt.Sprintf("/api/domains/%d/synonyms", domainID), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]idResponse](t, w), 1)

	w = do(r, http.MethodPut, fmt.Sprintf("/api/domains/%d", domainID), `{"isEnabled":false}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, false, decode[map[string]any](t, w)["isEnabled"])

	w = do(r, http.MethodPost, "/api/distribution-groups", `{"title":"Bad","recipients":"not-an-address"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodDelete, fmt.Sprintf("/api/domains/%d", domainID), "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodGet, "/api/synonyms", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]idResponse](t, w))
}

func TestBankHolidaysAndHealth(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodGet, "/api/bank-holidays", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]map[string]string](t, w)
	require.Len(t, list, 2)
	assert.Equal(t, "2024-08-26", list[0]["date"])

	w = do(r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
