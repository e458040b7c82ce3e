package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restoadmin/config"
	"github.com/yeremiapane/restoadmin/database"
	"github.com/yeremiapane/restoadmin/hub"
	"github.com/yeremiapane/restoadmin/models"
	"github.com/yeremiapane/restoadmin/router"
	"github.com/yeremiapane/restoadmin/scheduling"
	"github.com/yeremiapane/restoadmin/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fixedNow is 2025-03-14 17:00 UTC; every test day is that Friday.
var fixedNow = time.Date(2025, 3, 14, 17, 0, 0, 0, time.UTC)

const testDate = "2025-03-14"

type testApp struct {
	db     *gorm.DB
	router *gin.Engine
	hub    *hub.FloorHub
	floor  floorFixture
}

type floorFixture struct {
	restaurant models.Restaurant
	hall       models.Zone
	terrace    models.Zone
	tables     []models.Table // T1(2) T2(4) T3(4) in hall, T4(6) on terrace
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:ctl_%s?mode=memory&cache=shared", name)),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func seedFloor(t *testing.T, db *gorm.DB) floorFixture {
	t.Helper()
	f := floorFixture{restaurant: models.Restaurant{Name: "Demo", Slug: "main-restaurant"}}
	require.NoError(t, db.Create(&f.restaurant).Error)

	f.hall = models.Zone{RestaurantID: f.restaurant.ID, Name: "Main hall"}
	require.NoError(t, db.Create(&f.hall).Error)
	f.terrace = models.Zone{RestaurantID: f.restaurant.ID, Name: "Terrace"}
	require.NoError(t, db.Create(&f.terrace).Error)

	f.tables = []models.Table{
		{ZoneID: f.hall.ID, Name: "T1", Capacity: 2},
		{ZoneID: f.hall.ID, Name: "T2", Capacity: 4},
		{ZoneID: f.hall.ID, Name: "T3", Capacity: 4},
		{ZoneID: f.terrace.ID, Name: "T4", Capacity: 6},
	}
	for i := range f.tables {
		require.NoError(t, db.Create(&f.tables[i]).Error)
	}
	return f
}

func seedUser(t *testing.T, db *gorm.DB, login, password, role string) models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Login: login, Name: login, Password: string(hashed), Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := setupTestDB(t)
	app := &testApp{db: db, hub: hub.NewFloorHub(), floor: seedFloor(t, db)}

	cfg := &config.Config{CORSOrigin: "*"}
	settings := scheduling.DefaultSettings()
	notifier := services.MultiNotifier{services.HubNotifier{Hub: app.hub}}

	availability := services.NewAvailabilityService(db, settings, time.UTC, time.Second)
	availability.Now = func() time.Time { return fixedNow }
	reservations := services.NewReservationService(db, settings, time.UTC, time.Second, notifier)
	reservations.Now = func() time.Time { return fixedNow }

	app.router = router.SetupRouter(router.Deps{
		Config:       cfg,
		DB:           db,
		Hub:          app.hub,
		Notifier:     notifier,
		Availability: availability,
		Reservations: reservations,
	})
	return app
}

// token signs in a fresh user with role and returns its bearer token.
func (a *testApp) token(t *testing.T, role string) string {
	t.Helper()
	login := fmt.Sprintf("%s-%d", role, time.Now().UnixNano())
	seedUser(t, a.db, login, "password123", role)

	w := a.do(t, http.MethodPost, "/login", "", gin.H{"login": login, "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// envelope is the {status, message, data} wrapper with data left raw.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func seedReservation(t *testing.T, db *gorm.DB, tableID uint, phone string, start time.Time, status scheduling.ReservationStatus) models.Reservation {
	t.Helper()
	guest := models.Guest{Phone: phone, Name: "Seeded"}
	require.NoError(t, db.Create(&guest).Error)
	r := models.Reservation{
		TableID:     tableID,
		GuestID:     guest.ID,
		StartTime:   start.UTC(),
		EndTime:     start.Add(2 * time.Hour).UTC(),
		PeopleCount: 2,
		Status:      status,
	}
	require.NoError(t, db.Create(&r).Error)
	return r
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 14, hour, minute, 0, 0, time.UTC)
}
