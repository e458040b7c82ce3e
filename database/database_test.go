package database

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restoadmin/config"
	"github.com/yeremiapane/restoadmin/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, Migrate(db))
	return db
}

const testPlan = `
restaurants:
  - name: Demo
    slug: demo
    zones:
      - name: Hall
        elements:
          - {type: bar, label: Bar, x: 10, y: 20, width: 100, height: 40}
        tables:
          - {name: "1", capacity: 2, x: 10, y: 10, shape: round}
          - {name: "2", capacity: 4, x: 60, y: 10}
      - name: Terrace
        tables:
          - {name: "T1", capacity: 6}
`

func TestSeedAdmin(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, SeedAdmin(db, "admin", "secret"))
	var admin models.User
	require.NoError(t, db.Where("login = ?", "admin").First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("secret")))

	// a second run keeps the stored password
	require.NoError(t, SeedAdmin(db, "admin", "other"))
	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
	require.NoError(t, db.First(&admin, admin.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("secret")))
}

func TestSeedAdminSkippedWithoutCredentials(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SeedAdmin(db, "", ""))
	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Zero(t, count)
}

func TestSyncFloorPlan(t *testing.T) {
	db := setupTestDB(t)
	plan, err := config.ParseFloorPlan([]byte(testPlan))
	require.NoError(t, err)

	require.NoError(t, SyncFloorPlan(db, plan))

	var restaurant models.Restaurant
	require.NoError(t, db.Preload("Zones.Tables").Where("slug = ?", "demo").First(&restaurant).Error)
	require.Len(t, restaurant.Zones, 2)

	var hall models.Zone
	require.NoError(t, db.Preload("Tables").Where("name = ?", "Hall").First(&hall).Error)
	assert.Len(t, hall.Tables, 2)
	assert.Contains(t, string(hall.Elements), `"type":"bar"`)

	var t2 models.Table
	require.NoError(t, db.Where("zone_id = ? AND name = ?", hall.ID, "2").First(&t2).Error)
	assert.Equal(t, 4, t2.Capacity)
	assert.Equal(t, "square", t2.Shape)
}

func TestSyncFloorPlanIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	plan, err := config.ParseFloorPlan([]byte(testPlan))
	require.NoError(t, err)

	require.NoError(t, SyncFloorPlan(db, plan))
	plan.Restaurants[0].Zones[0].Tables[1].Capacity = 5
	require.NoError(t, SyncFloorPlan(db, plan))

	var tables []models.Table
	require.NoError(t, db.Find(&tables).Error)
	assert.Len(t, tables, 3)

	var t2 models.Table
	require.NoError(t, db.Where("name = ?", "2").First(&t2).Error)
	assert.Equal(t, 5, t2.Capacity)
}

func TestSyncFloorPlanNil(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, SyncFloorPlan(db, nil))
}
