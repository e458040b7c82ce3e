package database

import (
	"encoding/json"
	"fmt"

	"github.com/yeremiapane/restoadmin/config"
	"github.com/yeremiapane/restoadmin/models"
	"github.com/yeremiapane/restoadmin/utils"
	"gorm.io/gorm"
)

// SyncFloorPlan upserts the restaurants, zones and tables of plan. Rows are
// matched by restaurant slug, zone name and table name; nothing is deleted, so
// tables added through the API are kept.
func SyncFloorPlan(db *gorm.DB, plan *config.FloorPlan) error {
	if plan == nil {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, rp := range plan.Restaurants {
			var restaurant models.Restaurant
			if err := tx.Where(models.Restaurant{Slug: rp.Slug}).
				Assign(models.Restaurant{Name: rp.Name, Description: rp.Description}).
				FirstOrCreate(&restaurant).Error; err != nil {
				return fmt.Errorf("sync restaurant %s: %w", rp.Slug, err)
			}

			for _, zp := range rp.Zones {
				if err := syncZone(tx, restaurant.ID, zp); err != nil {
					return fmt.Errorf("sync zone %s/%s: %w", rp.Slug, zp.Name, err)
				}
			}
		}
		utils.InfoLogger.Printf("Floor plan synced: %d restaurants, %d tables", len(plan.Restaurants), plan.TableCount())
		return nil
	})
}

func syncZone(tx *gorm.DB, restaurantID uint, zp config.ZonePlan) error {
	elements, err := json.Marshal(zp.Elements)
	if err != nil {
		return fmt.Errorf("encode elements: %w", err)
	}

	var zone models.Zone
	if err := tx.Where(models.Zone{RestaurantID: restaurantID, Name: zp.Name}).
		Assign(models.Zone{Elements: elements}).
		FirstOrCreate(&zone).Error; err != nil {
		return err
	}

	for _, tp := range zp.Tables {
		var table models.Table
		if err := tx.Where(models.Table{ZoneID: zone.ID, Name: tp.Name}).
			Assign(models.Table{Capacity: tp.Capacity, PosX: tp.X, PosY: tp.Y, Shape: tp.Shape}).
			FirstOrCreate(&table).Error; err != nil {
			return fmt.Errorf("table %s: %w", tp.Name, err)
		}
	}
	return nil
}
