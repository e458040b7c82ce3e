package models

// All lists the models for AutoMigrate in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Restaurant{},
		&Zone{},
		&Table{},
		&Guest{},
		&Reservation{},
	}
}
