package specification

import "gorm.io/gorm"

// Specification narrows or orders a query.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}

// Apply applies specs to db in order.
func Apply(db *gorm.DB, specs ...Specification) *gorm.DB {
	for _, s := range specs {
		db = s.Apply(db)
	}
	return db
}
