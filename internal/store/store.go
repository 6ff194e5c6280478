package store

import (
	"gorm.io/gorm"
)

// Store is the gorm-backed read-only view of the KPI database. It
// implements macreport.Querier; the report core never touches gorm
// directly.
type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) HasTable(name string) bool {
	return s.DB.Migrator().HasTable(name)
}

// Select runs a parameterized read and scans the named columns into dest.
// params are bound as named parameters; callers never interpolate values
// into the query text.
func (s *Store) Select(dest interface{}, query string, params map[string]interface{}) error {
	if params == nil {
		params = map[string]interface{}{}
	}
	return s.DB.Raw(query, params).Scan(dest).Error
}
