package models

// Setting is one value in a named picklist (companies, departments,
// designations, ...). Pairs are unique.
type Setting struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Category string `gorm:"uniqueIndex:idx_settings_category_value;not null" json:"category"`
	Value    string `gorm:"uniqueIndex:idx_settings_category_value;not null" json:"value"`
}
