package models

// Link is the forward record of a short link. Hash never changes once
// assigned and Clicks only grows.
type Link struct {
	Hash    string `gorm:"primaryKey;size:32" json:"hash" redis:"hash"`
	LongURL string `gorm:"column:url;not null" json:"long_url" redis:"url"`
	Clicks  int64  `gorm:"not null;default:0" json:"clicks" redis:"clicks"`
}

// URLIndex is the reverse index row, keyed by the long URL digest.
type URLIndex struct {
	URLDigest string `gorm:"primaryKey;size:64"`
	Hash      string `gorm:"size:32;not null"`
}

func (URLIndex) TableName() string {
	return "url_index"
}

// Counter is a named monotonically increasing integer owned by the store.
type Counter struct {
	Name  string `gorm:"primaryKey;size:64"`
	Value int64  `gorm:"not null;default:0"`
}
