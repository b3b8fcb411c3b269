package models

// Blog is a post whose id is the lowest unused positive integer at creation time.
type Blog struct {
	ID      int    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Title   string `gorm:"index" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
	Author  string `gorm:"index" json:"author"`
}
