package model

// Tag 标签，按 name 精确匹配（区分大小写）唯一
type Tag struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(64);uniqueIndex;not null"`
}

func (Tag) TableName() string { return "tags" }
