package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type Verse struct {
	Id          uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Surah       string                      `gorm:"type:varchar(64);not null;uniqueIndex:idx_verses_ref"`
	VerseNumber int                         `gorm:"column:verse;not null;uniqueIndex:idx_verses_ref"`
	Arabic      string                      `gorm:"type:text"`
	Translation string                      `gorm:"type:text"`
	Categories  datatypes.JSONSlice[string] `gorm:"type:jsonb"` // category names, denormalised for display
	Tahlili     string                      `gorm:"column:tafsir_tahlili;type:text"`
	Wajiz       string                      `gorm:"column:tafsir_wajiz;type:text"`
	Hamka       string                      `gorm:"column:tafsir_hamka;type:text"`
	Source      datatypes.JSON              `gorm:"type:jsonb"`       // row as imported
	Embedding   *pgvector.Vector            `gorm:"type:vector(768)"` // nil until embedded
	CreatedAt   time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt   time.Time                   `gorm:"autoUpdateTime"`
}

func (Verse) TableName() string {
	return "verses"
}

type Category struct {
	Id        int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"type:varchar(128);not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Category) TableName() string {
	return "categories"
}

type VerseCategory struct {
	VerseId    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CategoryId int       `gorm:"primaryKey;index"`
}

func (VerseCategory) TableName() string {
	return "verse_categories"
}
