package game

import (
	"time"

	"gorm.io/gorm"
)

// Status is the publication state of a Game.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Game is an embeddable game entry managed from the admin screens. The
// embed code and preview image are kept as GameMeta rows rather than
// columns so they can be written independently of the title/status form.
type Game struct {
	gorm.Model
	Title  string     `json:"title" gorm:"size:200"`
	Status Status     `json:"status" gorm:"size:16;index;default:draft"`
	Meta   []GameMeta `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// Published reports whether the game may be selected and rendered.
func (g *Game) Published() bool {
	return g != nil && g.Status == StatusPublished
}

// GameMeta is a key/value attachment on a game. Values use longtext so a
// MySQL store keeps embed markup past the 64 KB TEXT limit.
type GameMeta struct {
	ID     uint   `gorm:"primaryKey"`
	GameID uint   `gorm:"uniqueIndex:idx_game_meta_key"`
	Key    string `gorm:"column:meta_key;size:64;uniqueIndex:idx_game_meta_key"`
	Value  string `gorm:"column:meta_value;type:longtext"`
}

func (GameMeta) TableName() string { return "game_meta" }

// Setting is a single process-wide configuration value.
type Setting struct {
	Key       string `gorm:"primaryKey;size:128"`
	Value     string `gorm:"type:longtext"`
	UpdatedAt time.Time
}

// MediaAsset records an uploaded image. The bytes live in the configured
// media backend under StorageKey; renditions use keys derived from it.
type MediaAsset struct {
	gorm.Model
	Filename    string `json:"filename" gorm:"size:255"`
	ContentType string `json:"content_type" gorm:"size:64"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	StorageKey  string `json:"-" gorm:"size:128;uniqueIndex"`
	UploadedBy  string `json:"uploaded_by" gorm:"size:255"`
}

// MediaBlob holds media bytes when the database backend is used.
type MediaBlob struct {
	Key         string `gorm:"primaryKey;size:160"`
	ContentType string `gorm:"size:64"`
	Data        []byte `gorm:"type:longblob"`
	CreatedAt   time.Time
}

// Role is an authorization role assigned to a user.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleEditor        Role = "editor"
	RoleSubscriber    Role = "subscriber"
)

// User stores a signed-in operator and their role.
type User struct {
	gorm.Model
	Email       string    `json:"email" gorm:"uniqueIndex;size:255"`
	Name        string    `json:"name" gorm:"size:120"`
	Role        Role      `json:"role" gorm:"size:32"`
	LastLoginAt time.Time `json:"last_login_at"`
}
