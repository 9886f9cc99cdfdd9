package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ericogr/kids-games/internal/game"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormRepository struct {
	db *gorm.DB
}

// GormRepository is the Repository returned by NewGormRepository; it also
// stores media blobs for the database media backend.
type GormRepository interface {
	Repository
	BlobRepository
}

func NewGormRepository(db *gorm.DB) GormRepository {
	return &gormRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (r *gormRepository) CreateGame(ctx context.Context, g *game.Game) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *gormRepository) GetGameByID(ctx context.Context, id uint) (*game.Game, error) {
	var g game.Game
	if err := r.db.WithContext(ctx).First(&g, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &g, nil
}

func (r *gormRepository) ListGames(ctx context.Context, status game.Status) ([]game.Game, error) {
	var games []game.Game
	q := r.db.WithContext(ctx).Order("title asc").Order("id asc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}

func (r *gormRepository) UpdateGame(ctx context.Context, g *game.Game) error {
	res := r.db.WithContext(ctx).Model(&game.Game{}).Where("id = ?", g.ID).
		Updates(map[string]interface{}{"title": g.Title, "status": g.Status})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormRepository) DeleteGame(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&game.Game{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("game_id = ?", id).Delete(&game.GameMeta{}).Error
	})
}

func (r *gormRepository) GetMeta(ctx context.Context, gameID uint, key string) (string, bool, error) {
	var m game.GameMeta
	err := r.db.WithContext(ctx).Where("game_id = ? AND meta_key = ?", gameID, key).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return m.Value, true, nil
}

// SetMeta upserts on the (game_id, meta_key) unique index.
func (r *gormRepository) SetMeta(ctx context.Context, gameID uint, key, value string) error {
	m := game.GameMeta{GameID: gameID, Key: key, Value: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_id"}, {Name: "meta_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"meta_value"}),
	}).Create(&m).Error
}

func (r *gormRepository) DeleteMeta(ctx context.Context, gameID uint, key string) error {
	return r.db.WithContext(ctx).Where("game_id = ? AND meta_key = ?", gameID, key).Delete(&game.GameMeta{}).Error
}

func (r *gormRepository) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var s game.Setting
	if err := r.db.WithContext(ctx).Where("`key` = ?", key).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return s.Value, true, nil
}

// SetSetting overwrites the single row for key; concurrent writers resolve
// as last-write-wins.
func (r *gormRepository) SetSetting(ctx context.Context, key, value string) error {
	s := game.Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&s).Error
}

func (r *gormRepository) CreateMedia(ctx context.Context, m *game.MediaAsset) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *gormRepository) GetMediaByID(ctx context.Context, id uint) (*game.MediaAsset, error) {
	var m game.MediaAsset
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *gormRepository) DeleteMedia(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&game.MediaAsset{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormRepository) UpsertUser(ctx context.Context, email, name string, role game.Role) (*game.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u game.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		u = game.User{Email: email}
	}
	if name != "" {
		u.Name = name
	}
	u.Role = role
	u.LastLoginAt = time.Now().UTC()
	if err := r.db.WithContext(ctx).Save(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *gormRepository) GetUserByEmail(ctx context.Context, email string) (*game.User, error) {
	var u game.User
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *gormRepository) PutBlob(ctx context.Context, key, contentType string, data []byte) error {
	b := game.MediaBlob{Key: key, ContentType: contentType, Data: data, CreatedAt: time.Now().UTC()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"content_type", "data"}),
	}).Create(&b).Error
}

func (r *gormRepository) GetBlob(ctx context.Context, key string) (*game.MediaBlob, error) {
	var b game.MediaBlob
	if err := r.db.WithContext(ctx).Where("`key` = ?", key).First(&b).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *gormRepository) DeleteBlobsWithPrefix(ctx context.Context, prefix string) error {
	return r.db.WithContext(ctx).Where("`key` LIKE ?", prefix+"%").Delete(&game.MediaBlob{}).Error
}
