package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ericogr/kids-games/internal/game"
	"github.com/ericogr/kids-games/internal/logging"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// DBConfig selects the database driver and its connection settings.
type DBConfig struct {
	Driver string
	// Path is the SQLite file (":memory:" is accepted).
	Path string

	MySQLAddr     string
	MySQLUser     string
	MySQLPassword string
	MySQLDatabase string
}

// MySQLDSN renders the go-sql-driver DSN for the MySQL settings.
func (c DBConfig) MySQLDSN() string {
	mc := mysqldriver.NewConfig()
	mc.Net = "tcp"
	mc.Addr = c.MySQLAddr
	mc.User = c.MySQLUser
	mc.Passwd = c.MySQLPassword
	mc.DBName = c.MySQLDatabase
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

func dialector(c DBConfig) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(c.Driver)) {
	case "", DriverSQLite:
		path := c.Path
		if path == "" {
			path = "./data/kids_games.db"
		}
		if path != ":memory:" && !strings.HasPrefix(path, "file:") {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		return sqlite.Open(path), nil
	case DriverMySQL:
		if c.MySQLAddr == "" || c.MySQLDatabase == "" {
			return nil, fmt.Errorf("mysql driver requires address and database")
		}
		return mysql.Open(c.MySQLDSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

// OpenAndMigrate opens the configured database and keeps the schema
// updated via AutoMigrate.
func OpenAndMigrate(c DBConfig) (*gorm.DB, error) {
	d, err := dialector(c)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(d, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&game.Game{}, &game.GameMeta{}, &game.Setting{}, &game.MediaAsset{}, &game.MediaBlob{}, &game.User{}); err != nil {
		return nil, err
	}
	logging.Info("database ready", logging.Fields{"driver": db.Dialector.Name()})
	return db, nil
}
