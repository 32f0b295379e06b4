package datastore

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

type PostgresConfig struct {
	User     string `env:"USER"`
	Host     string `env:"HOST"`
	Port     string `env:"PORT"`
	Password string `env:"PASSWORD"`
	Database string `env:"DBNAME"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Host, c.User, c.Password, c.Database, c.Port)
}

// DocumentRow is the relational shape of one document. A single table
// holds every kind; the body stays opaque JSON so the schema never
// changes when an entity grows a field.
type DocumentRow struct {
	Kind string `gorm:"primaryKey;column:kind"`
	ID   int64  `gorm:"primaryKey;autoIncrement:false;column:id"`
	Data []byte `gorm:"column:data"`
}

func (DocumentRow) TableName() string { return "documents" }

// SequenceRow backs per-kind id allocation.
type SequenceRow struct {
	Kind  string `gorm:"primaryKey;column:kind"`
	Value int64  `gorm:"column:value"`
}

func (SequenceRow) TableName() string { return "document_sequences" }

// PostgresStore implements Store on a two-table relational layout.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(cfg PostgresConfig, withDebug bool) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "datastore: open postgres")
	}
	if withDebug {
		db = db.Debug()
	}
	return &PostgresStore{db: db}, nil
}

// NewGormStore wraps an already-open gorm connection. Tests use it with
// the sqlite driver.
func NewGormStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) NextID(ctx context.Context, kind string) (int64, error) {
	var value int64
	err := s.db.WithContext(ctx).Raw(`
		INSERT INTO document_sequences (kind, value) VALUES (?, 1)
		ON CONFLICT (kind) DO UPDATE SET value = document_sequences.value + 1
		RETURNING value`, kind).Scan(&value).Error
	if err != nil {
		return 0, errors.Wrap(err, "datastore: next id")
	}
	return value, nil
}

func (s *PostgresStore) Put(ctx context.Context, kind string, id int64, data []byte) error {
	row := DocumentRow{Kind: kind, ID: id, Data: data}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kind"}, {Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data"}),
	}).Create(&row).Error
	return errors.Wrap(err, "datastore: put")
}

func (s *PostgresStore) Get(ctx context.Context, kind string, id int64) (*Document, error) {
	var row DocumentRow
	err := s.db.WithContext(ctx).
		Where("kind = ? AND id = ?", kind, id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSuchEntity
		}
		return nil, errors.Wrap(err, "datastore: get")
	}
	return &Document{ID: row.ID, Data: row.Data}, nil
}

func (s *PostgresStore) Delete(ctx context.Context, kind string, id int64) error {
	res := s.db.WithContext(ctx).
		Where("kind = ? AND id = ?", kind, id).
		Delete(&DocumentRow{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "datastore: delete")
	}
	if res.RowsAffected == 0 {
		return ErrNoSuchEntity
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, kind string) ([]*Document, error) {
	var rows []DocumentRow
	err := s.db.WithContext(ctx).
		Where("kind = ?", kind).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "datastore: list")
	}
	docs := make([]*Document, len(rows))
	for i, r := range rows {
		docs[i] = &Document{ID: r.ID, Data: r.Data}
	}
	return docs, nil
}
