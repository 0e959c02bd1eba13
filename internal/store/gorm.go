package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Document is the row backing one record in the SQL drivers.
type Document struct {
	ID         uint      `gorm:"primaryKey"`
	Collection string    `gorm:"size:100;not null;uniqueIndex:idx_documents_collection_doc"`
	DocID      string    `gorm:"column:doc_id;size:64;not null;uniqueIndex:idx_documents_collection_doc"`
	Data       string    `gorm:"type:text;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Document) TableName() string {
	return "documents"
}

type GormStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewGormStore(db *gorm.DB, logger ...*zap.Logger) *GormStore {
	l := zap.L().Named("store.gorm")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("store.gorm")
	}
	return &GormStore{db: db, logger: l}
}

func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(&Document{})
}

func (s *GormStore) Collection(name string) Collection {
	return &gormCollection{store: s, name: name}
}

func (s *GormStore) Collections(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).
		Model(&Document{}).
		Distinct("collection").
		Order("collection").
		Pluck("collection", &names).Error
	return names, err
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type gormCollection struct {
	store *GormStore
	name  string
}

func (c *gormCollection) Name() string { return c.name }

func (c *gormCollection) scope(ctx context.Context) *gorm.DB {
	return c.store.db.WithContext(ctx).Where("collection = ?", c.name)
}

func decodeDocument(doc Document) (Record, error) {
	var rec Record
	if err := json.Unmarshal([]byte(doc.Data), &rec); err != nil {
		return nil, fmt.Errorf("decode document %s/%s: %w", doc.Collection, doc.DocID, err)
	}
	if rec == nil {
		rec = Record{}
	}
	return rec, nil
}

func encodeRecord(rec Record) (string, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (c *gormCollection) All(ctx context.Context) ([]Record, error) {
	return c.Filter(ctx, nil)
}

func (c *gormCollection) Get(ctx context.Context, id any) (Record, error) {
	var doc Document
	err := c.scope(ctx).Where("doc_id = ?", IDString(id)).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeDocument(doc)
}

func (c *gormCollection) Find(ctx context.Context, pred Predicate) (Record, error) {
	records, err := c.Filter(ctx, pred)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records[0], nil
}

func (c *gormCollection) Filter(ctx context.Context, pred Predicate) ([]Record, error) {
	var docs []Document
	if err := c.scope(ctx).Order("id asc").Find(&docs).Error; err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(docs))
	for _, doc := range docs {
		rec, err := decodeDocument(doc)
		if err != nil {
			return nil, err
		}
		if pred == nil || pred(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (c *gormCollection) Count(ctx context.Context) (int, error) {
	var n int64
	err := c.store.db.WithContext(ctx).Model(&Document{}).Where("collection = ?", c.name).Count(&n).Error
	return int(n), err
}

func (c *gormCollection) Push(ctx context.Context, rec Record) (Record, error) {
	normalized, err := Normalize(rec)
	if err != nil {
		return nil, err
	}

	err = c.store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if IDString(normalized["id"]) == "" {
			var ids []string
			if err := tx.Model(&Document{}).Where("collection = ?", c.name).Pluck("doc_id", &ids).Error; err != nil {
				return err
			}
			existing := make([]Record, 0, len(ids))
			for _, id := range ids {
				existing = append(existing, Record{"id": id})
			}
			normalized["id"] = NextID(existing)
		}

		data, err := encodeRecord(normalized)
		if err != nil {
			return err
		}
		return tx.Create(&Document{
			Collection: c.name,
			DocID:      IDString(normalized["id"]),
			Data:       data,
		}).Error
	})
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateID
		}
		c.store.logger.Error("push failed", zap.String("collection", c.name), zap.Error(err))
		return nil, err
	}
	return normalized, nil
}

func (c *gormCollection) Assign(ctx context.Context, id any, patch Record) (Record, error) {
	normalized, err := Normalize(patch)
	if err != nil {
		return nil, err
	}
	delete(normalized, "id")
	return c.update(ctx, id, func(current Record) Record {
		return Merge(current, normalized)
	})
}

func (c *gormCollection) Replace(ctx context.Context, id any, rec Record) (Record, error) {
	normalized, err := Normalize(rec)
	if err != nil {
		return nil, err
	}
	return c.update(ctx, id, func(current Record) Record {
		normalized["id"] = current["id"]
		return normalized
	})
}

func (c *gormCollection) update(ctx context.Context, id any, fn func(Record) Record) (Record, error) {
	var updated Record
	err := c.store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc Document
		err := tx.Where("collection = ? AND doc_id = ?", c.name, IDString(id)).First(&doc).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		current, err := decodeDocument(doc)
		if err != nil {
			return err
		}
		updated = fn(current)

		data, err := encodeRecord(updated)
		if err != nil {
			return err
		}
		return tx.Model(&doc).Update("data", data).Error
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (c *gormCollection) Remove(ctx context.Context, id any) error {
	res := c.store.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", c.name, IDString(id)).
		Delete(&Document{})
	if res.Error != nil {
		c.store.logger.Error("remove failed", zap.String("collection", c.name), zap.Error(res.Error))
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
