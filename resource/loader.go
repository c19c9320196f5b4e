package resource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/qingyun/xiuxian/server/dal"
	"github.com/qingyun/xiuxian/server/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seed file names, one per reference table.
const (
	RealmsFile                = "realms.json"
	SkillsFile                = "skills.json"
	WeaponsFile               = "weapons.json"
	BodyTypesFile             = "body_types.json"
	SectsFile                 = "sects.json"
	AchievementsFile          = "achievements.json"
	ItemsFile                 = "items.json"
	ItemCategoriesFile        = "item_categories.json"
	ItemCategoryRelationsFile = "item_category_relations.json"
)

// ResourceLoader seeds the reference tables from JSON files. Each file holds
// an array of rows; null entries are skipped. A table that already has rows
// is left alone, so seeding is safe to run on every start.
type ResourceLoader struct {
	SeedDir string
	db      *gorm.DB
	logger  *zap.Logger

	// Seeded maps table name to the number of rows inserted by the last Load.
	Seeded map[string]int
}

// NewLoader creates a ResourceLoader for the given seed directory.
func NewLoader(seedDir string, db *gorm.DB, logger *zap.Logger) *ResourceLoader {
	return &ResourceLoader{
		SeedDir: seedDir,
		db:      db,
		logger:  logger,
		Seeded:  make(map[string]int),
	}
}

// Load seeds every reference table. Missing files are skipped; a file that
// fails to parse or insert aborts the load.
func (rl *ResourceLoader) Load(ctx context.Context) error {
	loaders := []func(context.Context) error{
		func(ctx context.Context) error { return seed[model.Realm](ctx, rl, RealmsFile) },
		func(ctx context.Context) error { return seed[model.SkillInfo](ctx, rl, SkillsFile) },
		func(ctx context.Context) error { return seed[model.WeaponInfo](ctx, rl, WeaponsFile) },
		func(ctx context.Context) error { return seed[model.BodyTypeInfo](ctx, rl, BodyTypesFile) },
		func(ctx context.Context) error { return seed[model.Sect](ctx, rl, SectsFile) },
		func(ctx context.Context) error { return seed[model.Achievement](ctx, rl, AchievementsFile) },
		func(ctx context.Context) error { return seed[model.ItemInfo](ctx, rl, ItemsFile) },
		func(ctx context.Context) error { return seed[model.ItemCategory](ctx, rl, ItemCategoriesFile) },
		func(ctx context.Context) error { return seed[model.ItemCategoryRelation](ctx, rl, ItemCategoryRelationsFile) },
	}
	for _, fn := range loaders {
		if err := fn(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (rl *ResourceLoader) path(file string) string {
	return filepath.Join(rl.SeedDir, file)
}

func seed[T any](ctx context.Context, rl *ResourceLoader, file string) error {
	repo, err := dal.NewRepository[T](rl.db)
	if err != nil {
		return err
	}
	n, err := repo.Count(ctx, nil)
	if err != nil {
		return fmt.Errorf("resource: count %s: %w", repo.Table(), err)
	}
	if n > 0 {
		rl.logger.Debug("reference table already seeded", zap.String("table", repo.Table()), zap.Int64("rows", n))
		return nil
	}

	rows, err := loadJSONArray[T](rl.path(file))
	if errors.Is(err, fs.ErrNotExist) {
		rl.logger.Debug("seed file missing, skipped", zap.String("file", file))
		return nil
	}
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	if _, err := repo.CreateMany(ctx, rows); err != nil {
		return fmt.Errorf("resource: seed %s: %w", repo.Table(), err)
	}
	rl.Seeded[repo.Table()] = len(rows)
	rl.logger.Info("reference table seeded", zap.String("table", repo.Table()), zap.Int("rows", len(rows)))
	return nil
}

func loadJSONArray[T any](path string) ([]*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("resource: read %s: %w", path, err)
	}
	var arr []*T
	if err := json.Unmarshal(data, &arr); err != nil {
		return nil, fmt.Errorf("resource: parse %s: %w", path, err)
	}
	out := arr[:0]
	for _, v := range arr {
		if v != nil {
			out = append(out, v)
		}
	}
	return out, nil
}
