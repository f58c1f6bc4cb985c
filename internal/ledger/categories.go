package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/expense-ledger/internal/common"
	"github.com/Veraticus/expense-ledger/internal/model"
	"github.com/Veraticus/expense-ledger/internal/storage"
)

// ListActiveCategories returns non-deleted categories ordered by id.
func (r *Repository) ListActiveCategories(ctx context.Context) ([]model.Category, error) {
	return storage.All(ctx, r.store, scanCategory,
		`SELECT id, name, is_deleted FROM categories WHERE is_deleted = FALSE ORDER BY id`)
}

// GetCategory returns an active category.
func (r *Repository) GetCategory(ctx context.Context, id int64) (model.Category, error) {
	if id <= 0 {
		return model.Category{}, common.ErrInvalidID
	}
	return activeCategory(ctx, r.store, id)
}

func activeCategory(ctx context.Context, q storage.Runner, id int64) (model.Category, error) {
	c, found, err := storage.One(ctx, q, scanCategory,
		`SELECT id, name, is_deleted FROM categories WHERE id = ? AND is_deleted = FALSE`, id)
	if err != nil {
		return model.Category{}, err
	}
	if !found {
		return model.Category{}, fmt.Errorf("%w: id %d", common.ErrCategoryNotFound, id)
	}
	return c, nil
}

func categoryByName(ctx context.Context, q storage.Runner, name string) (model.Category, bool, error) {
	return storage.One(ctx, q, scanCategory,
		`SELECT id, name, is_deleted FROM categories WHERE name = ?`, name)
}

// AddCategory creates a category. Adding the name of a soft-deleted
// category restores it, so names stay unique among active categories.
func (r *Repository) AddCategory(ctx context.Context, name string) (model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Category{}, common.ErrBlankName
	}

	var created model.Category
	err := r.store.InTx(ctx, func(q storage.Runner) error {
		existing, found, err := categoryByName(ctx, q, name)
		if err != nil {
			return err
		}
		if found && !existing.IsDeleted {
			return fmt.Errorf("%w: %q", common.ErrCategoryExists, name)
		}
		if found {
			if _, err := q.Exec(ctx, `UPDATE categories SET is_deleted = FALSE WHERE id = ?`, existing.ID); err != nil {
				return err
			}
			created = model.Category{ID: existing.ID, Name: existing.Name}
			return nil
		}

		id, _, err := storage.One(ctx, q, scanID,
			`INSERT INTO categories (name) VALUES (?) RETURNING id`, name)
		if err != nil {
			if storage.IsUniqueViolation(err) {
				return fmt.Errorf("%w: %q", common.ErrCategoryExists, name)
			}
			return err
		}
		created = model.Category{ID: id, Name: name}
		return nil
	})
	if err != nil {
		return model.Category{}, err
	}

	slog.Info("category added", "id", created.ID, "name", created.Name)
	return created, nil
}

// EnsureCategory inserts name unless a category with that name already
// exists, then returns it. A conflicting insert is a no-op, not an error.
func (r *Repository) EnsureCategory(ctx context.Context, name string) (model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Category{}, common.ErrBlankName
	}
	if _, err := r.store.Exec(ctx,
		`INSERT INTO categories (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, name); err != nil {
		return model.Category{}, err
	}
	c, found, err := categoryByName(ctx, r.store, name)
	if err != nil {
		return model.Category{}, err
	}
	if !found {
		return model.Category{}, fmt.Errorf("%w: %q", common.ErrCategoryNotFound, name)
	}
	return c, nil
}

// RenameCategory changes the name of an active category.
func (r *Repository) RenameCategory(ctx context.Context, id int64, newName string) error {
	if id <= 0 {
		return common.ErrInvalidID
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return common.ErrBlankName
	}

	err := r.store.InTx(ctx, func(q storage.Runner) error {
		if _, err := activeCategory(ctx, q, id); err != nil {
			return err
		}
		other, found, err := categoryByName(ctx, q, newName)
		if err != nil {
			return err
		}
		if found && other.ID != id {
			return fmt.Errorf("%w: %q", common.ErrCategoryExists, newName)
		}
		_, err = q.Exec(ctx, `UPDATE categories SET name = ? WHERE id = ?`, newName, id)
		if storage.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %q", common.ErrCategoryExists, newName)
		}
		return err
	})
	if err != nil {
		return err
	}

	slog.Info("category renamed", "id", id, "name", newName)
	return nil
}

// SoftDeleteCategory marks a category deleted. It fails with
// common.ErrCategoryInUse while any active expense references it, and with
// common.ErrCategoryNotFound when the id is missing or already deleted.
func (r *Repository) SoftDeleteCategory(ctx context.Context, id int64) error {
	if id <= 0 {
		return common.ErrInvalidID
	}

	err := r.store.InTx(ctx, func(q storage.Runner) error {
		if _, err := activeCategory(ctx, q, id); err != nil {
			return err
		}
		_, inUse, err := storage.One(ctx, q, scanID,
			`SELECT id FROM expenses WHERE category_id = ? AND is_deleted = FALSE LIMIT 1`, id)
		if err != nil {
			return err
		}
		if inUse {
			return fmt.Errorf("%w: id %d", common.ErrCategoryInUse, id)
		}
		_, err = q.Exec(ctx, `UPDATE categories SET is_deleted = TRUE WHERE id = ?`, id)
		return err
	})
	if err != nil {
		return err
	}

	slog.Info("category deleted", "id", id)
	return nil
}

func scanID(sc storage.Scanner) (int64, error) {
	var id int64
	err := sc.Scan(&id)
	return id, err
}
