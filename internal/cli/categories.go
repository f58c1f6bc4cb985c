package cli

import (
	"context"
	"fmt"
)

func (a *App) addCategory(ctx context.Context) error {
	name, err := a.prompt.AskRequired(ctx, "Category name")
	if err != nil {
		return err
	}
	c, err := a.repo.AddCategory(ctx, name)
	if err != nil {
		return err
	}
	a.prompt.Println(FormatSuccess(fmt.Sprintf("Category %q saved with id %d.", c.Name, c.ID)))
	return nil
}

func (a *App) listCategories(ctx context.Context) error {
	cats, err := a.repo.ListActiveCategories(ctx)
	if err != nil {
		return err
	}
	return RenderCategories(a.prompt.Writer(), cats)
}

func (a *App) renameCategory(ctx context.Context) error {
	if err := a.listCategories(ctx); err != nil {
		return err
	}
	id, err := a.prompt.AskID(ctx, "Category id")
	if err != nil {
		return err
	}
	name, err := a.prompt.AskRequired(ctx, "New name")
	if err != nil {
		return err
	}
	if err := a.repo.RenameCategory(ctx, id, name); err != nil {
		return err
	}
	a.prompt.Println(FormatSuccess(fmt.Sprintf("Category %d renamed to %q.", id, name)))
	return nil
}

func (a *App) deleteCategory(ctx context.Context) error {
	if err := a.listCategories(ctx); err != nil {
		return err
	}
	id, err := a.prompt.AskID(ctx, "Category id")
	if err != nil {
		return err
	}
	c, err := a.repo.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	ok, err := a.prompt.Confirm(ctx, fmt.Sprintf("Delete category %q?", c.Name))
	if err != nil || !ok {
		return err
	}
	if err := a.repo.SoftDeleteCategory(ctx, id); err != nil {
		return err
	}
	a.prompt.Println(FormatSuccess(fmt.Sprintf("Category %q deleted.", c.Name)))
	return nil
}
