package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRecipeCategoryValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), c)
	}
	assert.Len(t, Categories, 12)
	assert.False(t, RecipeCategory("BRUNCH").Valid())
	assert.False(t, RecipeCategory("breakfast").Valid())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("ROOT").Valid())
}

func TestBeforeCreateAssignsDefaults(t *testing.T) {
	u := &User{}
	assert.NoError(t, u.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.Equal(t, RoleUser, u.Role)
	assert.False(t, u.IsAdmin())

	existing := uuid.New()
	r := &Recipe{ID: existing, UserID: u.ID}
	assert.NoError(t, r.BeforeCreate(nil))
	assert.Equal(t, existing, r.ID)
	assert.True(t, r.OwnedBy(u.ID))
	assert.False(t, r.OwnedBy(uuid.New()))
}

func TestRecipeBeforeSaveFoldsSearchColumns(t *testing.T) {
	r := &Recipe{Title: "ÉCLAIR Au Chocolat", Description: "Pâte À Choux"}
	assert.NoError(t, r.BeforeSave(nil))
	assert.Equal(t, "éclair au chocolat", r.SearchTitle)
	assert.Equal(t, "pâte à choux", r.SearchDesc)

	r.Title = "Crème Brûlée"
	assert.NoError(t, r.BeforeSave(nil))
	assert.Equal(t, "crème brûlée", r.SearchTitle)
}
