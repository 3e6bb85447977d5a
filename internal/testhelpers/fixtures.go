package testhelpers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gfgm/gfgm/backend/internal/models"
	"github.com/gfgm/gfgm/backend/internal/types"
)

// TestPassword is the plain-text password of every user created by CreateTestUser
const TestPassword = "password123"

// CreateTestUser inserts a user with TestPassword
func CreateTestUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// RecipeRequest returns a valid recipe request with the given title and ingredient names
func RecipeRequest(title string, ingredients ...string) *types.RecipeRequest {
	if len(ingredients) == 0 {
		ingredients = []string{"flour", "milk", "eggs"}
	}
	req := &types.RecipeRequest{
		Title:        title,
		Description:  title + " made the easy way",
		Instructions: "Mix everything and cook.",
		PrepTime:     10,
		CookTime:     20,
		Servings:     4,
		Category:     models.CategoryBreakfast,
	}
	for i, name := range ingredients {
		req.Ingredients = append(req.Ingredients, types.IngredientRequest{
			Name:   name,
			Amount: float64(i + 1),
			Unit:   "cup",
		})
	}
	return req
}

// MemoryImageStore keeps images in memory and can be told to fail
type MemoryImageStore struct {
	mu       sync.Mutex
	files    map[string][]byte
	FailSave bool
}

func NewMemoryImageStore() *MemoryImageStore {
	return &MemoryImageStore{files: make(map[string][]byte)}
}

func (s *MemoryImageStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if s.FailSave {
		return "", errors.New("store unavailable")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	name := uuid.NewString() + "_" + originalName
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = data
	return name, nil
}

func (s *MemoryImageStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[name]
	if !ok {
		return nil, types.NotFoundf("image %q", name)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *MemoryImageStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, name)
	return nil
}

// Put stores data under an exact name
func (s *MemoryImageStore) Put(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = data
}

// Has reports whether name is stored
func (s *MemoryImageStore) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[name]
	return ok
}

// Names lists the stored names in sorted order
func (s *MemoryImageStore) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
