package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gfgm/gfgm/backend/internal/middleware"
	"github.com/gfgm/gfgm/backend/internal/service"
	"github.com/gfgm/gfgm/backend/internal/types"
)

var errNotAuthenticated = fmt.Errorf("user not authenticated: %w", types.ErrInvalidCredentials)

// pageRequest reads page, size, sortBy and direction from the query string
func pageRequest(c *gin.Context) (types.PageRequest, error) {
	var p types.PageRequest
	var err error
	if p.Page, err = queryInt(c, "page"); err != nil {
		return p, err
	}
	if p.Size, err = queryInt(c, "size"); err != nil {
		return p, err
	}
	p.SortBy = c.Query("sortBy")
	p.Direction = c.Query("direction")
	return p, nil
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, types.Validationf("%s must be an integer", key)
	}
	return v, nil
}

func pathID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, types.Validationf("invalid %s %q", name, c.Param(name))
	}
	return id, nil
}

func actorID(c *gin.Context) (uuid.UUID, error) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		return uuid.Nil, errNotAuthenticated
	}
	return id, nil
}

// viewerID is the caller's id on public routes, or uuid.Nil when anonymous
func viewerID(c *gin.Context) uuid.UUID {
	id, _ := middleware.CurrentUserID(c)
	return id
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return types.Validationf("invalid request body: %v", err)
	}
	return nil
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/")
}

// formImage opens an uploaded image; it returns nil when the field is absent.
// The caller closes the returned file.
func formImage(c *gin.Context, field string) (*service.ImageUpload, io.Closer, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, types.Validationf("invalid %s upload: %v", field, err)
	}
	return openUpload(header)
}

func openUpload(header *multipart.FileHeader) (*service.ImageUpload, io.Closer, error) {
	f, err := header.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open upload: %w", err)
	}
	return &service.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Reader:      f,
	}, f, nil
}

// bindRecipe accepts either a JSON body or a multipart form with a JSON
// "recipe" part and an optional "image" file.
func bindRecipe(c *gin.Context) (*types.RecipeRequest, *service.ImageUpload, io.Closer, error) {
	var req types.RecipeRequest
	if !isMultipart(c) {
		if err := bindJSON(c, &req); err != nil {
			return nil, nil, nil, err
		}
		return &req, nil, nil, nil
	}

	raw, err := multipartJSON(c, "recipe")
	if err != nil {
		return nil, nil, nil, err
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, nil, nil, types.Validationf("invalid recipe part: %v", err)
	}

	image, closer, err := formImage(c, "image")
	if err != nil {
		return nil, nil, nil, err
	}
	return &req, image, closer, nil
}

// multipartJSON reads a JSON part sent either as a form value or as a file part
func multipartJSON(c *gin.Context, field string) ([]byte, error) {
	if v, ok := c.GetPostForm(field); ok {
		return []byte(v), nil
	}
	header, err := c.FormFile(field)
	if err != nil {
		return nil, types.Validationf("missing %q part", field)
	}
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s part: %w", field, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

func closeUpload(closer io.Closer) {
	if closer != nil {
		closer.Close()
	}
}
