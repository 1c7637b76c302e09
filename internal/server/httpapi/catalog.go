package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/buildhub/internal/client/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// defaultUnits are offered even before any material uses them.
var defaultUnits = []string{"Bag", "Kg", "Ton", "Piece", "Cubic Feet", "Cubic Meter", "Litre", "Square Feet"}

var errBadStatus = errors.New("status must be active or inactive")

// formStatus reads an optional active/inactive form field.
func formStatus(c *gin.Context) (string, error) {
	s := strings.TrimSpace(c.PostForm("status"))
	if s != "" && s != models.StatusActive && s != models.StatusInactive {
		return "", errBadStatus
	}
	return s, nil
}

// uploadImage stores the "image" part, if any, and returns its URL.
func (h *Handler) uploadImage(c *gin.Context) (string, error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return h.images.Put(c.Request.Context(), fh.Filename, contentType, data)
}

func categoryFields(v *models.Category) fields {
	return fields{Name: &v.Name, Status: &v.Status, Deleted: &v.IsDeleted, UpdatedAt: &v.UpdatedAt}
}

func (h *Handler) mountCategories(g *gin.RouterGroup) {
	l := &lifecycle[models.Category]{singular: "Category", table: h.db.Categories, fields: categoryFields, now: h.now}
	g.POST("", h.createCategory)
	g.PUT("/:id", h.updateCategory)
	l.mount(h, g)
}

func (h *Handler) categoryNameTaken(name, exceptID string) bool {
	return len(h.db.Categories.Filter(func(v models.Category) bool {
		return v.ID != exceptID && !v.IsDeleted && strings.EqualFold(v.Name, name)
	})) > 0
}

func (h *Handler) createCategory(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		fail(c, http.StatusBadRequest, "Category name is required")
		return
	}
	if h.categoryNameTaken(name, "") {
		fail(c, http.StatusConflict, "Category already exists")
		return
	}
	status, err := formStatus(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "Status must be active or inactive")
		return
	}
	image, err := h.uploadImage(c)
	if err != nil {
		h.failErr(c, err, "")
		return
	}

	now := h.now()
	v := models.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(c.PostForm("description")),
		Image:       image,
		Status:      orDefault(status, models.StatusActive),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.db.Categories.Insert(v); err != nil {
		h.failErr(c, err, "")
		return
	}
	respond(c, http.StatusCreated, v, "Category created successfully", nil)
}

func (h *Handler) updateCategory(c *gin.Context) {
	id := c.Param("id")
	name := strings.TrimSpace(c.PostForm("name"))
	if name != "" && h.categoryNameTaken(name, id) {
		fail(c, http.StatusConflict, "Category already exists")
		return
	}
	status, err := formStatus(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "Status must be active or inactive")
		return
	}
	image, err := h.uploadImage(c)
	if err != nil {
		h.failErr(c, err, "")
		return
	}

	v, err := h.db.Categories.Update(id, func(v *models.Category) error {
		setIf(&v.Name, name)
		setIf(&v.Description, strings.TrimSpace(c.PostForm("description")))
		setIf(&v.Status, status)
		setIf(&v.Image, image)
		v.UpdatedAt = h.now()
		return nil
	})
	if err != nil {
		h.failErr(c, err, "Category not found")
		return
	}
	respond(c, http.StatusOK, v, "Category updated successfully", nil)
}

func subCategoryFields(v *models.SubCategory) fields {
	return fields{Name: &v.Name, Status: &v.Status, Deleted: &v.IsDeleted, UpdatedAt: &v.UpdatedAt}
}

func (h *Handler) mountSubCategories(g *gin.RouterGroup) {
	l := &lifecycle[models.SubCategory]{
		singular: "Sub-category",
		table:    h.db.SubCategories,
		fields:   subCategoryFields,
		filter: func(v models.SubCategory, q url.Values) bool {
			return q.Get("category") == "" || v.Category.ID == q.Get("category")
		},
		now: h.now,
	}
	g.POST("", h.createSubCategory)
	g.PUT("/:id", h.updateSubCategory)
	g.GET("/category/:categoryId", func(c *gin.Context) {
		id := c.Param("categoryId")
		respond(c, http.StatusOK, h.db.SubCategories.Filter(func(v models.SubCategory) bool {
			return !v.IsDeleted && v.Category.ID == id
		}), "", nil)
	})
	l.mount(h, g)
}

// liveCategory resolves a category reference that must not be in trash.
func (h *Handler) liveCategory(id string) (models.Category, bool) {
	v, err := h.db.Categories.Get(id)
	return v, err == nil && !v.IsDeleted
}

func (h *Handler) createSubCategory(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		fail(c, http.StatusBadRequest, "Sub-category name is required")
		return
	}
	cat, ok := h.liveCategory(c.PostForm("category"))
	if !ok {
		fail(c, http.StatusBadRequest, "Invalid category")
		return
	}
	status, err := formStatus(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "Status must be active or inactive")
		return
	}
	image, err := h.uploadImage(c)
	if err != nil {
		h.failErr(c, err, "")
		return
	}

	now := h.now()
	v := models.SubCategory{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(c.PostForm("description")),
		Image:       image,
		Category:    ref(cat.ID, cat.Name),
		Status:      orDefault(status, models.StatusActive),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.db.SubCategories.Insert(v); err != nil {
		h.failErr(c, err, "")
		return
	}
	respond(c, http.StatusCreated, v, "Sub-category created successfully", nil)
}

func (h *Handler) updateSubCategory(c *gin.Context) {
	var catRef *models.Ref
	if id := c.PostForm("category"); id != "" {
		cat, ok := h.liveCategory(id)
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid category")
			return
		}
		r := ref(cat.ID, cat.Name)
		catRef = &r
	}
	status, err := formStatus(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "Status must be active or inactive")
		return
	}
	image, err := h.uploadImage(c)
	if err != nil {
		h.failErr(c, err, "")
		return
	}

	v, err := h.db.SubCategories.Update(c.Param("id"), func(v *models.SubCategory) error {
		setIf(&v.Name, strings.TrimSpace(c.PostForm("name")))
		setIf(&v.Description, strings.TrimSpace(c.PostForm("description")))
		setIf(&v.Status, status)
		setIf(&v.Image, image)
		if catRef != nil {
			v.Category = *catRef
		}
		v.UpdatedAt = h.now()
		return nil
	})
	if err != nil {
		h.failErr(c, err, "Sub-category not found")
		return
	}
	respond(c, http.StatusOK, v, "Sub-category updated successfully", nil)
}

func materialFields(v *models.Material) fields {
	return fields{Name: &v.Name, Status: &v.Status, Deleted: &v.IsDeleted, UpdatedAt: &v.UpdatedAt}
}

func (h *Handler) mountMaterials(g *gin.RouterGroup) {
	l := &lifecycle[models.Material]{
		singular: "Material",
		table:    h.db.Materials,
		fields:   materialFields,
		filter: func(v models.Material, q url.Values) bool {
			return (q.Get("category") == "" || v.Category.ID == q.Get("category")) &&
				(q.Get("subCategory") == "" || v.SubCategory.ID == q.Get("subCategory"))
		},
		now: h.now,
	}
	g.POST("", h.createMaterial)
	g.PUT("/:id", h.updateMaterial)
	g.GET("/units", h.materialUnits)
	g.GET("/category/:categoryId", func(c *gin.Context) {
		id := c.Param("categoryId")
		respond(c, http.StatusOK, h.db.Materials.Filter(func(v models.Material) bool {
			return !v.IsDeleted && v.Category.ID == id
		}), "", nil)
	})
	g.GET("/sub-category/:subCategoryId", func(c *gin.Context) {
		id := c.Param("subCategoryId")
		respond(c, http.StatusOK, h.db.Materials.Filter(func(v models.Material) bool {
			return !v.IsDeleted && v.SubCategory.ID == id
		}), "", nil)
	})
	l.mount(h, g)
}

func (h *Handler) materialUnits(c *gin.Context) {
	seen := make(map[string]bool)
	units := make([]string, 0, len(defaultUnits))
	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			units = append(units, u)
		}
	}
	for _, u := range defaultUnits {
		add(u)
	}
	for _, m := range h.db.Materials.Filter(nil) {
		add(m.Unit)
	}
	sort.Strings(units[len(defaultUnits):])
	respond(c, http.StatusOK, units, "", nil)
}

// materialRefs resolves and cross-checks the category and sub-category ids.
func (h *Handler) materialRefs(categoryID, subCategoryID string) (models.Ref, models.Ref, string) {
	cat, ok := h.liveCategory(categoryID)
	if !ok {
		return models.Ref{}, models.Ref{}, "Invalid category"
	}
	sub, err := h.db.SubCategories.Get(subCategoryID)
	if err != nil || sub.IsDeleted {
		return models.Ref{}, models.Ref{}, "Invalid sub-category"
	}
	if sub.Category.ID != cat.ID {
		return models.Ref{}, models.Ref{}, "Sub-category does not belong to the selected category"
	}
	return ref(cat.ID, cat.Name), ref(sub.ID, sub.Name), ""
}

func parseNumber(s string) (float64, bool) {
	if strings.TrimSpace(s) == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}

func (h *Handler) createMaterial(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	unit := strings.TrimSpace(c.PostForm("unit"))
	if name == "" || unit == "" {
		fail(c, http.StatusBadRequest, "Name and unit are required")
		return
	}
	price, ok := parseNumber(c.PostForm("price"))
	if !ok || price <= 0 {
		fail(c, http.StatusBadRequest, "Price must be greater than 0")
		return
	}
	stock := 0
	if s, ok := parseNumber(c.PostForm("stock")); ok {
		stock = int(s)
	}
	catRef, subRef, msg := h.materialRefs(c.PostForm("category"), c.PostForm("subCategory"))
	if msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}
	status, err := formStatus(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "Status must be active or inactive")
		return
	}
	image, err := h.uploadImage(c)
	if err != nil {
		h.failErr(c, err, "")
		return
	}

	now := h.now()
	v := models.Material{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(c.PostForm("description")),
		Image:       image,
		Category:    catRef,
		SubCategory: subRef,
		Unit:        unit,
		Price:       price,
		Stock:       stock,
		Status:      orDefault(status, models.StatusActive),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.db.Materials.Insert(v); err != nil {
		h.failErr(c, err, "")
		return
	}
	respond(c, http.StatusCreated, v, "Material created successfully", nil)
}

func (h *Handler) updateMaterial(c *gin.Context) {
	current, err := h.db.Materials.Get(c.Param("id"))
	if err != nil {
		h.failErr(c, err, "Material not found")
		return
	}

	catID := orDefault(c.PostForm("category"), current.Category.ID)
	subID := orDefault(c.PostForm("subCategory"), current.SubCategory.ID)
	catRef, subRef, msg := h.materialRefs(catID, subID)
	if msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}
	price, hasPrice := parseNumber(c.PostForm("price"))
	if hasPrice && price <= 0 {
		fail(c, http.StatusBadRequest, "Price must be greater than 0")
		return
	}
	stock, hasStock := parseNumber(c.PostForm("stock"))
	status, err := formStatus(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "Status must be active or inactive")
		return
	}
	image, err := h.uploadImage(c)
	if err != nil {
		h.failErr(c, err, "")
		return
	}

	v, err := h.db.Materials.Update(current.ID, func(v *models.Material) error {
		setIf(&v.Name, strings.TrimSpace(c.PostForm("name")))
		setIf(&v.Description, strings.TrimSpace(c.PostForm("description")))
		setIf(&v.Unit, strings.TrimSpace(c.PostForm("unit")))
		setIf(&v.Status, status)
		setIf(&v.Image, image)
		v.Category, v.SubCategory = catRef, subRef
		if hasPrice {
			v.Price = price
		}
		if hasStock {
			v.Stock = int(stock)
		}
		v.UpdatedAt = h.now()
		return nil
	})
	if err != nil {
		h.failErr(c, err, "Material not found")
		return
	}
	respond(c, http.StatusOK, v, "Material updated successfully", nil)
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

