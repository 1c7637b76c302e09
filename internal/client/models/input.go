package models

import (
	"fmt"
	"mime/multipart"
	"strconv"
)

// Upload is an image attached to a multipart payload.
type Upload struct {
	Filename string
	Data     []byte
}

func writeUpload(w *multipart.Writer, field string, u *Upload) error {
	if u == nil || len(u.Data) == 0 {
		return nil
	}
	part, err := w.CreateFormFile(field, u.Filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(u.Data); err != nil {
		return fmt.Errorf("write form file: %w", err)
	}
	return nil
}

func writeFields(w *multipart.Writer, fields [][2]string) error {
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		if err := w.WriteField(f[0], f[1]); err != nil {
			return fmt.Errorf("write field %s: %w", f[0], err)
		}
	}
	return nil
}

// CategoryInput is the create/update payload of a category.
// Empty fields are not sent.
type CategoryInput struct {
	Name        string
	Description string
	Status      string
	Image       *Upload
}

func (in CategoryInput) WriteMultipart(w *multipart.Writer) error {
	if err := writeFields(w, [][2]string{
		{"name", in.Name},
		{"description", in.Description},
		{"status", in.Status},
	}); err != nil {
		return err
	}
	return writeUpload(w, "image", in.Image)
}

type SubCategoryInput struct {
	Name        string
	Description string
	CategoryID  string
	Status      string
	Image       *Upload
}

func (in SubCategoryInput) WriteMultipart(w *multipart.Writer) error {
	if err := writeFields(w, [][2]string{
		{"name", in.Name},
		{"description", in.Description},
		{"category", in.CategoryID},
		{"status", in.Status},
	}); err != nil {
		return err
	}
	return writeUpload(w, "image", in.Image)
}

type MaterialInput struct {
	Name          string
	Description   string
	CategoryID    string
	SubCategoryID string
	Unit          string
	Price         float64
	Stock         int
	Status        string
	Image         *Upload
}

func (in MaterialInput) WriteMultipart(w *multipart.Writer) error {
	fields := [][2]string{
		{"name", in.Name},
		{"description", in.Description},
		{"category", in.CategoryID},
		{"subCategory", in.SubCategoryID},
		{"unit", in.Unit},
		{"status", in.Status},
	}
	if in.Price > 0 {
		fields = append(fields, [2]string{"price", strconv.FormatFloat(in.Price, 'f', -1, 64)})
	}
	if in.Stock > 0 {
		fields = append(fields, [2]string{"stock", strconv.Itoa(in.Stock)})
	}
	if err := writeFields(w, fields); err != nil {
		return err
	}
	return writeUpload(w, "image", in.Image)
}

// VendorInput is sent as JSON.
type VendorInput struct {
	Name         string    `json:"name,omitempty"`
	BusinessName string    `json:"businessName,omitempty"`
	Email        string    `json:"email,omitempty"`
	Mobile       string    `json:"mobile,omitempty"`
	GSTNumber    string    `json:"gstNumber,omitempty"`
	Address      string    `json:"address,omitempty"`
	City         string    `json:"city,omitempty"`
	State        string    `json:"state,omitempty"`
	Pincode      string    `json:"pincode,omitempty"`
	Location     *GeoPoint `json:"location,omitempty"`
	Status       string    `json:"status,omitempty"`
}

// VendorMaterialInput is the offer payload. MaterialID is only sent on add.
// A nil IsAvailable leaves availability to the server, which defaults new
// offers to available and keeps it unchanged on update.
type VendorMaterialInput struct {
	MaterialID  string  `json:"materialId,omitempty"`
	Price       float64 `json:"price"`
	MinOrderQty int     `json:"minOrderQty"`
	MaxOrderQty *int    `json:"maxOrderQty,omitempty"`
	IsAvailable *bool   `json:"isAvailable,omitempty"`
	Specs       string  `json:"specs,omitempty"`
}

type UserInput struct {
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Mobile string `json:"mobile,omitempty"`
	Status string `json:"status,omitempty"`
}

// StatusInput carries an explicit status for toggle and status endpoints.
type StatusInput struct {
	Status string `json:"status"`
}
