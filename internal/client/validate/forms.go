package validate

import "github.com/dmitrijs2005/buildhub/internal/client/models"

type LoginForm struct {
	Email    string `form:"email" label:"Email" validate:"required,loose_email"`
	Password string `form:"password" label:"Password" validate:"required,min=6"`
}

type ForgotPasswordForm struct {
	Email string `form:"email" label:"Email" validate:"required,loose_email"`
}

type ResetPasswordForm struct {
	Password string `form:"password" label:"Password" validate:"required,min=6"`
	Confirm  string `form:"confirmPassword" label:"Confirm password" validate:"required,eqfield=Password" eqfield_msg:"Passwords do not match"`
}

type ChangePasswordForm struct {
	Current string `form:"currentPassword" label:"Current password" validate:"required"`
	New     string `form:"newPassword" label:"New password" validate:"required,min=6"`
	Confirm string `form:"confirmPassword" label:"Confirm password" validate:"required,eqfield=New" eqfield_msg:"Passwords do not match"`
}

type CategoryForm struct {
	Name        string `form:"name" label:"Name" validate:"required"`
	Description string `form:"description"`
	Status      string `form:"status" label:"Status" validate:"omitempty,oneof=active inactive"`
}

func (f CategoryForm) Input(image *models.Upload) models.CategoryInput {
	return models.CategoryInput{Name: f.Name, Description: f.Description, Status: f.Status, Image: image}
}

type SubCategoryForm struct {
	CategoryID  string `form:"category" label:"Category" validate:"required" required_msg:"Please select a category"`
	Name        string `form:"name" label:"Name" validate:"required"`
	Description string `form:"description"`
	Status      string `form:"status" label:"Status" validate:"omitempty,oneof=active inactive"`
}

func (f SubCategoryForm) Input(image *models.Upload) models.SubCategoryInput {
	return models.SubCategoryInput{
		Name: f.Name, Description: f.Description, CategoryID: f.CategoryID, Status: f.Status, Image: image,
	}
}

type MaterialForm struct {
	CategoryID    string  `form:"category" label:"Category" validate:"required" required_msg:"Please select a category"`
	SubCategoryID string  `form:"subCategory" label:"Sub-category" validate:"required" required_msg:"Please select a sub-category"`
	Name          string  `form:"name" label:"Name" validate:"required"`
	Description   string  `form:"description"`
	Unit          string  `form:"unit" label:"Unit" validate:"required"`
	Price         float64 `form:"price" label:"Price" validate:"required,gt=0"`
	Stock         int     `form:"stock" label:"Stock" validate:"min=0"`
	Status        string  `form:"status" label:"Status" validate:"omitempty,oneof=active inactive"`
}

func (f MaterialForm) Input(image *models.Upload) models.MaterialInput {
	return models.MaterialInput{
		Name: f.Name, Description: f.Description, CategoryID: f.CategoryID, SubCategoryID: f.SubCategoryID,
		Unit: f.Unit, Price: f.Price, Stock: f.Stock, Status: f.Status, Image: image,
	}
}

type VendorForm struct {
	Name         string           `form:"name" label:"Vendor name" validate:"required"`
	BusinessName string           `form:"businessName"`
	Email        string           `form:"email" label:"Email" validate:"required,loose_email"`
	Mobile       string           `form:"mobile" label:"Mobile" validate:"required,mobile"`
	GSTNumber    string           `form:"gstNumber" label:"GST number" validate:"omitempty,gstin"`
	Address      string           `form:"address"`
	City         string           `form:"city"`
	State        string           `form:"state"`
	Pincode      string           `form:"pincode" label:"Pincode" validate:"omitempty,pincode"`
	Location     *models.GeoPoint `form:"-"`
	Status       string           `form:"status" label:"Status" validate:"omitempty,oneof=active inactive"`
}

func (f VendorForm) Input() models.VendorInput {
	return models.VendorInput{
		Name: f.Name, BusinessName: f.BusinessName, Email: f.Email, Mobile: f.Mobile,
		GSTNumber: f.GSTNumber, Address: f.Address, City: f.City, State: f.State,
		Pincode: f.Pincode, Location: f.Location, Status: f.Status,
	}
}

// VendorMaterialForm is an offer. MaterialID is only required when adding;
// editing addresses the offer by its key instead.
type VendorMaterialForm struct {
	Editing     bool    `form:"-"`
	MaterialID  string  `form:"materialId" label:"Material" validate:"required_unless=Editing true" required_unless_msg:"Please select a material"`
	Price       float64 `form:"price" label:"Price" validate:"required,gt=0"`
	MinOrderQty int     `form:"minOrderQty" label:"Min order quantity" validate:"min=1"`
	MaxOrderQty *int    `form:"maxOrderQty" label:"Max order quantity" validate:"omitempty,gtefield=MinOrderQty"`
	IsAvailable bool    `form:"isAvailable"`
	Specs       string  `form:"specs"`
}

func (f VendorMaterialForm) Input() models.VendorMaterialInput {
	in := models.VendorMaterialInput{
		Price:       f.Price,
		MinOrderQty: f.MinOrderQty,
		MaxOrderQty: f.MaxOrderQty,
		IsAvailable: &f.IsAvailable,
		Specs:       f.Specs,
	}
	if !f.Editing {
		in.MaterialID = f.MaterialID
	}
	return in
}
