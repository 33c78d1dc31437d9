package forms

import (
	"testing"

	"github.com/ariefcatur/haritham-market/internal/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	return ve.Fields
}

func TestRegisterForm(t *testing.T) {
	ok := RegisterForm{EmpID: "E100", Name: "Anita", Mobile: "9876543210", Password: "Secret#12"}
	require.NoError(t, ok.Validate())

	tests := []struct {
		name  string
		edit  func(*RegisterForm)
		field string
		msg   string
	}{
		{"short mobile", func(f *RegisterForm) { f.Mobile = "98765" }, "Mobile", "Mobile number must be exactly 10 digits"},
		{"letters in mobile", func(f *RegisterForm) { f.Mobile = "98765abcde" }, "Mobile", "Mobile number must be exactly 10 digits"},
		{"weak password", func(f *RegisterForm) { f.Password = "password" }, "Password",
			"Password must be 8+ characters and include uppercase, lowercase, number, and symbol"},
		{"blank name", func(f *RegisterForm) { f.Name = "   " }, "Name", "Name is required"},
		{"missing emp id", func(f *RegisterForm) { f.EmpID = "" }, "EmpID", "Employee ID is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ok
			tt.edit(&f)
			err := f.Validate()
			fields := validationFields(t, err)
			assert.Equal(t, tt.msg, fields[tt.field])
			assert.Equal(t, tt.msg, err.Error())
		})
	}
}

func TestSeveralErrorsUseGenericMessage(t *testing.T) {
	err := RegisterForm{}.Validate()
	assert.Equal(t, "Please fix the errors in the form.", err.Error())
	assert.Len(t, validationFields(t, err), 4)
}

func TestStrongPassword(t *testing.T) {
	assert.True(t, StrongPassword("Abcdef1!"))
	assert.False(t, StrongPassword("Abcde1!"))
	assert.False(t, StrongPassword("abcdefg1!"))
	assert.False(t, StrongPassword("ABCDEFG1!"))
	assert.False(t, StrongPassword("Abcdefgh!"))
	assert.False(t, StrongPassword("Abcdefg12"))
	assert.False(t, StrongPassword("Abcdef1! "))
}

func TestLoginForm(t *testing.T) {
	require.NoError(t, LoginForm{Mobile: "9876543210", Password: "x"}.Validate())
	err := LoginForm{Mobile: "123", Password: "x"}.Validate()
	assert.Equal(t, "Invalid Mobile Number", err.Error())
}

func TestProductForm(t *testing.T) {
	f := ProductForm{
		Name: "Tomatoes", UnitValue: "500", Description: "Fresh", Category: "veg",
		PricePerUnit: decimal.RequireFromString("20"), QuantityAvailable: 5,
	}
	require.NoError(t, f.Validate())
	assert.Equal(t, "grms", f.Units)

	p := f.Product("s1", "https://img/x.png")
	assert.Equal(t, "Tomatoes 500grms", p.Name)
	assert.Equal(t, "s1", p.SellerID)
	assert.Equal(t, "https://img/x.png", p.ImageURL)

	bad := f
	bad.PricePerUnit = decimal.RequireFromString("-1")
	assert.Equal(t, "Price per unit cannot be negative", bad.Validate().Error())

	bad = f
	bad.UnitValue = "0"
	assert.Equal(t, "Unit value must be at least 1", bad.Validate().Error())
	bad.UnitValue = "0.5"
	assert.Equal(t, "Unit value must be at least 1", bad.Validate().Error())

	bad = f
	bad.UnitValue = "lots"
	assert.Equal(t, "Unit value must be a number", bad.Validate().Error())

	bad = f
	bad.Units = "bushel"
	assert.Contains(t, bad.Validate().Error(), "Units must be one of")
}

func TestProductEditApply(t *testing.T) {
	e := ProductEdit{
		Name: " Okra 1kg ", Description: "d", Category: "veg",
		PricePerUnit: decimal.RequireFromString("12.5"), QuantityAvailable: 0,
	}
	require.NoError(t, e.Validate())

	cur := e.Apply(market.Product{ID: "p1", Name: "Okra", ImageURL: "old.png"})
	assert.Equal(t, "Okra 1kg", cur.Name)
	assert.Equal(t, "old.png", cur.ImageURL)
	assert.Equal(t, "p1", cur.ID)

	e.ImageURL = "new.png"
	assert.Equal(t, "new.png", e.Apply(cur).ImageURL)
}

func TestStatusForm(t *testing.T) {
	assert.NoError(t, StatusForm{Status: "PACKED"}.Validate())
	assert.Equal(t, "Status is required", StatusForm{}.Validate().Error())
}
