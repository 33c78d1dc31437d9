package forms

import (
	"strings"

	"github.com/ariefcatur/haritham-market/internal/market"
)

type RegisterForm struct {
	EmpID    string `json:"empId" validate:"notblank"`
	Name     string `json:"name" validate:"notblank"`
	Mobile   string `json:"mobile" validate:"notblank,mobile"`
	Password string `json:"password" validate:"notblank,strongpw"`
}

var registerLabels = map[string]string{
	"EmpID": "Employee ID", "Name": "Name", "Mobile": "Mobile number", "Password": "Password",
}

var registerMsgs = messages{
	"Mobile":   {"mobile": "Mobile number must be exactly 10 digits"},
	"Password": {"strongpw": "Password must be 8+ characters and include uppercase, lowercase, number, and symbol"},
}

func (f RegisterForm) Validate() error { return check(f, registerLabels, registerMsgs) }

func (f RegisterForm) Registration() market.Registration {
	return market.Registration{
		EmpID:    strings.TrimSpace(f.EmpID),
		Name:     strings.TrimSpace(f.Name),
		Mobile:   strings.TrimSpace(f.Mobile),
		Password: f.Password,
	}
}

type LoginForm struct {
	Mobile   string `json:"mobile" validate:"notblank,mobile"`
	Password string `json:"password" validate:"notblank"`
}

var loginLabels = map[string]string{"Mobile": "Mobile number", "Password": "Password"}

var loginMsgs = messages{"Mobile": {"mobile": "Invalid Mobile Number"}}

func (f LoginForm) Validate() error { return check(f, loginLabels, loginMsgs) }

func (f LoginForm) Credentials() market.Credentials {
	return market.Credentials{Mobile: strings.TrimSpace(f.Mobile), Password: f.Password}
}
