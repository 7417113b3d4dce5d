package validation

import (
	"testing"

	. "github.com/onsi/gomega"
)

type createProbe struct {
	Name   string  `json:"name" binding:"required,min=2,max=100"`
	Email  string  `json:"email" binding:"required,email"`
	Status string  `json:"status" binding:"required,user_status"`
	Role   *string `json:"role" binding:"omitempty,user_role"`
}

type idProbe struct {
	ID string `uri:"id" binding:"required,user_id"`
}

func TestStruct_TranslatesErrorsWithJSONNames(t *testing.T) {
	RegisterTestingT(t)
	Expect(Setup()).To(Succeed())

	role := "ROOT"
	err := Struct(&createProbe{Name: "A", Email: "nope", Status: "GONE", Role: &role})
	Expect(err).To(HaveOccurred())

	fields := FormatErrors(err)
	Expect(fields).To(HaveLen(4))

	byField := map[string]string{}
	for _, f := range fields {
		byField[f.Field] = f.Message
	}
	Expect(byField).To(HaveKeyWithValue("name", "name must be at least 2 characters in length"))
	Expect(byField).To(HaveKeyWithValue("email", "email must be a valid email address"))
	Expect(byField).To(HaveKeyWithValue("status", "status must be one of the following values: ACTIVE, INACTIVE, SUSPENDED"))
	Expect(byField).To(HaveKeyWithValue("role", "role must be one of the following values: USER, ADMIN, MODERATOR"))
}

func TestStruct_Valid(t *testing.T) {
	RegisterTestingT(t)

	Expect(Struct(&createProbe{Name: "Ada", Email: "ada@example.com", Status: "ACTIVE"})).To(Succeed())
	Expect(Struct(&idProbe{ID: "0f8fad5b-d9cb-469f-a165-70867728950e"})).To(Succeed())
}

func TestStruct_UserID(t *testing.T) {
	RegisterTestingT(t)

	fields := FormatErrors(Struct(&idProbe{ID: "42"}))
	Expect(fields).To(ConsistOf(HaveField("Message", "id must be a UUID")))
}

func TestFormatErrors_NonValidationError(t *testing.T) {
	RegisterTestingT(t)
	Expect(FormatErrors(nil)).To(BeNil())
}
