package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/coursedesk/enrollment-api/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// fieldErrors maps struct field names to messages for the form templates
func fieldErrors(err error) map[string]string {
	errs := make(map[string]string)
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			errs[fe.Field()] = domain.GetValidationMessage(fe.Tag())
		}
	}
	return errs
}

func parseStudentForm(r *http.Request) (domain.StudentForm, map[string]string) {
	form := domain.StudentForm{
		RollNumber: strings.TrimSpace(r.PostFormValue("roll")),
		FirstName:  strings.TrimSpace(r.PostFormValue("first")),
		LastName:   strings.TrimSpace(r.PostFormValue("last")),
	}

	errs := map[string]string{}
	for _, raw := range r.PostForm["course"] {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			errs["CourseIDs"] = "Invalid course selection"
			continue
		}
		form.CourseIDs = append(form.CourseIDs, uint(id))
	}

	if err := validate.Struct(form); err != nil {
		for k, v := range fieldErrors(err) {
			errs[k] = v
		}
	}
	return form, errs
}

func parseCourseForm(r *http.Request) (domain.CourseForm, map[string]string) {
	form := domain.CourseForm{
		CourseCode:        strings.TrimSpace(r.PostFormValue("code")),
		CourseName:        strings.TrimSpace(r.PostFormValue("name")),
		CourseDescription: strings.TrimSpace(r.PostFormValue("description")),
	}
	if err := validate.Struct(form); err != nil {
		return form, fieldErrors(err)
	}
	return form, nil
}

func selectedSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
