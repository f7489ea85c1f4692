package application

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
)

var ErrInvalidRequest = errors.New("invalid application request")

var (
	validate    = validator.New()
	stripPolicy = bluemonday.StrictPolicy()
)

// Normalize trims the request and strips markup from free text fields.
func (rq *ApplicationRq) Normalize() {
	rq.Kind = strings.TrimSpace(rq.Kind)
	rq.ListingID = strings.TrimSpace(rq.ListingID)
	rq.ApplicantName = strings.TrimSpace(stripPolicy.Sanitize(rq.ApplicantName))
	rq.Email = strings.ToLower(strings.TrimSpace(rq.Email))
	rq.Phone = strings.TrimSpace(rq.Phone)
	rq.Experience = strings.TrimSpace(stripPolicy.Sanitize(rq.Experience))
	rq.Education = strings.TrimSpace(stripPolicy.Sanitize(rq.Education))
	rq.CoverLetter = strings.TrimSpace(stripPolicy.Sanitize(rq.CoverLetter))
	rq.ResumeURL = strings.TrimSpace(rq.ResumeURL)
	skills := make([]string, 0, len(rq.Skills))
	for _, s := range rq.Skills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	rq.Skills = skills
}

func (rq ApplicationRq) Validate() error {
	if err := validate.Struct(rq); err != nil {
		return errors.Wrap(ErrInvalidRequest, err.Error())
	}
	return nil
}
