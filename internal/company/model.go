package company

import (
	"time"
)

type Company struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug,omitempty"`
	Website     string     `json:"website,omitempty"`
	LogoURL     string     `json:"logo_url,omitempty"`
	Description *string    `json:"description,omitempty"`
	Twitter     *string    `json:"twitter,omitempty"`
	Linkedin    *string    `json:"linkedin,omitempty"`
	MetaFetched *time.Time `json:"meta_fetched_at,omitempty"`
}

// Meta is what a company website says about itself.
type Meta struct {
	Description string
	LogoURL     string
	Twitter     string
	Linkedin    string
}
