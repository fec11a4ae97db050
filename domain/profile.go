package domain

type Branding struct {
	PrimaryColor string `json:"primaryColor" yaml:"primaryColor"`
	AccentColor  string `json:"accentColor" yaml:"accentColor"`
	LogoURL      string `json:"logoUrl" yaml:"logoUrl"`
}

type Testimonial struct {
	Author string `json:"author" yaml:"author"`
	Quote  string `json:"quote" yaml:"quote"`
	Rating int    `json:"rating" yaml:"rating"`
}

// Profile is the loan officer record returned by the profile service for
// a tenant slug.
type Profile struct {
	ID           string        `json:"id" yaml:"id"`
	Slug         string        `json:"slug" yaml:"slug"`
	Name         string        `json:"name" yaml:"name"`
	NMLS         string        `json:"nmls" yaml:"nmls"`
	Phone        string        `json:"phone" yaml:"phone"`
	Email        string        `json:"email" yaml:"email"`
	Theme        string        `json:"theme" yaml:"theme"`
	Branding     Branding      `json:"branding" yaml:"branding"`
	Testimonials []Testimonial `json:"testimonials,omitempty" yaml:"testimonials"`
}
