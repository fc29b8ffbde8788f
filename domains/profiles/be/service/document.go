package service

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSocialPlatform is used when a link arrives without a platform name.
const DefaultSocialPlatform = "website"

// Personal is the headline section of a portfolio.
type Personal struct {
	Name                string `json:"name"`
	Slogan              string `json:"slogan"`
	Bio                 string `json:"bio"`
	ProfileImage        string `json:"profileImage"`
	ProfileImageAssetID string `json:"profileImageAssetId,omitempty"`
}

// Contact holds the public contact details of a tenant.
type Contact struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

// SocialLink points to one external presence; Platform is unique within a profile.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// Social groups the social links.
type Social struct {
	Links []SocialLink `json:"links"`
}

// Experience is one entry of the work history.
type Experience struct {
	Position    string `json:"position"`
	Company     string `json:"company"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate,omitempty"`
	IsCurrent   bool   `json:"isCurrent"`
	Description string `json:"description,omitempty"`
	Logo        string `json:"logo,omitempty"`
}

// CustomSection is a free-form block addressed by a caller-supplied id.
type CustomSection struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images"`
}

// Document is the persisted body of a profile.
type Document struct {
	Personal       Personal        `json:"personal"`
	Contact        Contact         `json:"contact"`
	Social         Social          `json:"social"`
	Experiences    []Experience    `json:"experiences"`
	CustomSections []CustomSection `json:"customSections"`
}

// Normalize replaces nil lists with empty ones so the JSON shape is stable.
func (d *Document) Normalize() {
	if d.Social.Links == nil {
		d.Social.Links = []SocialLink{}
	}
	if d.Experiences == nil {
		d.Experiences = []Experience{}
	}
	if d.CustomSections == nil {
		d.CustomSections = []CustomSection{}
	}
	for i := range d.CustomSections {
		if d.CustomSections[i].Images == nil {
			d.CustomSections[i].Images = []string{}
		}
	}
}

// Profile is the single portfolio document of a tenant.
type Profile struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenantId"`
	OwnerID  uuid.UUID `json:"ownerId"`
	Slug     string    `json:"slug"`
	Document
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// emptyProfile is the default shape returned for tenants that never wrote a profile.
func emptyProfile(tenantID uuid.UUID, slug string) Profile {
	p := Profile{TenantID: tenantID, Slug: slug}
	p.Normalize()
	return p
}
