package domain

import "time"

// CtaChannel is the preferred contact channel advertised on the page.
type CtaChannel string

const (
	CtaWhatsapp CtaChannel = "whatsapp"
	CtaCall     CtaChannel = "call"
	CtaAgenda   CtaChannel = "agenda"
)

// SiteContent is the editable content document of one landing page, keyed by SiteID.
type SiteContent struct {
	SiteID       string          `json:"siteId" bson:"siteId" validate:"required"`
	Profile      Profile         `json:"profile" bson:"profile"`
	Contact      Contact         `json:"contact" bson:"contact"`
	Specialties  []Specialty     `json:"specialties" bson:"specialties" validate:"dive"`
	Services     []Service       `json:"services" bson:"services" validate:"dive"`
	FAQs         []FAQ           `json:"faqs" bson:"faqs" validate:"dive"`
	Testimonials []Testimonial   `json:"testimonials" bson:"testimonials" validate:"dive"`
	Schedule     []ScheduleEntry `json:"schedule" bson:"schedule" validate:"dive"`
	CTA          CTA             `json:"cta" bson:"cta"`
	SEO          SEO             `json:"seo" bson:"seo"`
	Theme        Theme           `json:"theme" bson:"theme"`
	Legal        Legal           `json:"legal" bson:"legal"`
	Settings     Settings        `json:"settings" bson:"settings"`
	Sections     Sections        `json:"sections" bson:"sections"`
}

type Profile struct {
	FullName  string `json:"fullName" bson:"fullName" validate:"required"`
	LicenseID string `json:"licenseId,omitempty" bson:"licenseId,omitempty"`
	PhotoURL  string `json:"photoUrl,omitempty" bson:"photoUrl,omitempty" validate:"omitempty,url"`
	Headline  string `json:"headline,omitempty" bson:"headline,omitempty"`
	Intro     string `json:"intro,omitempty" bson:"intro,omitempty"`
}

type Contact struct {
	Phone    string `json:"phone" bson:"phone"`
	Whatsapp string `json:"whatsapp" bson:"whatsapp"`
	Email    string `json:"email" bson:"email" validate:"required,email"`
	Address  string `json:"address,omitempty" bson:"address,omitempty"`
	MapURL   string `json:"mapUrl,omitempty" bson:"mapUrl,omitempty" validate:"omitempty,url"`
}

type Specialty struct {
	Name        string `json:"name" bson:"name"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Icon        string `json:"icon,omitempty" bson:"icon,omitempty"`
}

type Service struct {
	Name        string   `json:"name" bson:"name"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	PriceMin    *float64 `json:"priceMin,omitempty" bson:"priceMin,omitempty" validate:"omitempty,gte=0"`
	PriceMax    *float64 `json:"priceMax,omitempty" bson:"priceMax,omitempty" validate:"omitempty,gte=0"`
}

type FAQ struct {
	Q string `json:"q" bson:"q"`
	A string `json:"a" bson:"a"`
}

type Testimonial struct {
	Author string `json:"author" bson:"author"`
	Text   string `json:"text" bson:"text"`
	Rating *int   `json:"rating,omitempty" bson:"rating,omitempty" validate:"omitempty,min=1,max=5"`
}

type ScheduleEntry struct {
	Days  string `json:"days" bson:"days"`
	Open  string `json:"open" bson:"open"`
	Close string `json:"close" bson:"close"`
}

type CTA struct {
	Preferred       CtaChannel `json:"preferred" bson:"preferred" validate:"required,oneof=whatsapp call agenda"`
	BookingURL      string     `json:"bookingUrl,omitempty" bson:"bookingUrl,omitempty" validate:"omitempty,url"`
	WhatsappMessage string     `json:"whatsappMessage,omitempty" bson:"whatsappMessage,omitempty"`
}

type SEO struct {
	Title        string   `json:"title" bson:"title" validate:"required"`
	Description  string   `json:"description" bson:"description" validate:"required"`
	CityKeywords []string `json:"cityKeywords" bson:"cityKeywords"`
}

type ThemeColors struct {
	Primary    string `json:"primary" bson:"primary"`
	Secondary  string `json:"secondary" bson:"secondary"`
	Background string `json:"background" bson:"background"`
	Text       string `json:"text" bson:"text"`
}

type Theme struct {
	Colors   ThemeColors `json:"colors" bson:"colors"`
	LogoURL  string      `json:"logoUrl,omitempty" bson:"logoUrl,omitempty" validate:"omitempty,url"`
	CoverURL string      `json:"coverUrl,omitempty" bson:"coverUrl,omitempty" validate:"omitempty,url"`
}

type Legal struct {
	PrivacyPolicy string `json:"privacyPolicy" bson:"privacyPolicy"`
	Disclaimers   string `json:"disclaimers" bson:"disclaimers"`
}

type Settings struct {
	LayoutOption int    `json:"layoutOption" bson:"layoutOption" validate:"oneof=1 2 3 4 5 6"`
	MainArea     string `json:"mainArea" bson:"mainArea"`
	TargetCity   string `json:"targetCity" bson:"targetCity"`
}

// Sections toggles which blocks the public page renders.
type Sections struct {
	ShowAreas        bool `json:"showAreas" bson:"showAreas"`
	ShowServices     bool `json:"showServices" bson:"showServices"`
	ShowFaqs         bool `json:"showFaqs" bson:"showFaqs"`
	ShowTestimonials bool `json:"showTestimonials" bson:"showTestimonials"`
	ShowMap          bool `json:"showMap" bson:"showMap"`
}

// SiteContentDocument is a stored SiteContent plus the metadata owned by the store.
type SiteContentDocument struct {
	SiteContent `bson:",inline"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
	Version     int64     `json:"__v" bson:"__v"`
}
