package content

import "github.com/lexpage/landing-service/internal/domain"

// Theme defaults.
const (
	DefaultPrimaryColor    = "#0f172a"
	DefaultSecondaryColor  = "#1e293b"
	DefaultBackgroundColor = "#ffffff"
	DefaultTextColor       = "#0b0b0b"
	DefaultLogoURL         = "https://cdn.suitsupply.com/image/upload/fl_progressive,f_auto,q_auto,w_1440/suitsupply/campaigns/ss24/formal-wedding-guide/formalWeddingAttire-d-08.jpg"
	DefaultMainArea        = "general"
	DefaultLayoutOption    = 1
)

// Defaults returns the fully defaulted document for siteID. Required business
// fields stay empty so that a body which omits them still fails validation.
func Defaults(siteID string) domain.SiteContent {
	return domain.SiteContent{
		SiteID:       siteID,
		Specialties:  []domain.Specialty{},
		Services:     []domain.Service{},
		FAQs:         []domain.FAQ{},
		Testimonials: []domain.Testimonial{},
		Schedule:     []domain.ScheduleEntry{},
		SEO: domain.SEO{
			CityKeywords: []string{},
		},
		Theme: domain.Theme{
			Colors: domain.ThemeColors{
				Primary:    DefaultPrimaryColor,
				Secondary:  DefaultSecondaryColor,
				Background: DefaultBackgroundColor,
				Text:       DefaultTextColor,
			},
			LogoURL: DefaultLogoURL,
		},
		Settings: domain.Settings{
			LayoutOption: DefaultLayoutOption,
			MainArea:     DefaultMainArea,
		},
		Sections: domain.Sections{
			ShowAreas:        true,
			ShowServices:     true,
			ShowFaqs:         true,
			ShowTestimonials: true,
			ShowMap:          true,
		},
	}
}

// Starter builds the initial document created at signup or by the seed command.
type Starter struct {
	SiteID     string
	FullName   string
	Email      string
	Phone      string
	Whatsapp   string
	MainArea   string
	TargetCity string
}

// Build returns a storable document derived from the signup payload.
func (s Starter) Build() domain.SiteContent {
	doc := Defaults(s.SiteID)
	doc.Profile.FullName = s.FullName
	doc.Contact.Email = s.Email
	doc.Contact.Phone = s.Phone
	doc.Contact.Whatsapp = s.Whatsapp
	doc.CTA.Preferred = domain.CtaWhatsapp
	if s.MainArea != "" {
		doc.Settings.MainArea = s.MainArea
	}
	doc.Settings.TargetCity = s.TargetCity

	doc.SEO.Title = s.FullName + " | Abogado"
	doc.SEO.Description = "Asesoría legal profesional"
	if s.TargetCity != "" {
		doc.SEO.Title = s.FullName + " | Abogado en " + s.TargetCity
		doc.SEO.Description = "Asesoría legal profesional en " + s.TargetCity + "."
		doc.SEO.CityKeywords = []string{s.TargetCity}
	}
	Normalize(&doc)
	return doc
}

// SeedDocument is the sample content installed by the seed command.
func SeedDocument(siteID string) domain.SiteContent {
	zero := 0.0
	doc := Defaults(siteID)
	doc.Profile = domain.Profile{
		FullName:  "Lic. Nombre Apellido",
		LicenseID: "Cédula 000000",
		Headline:  "Defensa legal clara y cercana",
	}
	doc.Contact = domain.Contact{
		Phone:    "811-000-0000",
		Whatsapp: "https://wa.me/528110000000",
		Email:    "contacto@bufete.com",
		Address:  "Calle 123, Ciudad",
	}
	doc.Specialties = []domain.Specialty{{Name: "Familiar"}, {Name: "Penal"}, {Name: "Laboral"}}
	doc.Services = []domain.Service{{Name: "Consulta inicial", Description: "30-45 min", PriceMin: &zero, PriceMax: &zero}}
	doc.FAQs = []domain.FAQ{{Q: "¿La primera consulta tiene costo?", A: "No, la primera orientación es gratuita."}}
	doc.Testimonials = []domain.Testimonial{{Author: "M. García", Text: "Atención rápida y resultados."}}
	doc.Schedule = []domain.ScheduleEntry{{Days: "Lun-Vie", Open: "09:00", Close: "18:00"}}
	doc.CTA = domain.CTA{Preferred: domain.CtaWhatsapp, WhatsappMessage: "Hola, me gustaría una orientación."}
	doc.SEO = domain.SEO{
		Title:        "Abogado en [Ciudad] | [Área]",
		Description:  "Asesoría legal profesional en [Ciudad].",
		CityKeywords: []string{"Ciudad", "Colonia"},
	}
	doc.Theme.LogoURL = ""
	doc.Legal.PrivacyPolicy = "Tu aviso de privacidad aquí."
	doc.Settings = domain.Settings{LayoutOption: 1, MainArea: "familiar", TargetCity: "Ciudad"}
	return doc
}
