// Package content holds the site's seven editable collections and two
// settings singletons, keeps them durable through the kv store, and
// produces the published snapshot document consumed by the public site.
package content

import "encoding/json"

// Course is a fixed-identifier offering; the admin can edit but never
// add or remove courses.
type Course struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Icon            string   `json:"icon"`
	Duration        string   `json:"duration"`
	Target          string   `json:"target"`
	Features        []string `json:"features"`
	Subjects        []string `json:"subjects"`
	JobRoles        []string `json:"jobRoles"`
	AfterCompletion []string `json:"afterCompletion"`
}

// StudentResult is a published selection/result card, newest first.
type StudentResult struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Exam     string `json:"exam"`
	Rank     string `json:"rank"`
	ImageURL string `json:"imageUrl"`
	Badge    string `json:"badge,omitempty"`
	Category string `json:"category,omitempty"`
	Year     string `json:"year,omitempty"`
	Story    string `json:"story,omitempty"`
}

// Result categories accepted on create.
const (
	CategoryMerchantNavy = "merchant-navy"
	CategoryDefence      = "defence"
	CategorySSC          = "ssc"
	CategoryCivil        = "civil"
)

type FacultyMember struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Subject     string `json:"subject"`
	Experience  string `json:"experience"`
	ImageURL    string `json:"imageUrl"`
	Description string `json:"description,omitempty"`
}

type GalleryImage struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// Video references a YouTube video by its 11-character platform ID.
type Video struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	VideoID     string `json:"videoId"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

// Video categories accepted on create.
const (
	VideoMotivation = "motivation"
	VideoMaths      = "maths"
	VideoPhysics    = "physics"
	VideoUpdate     = "update"
	VideoGeneral    = "general"
)

// SiteSettings is the singleton holding all editable site copy, contact
// details and the remote-storage credentials used by publish and uploads.
// Loading a partial payload backfills missing fields from the defaults so
// consumers never observe an empty field.
type SiteSettings struct {
	InstituteName    string `json:"instituteName"`
	InstituteSubName string `json:"instituteSubName"`
	LogoURL          string `json:"logoUrl,omitempty"`

	HeroHeadline    string `json:"heroHeadline"`
	HeroSubHeadline string `json:"heroSubHeadline"`
	HeroImageURL    string `json:"heroImageUrl"`

	AboutSectionTitle    string `json:"aboutSectionTitle"`
	AboutSectionSubtitle string `json:"aboutSectionSubtitle"`
	AboutDirectorName    string `json:"aboutDirectorName"`
	AboutDirectorImage   string `json:"aboutDirectorImage"`
	AboutText            string `json:"aboutText"`

	CourseSectionTitle    string `json:"courseSectionTitle"`
	CourseSectionSubtitle string `json:"courseSectionSubtitle"`

	FacultySectionTitle    string `json:"facultySectionTitle"`
	FacultySectionSubtitle string `json:"facultySectionSubtitle"`

	GallerySectionTitle    string `json:"gallerySectionTitle"`
	GallerySectionSubtitle string `json:"gallerySectionSubtitle"`

	SelectionsSectionTitle    string `json:"selectionsSectionTitle"`
	SelectionsSectionSubtitle string `json:"selectionsSectionSubtitle"`

	Address          string `json:"address"`
	MapURL           string `json:"mapUrl"`
	GoogleMapsAPIKey string `json:"googleMapsApiKey,omitempty"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`

	FacebookURL  string `json:"facebookUrl,omitempty"`
	InstagramURL string `json:"instagramUrl,omitempty"`
	YouTubeURL   string `json:"youtubeUrl,omitempty"`
	WhatsappURL  string `json:"whatsappUrl,omitempty"`

	GitHubToken string `json:"githubToken,omitempty"`
	GitHubOwner string `json:"githubOwner,omitempty"`
	GitHubRepo  string `json:"githubRepo,omitempty"`
}

// AISettings is the singleton configuring the counseling assistant.
type AISettings struct {
	APIKey            string `json:"apiKey"`
	SystemInstruction string `json:"systemInstruction"`
	WelcomeMessage    string `json:"welcomeMessage"`
	FallbackMessage   string `json:"fallbackMessage"`
}

// Snapshot is the published document. Every key is optional on the wire;
// nil means "absent" and leaves the receiving collection untouched. The
// singletons stay raw JSON so a partial payload can be merged over the
// defaults without absent fields decaying to zero values.
type Snapshot struct {
	Courses       []Course        `json:"courses,omitempty"`
	Students      []StudentResult `json:"students,omitempty"`
	GalleryImages []GalleryImage  `json:"galleryImages,omitempty"`
	Faculty       []FacultyMember `json:"faculty,omitempty"`
	Videos        []Video         `json:"videos,omitempty"`
	SiteSettings  json.RawMessage `json:"siteSettings,omitempty"`
	AISettings    json.RawMessage `json:"aiSettings,omitempty"`
}
