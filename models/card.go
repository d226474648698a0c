package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// CardVisibility controls whether a card is publicly viewable
type CardVisibility string

const (
	VisibilityPublic  CardVisibility = "public"
	VisibilityPrivate CardVisibility = "private"
)

// CardVariant selects the rendering template for a card
type CardVariant string

const (
	VariantMinimal   CardVariant = "minimal"
	VariantModern    CardVariant = "modern"
	VariantEngineer  CardVariant = "engineer"
	VariantMarketing CardVariant = "marketing"
	VariantCEO       CardVariant = "ceo"
	VariantCompany   CardVariant = "company"
)

// CardType categorizes what the card is for
type CardType string

const (
	CardTypeBusiness    CardType = "business"
	CardTypeDeveloper   CardType = "developer"
	CardTypeRole        CardType = "role"
	CardTypePortfolio   CardType = "portfolio"
	CardTypePersonal    CardType = "personal"
	CardTypeMarketing   CardType = "marketing"
	CardTypeSales       CardType = "sales"
	CardTypeEngineering CardType = "engineering"
	CardTypeDesign      CardType = "design"
	CardTypeProduct     CardType = "product"
	CardTypeOther       CardType = "other"
)

// Image holds a hosted image reference
type Image struct {
	URL string `json:"url,omitempty" bson:"url,omitempty"`
}

// ImageConfig holds client rendering hints for a profile image
type ImageConfig struct {
	Size     int    `json:"size,omitempty" bson:"size,omitempty"`
	FileType string `json:"file_type,omitempty" bson:"fileType,omitempty"`
	FileName string `json:"file_name,omitempty" bson:"fileName,omitempty"`
	Rounded  bool   `json:"rounded,omitempty" bson:"rounded,omitempty"`
}

// ProfileImage is the card owner's picture plus rendering config
type ProfileImage struct {
	URL    string       `json:"url,omitempty" bson:"url,omitempty"`
	Config *ImageConfig `json:"config,omitempty" bson:"config,omitempty"`
}

// Company describes the organization shown on a card
type Company struct {
	Name string `json:"name,omitempty" bson:"name,omitempty"`
	Logo *Image `json:"logo,omitempty" bson:"logo,omitempty"`
}

// CardEmail is a contact email entry
type CardEmail struct {
	Email string `json:"email" bson:"email"`
}

// CardPhone is a contact phone entry
type CardPhone struct {
	Phone string `json:"phone" bson:"phone"`
}

// SocialLink is a link to an external profile
type SocialLink struct {
	Platform string `json:"platform" bson:"platform"`
	Label    string `json:"label,omitempty" bson:"label,omitempty"`
	URL      string `json:"url" bson:"url"`
}

// Card represents a digital business card in the cards collection
type Card struct {
	ID              bson.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID          bson.ObjectID  `json:"user_id" bson:"userId"`
	Visibility      CardVisibility `json:"visibility" bson:"visibility"`
	Variant         CardVariant    `json:"variant,omitempty" bson:"variant,omitempty"`
	CardType        CardType       `json:"card_type" bson:"cardType"`
	Name            string         `json:"name" bson:"name"`
	Title           string         `json:"title" bson:"title"`
	Company         *Company       `json:"company,omitempty" bson:"company,omitempty"`
	Emails          []CardEmail    `json:"emails,omitempty" bson:"emails,omitempty"`
	Phones          []CardPhone    `json:"phones,omitempty" bson:"phones,omitempty"`
	Bio             string         `json:"bio,omitempty" bson:"bio,omitempty"`
	ProfileImage    *ProfileImage  `json:"profile_image,omitempty" bson:"profileImage,omitempty"`
	SocialLinks     []SocialLink   `json:"social_links,omitempty" bson:"socialLinks,omitempty"`
	Address         string         `json:"address,omitempty" bson:"address,omitempty"`
	Theme           string         `json:"theme,omitempty" bson:"theme,omitempty"`
	BackgroundImage *Image         `json:"background_image,omitempty" bson:"backgroundImage,omitempty"`
	CreatedAt       time.Time      `json:"created_at" bson:"createdAt"`
	UpdatedAt       time.Time      `json:"updated_at" bson:"updatedAt"`
}

// CollectionName returns the collection name for the Card model
func (Card) CollectionName() string {
	return "cards"
}

// CardSummary is the projection returned by card listings
type CardSummary struct {
	ID           bson.ObjectID `json:"id" bson:"_id"`
	Name         string        `json:"name" bson:"name"`
	Title        string        `json:"title" bson:"title"`
	Company      *Company      `json:"company,omitempty" bson:"company,omitempty"`
	ProfileImage *ProfileImage `json:"profile_image,omitempty" bson:"profileImage,omitempty"`
	CardType     CardType      `json:"card_type" bson:"cardType"`
	CreatedAt    time.Time     `json:"created_at" bson:"createdAt"`
}

// Themes lists the accepted card theme names
var Themes = []string{
	"slate", "secondary", "tertiary", "rose", "indigo", "emerald", "amber",
	"sky", "navy", "charcoal", "steel", "gold", "platinum", "obsidian",
	"lavender", "mint", "sand",
}
