package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DealStatus represents the publication state of a deal.
type DealStatus string

const (
	DealStatusDraft     DealStatus = "DRAFT"     // Initial state, not visible to buyers
	DealStatusPublished DealStatus = "PUBLISHED" // Open for participation
	DealStatusExpired   DealStatus = "EXPIRED"   // Terminal
)

// IsValid checks if the deal status is one of the known states.
func (s DealStatus) IsValid() bool {
	switch s {
	case DealStatusDraft, DealStatusPublished, DealStatusExpired:
		return true
	default:
		return false
	}
}

// ImageStatus tracks the upload state of a deal image.
type ImageStatus string

const (
	ImageStatusPending  ImageStatus = "PENDING"
	ImageStatusUploaded ImageStatus = "UPLOADED"
	ImageStatusFailed   ImageStatus = "FAILED"
)

// IsValid checks if the image status is valid.
func (s ImageStatus) IsValid() bool {
	return s == ImageStatusPending || s == ImageStatusUploaded || s == ImageStatusFailed
}

// DealImage is one picture attached to a deal.
type DealImage struct {
	ID        uuid.UUID
	URL       string
	Principal bool
	Status    ImageStatus
	CreatedAt time.Time
}

// Deal is a group-purchase offer.
//
// Optional fields use zero values to mean "absent": uuid.Nil, "", nil
// pointers and nil slices. Partial updates rely on this.
type Deal struct {
	ID               uuid.UUID
	Title            string
	Description      string
	TotalPrice       *decimal.Decimal
	SharePrice       *decimal.Decimal
	ParticipantCount int
	StartDate        *time.Time
	EndDate          *time.Time
	Status           DealStatus
	CreatorID        uuid.UUID
	CategoryID       uuid.UUID
	Images           []DealImage
	Highlights       []string
	ExpirationDate   *time.Time
	City             string
	Country          string
	Audit
}

// NewDeal prepares a deal for creation: assigns an identity, defaults the
// status to DRAFT and stamps the audit fields. Image ids are assigned too.
func NewDeal(d Deal, now time.Time) *Deal {
	d.ID = uuid.New()
	if d.Status == "" {
		d.Status = DealStatusDraft
	}
	d.Images = prepareImages(d.Images, now)
	d.Audit = Audit{}
	d.Touch(now)
	return &d
}

// prepareImages returns a prepared copy; the caller's slice is never modified.
func prepareImages(src []DealImage, now time.Time) []DealImage {
	if src == nil {
		return nil
	}
	images := make([]DealImage, len(src))
	copy(images, src)
	for i := range images {
		prepareImage(&images[i], now)
	}
	return images
}

func prepareImage(img *DealImage, now time.Time) {
	if img.ID == uuid.Nil {
		img.ID = uuid.New()
	}
	if img.Status == "" {
		img.Status = ImageStatusPending
	}
	if img.CreatedAt.IsZero() {
		img.CreatedAt = now.UTC()
	}
}

// PrincipalImage returns the cover image, if any.
func (d *Deal) PrincipalImage() (DealImage, bool) {
	for _, img := range d.Images {
		if img.Principal {
			return img, true
		}
	}
	return DealImage{}, false
}

// ReplaceWith overwrites every mutable field with the values of src.
// Identity, creator and audit data are kept. An empty status in src keeps the current one.
func (d *Deal) ReplaceWith(src *Deal, now time.Time) {
	status := d.Status
	if src.Status != "" {
		status = src.Status
	}
	creator := d.CreatorID
	if creator == uuid.Nil {
		creator = src.CreatorID
	}

	d.Title = src.Title
	d.Description = src.Description
	d.TotalPrice = src.TotalPrice
	d.SharePrice = src.SharePrice
	d.ParticipantCount = src.ParticipantCount
	d.StartDate = src.StartDate
	d.EndDate = src.EndDate
	d.Status = status
	d.CreatorID = creator
	d.CategoryID = src.CategoryID
	d.Images = prepareImages(src.Images, now)
	d.Highlights = src.Highlights
	d.ExpirationDate = src.ExpirationDate
	d.City = src.City
	d.Country = src.Country
	d.Touch(now)
}

// MergeFrom copies only the fields present in patch. Status is not merged;
// status changes go through the transition table.
func (d *Deal) MergeFrom(patch *Deal, now time.Time) {
	if patch.Title != "" {
		d.Title = patch.Title
	}
	if patch.Description != "" {
		d.Description = patch.Description
	}
	if patch.TotalPrice != nil {
		d.TotalPrice = patch.TotalPrice
	}
	if patch.SharePrice != nil {
		d.SharePrice = patch.SharePrice
	}
	if patch.ParticipantCount != 0 {
		d.ParticipantCount = patch.ParticipantCount
	}
	if patch.StartDate != nil {
		d.StartDate = patch.StartDate
	}
	if patch.EndDate != nil {
		d.EndDate = patch.EndDate
	}
	if patch.CategoryID != uuid.Nil {
		d.CategoryID = patch.CategoryID
	}
	if patch.Images != nil {
		d.Images = prepareImages(patch.Images, now)
	}
	if patch.Highlights != nil {
		d.Highlights = patch.Highlights
	}
	if patch.ExpirationDate != nil {
		d.ExpirationDate = patch.ExpirationDate
	}
	if patch.City != "" {
		d.City = patch.City
	}
	if patch.Country != "" {
		d.Country = patch.Country
	}
	d.Touch(now)
}
