// Package dtos - Mappers для конвертации domain models <-> DTOs.
package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/Haleralex/paytogether/internal/domain/entities"
	"github.com/Haleralex/paytogether/internal/domain/errors"
)

// ============================================
// Helpers
// ============================================

func idString(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}

// parseID разбирает необязательный UUID; пустая строка означает uuid.Nil.
// Ошибка возвращается с кодом в формате binding-ошибок.
func parseID(raw, field string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.NewValidationError("validation." + field + ".uuid")
	}
	return id, nil
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// ============================================
// Deal Mappers
// ============================================

// ToDealDTO конвертирует domain model Deal в DTO.
func ToDealDTO(deal *entities.Deal) DealDTO {
	dto := DealDTO{
		ID:               idString(deal.ID),
		Title:            deal.Title,
		Description:      deal.Description,
		TotalPrice:       deal.TotalPrice,
		SharePrice:       deal.SharePrice,
		ParticipantCount: deal.ParticipantCount,
		StartDate:        deal.StartDate,
		EndDate:          deal.EndDate,
		Status:           string(deal.Status),
		CreatorID:        idString(deal.CreatorID),
		CategoryID:       idString(deal.CategoryID),
		Images:           make([]DealImageDTO, len(deal.Images)),
		Highlights:       deal.Highlights,
		ExpirationDate:   deal.ExpirationDate,
		City:             deal.City,
		Country:          deal.Country,
		CreatedAt:        timePtr(deal.CreatedAt),
		UpdatedAt:        timePtr(deal.UpdatedAt),
	}
	for i, img := range deal.Images {
		dto.Images[i] = DealImageDTO{
			ID:        idString(img.ID),
			URL:       img.URL,
			Principal: img.Principal,
			Status:    string(img.Status),
		}
	}
	return dto
}

// ToDealDTOList конвертирует список deals.
func ToDealDTOList(deals []*entities.Deal) []DealDTO {
	result := make([]DealDTO, len(deals))
	for i, deal := range deals {
		result[i] = ToDealDTO(deal)
	}
	return result
}

// ToDealModel конвертирует DTO в domain model.
// Отсутствующий список изображений остаётся nil (важно для partial update).
func ToDealModel(dto DealDTO) (*entities.Deal, error) {
	id, err := parseID(dto.ID, "uuid")
	if err != nil {
		return nil, err
	}
	creatorID, err := parseID(dto.CreatorID, "createurUuid")
	if err != nil {
		return nil, err
	}
	categoryID, err := parseID(dto.CategoryID, "categorieUuid")
	if err != nil {
		return nil, err
	}

	deal := &entities.Deal{
		ID:               id,
		Title:            dto.Title,
		Description:      dto.Description,
		TotalPrice:       dto.TotalPrice,
		SharePrice:       dto.SharePrice,
		ParticipantCount: dto.ParticipantCount,
		StartDate:        dto.StartDate,
		EndDate:          dto.EndDate,
		Status:           entities.DealStatus(dto.Status),
		CreatorID:        creatorID,
		CategoryID:       categoryID,
		Highlights:       dto.Highlights,
		ExpirationDate:   dto.ExpirationDate,
		City:             dto.City,
		Country:          dto.Country,
	}
	if dto.Images != nil {
		deal.Images = make([]entities.DealImage, len(dto.Images))
		for i, img := range dto.Images {
			imgID, err := parseID(img.ID, "listeImages.uuid")
			if err != nil {
				return nil, err
			}
			deal.Images[i] = entities.DealImage{
				ID:        imgID,
				URL:       img.URL,
				Principal: img.Principal,
				Status:    entities.ImageStatus(img.Status),
			}
		}
	}
	return deal, nil
}

// ============================================
// User Mappers
// ============================================

// ToUserDTO конвертирует domain model User в DTO.
func ToUserDTO(user *entities.User) UserDTO {
	return UserDTO{
		ID:              idString(user.ID),
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Role:            string(user.Role),
		Enabled:         user.Enabled,
		PhotoProfileURL: user.PhotoProfileURL,
		CreatedAt:       timePtr(user.CreatedAt),
		UpdatedAt:       timePtr(user.UpdatedAt),
	}
}

// ToUserDTOList конвертирует список users.
func ToUserDTOList(users []*entities.User) []UserDTO {
	result := make([]UserDTO, len(users))
	for i, user := range users {
		result[i] = ToUserDTO(user)
	}
	return result
}

// ============================================
// Category Mappers
// ============================================

func ToCategoryDTO(c *entities.Category) CategoryDTO {
	return CategoryDTO{
		ID:          idString(c.ID),
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
		CreatedAt:   timePtr(c.CreatedAt),
		UpdatedAt:   timePtr(c.UpdatedAt),
	}
}

func ToCategoryDTOList(categories []*entities.Category) []CategoryDTO {
	result := make([]CategoryDTO, len(categories))
	for i, c := range categories {
		result[i] = ToCategoryDTO(c)
	}
	return result
}

func ToCategoryModel(dto CategoryDTO) *entities.Category {
	return &entities.Category{
		Name:        dto.Name,
		Description: dto.Description,
		Icon:        dto.Icon,
	}
}

// ============================================
// Comment Mappers
// ============================================

func ToCommentDTO(c *entities.Comment) CommentDTO {
	dto := CommentDTO{
		ID:        idString(c.ID),
		DealID:    idString(c.DealID),
		AuthorID:  idString(c.AuthorID),
		Content:   c.Content,
		CreatedAt: timePtr(c.CreatedAt),
		UpdatedAt: timePtr(c.UpdatedAt),
	}
	if c.IsReply() {
		dto.ParentID = c.ParentID.String()
	}
	return dto
}

func ToCommentDTOList(comments []*entities.Comment) []CommentDTO {
	result := make([]CommentDTO, len(comments))
	for i, c := range comments {
		result[i] = ToCommentDTO(c)
	}
	return result
}

func ToCommentModel(dto CommentDTO) (*entities.Comment, error) {
	dealID, err := parseID(dto.DealID, "dealUuid")
	if err != nil {
		return nil, err
	}
	authorID, err := parseID(dto.AuthorID, "auteurUuid")
	if err != nil {
		return nil, err
	}
	parentID, err := parseID(dto.ParentID, "parentUuid")
	if err != nil {
		return nil, err
	}

	comment := &entities.Comment{
		DealID:   dealID,
		AuthorID: authorID,
		Content:  dto.Content,
	}
	if parentID != uuid.Nil {
		comment.ParentID = &parentID
	}
	return comment, nil
}

// ============================================
// Advertisement Mappers
// ============================================

func ToAdvertisementDTO(a *entities.Advertisement) AdvertisementDTO {
	return AdvertisementDTO{
		ID:          idString(a.ID),
		Title:       a.Title,
		Description: a.Description,
		ImageURL:    a.ImageURL,
		LinkURL:     a.LinkURL,
		StartDate:   a.StartDate,
		EndDate:     a.EndDate,
		Active:      a.Active,
		CreatorID:   idString(a.CreatorID),
		CreatedAt:   timePtr(a.CreatedAt),
		UpdatedAt:   timePtr(a.UpdatedAt),
	}
}

func ToAdvertisementDTOList(ads []*entities.Advertisement) []AdvertisementDTO {
	result := make([]AdvertisementDTO, len(ads))
	for i, a := range ads {
		result[i] = ToAdvertisementDTO(a)
	}
	return result
}

func ToAdvertisementModel(dto AdvertisementDTO) (*entities.Advertisement, error) {
	creatorID, err := parseID(dto.CreatorID, "createurUuid")
	if err != nil {
		return nil, err
	}
	return &entities.Advertisement{
		Title:       dto.Title,
		Description: dto.Description,
		ImageURL:    dto.ImageURL,
		LinkURL:     dto.LinkURL,
		StartDate:   dto.StartDate,
		EndDate:     dto.EndDate,
		Active:      dto.Active,
		CreatorID:   creatorID,
	}, nil
}

// ============================================
// Payment Mappers
// ============================================

func ToPaymentDTO(p *entities.Payment) PaymentDTO {
	return PaymentDTO{
		ID:                   idString(p.ID),
		DealID:               idString(p.DealID),
		UserID:               idString(p.UserID),
		Amount:               p.Amount,
		Method:               string(p.Method),
		Status:               string(p.Status),
		TransactionReference: p.TransactionReference,
		CreatedAt:            timePtr(p.CreatedAt),
		UpdatedAt:            timePtr(p.UpdatedAt),
	}
}

func ToPaymentDTOList(payments []*entities.Payment) []PaymentDTO {
	result := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		result[i] = ToPaymentDTO(p)
	}
	return result
}

func ToPaymentModel(dto PaymentDTO) (*entities.Payment, error) {
	dealID, err := parseID(dto.DealID, "dealUuid")
	if err != nil {
		return nil, err
	}
	userID, err := parseID(dto.UserID, "utilisateurUuid")
	if err != nil {
		return nil, err
	}
	return &entities.Payment{
		DealID:               dealID,
		UserID:               userID,
		Amount:               dto.Amount,
		Method:               entities.PaymentMethod(dto.Method),
		Status:               entities.PaymentStatus(dto.Status),
		TransactionReference: dto.TransactionReference,
	}, nil
}
