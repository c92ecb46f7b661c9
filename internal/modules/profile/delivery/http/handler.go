package handler

import (
	"net/http"

	profileDto "anoa.com/socialplatform/internal/modules/profile/dto"
	profile "anoa.com/socialplatform/internal/modules/profile/service"
	"anoa.com/socialplatform/pkg/apperror"
	commonDto "anoa.com/socialplatform/pkg/dto"
	"anoa.com/socialplatform/pkg/response"
	"anoa.com/socialplatform/pkg/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	profileService profile.ProfileService
}

func NewProfileHandler(profileService profile.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := response.ParseID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	resp, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err, zap.Uint("target_user_id", userID))
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ProfileHandler) GetCurrentUser(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	resp, err := h.profileService.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateProfile accepts either a JSON body or a multipart form carrying an
// optional "avatar" file.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input profileDto.UpdateProfileInput
	if err := c.ShouldBind(&input); err != nil {
		response.ResponseError(c, apperror.Invalid(validator.FormatValidationError(err)))
		return
	}

	var avatar *commonDto.AvatarFile
	if fileHeader, err := c.FormFile("avatar"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			response.ResponseError(c, apperror.Invalid("could not read avatar file"))
			return
		}
		defer file.Close()

		avatar = &commonDto.AvatarFile{
			Reader:   file,
			FileName: fileHeader.Filename,
		}
	}

	if err := h.profileService.UpdateProfile(c.Request.Context(), userID, input, avatar); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Profile updated successfully!")
}
