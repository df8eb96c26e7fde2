package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mini-maxit/modelboard/internal/auth"
	"github.com/mini-maxit/modelboard/internal/evaluator"
	"github.com/mini-maxit/modelboard/internal/services"
	"github.com/mini-maxit/modelboard/pkg/constants"
	pkgerrors "github.com/mini-maxit/modelboard/pkg/errors"
)

const pythonContentType = "text/x-python; charset=utf-8"

type credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type handlers struct {
	auth                 auth.Service
	submissions          services.SubmissionService
	leaderboard          services.LeaderboardService
	profiles             services.ProfileService
	maxArtifactSizeBytes int64
}

func (h *handlers) signUp(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.auth.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		Fail(c, err, nil)
		return
	}
	Created(c, "Account created", user)
}

func (h *handlers) signIn(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "email and password are required")
		return
	}

	token, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		Fail(c, err, nil)
		return
	}
	Success(c, "Signed in", token)
}

func (h *handlers) signOut(c *gin.Context) {
	if err := h.auth.SignOut(c.Request.Context(), identityFrom(c)); err != nil {
		Fail(c, err, nil)
		return
	}
	Success(c, "Signed out", nil)
}

func (h *handlers) session(c *gin.Context) {
	token := c.GetString(tokenKey)

	session, err := h.auth.CurrentSession(c.Request.Context(), token)
	if err != nil {
		Fail(c, err, nil)
		return
	}
	user, err := h.auth.CurrentUser(c.Request.Context(), token)
	if err != nil {
		Fail(c, err, nil)
		return
	}
	Success(c, "success", gin.H{"session": session, "user": user})
}

func (h *handlers) submitModel(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(h.maxArtifactSizeBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			Fail(c, pkgerrors.NewValidationError("source", pkgerrors.ErrArtifactTooLarge), nil)
			return
		}
		Error(c, http.StatusBadRequest, "invalid submission form")
		return
	}

	req := services.SubmitRequest{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Code:        c.PostForm("code"),
	}
	echo := gin.H{"name": req.Name, "description": req.Description}

	fileHeader, err := c.FormFile("file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		Error(c, http.StatusBadRequest, "invalid submission form")
		return
	}
	if fileHeader != nil {
		data, readErr := h.readArtifact(fileHeader)
		if readErr != nil {
			Fail(c, readErr, echo)
			return
		}
		req.File = data
		req.FileName = fileHeader.Filename
	}

	record, err := h.submissions.Submit(c.Request.Context(), identityFrom(c), req)
	if err != nil {
		Fail(c, err, echo)
		return
	}
	Created(c, "Model submitted", record)
}

func (h *handlers) readArtifact(fileHeader *multipart.FileHeader) ([]byte, error) {
	if fileHeader.Size > h.maxArtifactSizeBytes {
		return nil, pkgerrors.NewValidationError("source", pkgerrors.ErrArtifactTooLarge)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxArtifactSizeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	if int64(len(data)) > h.maxArtifactSizeBytes {
		return nil, pkgerrors.NewValidationError("source", pkgerrors.ErrArtifactTooLarge)
	}
	return data, nil
}

func (h *handlers) sampleModel(c *gin.Context) {
	sendPython(c, constants.SampleModelFileName, evaluator.SampleModel())
}

func (h *handlers) requirements(c *gin.Context) {
	Success(c, "success", evaluator.Requirements)
}

func (h *handlers) downloadModel(c *gin.Context) {
	artifact, err := h.leaderboard.DownloadModel(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err, nil)
		return
	}
	sendPython(c, artifact.FileName, artifact.Data)
}

func (h *handlers) listLeaderboard(c *gin.Context) {
	ranked, err := h.leaderboard.ListRanked(c.Request.Context())
	if err != nil {
		Fail(c, err, nil)
		return
	}
	Success(c, "success", ranked)
}

func (h *handlers) profile(c *gin.Context) {
	profile, err := h.profiles.Profile(c.Request.Context(), identityFrom(c))
	if err != nil {
		Fail(c, err, nil)
		return
	}
	Success(c, "success", profile)
}

func (h *handlers) listOwnModels(c *gin.Context) {
	records, err := h.profiles.ListOwn(c.Request.Context(), identityFrom(c))
	if err != nil {
		Fail(c, err, nil)
		return
	}
	Success(c, "success", records)
}

func (h *handlers) deleteOwnModel(c *gin.Context) {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))

	err := h.profiles.Delete(c.Request.Context(), identityFrom(c), c.Param("id"), confirmed)
	if err != nil {
		Fail(c, err, nil)
		return
	}
	Success(c, "Model deleted", gin.H{"id": c.Param("id")})
}

func sendPython(c *gin.Context, fileName string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, pythonContentType, data)
}
