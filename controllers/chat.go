package controllers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"NeuraFlow/middleware"
	"NeuraFlow/models"
	"NeuraFlow/pkg/logger"
	svc "NeuraFlow/pkg/services"
	"NeuraFlow/pkg/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ChatController struct {
	session *svc.Session
	logger  *zap.Logger
}

func NewChatController(session *svc.Session, log *zap.Logger) *ChatController {
	return &ChatController{session: session, logger: logger.OrNop(log)}
}

type saveResult struct {
	ChatID string `json:"chat_id"`
}

type analyzeResponse struct {
	AIOutput  string      `json:"ai_output"`
	Save      *saveResult `json:"save,omitempty"`
	SaveError string      `json:"save_error,omitempty"`
}

// Analyze handles POST /analyze (multipart or urlencoded form).
func (ctrl *ChatController) Analyze(c *gin.Context) {
	in := svc.AnalyzeInput{
		JobDescription: c.PostForm("job_description"),
	}
	in.Resume.Text = c.PostForm("resume_text")
	if prev, ok := c.GetPostForm("previous_output"); ok {
		in.PreviousOutput = &prev
	}
	uid, authed := middleware.CurrentUser(c)
	if authed {
		in.Requester = &uid
	}

	if header, err := c.FormFile("resume_file"); err == nil {
		f, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Error processing resume file"})
			return
		}
		defer f.Close()
		in.Resume.File = f
		in.Resume.MimeType = header.Header.Get("Content-Type")
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		ctrl.logger.Warn("reading resume_file failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Error processing resume file"})
		return
	}

	res, err := ctrl.session.Analyze(c.Request.Context(), in)
	switch {
	case errors.Is(err, svc.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "job_description is required"})
		return
	case errors.Is(err, svc.ErrDocumentProcessing):
		ctrl.logger.Warn("resume file rejected", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Error processing resume file"})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"msg": "AI Service Error"})
		return
	}

	resp := analyzeResponse{AIOutput: res.AIOutput}
	if authed && isTruthy(c.PostForm("auto_save")) {
		conv, err := ctrl.session.SaveAnalysis(c.Request.Context(), uid, c.PostForm("chat_id"), res.ResumeText, in.JobDescription, res.AIOutput)
		if err != nil {
			ctrl.logger.Error("best-effort save failed", zap.Uint("user_id", uid), zap.Error(err))
			resp.SaveError = saveErrorMessage(err)
		} else {
			resp.Save = &saveResult{ChatID: conv.ID}
		}
	}
	c.JSON(http.StatusOK, resp)
}

type saveRequest struct {
	ChatID         string           `json:"chatId"`
	Messages       []models.Message `json:"messages" binding:"dive"`
	ResumeText     string           `json:"resume_text"`
	JobDescription string           `json:"job_description"`
	Title          string           `json:"title"`
}

// Save handles POST /save.
func (ctrl *ChatController) Save(c *gin.Context) {
	uid, _ := middleware.CurrentUser(c)

	var body saveRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		if errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request: " + err.Error()})
		return
	}
	if body.Messages == nil {
		body.Messages = []models.Message{}
	}

	conv, err := ctrl.session.Save(c.Request.Context(), uid, svc.SaveInput{
		ChatID:         body.ChatID,
		Messages:       body.Messages,
		ResumeText:     body.ResumeText,
		JobDescription: body.JobDescription,
		Title:          body.Title,
	})
	if err != nil {
		ctrl.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

// History handles GET /history.
func (ctrl *ChatController) History(c *gin.Context) {
	uid, _ := middleware.CurrentUser(c)
	convs, err := ctrl.session.History(c.Request.Context(), uid)
	if err != nil {
		ctrl.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, convs)
}

// GetConversation handles GET /conversation/:id.
func (ctrl *ChatController) GetConversation(c *gin.Context) {
	uid, _ := middleware.CurrentUser(c)
	conv, err := ctrl.session.Conversation(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		ctrl.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

func (ctrl *ChatController) respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "Chat not found"})
	case errors.Is(err, store.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Not authorized"})
	case errors.Is(err, store.ErrInvalidMessage):
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
	default:
		ctrl.logger.Error("conversation store error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "db error"})
	}
}

func saveErrorMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return "Chat not found"
	case errors.Is(err, store.ErrUnauthorized):
		return "Not authorized"
	default:
		return "failed to save conversation"
	}
}

func isTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
