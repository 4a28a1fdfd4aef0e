package handler

import (
	"context"
	"errors"
	"net/http"

	"notekeep/dto"
	"notekeep/middleware"
	"notekeep/model"
	"notekeep/usecase"
	"notekeep/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotesService is the subset of usecase.NotesService the handlers call.
type NotesService interface {
	ListActive(ctx context.Context) ([]*model.Note, error)
	ListTrashed(ctx context.Context) ([]*model.Note, error)
	ListArchived(ctx context.Context) ([]*model.Note, error)
	GetNote(ctx context.Context, id int64) (*model.Note, error)
	CreateNote(ctx context.Context, note *model.Note) (int64, error)
	UpdateNote(ctx context.Context, note *model.Note) error
	SetPinned(ctx context.Context, id int64, pinned bool) error
	SetArchived(ctx context.Context, id int64, archived bool) error
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	DeletePermanent(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*model.NoteStats, error)
}

type NoteHandler struct {
	service NotesService
	logger  *zap.Logger
}

func NewNoteHandler(service NotesService, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{service: service, logger: logger}
}

// Register mounts the note routes. The literal sub-paths have to be in place
// before /note/:id; gin matches static segments ahead of parameters, and the
// explicit order keeps that visible.
func (h *NoteHandler) Register(r gin.IRouter) {
	notes := r.Group("/note")
	{
		notes.GET("", h.ListActive)
		notes.GET("/trash", h.ListTrashed)
		notes.GET("/archived", h.ListArchived)
		notes.GET("/stats", h.Stats)
		notes.POST("", h.CreateNote)

		byID := notes.Group("/:id", middleware.ParseNoteID())
		{
			byID.GET("", h.GetNote)
			byID.PUT("", h.UpdateNote)
			byID.DELETE("", h.SoftDelete)
			byID.PUT("/pin", h.SetPinned)
			byID.PUT("/archive", h.SetArchived)
			byID.PUT("/restore", h.Restore)
			byID.DELETE("/permanent", h.DeletePermanent)
		}
	}
}

func (h *NoteHandler) ListActive(c *gin.Context) {
	notes, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		h.storeError(c, "list active notes", err)
		return
	}
	utils.Success(c, notes)
}

func (h *NoteHandler) ListTrashed(c *gin.Context) {
	notes, err := h.service.ListTrashed(c.Request.Context())
	if err != nil {
		h.storeError(c, "list trashed notes", err)
		return
	}
	utils.Success(c, notes)
}

func (h *NoteHandler) ListArchived(c *gin.Context) {
	notes, err := h.service.ListArchived(c.Request.Context())
	if err != nil {
		h.storeError(c, "list archived notes", err)
		return
	}
	utils.Success(c, notes)
}

func (h *NoteHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.storeError(c, "count notes", err)
		return
	}
	utils.Success(c, stats)
}

func (h *NoteHandler) GetNote(c *gin.Context) {
	note, err := h.service.GetNote(c.Request.Context(), c.GetInt64(middleware.NoteIDKey))
	if err != nil {
		h.storeError(c, "get note", err)
		return
	}
	utils.Success(c, note)
}

func (h *NoteHandler) CreateNote(c *gin.Context) {
	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	id, err := h.service.CreateNote(c.Request.Context(), req.ToNote())
	if err != nil {
		h.storeError(c, "create note", err)
		return
	}

	utils.Success(c, dto.CreateNoteResponse{
		Message:    "Note created successfully",
		InsertedID: id,
	})
}

func (h *NoteHandler) UpdateNote(c *gin.Context) {
	var req dto.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	if err := h.service.UpdateNote(c.Request.Context(), req.ToNote(c.GetInt64(middleware.NoteIDKey))); err != nil {
		h.storeError(c, "update note", err)
		return
	}
	utils.Message(c, "Note updated successfully")
}

func (h *NoteHandler) SetPinned(c *gin.Context) {
	var req dto.PinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	if err := h.service.SetPinned(c.Request.Context(), c.GetInt64(middleware.NoteIDKey), *req.IsPinned); err != nil {
		h.storeError(c, "pin note", err)
		return
	}

	message := "Note unpinned successfully"
	if *req.IsPinned {
		message = "Note pinned successfully"
	}
	utils.Success(c, dto.PinResponse{Message: message, IsPinned: *req.IsPinned})
}

func (h *NoteHandler) SetArchived(c *gin.Context) {
	var req dto.ArchiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	if err := h.service.SetArchived(c.Request.Context(), c.GetInt64(middleware.NoteIDKey), *req.IsArchived); err != nil {
		h.storeError(c, "archive note", err)
		return
	}

	message := "Note unarchived successfully"
	if *req.IsArchived {
		message = "Note archived successfully"
	}
	utils.Success(c, dto.ArchiveResponse{Message: message, IsArchived: *req.IsArchived})
}

func (h *NoteHandler) SoftDelete(c *gin.Context) {
	if err := h.service.SoftDelete(c.Request.Context(), c.GetInt64(middleware.NoteIDKey)); err != nil {
		h.storeError(c, "delete note", err)
		return
	}
	utils.Message(c, "Note moved to trash")
}

func (h *NoteHandler) Restore(c *gin.Context) {
	if err := h.service.Restore(c.Request.Context(), c.GetInt64(middleware.NoteIDKey)); err != nil {
		h.storeError(c, "restore note", err)
		return
	}
	utils.Message(c, "Note restored successfully")
}

func (h *NoteHandler) DeletePermanent(c *gin.Context) {
	if err := h.service.DeletePermanent(c.Request.Context(), c.GetInt64(middleware.NoteIDKey)); err != nil {
		h.storeError(c, "permanently delete note", err)
		return
	}
	utils.Message(c, "Note permanently deleted")
}

// storeError maps a service error to a response: not-found becomes 404,
// anything else is a store failure reported with its message.
func (h *NoteHandler) storeError(c *gin.Context, action string, err error) {
	if usecase.IsNotFound(err) {
		utils.NotFound(c, "Note not found")
		return
	}

	h.logger.Error("failed to "+action,
		zap.Error(err),
		zap.String("request_id", c.GetString(middleware.RequestIDKey)),
	)
	_ = c.Error(err)
	utils.InternalError(c, err.Error())
}

func (h *NoteHandler) bindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		utils.TooLarge(c, "request body too large")
		return
	}
	utils.TrackError("validation", "note_body")
	utils.BadRequest(c, "Invalid request body: "+err.Error())
}
