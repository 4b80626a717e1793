package handler

import (
	"context"
	"log/slog"
	"time"

	"ministry/internal/delivery/api/response"
	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type ContentHandlerParams struct {
	fx.In

	NewsUC    usecase.NewsUsecase
	BlogUC    usecase.BlogUsecase
	MusicUC   usecase.MusicUsecase
	SliderUC  usecase.SliderUsecase
	AboutUC   usecase.AboutUsUsecase
	MessageUC usecase.MessageUsecase
	Logger    *slog.Logger
}

// ContentHandler serves the ministry's public pages and their admin screens.
type ContentHandler struct {
	News   *ContentResource[entity.News, usecase.ArticleInput]
	Blog   *ContentResource[entity.Blog, usecase.ArticleInput]
	Music  *ContentResource[entity.Music, usecase.MusicInput]
	Slider *ContentResource[entity.HomeSlider, usecase.SliderInput]

	musicUC   usecase.MusicUsecase
	aboutUC   usecase.AboutUsUsecase
	messageUC usecase.MessageUsecase
	logger    *slog.Logger
}

func NewContentHandler(params ContentHandlerParams) *ContentHandler {
	return &ContentHandler{
		News: &ContentResource[entity.News, usecase.ArticleInput]{
			uc: params.NewsUC, bySlug: params.NewsUC.GetBySlug, name: "News", decode: decodeArticle,
		},
		Blog: &ContentResource[entity.Blog, usecase.ArticleInput]{
			uc: params.BlogUC, bySlug: params.BlogUC.GetBySlug, name: "Blog post", decode: decodeArticle,
		},
		Music: &ContentResource[entity.Music, usecase.MusicInput]{
			uc: params.MusicUC, name: "Music", decode: decodeMusic,
		},
		Slider: &ContentResource[entity.HomeSlider, usecase.SliderInput]{
			uc: params.SliderUC, name: "Slider", decode: decodeSlider,
		},
		musicUC:   params.MusicUC,
		aboutUC:   params.AboutUC,
		messageUC: params.MessageUC,
		logger:    params.Logger,
	}
}

// ContentResource exposes the shared CRUD routes of one content type.
type ContentResource[T, I any] struct {
	uc     usecase.ContentUsecase[T, I]
	bySlug func(ctx context.Context, slug string, publishedOnly bool) (*T, error)
	name   string
	decode func(c echo.Context) (*I, error)
}

// List returns published records only.
func (r *ContentResource[T, I]) List(c echo.Context) error {
	return r.list(c, true)
}

func (r *ContentResource[T, I]) AdminList(c echo.Context) error {
	return r.list(c, false)
}

func (r *ContentResource[T, I]) list(c echo.Context, publishedOnly bool) error {
	p, err := pagination(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	page, err := r.uc.List(c.Request().Context(), repository.ContentFilter{
		Search:        c.QueryParam("search"),
		PublishedOnly: publishedOnly,
		Pagination:    p,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Paginated(c, r.name, page)
}

// Show looks a published record up by ID, or by slug for slugged types.
func (r *ContentResource[T, I]) Show(c echo.Context) error {
	key := c.Param("slug")
	ctx := c.Request().Context()

	var (
		record *T
		err    error
	)
	if id, parseErr := uuid.Parse(key); parseErr == nil {
		record, err = r.uc.Get(ctx, id, true)
	} else if r.bySlug != nil {
		record, err = r.bySlug(ctx, key, true)
	} else {
		err = domainerrors.ErrNotFound
	}
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, r.name, record)
}

func (r *ContentResource[T, I]) AdminGet(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	record, err := r.uc.Get(c.Request().Context(), id, false)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, r.name, record)
}

func (r *ContentResource[T, I]) Create(c echo.Context) error {
	input, err := r.decode(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	record, err := r.uc.Create(c.Request().Context(), input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, r.name+" created", record)
}

func (r *ContentResource[T, I]) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}
	input, err := r.decode(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	record, err := r.uc.Update(c.Request().Context(), id, input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, r.name+" updated", record)
}

func (r *ContentResource[T, I]) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := r.uc.Delete(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, r.name+" deleted", nil)
}

func (r *ContentResource[T, I]) UploadImage(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	upload, closeFile, err := formFile(c, "image")
	if err != nil {
		return response.HandleAppError(c, err)
	}
	defer closeFile()

	record, err := r.uc.UploadImage(c.Request().Context(), id, upload)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, r.name+" image uploaded", record)
}

// --- Requests ---

type ArticleRequest struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Slug        string     `json:"slug" validate:"omitempty,max=255"`
	Excerpt     string     `json:"excerpt" validate:"max=500"`
	Body        string     `json:"body" validate:"required"`
	AuthorID    *uuid.UUID `json:"author_id"`
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at"`
}

// decodeArticle credits the signed-in editor when no author is given.
func decodeArticle(c echo.Context) (*usecase.ArticleInput, error) {
	var req ArticleRequest
	if err := bind(c, &req); err != nil {
		return nil, err
	}

	author := req.AuthorID
	if author == nil {
		author = optionalUser(c)
	}

	return &usecase.ArticleInput{
		Title:       req.Title,
		Slug:        req.Slug,
		Excerpt:     req.Excerpt,
		Body:        req.Body,
		AuthorID:    author,
		IsPublished: req.IsPublished,
		PublishedAt: req.PublishedAt,
	}, nil
}

type MusicRequest struct {
	Title           string `json:"title" validate:"required,max=255"`
	Artist          string `json:"artist" validate:"max=255"`
	Album           string `json:"album" validate:"max=255"`
	DurationSeconds int    `json:"duration_seconds" validate:"gte=0"`
	IsPublished     bool   `json:"is_published"`
}

func decodeMusic(c echo.Context) (*usecase.MusicInput, error) {
	var req MusicRequest
	if err := bind(c, &req); err != nil {
		return nil, err
	}

	return &usecase.MusicInput{
		Title:           req.Title,
		Artist:          req.Artist,
		Album:           req.Album,
		DurationSeconds: req.DurationSeconds,
		IsPublished:     req.IsPublished,
	}, nil
}

type SliderRequest struct {
	Title     string `json:"title" validate:"required,max=255"`
	Subtitle  string `json:"subtitle" validate:"max=255"`
	LinkURL   string `json:"link_url" validate:"omitempty,url"`
	SortOrder int    `json:"sort_order"`
	IsActive  *bool  `json:"is_active"`
}

func decodeSlider(c echo.Context) (*usecase.SliderInput, error) {
	var req SliderRequest
	if err := bind(c, &req); err != nil {
		return nil, err
	}

	return &usecase.SliderInput{
		Title:     req.Title,
		Subtitle:  req.Subtitle,
		LinkURL:   req.LinkURL,
		SortOrder: req.SortOrder,
		IsActive:  boolOr(req.IsActive, true),
	}, nil
}

// --- Music audio ---

func (h *ContentHandler) UploadAudio(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	upload, closeFile, err := formFile(c, "audio")
	if err != nil {
		return response.HandleAppError(c, err)
	}
	defer closeFile()

	music, err := h.musicUC.UploadAudio(c.Request().Context(), id, upload)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Audio uploaded", music)
}

// --- About us ---

type AboutUsRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Body    string `json:"body" validate:"required"`
	Mission string `json:"mission"`
	Vision  string `json:"vision"`
}

func (h *ContentHandler) GetAboutUs(c echo.Context) error {
	about, err := h.aboutUC.Get(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "About us", about)
}

func (h *ContentHandler) SaveAboutUs(c echo.Context) error {
	var req AboutUsRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	about, err := h.aboutUC.Save(c.Request().Context(), &usecase.AboutUsInput{
		Title:   req.Title,
		Body:    req.Body,
		Mission: req.Mission,
		Vision:  req.Vision,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "About us saved", about)
}

func (h *ContentHandler) UploadAboutUsImage(c echo.Context) error {
	upload, closeFile, err := formFile(c, "image")
	if err != nil {
		return response.HandleAppError(c, err)
	}
	defer closeFile()

	about, err := h.aboutUC.UploadImage(c.Request().Context(), upload)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "About us image uploaded", about)
}

// --- Contact ---

type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,max=32"`
	Subject string `json:"subject" validate:"required,max=255"`
	Message string `json:"message" validate:"required,max=5000"`
}

func (h *ContentHandler) SubmitContact(c echo.Context) error {
	var req ContactRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	msg, err := h.messageUC.SubmitContact(c.Request().Context(), &usecase.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, "Thank you, your message has been received", msg)
}

func (h *ContentHandler) ListContacts(c echo.Context) error {
	filter, err := messageFilter(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	page, err := h.messageUC.ListContacts(c.Request().Context(), filter)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Paginated(c, "Contact messages", page)
}

func (h *ContentHandler) MarkContactRead(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	msg, err := h.messageUC.MarkContactRead(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Contact message marked as read", msg)
}

func (h *ContentHandler) DeleteContact(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.messageUC.DeleteContact(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Contact message deleted", nil)
}

// --- Member messages ---

type UserMessageRequest struct {
	Subject string `json:"subject" validate:"required,max=255"`
	Body    string `json:"body" validate:"required,max=5000"`
}

type ReplyRequest struct {
	Reply string `json:"reply" validate:"required,max=5000"`
}

func (h *ContentHandler) SendMessage(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req UserMessageRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	msg, err := h.messageUC.Send(c.Request().Context(), userID, &usecase.UserMessageInput{
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, "Message sent", msg)
}

func (h *ContentHandler) ListMyMessages(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	p, err := pagination(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	page, err := h.messageUC.ListMine(c.Request().Context(), userID, p)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Paginated(c, "Messages", page)
}

func (h *ContentHandler) ListMessages(c echo.Context) error {
	filter, err := messageFilter(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	filter.UserID, err = queryUUID(c, "user_id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	page, err := h.messageUC.List(c.Request().Context(), filter)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Paginated(c, "Messages", page)
}

func (h *ContentHandler) ReplyMessage(c echo.Context) error {
	actorID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req ReplyRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	msg, err := h.messageUC.Reply(c.Request().Context(), actorID, id, req.Reply)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Reply sent", msg)
}

func messageFilter(c echo.Context) (repository.MessageFilter, error) {
	p, err := pagination(c)
	if err != nil {
		return repository.MessageFilter{}, err
	}
	unread, err := queryBool(c, "unread")
	if err != nil {
		return repository.MessageFilter{}, err
	}

	return repository.MessageFilter{Unread: unread != nil && *unread, Pagination: p}, nil
}
