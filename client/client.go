package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strconv"
	"strings"

	"notekeep/dto"
	"notekeep/model"
)

// ErrNotFound matches an APIError with status 404.
var ErrNotFound = errors.New("not found")

type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notekeep api: %d %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Client talks to the notes REST API. It has no retries and no timeout of its
// own; callers bound requests through ctx or the supplied http.Client.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) ListNotes(ctx context.Context) ([]*model.Note, error) {
	var notes []*model.Note
	err := c.doJSON(ctx, http.MethodGet, "/note", nil, &notes)
	return notes, err
}

func (c *Client) ListTrash(ctx context.Context) ([]*model.Note, error) {
	var notes []*model.Note
	err := c.doJSON(ctx, http.MethodGet, "/note/trash", nil, &notes)
	return notes, err
}

func (c *Client) ListArchived(ctx context.Context) ([]*model.Note, error) {
	var notes []*model.Note
	err := c.doJSON(ctx, http.MethodGet, "/note/archived", nil, &notes)
	return notes, err
}

func (c *Client) Stats(ctx context.Context) (*model.NoteStats, error) {
	var stats model.NoteStats
	if err := c.doJSON(ctx, http.MethodGet, "/note/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) GetNote(ctx context.Context, id int64) (*model.Note, error) {
	var note model.Note
	if err := c.doJSON(ctx, http.MethodGet, notePath(id, ""), nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// CreateNote creates a note and returns the new id.
func (c *Client) CreateNote(ctx context.Context, title, category, desc, cover string) (int64, error) {
	body := map[string]string{"title": title, "category": category, "desc": desc, "cover": cover}
	var resp dto.CreateNoteResponse
	if err := c.doJSON(ctx, http.MethodPost, "/note", body, &resp); err != nil {
		return 0, err
	}
	return resp.InsertedID, nil
}

func (c *Client) UpdateNote(ctx context.Context, note *model.Note) error {
	body := map[string]string{
		"title":    note.Title,
		"category": note.Category,
		"desc":     note.Desc,
		"cover":    note.Cover,
	}
	return c.doJSON(ctx, http.MethodPut, notePath(note.ID, ""), body, nil)
}

func (c *Client) SetPinned(ctx context.Context, id int64, pinned bool) error {
	return c.doJSON(ctx, http.MethodPut, notePath(id, "/pin"), map[string]bool{"isPinned": pinned}, nil)
}

func (c *Client) SetArchived(ctx context.Context, id int64, archived bool) error {
	return c.doJSON(ctx, http.MethodPut, notePath(id, "/archive"), map[string]bool{"isArchived": archived}, nil)
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, notePath(id, ""), nil, nil)
}

func (c *Client) Restore(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodPut, notePath(id, "/restore"), nil, nil)
}

func (c *Client) DeletePermanent(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, notePath(id, "/permanent"), nil, nil)
}

// UploadImage sends r as the "image" field and returns the stored image.
func (c *Client) UploadImage(ctx context.Context, filename, contentType string, r io.Reader) (*model.UploadedImage, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filepath.Base(filename)))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var image model.UploadedImage
	if err := c.do(req, &image); err != nil {
		return nil, err
	}
	return &image, nil
}

func notePath(id int64, suffix string) string {
	return "/note/" + strconv.FormatInt(id, 10) + suffix
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
		var body struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &body) == nil && body.Error != "" {
			apiErr.Message = body.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
