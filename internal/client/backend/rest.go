package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dpetrovs/memhub/internal/client/models"
)

// TokenSource supplies the access token attached to record requests.
// An empty token downgrades the request to anonymous-key authorization.
type TokenSource interface {
	AccessToken() string
}

// REST talks to the hosted record API (PostgREST dialect). Folders() and
// Notes() return the per-family stores. Row-level authorization is enforced
// server-side; the userID filters below only narrow the query.
type REST struct {
	baseURL string
	anonKey string
	http    *http.Client
	tokens  TokenSource
}

func NewREST(baseURL, anonKey string, timeout time.Duration, tokens TokenSource) *REST {
	return &REST{
		baseURL: baseURL,
		anonKey: anonKey,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// Folders returns the folder record store.
func (c *REST) Folders() FolderStore {
	return &folderAPI{c: c}
}

// Notes returns the note record store.
func (c *REST) Notes() NoteStore {
	return &noteAPI{c: c}
}

const (
	preferRepresentation = "return=representation"
	preferMergeUpsert    = "resolution=merge-duplicates"
)

func (c *REST) do(ctx context.Context, method, table string, query url.Values, prefer string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	endpoint := c.baseURL + "/rest/v1/" + table
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}

	req.Header.Set("apikey", c.anonKey)
	token := c.anonKey
	if c.tokens != nil {
		if t := c.tokens.AccessToken(); t != "" {
			token = t
		}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.apiError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// apiError converts a non-2xx record response into a sentinel-wrapped error
// carrying the service's message. The message string is what the user sees.
func (c *REST) apiError(status int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)
	msg := payload.Message
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case status >= 500:
		return fmt.Errorf("%w: %s", ErrUnavailable, msg)
	default:
		return fmt.Errorf("%s", msg)
	}
}

type folderAPI struct {
	c *REST
}

type folderInsert struct {
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	Color     string `json:"color"`
	SortOrder int64  `json:"sort_order"`
}

type folderUpsert struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	Color     string `json:"color"`
	SortOrder int64  `json:"sort_order"`
}

func (a *folderAPI) List(ctx context.Context, userID string) ([]models.Folder, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("user_id", "eq."+userID)
	query.Set("order", "sort_order.desc.nullslast,created_at.desc")

	var folders []models.Folder
	if err := a.c.do(ctx, http.MethodGet, "folders", query, "", nil, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

func (a *folderAPI) Insert(ctx context.Context, folder models.Folder) (models.Folder, error) {
	body := folderInsert{
		UserID:    folder.UserID,
		Title:     folder.Title,
		Color:     folder.Color,
		SortOrder: folder.SortOrder,
	}

	var rows []models.Folder
	if err := a.c.do(ctx, http.MethodPost, "folders", nil, preferRepresentation, body, &rows); err != nil {
		return models.Folder{}, err
	}
	if len(rows) == 0 {
		return models.Folder{}, fmt.Errorf("insert returned no row")
	}
	return rows[0], nil
}

func (a *folderAPI) Update(ctx context.Context, id, userID string, patch FolderPatch) (models.Folder, error) {
	query := url.Values{}
	query.Set("id", "eq."+id)
	query.Set("user_id", "eq."+userID)

	body := map[string]any{}
	if patch.Title != nil {
		body["title"] = *patch.Title
	}
	if patch.Color != nil {
		body["color"] = *patch.Color
	}

	var rows []models.Folder
	if err := a.c.do(ctx, http.MethodPatch, "folders", query, preferRepresentation, body, &rows); err != nil {
		return models.Folder{}, err
	}
	if len(rows) == 0 {
		return models.Folder{}, fmt.Errorf("update matched no row")
	}
	return rows[0], nil
}

func (a *folderAPI) Delete(ctx context.Context, id, userID string) error {
	query := url.Values{}
	query.Set("id", "eq."+id)
	query.Set("user_id", "eq."+userID)

	return a.c.do(ctx, http.MethodDelete, "folders", query, "", nil, nil)
}

func (a *folderAPI) UpsertAll(ctx context.Context, folders []models.Folder) error {
	query := url.Values{}
	query.Set("on_conflict", "id")

	rows := make([]folderUpsert, 0, len(folders))
	for _, f := range folders {
		rows = append(rows, folderUpsert{
			ID:        f.ID,
			UserID:    f.UserID,
			Title:     f.Title,
			Color:     f.Color,
			SortOrder: f.SortOrder,
		})
	}

	return a.c.do(ctx, http.MethodPost, "folders", query, preferMergeUpsert, rows, nil)
}

type noteAPI struct {
	c *REST
}

type noteInsert struct {
	UserID   string `json:"user_id"`
	FolderID string `json:"folder_id"`
	Content  string `json:"content"`
}

func (a *noteAPI) ListPage(ctx context.Context, userID, folderID string, limit int, before *time.Time) ([]models.Note, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("user_id", "eq."+userID)
	query.Set("folder_id", "eq."+folderID)
	query.Set("order", "created_at.desc")
	query.Set("limit", fmt.Sprintf("%d", limit))
	if before != nil {
		query.Set("created_at", "lt."+before.UTC().Format(time.RFC3339Nano))
	}

	var notes []models.Note
	if err := a.c.do(ctx, http.MethodGet, "notes", query, "", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (a *noteAPI) Insert(ctx context.Context, note models.Note) (models.Note, error) {
	body := noteInsert{
		UserID:   note.UserID,
		FolderID: note.FolderID,
		Content:  note.Content,
	}

	var rows []models.Note
	if err := a.c.do(ctx, http.MethodPost, "notes", nil, preferRepresentation, body, &rows); err != nil {
		return models.Note{}, err
	}
	if len(rows) == 0 {
		return models.Note{}, fmt.Errorf("insert returned no row")
	}
	return rows[0], nil
}

func (a *noteAPI) Update(ctx context.Context, id, userID string, patch NotePatch) (models.Note, error) {
	query := url.Values{}
	query.Set("id", "eq."+id)
	query.Set("user_id", "eq."+userID)

	body := map[string]any{}
	if patch.Content != nil {
		body["content"] = *patch.Content
	}

	var rows []models.Note
	if err := a.c.do(ctx, http.MethodPatch, "notes", query, preferRepresentation, body, &rows); err != nil {
		return models.Note{}, err
	}
	if len(rows) == 0 {
		return models.Note{}, fmt.Errorf("update matched no row")
	}
	return rows[0], nil
}

func (a *noteAPI) Delete(ctx context.Context, id, userID string) error {
	query := url.Values{}
	query.Set("id", "eq."+id)
	query.Set("user_id", "eq."+userID)

	return a.c.do(ctx, http.MethodDelete, "notes", query, "", nil, nil)
}
