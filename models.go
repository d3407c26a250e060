package shapewaysbridge

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/opengovern/shapeways-bridge/modelsource"
)

// GetModels lists the caller's models, one page at a time. Pages start at 1.
func (c *Client) GetModels(ctx context.Context, page int) (*Result, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	return c.Dispatch(ctx, http.MethodGet, ModelURL, nil, q)
}

func (c *Client) GetModel(ctx context.Context, modelID int) (*Result, error) {
	return c.get(ctx, SingleModelURL, modelID)
}

func (c *Client) DeleteModel(ctx context.Context, modelID int) (*Result, error) {
	body := map[string]any{"modelId": modelID}
	return c.Dispatch(ctx, http.MethodDelete, fmt.Sprintf(SingleModelURL, modelID), body, nil)
}

// UploadOptions carries the optional metadata sent with a model upload.
type UploadOptions struct {
	// FileName overrides the name taken from the source.
	FileName    string
	Title       string
	Description string
	UploadScale float64
	IsPublic    *bool
	IsForSale   *bool
}

type modelUpload struct {
	FileName                 string  `json:"fileName"`
	File                     string  `json:"file"`
	Description              string  `json:"description"`
	HasRightsToModel         int     `json:"hasRightsToModel"`
	AcceptTermsAndConditions int     `json:"acceptTermsAndConditions"`
	Title                    string  `json:"title,omitempty"`
	UploadScale              float64 `json:"uploadScale,omitempty"`
	IsPublic                 *int    `json:"isPublic,omitempty"`
	IsForSale                *int    `json:"isForSale,omitempty"`
}

// UploadModel reads the model file at path and uploads it.
func (c *Client) UploadModel(ctx context.Context, path string, opts UploadOptions) (*Result, error) {
	return c.UploadModelFrom(ctx, modelsource.FileReader{}, path, opts)
}

// UploadModelFrom loads ref from src and uploads it. The model bytes are sent
// base64 encoded; the caller is recorded as holding the rights to the model
// and accepting the terms and conditions.
func (c *Client) UploadModelFrom(ctx context.Context, src modelsource.Reader, ref string, opts UploadOptions) (*Result, error) {
	if _, ok := c.session.AccessToken(); !ok {
		return nil, fmt.Errorf("upload model: %w", ErrNoAccessToken)
	}
	model, err := src.ReadModel(ctx, ref)
	if err != nil {
		return nil, err
	}

	body := modelUpload{
		FileName:                 model.FileName,
		File:                     base64.StdEncoding.EncodeToString(model.Data),
		Description:              opts.Description,
		HasRightsToModel:         1,
		AcceptTermsAndConditions: 1,
		Title:                    opts.Title,
		UploadScale:              opts.UploadScale,
		IsPublic:                 boolFlag(opts.IsPublic),
		IsForSale:                boolFlag(opts.IsForSale),
	}
	if opts.FileName != "" {
		body.FileName = opts.FileName
	}
	return c.Dispatch(ctx, http.MethodPost, ModelURL, body, nil)
}

func (c *Client) GetModelInfo(ctx context.Context, modelID int) (*Result, error) {
	return c.get(ctx, ModelInfoURL, modelID)
}

// UpdateModelInfo sends fields verbatim, using the API's field names
// (title, description, isPublic, tags, materials, categories, ...).
func (c *Client) UpdateModelInfo(ctx context.Context, modelID int, fields map[string]any) (*Result, error) {
	return c.Dispatch(ctx, http.MethodPut, fmt.Sprintf(ModelInfoURL, modelID), fields, nil)
}

// ModelFile is a new file version for an existing model.
type ModelFile struct {
	File                     []byte
	FileName                 string
	HasRightsToModel         bool
	AcceptTermsAndConditions bool
	UploadScale              float64
}

func (c *Client) AddModelFile(ctx context.Context, modelID int, f ModelFile) (*Result, error) {
	if m := missing(
		field{"file", len(f.File) == 0},
		field{"fileName", f.FileName == ""},
		field{"hasRightsToModel", !f.HasRightsToModel},
		field{"acceptTermsAndConditions", !f.AcceptTermsAndConditions},
	); len(m) > 0 {
		return nil, fmt.Errorf("add model file: %w: %v", ErrMissingParameter, m)
	}
	body := map[string]any{
		"file":                     base64.StdEncoding.EncodeToString(f.File),
		"fileName":                 f.FileName,
		"hasRightsToModel":         1,
		"acceptTermsAndConditions": 1,
	}
	if f.UploadScale != 0 {
		body["uploadScale"] = f.UploadScale
	}
	return c.Dispatch(ctx, http.MethodPost, fmt.Sprintf(ModelFilesURL, modelID), body, nil)
}

// GetModelFile fetches one file version; includeFile asks for the raw file data too.
func (c *Client) GetModelFile(ctx context.Context, modelID, fileVersion int, includeFile bool) (*Result, error) {
	q := url.Values{}
	q.Set("file", strconv.Itoa(*boolFlag(&includeFile)))
	return c.Dispatch(ctx, http.MethodGet, fmt.Sprintf(ModelFileURL, modelID, fileVersion), nil, q)
}

// ModelPhoto is a photo attached to a model.
type ModelPhoto struct {
	File        []byte
	Title       string
	Description string
	MaterialID  int
	IsDefault   bool
}

func (c *Client) AddModelPhoto(ctx context.Context, modelID int, p ModelPhoto) (*Result, error) {
	if len(p.File) == 0 {
		return nil, fmt.Errorf("add model photo: %w: [file]", ErrMissingParameter)
	}
	body := map[string]any{
		"file": base64.StdEncoding.EncodeToString(p.File),
	}
	if p.Title != "" {
		body["title"] = p.Title
	}
	if p.Description != "" {
		body["description"] = p.Description
	}
	if p.MaterialID != 0 {
		body["materialId"] = p.MaterialID
	}
	if p.IsDefault {
		body["isDefault"] = 1
	}
	return c.Dispatch(ctx, http.MethodPost, fmt.Sprintf(ModelPhotosURL, modelID), body, nil)
}

func boolFlag(b *bool) *int {
	if b == nil {
		return nil
	}
	v := 0
	if *b {
		v = 1
	}
	return &v
}
