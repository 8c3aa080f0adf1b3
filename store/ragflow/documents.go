// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ragflow

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/poiesic/ragline/store"
)

type documentPayload struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Run         string  `json:"run"`
	Progress    float64 `json:"progress"`
	ProgressMsg string  `json:"progress_msg"`
}

type documentListData struct {
	Docs  []documentPayload `json:"docs"`
	Total int               `json:"total"`
}

// Upload submits blob as a multipart file upload under displayName.
// The store does not return the assigned document id here.
func (c *Client) Upload(ctx context.Context, dataset *store.Dataset, displayName string, blob []byte) error {
	if dataset == nil {
		return store.ErrDatasetRequired
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", displayName)
	if err != nil {
		return fmt.Errorf("building upload form: %w", err)
	}
	if _, err := part.Write(blob); err != nil {
		return fmt.Errorf("building upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("building upload form: %w", err)
	}

	path := "/api/v1/datasets/" + url.PathEscape(dataset.ID) + "/documents"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	if err := c.do(req, nil); err != nil {
		return err
	}
	c.logger.Info("upload submitted", "dataset", dataset.Name, "name", displayName, "bytes", len(blob))
	return nil
}

// ListDocuments lists documents by id, by display-name keyword, or pages
// through everything when opts is zero. PageSize defaults to 100.
func (c *Client) ListDocuments(ctx context.Context, dataset *store.Dataset, opts store.ListOptions) ([]store.Document, error) {
	if dataset == nil {
		return nil, store.ErrDatasetRequired
	}

	query := url.Values{}
	switch {
	case opts.ID != "":
		query.Set("id", opts.ID)
	default:
		if opts.Keywords != "" {
			query.Set("keywords", opts.Keywords)
		}
		page := opts.Page
		if page <= 0 {
			page = 1
		}
		pageSize := opts.PageSize
		if pageSize <= 0 {
			pageSize = defaultPageSize
		}
		query.Set("page", strconv.Itoa(page))
		query.Set("page_size", strconv.Itoa(pageSize))
	}

	path := "/api/v1/datasets/" + url.PathEscape(dataset.ID) + "/documents?" + query.Encode()
	var data documentListData
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}

	docs := make([]store.Document, 0, len(data.Docs))
	for _, d := range data.Docs {
		docs = append(docs, store.Document{
			ID:          d.ID,
			Name:        d.Name,
			Run:         store.RunStatus(d.Run),
			Progress:    d.Progress,
			ProgressMsg: d.ProgressMsg,
		})
	}
	return docs, nil
}

// DeleteDocument removes a single document by identifier.
func (c *Client) DeleteDocument(ctx context.Context, dataset *store.Dataset, id string) error {
	if dataset == nil {
		return store.ErrDatasetRequired
	}
	if id == "" {
		return store.ErrNoDocumentIDs
	}

	path := "/api/v1/datasets/" + url.PathEscape(dataset.ID) + "/documents"
	payload := map[string][]string{"ids": {id}}
	if err := c.doJSON(ctx, http.MethodDelete, path, payload, nil); err != nil {
		return err
	}
	c.logger.Info("deleted document", "dataset", dataset.Name, "id", id)
	return nil
}

// TriggerParse requests asynchronous parsing of the given document ids.
func (c *Client) TriggerParse(ctx context.Context, dataset *store.Dataset, documentIDs []string) error {
	if dataset == nil {
		return store.ErrDatasetRequired
	}
	if len(documentIDs) == 0 {
		return store.ErrNoDocumentIDs
	}

	path := "/api/v1/datasets/" + url.PathEscape(dataset.ID) + "/chunks"
	payload := map[string][]string{"document_ids": documentIDs}
	return c.doJSON(ctx, http.MethodPost, path, payload, nil)
}
