package api

import (
	"context"
	"net/http"

	"github.com/ethanhollins/cc-web-sub001/internal/domain"
)

// ListProjects returns every project.
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}
