package supabase

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ugcgo/ugcgo-backend/internal/models"
	"github.com/ugcgo/ugcgo-backend/internal/store"
)

const adminUsersPerPage = 200

// ErrNoUser is returned when the verifier answers without a user id.
var ErrNoUser = errors.New("supabase: token has no user")

type authUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// GetUser verifies an access token with the auth server. Single round trip.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*models.Identity, error) {
	var u authUser
	if _, err := c.getJSON(ctx, request{
		op:     "get_user",
		path:   authPrefix + "user",
		bearer: accessToken,
	}, &u); err != nil {
		return nil, err
	}
	if u.ID == "" {
		return nil, ErrNoUser
	}
	return &models.Identity{ID: u.ID, Email: u.Email}, nil
}

// ListAuthUsers pages through the auth admin directory.
func (c *Client) ListAuthUsers(ctx context.Context) ([]*store.AuthUser, error) {
	var out []*store.AuthUser
	for page := 1; ; page++ {
		var body struct {
			Users []authUser `json:"users"`
		}
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(adminUsersPerPage))
		if _, err := c.getJSON(ctx, request{
			op:    "list_auth_users",
			path:  authPrefix + "admin/users",
			query: q,
		}, &body); err != nil {
			return nil, err
		}

		for _, u := range body.Users {
			out = append(out, &store.AuthUser{
				ID:        u.ID,
				Email:     u.Email,
				CreatedAt: parseTime(u.CreatedAt),
			})
		}
		if len(body.Users) < adminUsersPerPage {
			return out, nil
		}
	}
}

// IsUnauthorized reports whether err is a rejected-credentials response.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}
