package circulation

import (
	"context"
	"net/http"
	"net/url"

	"github.com/circulation-toolkit/sip2gateway/internal/usecase/auth"
)

const resourceUsers = "users"

// ProfileResource looks up patrons.
type ProfileResource struct {
	client *Client
}

// NewProfileResource -.
func NewProfileResource(c *Client) *ProfileResource {
	return &ProfileResource{client: c}
}

// GetUserByIdentifier finds the patron whose barcode, external system id or
// username equals id. A missing, inactive or id-less user is ErrInvalidPatron.
func (r *ProfileResource) GetUserByIdentifier(ctx context.Context, tok auth.Token, id string) (*User, error) {
	v := cqlString(id)

	q := url.Values{}
	q.Set("query", "(barcode=="+v+" or externalSystemId=="+v+" or username=="+v+")")
	q.Set("limit", "1")

	var users userCollection
	if err := r.client.Get(ctx, tok, resourceUsers, "/users", q, &users); err != nil {
		return nil, err
	}

	if len(users.Users) == 0 {
		return nil, ErrInvalidPatron
	}

	u := users.Users[0]
	if !u.Active || u.ID == "" {
		return nil, ErrInvalidPatron
	}

	return &u, nil
}

type pinRequest struct {
	ID  string `json:"id"`
	Pin string `json:"pin"`
}

// VerifyPin checks a patron PIN. A mismatch is (false, nil).
func (r *ProfileResource) VerifyPin(ctx context.Context, tok auth.Token, userID, pin string) (bool, error) {
	err := r.client.Post(ctx, tok, resourceUsers, "/patron-pin/verify", pinRequest{ID: userID, Pin: pin}, nil)
	if err == nil {
		return true, nil
	}

	if StatusOf(err) == http.StatusUnprocessableEntity {
		return false, nil
	}

	return false, err
}
