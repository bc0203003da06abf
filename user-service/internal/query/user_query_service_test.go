package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/apperr"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/cqrs"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/models"
)

type fakeViews struct {
	users      []*models.UserView
	skip, take int
}

func (f *fakeViews) GetByID(_ context.Context, id string) (*models.UserView, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperr.NotFound("User", id)
}

func (f *fakeViews) List(_ context.Context, skip, take int) ([]*models.UserView, int, error) {
	f.skip, f.take = skip, take
	end := skip + take
	if skip > len(f.users) {
		skip = len(f.users)
	}
	if end > len(f.users) {
		end = len(f.users)
	}
	return f.users[skip:end], len(f.users), nil
}

func TestGetUserMissing(t *testing.T) {
	s := NewUserQueryService(&fakeViews{})
	_, err := s.GetUser(context.Background(), cqrs.GetUserQuery{UserID: "usr-404"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.Equal(t, "User with ID usr-404 not found", apperr.From(err).Message)
}

func TestListUsersClampsWindow(t *testing.T) {
	views := &fakeViews{users: []*models.UserView{{ID: "a"}, {ID: "b"}, {ID: "c"}}}
	s := NewUserQueryService(views)

	page, err := s.ListUsers(context.Background(), cqrs.ListUsersQuery{PageQuery: cqrs.PageQuery{Skip: -3, Take: 0}})
	require.NoError(t, err)
	assert.Equal(t, 0, views.skip)
	assert.Equal(t, 10, views.take)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Data, 3)

	page, err = s.ListUsers(context.Background(), cqrs.ListUsersQuery{PageQuery: cqrs.PageQuery{Skip: 1, Take: 1}})
	require.NoError(t, err)
	assert.Equal(t, "b", page.Data[0].ID)
	assert.Equal(t, 1, page.Skip)
	assert.Equal(t, 1, page.Take)
}
