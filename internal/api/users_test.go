package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"
)

func TestRegisterSendsFullPayload(t *testing.T) {
	defer gock.Off()

	gock.New("http://backend.test").
		Post("/api/auth/register").
		AddMatcher(matchJSONField("username", "amina")).
		AddMatcher(matchJSONField("email", "amina@example.org")).
		Reply(201)

	c := newTestClient(&memSession{})

	err := c.Register(context.Background(), Registration{
		Username: "amina",
		Email:    "amina@example.org",
		Password: "pw",
	})
	require.NoError(t, err)
	assert.True(t, gock.IsDone())
}

func TestRegisterConflictSurfacesMessage(t *testing.T) {
	defer gock.Off()

	gock.New("http://backend.test").
		Post("/api/auth/register").
		Reply(409).
		JSON(map[string]string{"message": "username taken"})

	c := newTestClient(&memSession{})

	err := c.Register(context.Background(), Registration{Username: "amina", Password: "pw"})
	require.Error(t, err)
	assert.Equal(t, "username taken", ErrorMessage(err, "fallback"))
}

func TestListUsers(t *testing.T) {
	defer gock.Off()

	gock.New("http://backend.test").
		Get("/api/users").
		Reply(200).
		JSON([]User{{ID: 1, Username: "amina"}, {ID: 2, Username: "otieno"}})

	c := newTestClient(&memSession{token: "tok"})

	users, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "otieno", users[1].Username)
}

func TestGetUser(t *testing.T) {
	defer gock.Off()

	gock.New("http://backend.test").
		Get("/api/users/2").
		Reply(200).
		JSON(User{ID: 2, Username: "otieno", Role: "front_office"})

	c := newTestClient(&memSession{token: "tok"})

	u, err := c.GetUser(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "front_office", u.Role)
}

func TestUpdateUser(t *testing.T) {
	defer gock.Off()

	gock.New("http://backend.test").
		Put("/api/users/2").
		AddMatcher(matchJSONField("role", "supervisor")).
		Reply(200).
		JSON(User{ID: 2, Username: "otieno", Role: "supervisor"})

	c := newTestClient(&memSession{token: "tok"})

	u, err := c.UpdateUser(context.Background(), 2, User{ID: 2, Username: "otieno", Role: "supervisor"})
	require.NoError(t, err)
	assert.Equal(t, "supervisor", u.Role)
}

func TestDeleteUser(t *testing.T) {
	defer gock.Off()

	gock.New("http://backend.test").
		Delete("/api/users/2").
		Reply(http.StatusNoContent)

	c := newTestClient(&memSession{token: "tok"})

	require.NoError(t, c.DeleteUser(context.Background(), 2))
	assert.True(t, gock.IsDone())
}
