package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restoadmin/models"
)

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	seedUser(t, app.db, "hostess1", "secret", models.RoleHostess)

	w := app.do(t, http.MethodPost, "/login", "", gin.H{"login": "hostess1", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	env := decode(t, w, &data)
	assert.Equal(t, "Login successful", env.Message)
	assert.NotEmpty(t, data.Token)
	assert.Equal(t, "hostess1", data.User.Login)
	assert.NotContains(t, w.Body.String(), "password")

	w = app.do(t, http.MethodPost, "/login", "", gin.H{"login": "hostess1", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodPost, "/login", "", gin.H{"login": "ghost", "password": "secret"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodPost, "/login", "", gin.H{"login": "hostess1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProfile(t *testing.T) {
	app := newTestApp(t)
	token := app.token(t, models.RoleManager)

	w := app.do(t, http.MethodGet, "/admin/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		User        models.User         `json:"user"`
		Restaurants []models.Restaurant `json:"restaurants"`
	}
	decode(t, w, &data)
	assert.Equal(t, models.RoleManager, data.User.Role)
	require.Len(t, data.Restaurants, 1)
	assert.Equal(t, "main-restaurant", data.Restaurants[0].Slug)

	w = app.do(t, http.MethodGet, "/admin/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	app := newTestApp(t)
	token := app.token(t, models.RoleHostess)

	w := app.do(t, http.MethodPost, "/admin/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(t, http.MethodGet, "/admin/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
