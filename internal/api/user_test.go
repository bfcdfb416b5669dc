package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"realtime-chat/backend/internal/models"
	apperrors "realtime-chat/backend/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserDirectory struct {
	users  []models.User
	nextID uint
}

func (f *fakeUserDirectory) Create(req models.CreateUserRequest) (*models.User, error) {
	f.nextID++
	user := models.User{
		ID:          f.nextID,
		Name:        req.Name,
		Email:       req.Email,
		CompanyName: req.CompanyName,
		Link:        "http://localhost:5002/chat/abc",
	}
	f.users = append(f.users, user)
	return &user, nil
}

func (f *fakeUserDirectory) List() ([]models.User, error) {
	return f.users, nil
}

func (f *fakeUserDirectory) Delete(id uint) error {
	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return apperrors.NewNotFoundError("USER_NOT_FOUND", "user not found")
}

func newUserRouter(dir *fakeUserDirectory) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(apperrors.ErrorHandler())
	NewUserHandler(dir).RegisterRoutes(r)
	return r
}

func TestCreateUserReturnsChatLink(t *testing.T) {
	r := newUserRouter(&fakeUserDirectory{})

	body := `{"name":"Dana","email":"dana@example.com","companyName":"Acme"}`
	req := httptest.NewRequest(http.MethodPost, "/api/create-user", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var user models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "Dana", user.Name)
	assert.Contains(t, user.Link, "/chat/")
}

func TestCreateUserRejectsBadEmail(t *testing.T) {
	r := newUserRouter(&fakeUserDirectory{})

	body := `{"name":"Dana","email":"not-an-email","companyName":"Acme"}`
	req := httptest.NewRequest(http.MethodPost, "/api/create-user", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteUser(t *testing.T) {
	dir := &fakeUserDirectory{}
	r := newUserRouter(dir)

	_, err := dir.Create(models.CreateUserRequest{Name: "Dana", Email: "dana@example.com"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/users/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, dir.users)
}

func TestDeleteUnknownUser(t *testing.T) {
	r := newUserRouter(&fakeUserDirectory{})

	req := httptest.NewRequest(http.MethodDelete, "/api/users/42", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteUserInvalidID(t *testing.T) {
	r := newUserRouter(&fakeUserDirectory{})

	req := httptest.NewRequest(http.MethodDelete, "/api/users/not-a-number", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
