package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/postly/postly/config"
	"github.com/postly/postly/models"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	config.Set(config.AppConfig{
		AppPort:            "0",
		JWTSecret:          "test-secret",
		TokenTTLH:          1,
		DefaultPageSize:    3,
		MaxPageSize:        100,
		RateLimitPerMinute: 100000,
		AllowedOrigins:     []string{"*"},
		GinMode:            "test",
		RedisHost:          "127.0.0.1",
		RedisPort:          6379,
	})

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}))

	return SetupRouter(db)
}

func doJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Code    int            `json:"code"`
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func signupAndLogin(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/v1/accounts/signup", "", gin.H{
		"username": username,
		"password": "secret-pass",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/accounts/login", "", gin.H{
		"username": username,
		"password": "secret-pass",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := decodeData(t, w)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func createPost(t *testing.T, r *gin.Engine, token, title, content string) uint {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/v1/posts", token, gin.H{
		"title":   title,
		"content": content,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	post, _ := decodeData(t, w)["post"].(map[string]any)
	require.NotNil(t, post)
	id, _ := post["id"].(float64)
	require.NotZero(t, id)
	return uint(id)
}

func TestSignupLoginAndMe(t *testing.T) {
	r := setupTestRouter(t)
	token := signupAndLogin(t, r, "alice")

	w := doJSON(r, http.MethodGet, "/api/v1/accounts/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user, _ := decodeData(t, w)["user"].(map[string]any)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user["username"])
}

func TestSignupDuplicateUsernameIsBadRequest(t *testing.T) {
	r := setupTestRouter(t)
	signupAndLogin(t, r, "alice")

	w := doJSON(r, http.MethodPost, "/api/v1/accounts/signup", "", gin.H{
		"username": "alice",
		"password": "other-pass",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	r := setupTestRouter(t)
	signupAndLogin(t, r, "alice")

	w := doJSON(r, http.MethodPost, "/api/v1/accounts/login", "", gin.H{
		"username": "alice",
		"password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreatePostRequiresAuth(t *testing.T) {
	r := setupTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/posts", "", gin.H{
		"title":   "t",
		"content": "c",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateAndGetPost(t *testing.T) {
	r := setupTestRouter(t)
	token := signupAndLogin(t, r, "alice")
	id := createPost(t, r, token, "First post", "hello")

	// Reads are public, no token needed.
	w := doJSON(r, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", id), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	post, _ := decodeData(t, w)["post"].(map[string]any)
	require.NotNil(t, post)
	assert.Equal(t, "First post", post["title"])
	assert.Equal(t, "hello", post["content"])
	author, _ := post["author"].(map[string]any)
	require.NotNil(t, author)
	assert.Equal(t, "alice", author["username"])
}

func TestGetMissingPostIs404(t *testing.T) {
	r := setupTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/v1/posts/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/posts/not-a-number", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateByNonAuthorIsForbidden(t *testing.T) {
	r := setupTestRouter(t)
	aliceToken := signupAndLogin(t, r, "alice")
	bobToken := signupAndLogin(t, r, "bob")
	id := createPost(t, r, aliceToken, "alice original post", "content")

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/api/v1/posts/%d", id), bobToken, gin.H{
		"title": "stolen",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/v1/posts/%d", id), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", id), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	post, _ := decodeData(t, w)["post"].(map[string]any)
	assert.Equal(t, "alice original post", post["title"])
}

func TestPartialUpdateKeepsTitle(t *testing.T) {
	r := setupTestRouter(t)
	token := signupAndLogin(t, r, "alice")
	id := createPost(t, r, token, "Keep me", "old")

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/api/v1/posts/%d", id), token, gin.H{
		"content": "new",
	})
	require.Equal(t, http.StatusOK, w.Code)
	post, _ := decodeData(t, w)["post"].(map[string]any)
	assert.Equal(t, "Keep me", post["title"])
	assert.Equal(t, "new", post["content"])
}

func TestUpdateValidation(t *testing.T) {
	r := setupTestRouter(t)
	token := signupAndLogin(t, r, "alice")
	id := createPost(t, r, token, "title", "content")

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/api/v1/posts/%d", id), token, gin.H{
		"title": "",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteThenGetIs404(t *testing.T) {
	r := setupTestRouter(t)
	token := signupAndLogin(t, r, "alice")
	id := createPost(t, r, token, "doomed", "content")

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/api/v1/posts/%d", id), token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())

	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", id), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListPaginationEnvelope(t *testing.T) {
	r := setupTestRouter(t)
	token := signupAndLogin(t, r, "alice")
	for i := 1; i <= 7; i++ {
		createPost(t, r, token, fmt.Sprintf("post %d", i), "content")
	}

	w := doJSON(r, http.MethodGet, "/api/v1/posts?page=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	items, _ := data["items"].([]any)
	assert.Len(t, items, 3)
	pagination, _ := data["pagination"].(map[string]any)
	require.NotNil(t, pagination)
	assert.Equal(t, float64(2), pagination["page"])
	assert.Equal(t, float64(3), pagination["page_size"])
	assert.Equal(t, float64(7), pagination["total"])
	assert.Equal(t, float64(3), pagination["total_pages"])
	assert.Equal(t, float64(3), pagination["next"])
	assert.Equal(t, float64(1), pagination["previous"])
}

func TestListFilterByUsername(t *testing.T) {
	r := setupTestRouter(t)
	aliceToken := signupAndLogin(t, r, "alice")
	bobToken := signupAndLogin(t, r, "bob")
	createPost(t, r, aliceToken, "alice 1", "content")
	createPost(t, r, bobToken, "bob 1", "content")
	createPost(t, r, aliceToken, "alice 2", "content")

	w := doJSON(r, http.MethodGet, "/api/v1/posts?username=alice&page_size=10", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	items, _ := data["items"].([]any)
	require.Len(t, items, 2)
	first, _ := items[0].(map[string]any)
	assert.Equal(t, "alice 1", first["title"])
}

func TestMyPostsRequiresAuth(t *testing.T) {
	r := setupTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/v1/posts/mine", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMyPosts(t *testing.T) {
	r := setupTestRouter(t)
	aliceToken := signupAndLogin(t, r, "alice")
	bobToken := signupAndLogin(t, r, "bob")
	createPost(t, r, aliceToken, "mine", "content")
	createPost(t, r, bobToken, "not mine", "content")

	w := doJSON(r, http.MethodGet, "/api/v1/posts/mine", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	items, _ := data["items"].([]any)
	require.Len(t, items, 1)
	post, _ := items[0].(map[string]any)
	assert.Equal(t, "mine", post["title"])
}

func TestLogoutRevokesToken(t *testing.T) {
	r := setupTestRouter(t)
	token := signupAndLogin(t, r, "alice")

	w := doJSON(r, http.MethodPost, "/api/v1/accounts/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/accounts/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
