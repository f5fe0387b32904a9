package adapthttp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"microblog/internal/adapter/memory"
	"microblog/internal/app"
	"microblog/internal/token"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	db := memory.New()
	tokens := token.NewService("test-secret")
	authSvc := app.NewAuthService(db, tokens)
	feedSvc := app.NewFeedService(db, db, db, db)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(authSvc, feedSvc, tokens, log).Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

type authPayload struct {
	Token string `json:"token"`
	User  struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"user"`
}

func register(t *testing.T, h http.Handler, username string) authPayload {
	t.Helper()
	w := doJSON(t, h, http.MethodPost, "/api/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "pass-" + username,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", username, w.Code, w.Body.String())
	}
	var out authPayload
	decode(t, w, &out)
	return out
}

func TestRegisterLoginFlow(t *testing.T) {
	h := newTestServer(t)

	alice := register(t, h, "alice")
	if alice.Token == "" || alice.User.Username != "alice" {
		t.Fatalf("unexpected register payload: %+v", alice)
	}

	// Duplicate email conflicts.
	w := doJSON(t, h, http.MethodPost, "/api/register", "", map[string]string{
		"username": "alice2", "email": "alice@example.com", "password": "pw",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate email: expected 409, got %d", w.Code)
	}

	w = doJSON(t, h, http.MethodPost, "/api/login", "", map[string]string{
		"email": "alice@example.com", "password": "pass-alice",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", w.Code)
	}

	// Wrong password and unknown email fail identically.
	w = doJSON(t, h, http.MethodPost, "/api/login", "", map[string]string{
		"email": "alice@example.com", "password": "nope",
	})
	w2 := doJSON(t, h, http.MethodPost, "/api/login", "", map[string]string{
		"email": "ghost@example.com", "password": "nope",
	})
	if w.Code != http.StatusUnauthorized || w2.Code != http.StatusUnauthorized {
		t.Errorf("expected 401/401, got %d/%d", w.Code, w2.Code)
	}
	if w.Body.String() != w2.Body.String() {
		t.Errorf("login failures must be indistinguishable: %q vs %q", w.Body.String(), w2.Body.String())
	}
}

func TestMe(t *testing.T) {
	h := newTestServer(t)
	alice := register(t, h, "alice")

	w := doJSON(t, h, http.MethodGet, "/api/me", alice.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var me struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	decode(t, w, &me)
	if me.ID != alice.User.ID || me.Username != "alice" {
		t.Errorf("unexpected me payload: %+v", me)
	}

	if w := doJSON(t, h, http.MethodGet, "/api/me", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous me: expected 401, got %d", w.Code)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	h := newTestServer(t)
	register(t, h, "alice")

	// A malformed bearer token is an explicit 401 even on routes that
	// allow anonymous access.
	w := doJSON(t, h, http.MethodGet, "/api/timeline", "garbage", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/timeline", nil)
	req.Header.Set("Authorization", "NotBearer xyz")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad scheme: expected 401, got %d", rec.Code)
	}
}

func TestTweetLifecycle(t *testing.T) {
	h := newTestServer(t)
	alice := register(t, h, "alice")
	bob := register(t, h, "bob")

	w := doJSON(t, h, http.MethodPost, "/api/tweets", alice.Token, map[string]string{"body": "hello #World"})
	if w.Code != http.StatusCreated {
		t.Fatalf("post: expected 201, got %d body %s", w.Code, w.Body.String())
	}
	var posted struct {
		ID       string   `json:"id"`
		Body     string   `json:"body"`
		Hashtags []string `json:"hashtags"`
	}
	decode(t, w, &posted)
	if posted.Body != "hello #World" || len(posted.Hashtags) != 1 || posted.Hashtags[0] != "world" {
		t.Errorf("unexpected tweet payload: %+v", posted)
	}

	// Anonymous single-tweet read is allowed.
	w = doJSON(t, h, http.MethodGet, "/api/tweets/"+posted.ID, "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("anonymous get: expected 200, got %d", w.Code)
	}
	var item struct {
		LikedByMe bool `json:"likedByMe"`
	}
	decode(t, w, &item)
	if item.LikedByMe {
		t.Error("anonymous viewer must see likedByMe false")
	}

	// Only the author may delete.
	if w := doJSON(t, h, http.MethodDelete, "/api/tweets/"+posted.ID, bob.Token, nil); w.Code != http.StatusForbidden {
		t.Errorf("foreign delete: expected 403, got %d", w.Code)
	}
	if w := doJSON(t, h, http.MethodDelete, "/api/tweets/"+posted.ID, alice.Token, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete: expected 204, got %d", w.Code)
	}
	if w := doJSON(t, h, http.MethodGet, "/api/tweets/"+posted.ID, "", nil); w.Code != http.StatusNotFound {
		t.Errorf("deleted tweet: expected 404, got %d", w.Code)
	}
}

func TestTimelineEnrichment(t *testing.T) {
	h := newTestServer(t)
	alice := register(t, h, "alice")
	bob := register(t, h, "bob")

	w := doJSON(t, h, http.MethodPost, "/api/tweets", alice.Token, map[string]string{"body": "hello #world"})
	var posted struct {
		ID string `json:"id"`
	}
	decode(t, w, &posted)

	if w := doJSON(t, h, http.MethodPost, "/api/users/"+alice.User.ID+"/follow", bob.Token, nil); w.Code != http.StatusNoContent {
		t.Fatalf("follow: expected 204, got %d", w.Code)
	}
	if w := doJSON(t, h, http.MethodPost, "/api/tweets/"+posted.ID+"/like", bob.Token, nil); w.Code != http.StatusNoContent {
		t.Fatalf("like: expected 204, got %d", w.Code)
	}
	if w := doJSON(t, h, http.MethodPost, "/api/tweets/"+posted.ID+"/like", bob.Token, nil); w.Code != http.StatusConflict {
		t.Errorf("duplicate like: expected 409, got %d", w.Code)
	}

	var timeline struct {
		Items []struct {
			Body      string   `json:"body"`
			Hashtags  []string `json:"hashtags"`
			LikeCount int      `json:"likeCount"`
			LikedByMe bool     `json:"likedByMe"`
		} `json:"items"`
	}

	w = doJSON(t, h, http.MethodGet, "/api/timeline", bob.Token, nil)
	decode(t, w, &timeline)
	if len(timeline.Items) != 1 {
		t.Fatalf("bob timeline: expected 1 item, got %d", len(timeline.Items))
	}
	got := timeline.Items[0]
	if got.Body != "hello #world" || got.LikeCount != 1 || !got.LikedByMe ||
		len(got.Hashtags) != 1 || got.Hashtags[0] != "world" {
		t.Errorf("bob view wrong: %+v", got)
	}

	w = doJSON(t, h, http.MethodGet, "/api/timeline", alice.Token, nil)
	decode(t, w, &timeline)
	if len(timeline.Items) != 1 {
		t.Fatalf("alice timeline: expected 1 item, got %d", len(timeline.Items))
	}
	if timeline.Items[0].LikeCount != 1 || timeline.Items[0].LikedByMe {
		t.Errorf("alice view wrong: %+v", timeline.Items[0])
	}
}

func TestFollowRules(t *testing.T) {
	h := newTestServer(t)
	alice := register(t, h, "alice")
	bob := register(t, h, "bob")

	if w := doJSON(t, h, http.MethodPost, "/api/users/"+alice.User.ID+"/follow", alice.Token, nil); w.Code != http.StatusBadRequest {
		t.Errorf("self-follow: expected 400, got %d", w.Code)
	}

	path := fmt.Sprintf("/api/users/%s/follow", bob.User.ID)
	if w := doJSON(t, h, http.MethodPost, path, alice.Token, nil); w.Code != http.StatusNoContent {
		t.Errorf("follow: expected 204, got %d", w.Code)
	}
	if w := doJSON(t, h, http.MethodPost, path, alice.Token, nil); w.Code != http.StatusConflict {
		t.Errorf("duplicate follow: expected 409, got %d", w.Code)
	}
	if w := doJSON(t, h, http.MethodDelete, path, alice.Token, nil); w.Code != http.StatusNoContent {
		t.Errorf("unfollow: expected 204, got %d", w.Code)
	}
	if w := doJSON(t, h, http.MethodDelete, path, alice.Token, nil); w.Code != http.StatusNotFound {
		t.Errorf("unfollow again: expected 404, got %d", w.Code)
	}
}

func TestComments(t *testing.T) {
	h := newTestServer(t)
	alice := register(t, h, "alice")
	bob := register(t, h, "bob")

	w := doJSON(t, h, http.MethodPost, "/api/tweets", alice.Token, map[string]string{"body": "discuss"})
	var posted struct {
		ID string `json:"id"`
	}
	decode(t, w, &posted)

	w = doJSON(t, h, http.MethodPost, "/api/tweets/"+posted.ID+"/comments", bob.Token, map[string]string{"body": "nice"})
	if w.Code != http.StatusCreated {
		t.Fatalf("comment: expected 201, got %d", w.Code)
	}
	var comment struct {
		ID string `json:"id"`
	}
	decode(t, w, &comment)

	w = doJSON(t, h, http.MethodGet, "/api/tweets/"+posted.ID+"/comments", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list comments: expected 200, got %d", w.Code)
	}
	var list struct {
		Items []struct {
			Body string `json:"body"`
		} `json:"items"`
	}
	decode(t, w, &list)
	if len(list.Items) != 1 || list.Items[0].Body != "nice" {
		t.Errorf("unexpected comments: %+v", list.Items)
	}

	if w := doJSON(t, h, http.MethodDelete, "/api/comments/"+comment.ID, alice.Token, nil); w.Code != http.StatusForbidden {
		t.Errorf("foreign comment delete: expected 403, got %d", w.Code)
	}
	if w := doJSON(t, h, http.MethodDelete, "/api/comments/"+comment.ID, bob.Token, nil); w.Code != http.StatusNoContent {
		t.Errorf("comment delete: expected 204, got %d", w.Code)
	}
}

func TestValidationErrors(t *testing.T) {
	h := newTestServer(t)
	alice := register(t, h, "alice")

	if w := doJSON(t, h, http.MethodPost, "/api/tweets", alice.Token, map[string]string{"body": ""}); w.Code != http.StatusBadRequest {
		t.Errorf("empty body: expected 400, got %d", w.Code)
	}
	if w := doJSON(t, h, http.MethodPost, "/api/tweets", "", map[string]string{"body": "hi"}); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous post: expected 401, got %d", w.Code)
	}
	if w := doJSON(t, h, http.MethodGet, "/api/tweets/not-a-uuid", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad id: expected 400, got %d", w.Code)
	}
}
