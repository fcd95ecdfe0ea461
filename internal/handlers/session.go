package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-screener/internal/repositories"
)

const (
	sessionCookieName        = "screener_session"
	jobDescriptionCookieName = "jobDescription"

	// Browsers reject cookies over ~4 KiB including name and attributes.
	maxJobDescriptionCookie = 3 << 10
)

// sessionID returns the browser's session id, or "" when the cookie is
// missing or malformed. It never creates a session.
func sessionID(c *fiber.Ctx) string {
	if id, err := uuid.Parse(c.Cookies(sessionCookieName)); err == nil {
		return id.String()
	}
	return ""
}

// ensureSession returns the browser's session id, issuing a cookie and
// registering a new session when there is none yet.
func ensureSession(c *fiber.Ctx, sessionRepo repositories.SessionRepository) string {
	id := sessionID(c)
	if id == "" {
		id = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     sessionCookieName,
			Value:    id,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	sessionRepo.Touch(id)
	return id
}

// storeJobDescription writes jd into the jobDescription cookie. A value too
// large for a cookie expires the old one so the session copy is used.
func storeJobDescription(c *fiber.Ctx, jd string) {
	cookie := &fiber.Cookie{
		Name:     jobDescriptionCookieName,
		Path:     "/",
		SameSite: fiber.CookieSameSiteLaxMode,
	}

	encoded := url.QueryEscape(jd)
	if len(encoded) > maxJobDescriptionCookie {
		cookie.Expires = time.Unix(0, 0)
	} else {
		cookie.Value = encoded
		cookie.Expires = time.Now().AddDate(1, 0, 0)
	}
	c.Cookie(cookie)
}

func loadJobDescription(c *fiber.Ctx) string {
	raw := c.Cookies(jobDescriptionCookieName)
	if raw == "" {
		return ""
	}
	jd, err := url.QueryUnescape(raw)
	if err != nil {
		return ""
	}
	return jd
}

// backendCookies picks the backend session cookie out of the browser request.
func backendCookies(c *fiber.Ctx, name string) []*http.Cookie {
	value := c.Cookies(name)
	if value == "" {
		return nil
	}
	return []*http.Cookie{{Name: name, Value: strings.Clone(value)}}
}

// relayCookies forwards cookies the backend set back to the browser.
func relayCookies(c *fiber.Ctx, cookies []*http.Cookie) {
	for _, ck := range cookies {
		out := &fiber.Cookie{
			Name:     ck.Name,
			Value:    ck.Value,
			Path:     ck.Path,
			Expires:  ck.Expires,
			MaxAge:   ck.MaxAge,
			Secure:   ck.Secure,
			HTTPOnly: ck.HttpOnly,
		}
		if out.Path == "" {
			out.Path = "/"
		}
		c.Cookie(out)
	}
}
