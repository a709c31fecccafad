package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
)

var ErrBookNotFound = errors.New("book not found")

type ContextKey string

const (
	RequestIDPrefix  string     = "r"
	ContextRequestID ContextKey = "request.id"
	ContextRequestNo ContextKey = "request.number"
)

// FlashCookieName carries the one-line feedback message across the
// post/redirect/get cycle.
const FlashCookieName = "bshop_flash"

// Flash levels rendered with different styling on the page.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is the one-line feedback message shown after a mutating request.
type Flash struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// GetValueFromContext returns the value of a given key in the context
// if this key is not available, it returns an empty string.
func GetValueFromContext(ctx context.Context, contextKey ContextKey) string {
	if val := ctx.Value(contextKey); val != nil {
		return val.(string)
	}
	return ""
}

// GetRequestNumberFromContext returns the request number set in
// the context. if not previously set then it returns 0.
func GetRequestNumberFromContext(ctx context.Context) uint64 {
	if val := ctx.Value(ContextRequestNo); val != nil {
		return val.(uint64)
	}
	return 0
}

// ParseBookID turns a user-supplied identifier into a record id. Anything
// that is not a positive integer is rejected, stale or tampered values
// end up as a not-found response at the handler level.
func ParseBookID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, errors.New("book id must be a number")
	}
	if id < 1 {
		return 0, errors.New("book id must be positive")
	}
	return id, nil
}

// SetFlashCookie stores the feedback message to be displayed by the next
// page load. The value is base64 to survive cookie character rules.
func SetFlashCookie(w http.ResponseWriter, level, text string) {
	payload, err := json.Marshal(Flash{Level: level, Text: text})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    base64.URLEncoding.EncodeToString(payload),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
	})
}

// PopFlashCookie retrieves the pending feedback message and expires its
// cookie so the message shows up exactly once.
func PopFlashCookie(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(FlashCookieName)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	payload, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var flash Flash
	if err := json.Unmarshal(payload, &flash); err != nil {
		return nil
	}
	return &flash
}

// GetRequestSourceIP helps find the source IP of the caller.
func GetRequestSourceIP(r *http.Request) string {
	// Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip
	}

	// Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		netIP = net.ParseIP(ip)
		if netIP != nil {
			return ip
		}
	}

	// Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return ""
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip
	}
	return ""
}

// IsAppRunningInDocker checks the existence of the .dockerenv
// file at the root directory and returns a boolean result. This
// helps know if the App is running in a docker container or not.
func IsAppRunningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}
