package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const sessionName = "pos-session"

// Session carries the signed-in user across screens. Nothing else is held
// between requests; every screen re-reads its data from the store.
type Session struct {
	UserID   int
	Username string
	Role     string
}

func currentSession(store *sessions.CookieStore, r *http.Request) (*sessions.Session, *Session) {
	s, _ := store.Get(r, sessionName)

	auth, _ := s.Values["authenticated"].(bool)
	if !auth {
		return s, nil
	}

	userID, _ := s.Values["user_id"].(int)
	username, _ := s.Values["username"].(string)
	role, _ := s.Values["role"].(string)
	return s, &Session{UserID: userID, Username: username, Role: role}
}

// GetFlash retrieves flash messages from the session
func GetFlash(session *sessions.Session) []FlashMessage {
	flashes := session.Flashes()
	var messages []FlashMessage
	for _, f := range flashes {
		if fm, ok := f.(FlashMessage); ok {
			messages = append(messages, fm)
		}
	}
	return messages
}
