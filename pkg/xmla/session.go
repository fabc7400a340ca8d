package xmla

import (
	"github.com/beevik/etree"
	"github.com/google/uuid"
)

// Session holds the process-wide session identifier stamped on every
// response header. It is created once at startup and never changes.
type Session struct {
	id string
}

// NewSession creates a session with a random identifier.
func NewSession() *Session {
	return &Session{id: uuid.NewString()}
}

// NewSessionWithID creates a session with a fixed identifier.
func NewSessionWithID(id string) *Session {
	return &Session{id: id}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Header renders <Session xmlns="urn:schemas-microsoft-com:xml-analysis"
// SessionId="..."/>. Each call returns a new element.
func (s *Session) Header() *etree.Element {
	el := etree.NewElement("Session")
	el.CreateAttr("xmlns", Namespace)
	el.CreateAttr("SessionId", s.id)
	return el
}
