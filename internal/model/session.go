package model

// Role is the resolved identity class of a caller.
type Role string

const (
	RoleAnonymous  Role = "anonymous"
	RoleInstructor Role = "instructor"
	RoleStudent    Role = "student"
)

// Session is the per-request resolved identity. It is built by the
// routing layer from a validated token and passed immutably into the
// core services; they never touch raw cookies or headers.
type Session struct {
	Role Role

	// Student fields, zero-valued for other roles.
	StudentID int
	Name      string
	Email     string
}

// Anonymous returns the session for an unauthenticated caller.
func Anonymous() Session {
	return Session{Role: RoleAnonymous}
}

// InstructorSession returns the singleton instructor session.
func InstructorSession() Session {
	return Session{Role: RoleInstructor}
}

// StudentSession returns a session for an authenticated student.
func StudentSession(id int, name, email string) Session {
	return Session{Role: RoleStudent, StudentID: id, Name: name, Email: email}
}

// IsInstructor reports whether the caller holds the instructor role.
func (s Session) IsInstructor() bool { return s.Role == RoleInstructor }

// IsStudent reports whether the caller is an authenticated student.
func (s Session) IsStudent() bool { return s.Role == RoleStudent }

// IsAnonymous reports whether the caller carries no identity.
func (s Session) IsAnonymous() bool { return s.Role == RoleAnonymous }
