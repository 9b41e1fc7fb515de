package authz

// Session - текущий пользователь и его роль. Создаётся один раз на запрос
// в middleware и передаётся явно через context.
type Session struct {
	UserID   uint64 `json:"user_id"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}

func GuestSession() Session {
	return Session{Role: RoleGuest}
}

func (s Session) IsAuthenticated() bool {
	return s.Role != RoleGuest && s.UserID != 0
}

// InspectorID возвращает nil для гостя: инспекция гостя хранит имя и фирму работника.
func (s Session) InspectorID() *uint64 {
	if !s.IsAuthenticated() {
		return nil
	}
	id := s.UserID
	return &id
}
