package authz

// Area - группа экранов/эндпоинтов с одинаковыми требованиями к роли.
type Area int

const (
	// AreaPublic - карточка оборудования по QR и форма работника.
	AreaPublic Area = iota
	// AreaField - панель персонала, форма инспектора, журнал координат.
	AreaField
	// AreaAdmin - инвентарь, справочники, проекты, компании, уведомления.
	AreaAdmin
)

func (a Area) String() string {
	switch a {
	case AreaPublic:
		return "public"
	case AreaField:
		return "field"
	case AreaAdmin:
		return "admin"
	}
	return "unknown"
}

// Allows - единственное место, где роль сопоставляется с областью доступа.
func Allows(role Role, area Area) bool {
	switch role {
	case RoleGuest:
		return area == AreaPublic
	case RoleInspector:
		return area == AreaPublic || area == AreaField
	case RoleAdmin:
		return true
	}
	return false
}

// HomePath - куда отправлять пользователя после входа.
func HomePath(role Role) string {
	switch role {
	case RoleAdmin:
		return "/admin"
	case RoleInspector:
		return "/personnel"
	case RoleGuest:
		return "/home"
	}
	return "/"
}
