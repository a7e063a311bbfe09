package identity

import "time"

// View types are the external JSON representations. Each entity has one
// canonical struct above plus a narrow conversion here, so the storage and
// wire shapes cannot drift apart.

// UserView is the REST representation of a User. The password hash is
// deliberately not exposed.
type UserView struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	IsActive    bool    `json:"is_active"`
	IsSuperuser bool    `json:"is_superuser"`
	Token       *string `json:"token,omitempty"`
	CreatedAt   string  `json:"created_at"`
	LastLogin   *string `json:"last_login,omitempty"`
}

// View converts a User to its REST representation.
func (u *User) View() UserView {
	v := UserView{
		ID:          u.ID.Hex(),
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		Token:       u.Token,
		CreatedAt:   u.CreatedAt.UTC().Format(time.RFC3339),
	}
	if u.LastLogin != nil {
		s := u.LastLogin.UTC().Format(time.RFC3339)
		v.LastLogin = &s
	}
	return v
}

// PermissionView is the REST representation of a Permission.
type PermissionView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// View converts a Permission to its REST representation.
func (p *Permission) View() PermissionView {
	return PermissionView{
		ID:        p.ID.Hex(),
		Name:      p.Name,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// GroupView is the REST representation of a Group.
type GroupView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
	Actions     Actions  `json:"actions"`
	CreatedAt   string   `json:"created_at"`
}

// View converts a Group to its REST representation.
func (g *Group) View() GroupView {
	perms := make([]string, len(g.Permissions))
	for i, id := range g.Permissions {
		perms[i] = id.Hex()
	}
	return GroupView{
		ID:          g.ID.Hex(),
		Name:        g.Name,
		Permissions: perms,
		Actions:     g.Actions,
		CreatedAt:   g.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// MicroServiceView is the REST representation of a MicroService.
type MicroServiceView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Host      string `json:"host"`
	BaseRoute string `json:"base_route"`
	CreatedAt string `json:"created_at"`
}

// View converts a MicroService to its REST representation.
func (m *MicroService) View() MicroServiceView {
	return MicroServiceView{
		ID:        m.ID.Hex(),
		Name:      m.Name,
		Host:      m.Host,
		BaseRoute: m.BaseRoute,
		CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
	}
}
