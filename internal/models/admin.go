package models

import (
	"encoding/json"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Permission is a fixed administrative capability. Admin rights are checked
// against this closed registry, never against free-form strings.
type Permission string

const (
	PermManageUsers        Permission = "manage_users"
	PermManageVehicles     Permission = "manage_vehicles"
	PermManageInspections  Permission = "manage_inspections"
	PermManageReservations Permission = "manage_reservations"
	PermManageAdmins       Permission = "manage_admins"
	PermViewReports        Permission = "view_reports"
	PermViewLogs           Permission = "view_logs"
)

// AllPermissions is the capability registry. Unknown values are rejected when
// assigning permissions to an admin.
var AllPermissions = map[Permission]bool{
	PermManageUsers:        true,
	PermManageVehicles:     true,
	PermManageInspections:  true,
	PermManageReservations: true,
	PermManageAdmins:       true,
	PermViewReports:        true,
	PermViewLogs:           true,
}

// DefaultAdminPermissions are granted to new non-super admins when no explicit
// set is supplied.
var DefaultAdminPermissions = []Permission{PermManageUsers, PermManageVehicles, PermViewReports}

type Admin struct {
	gorm.Model
	Username     string     `json:"username" gorm:"column:username;unique;not null"`
	Email        string     `json:"email" gorm:"column:email;unique;not null"`
	PasswordHash string     `json:"-" gorm:"column:password_hash;not null"`
	IsSuperAdmin bool       `json:"is_super_admin" gorm:"not null;default:false"`
	IsActive     bool       `json:"is_active" gorm:"not null;default:true"`
	LastLogin    *time.Time `json:"last_login"`
	Permissions  string     `json:"-" gorm:"column:permissions;type:text"`
}

func (Admin) TableName() string {
	return "admins"
}

func (a *Admin) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hashedPassword)
	return nil
}

func (a *Admin) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
}

// PermissionList decodes the stored capability set. A corrupt or empty column
// yields an empty list rather than an error.
func (a *Admin) PermissionList() []Permission {
	if a.Permissions == "" {
		return nil
	}
	var perms []Permission
	if err := json.Unmarshal([]byte(a.Permissions), &perms); err != nil {
		return nil
	}
	return perms
}

// SetPermissions stores a capability set, rejecting values outside the registry.
func (a *Admin) SetPermissions(perms []Permission) error {
	for _, p := range perms {
		if !AllPermissions[p] {
			return ErrUnknownPermission{Permission: p}
		}
	}
	data, err := json.Marshal(perms)
	if err != nil {
		return err
	}
	a.Permissions = string(data)
	return nil
}

// HasPermission reports whether the admin holds a capability. Super admins hold
// every capability implicitly.
func (a *Admin) HasPermission(perm Permission) bool {
	if a.IsSuperAdmin {
		return true
	}
	for _, p := range a.PermissionList() {
		if p == perm {
			return true
		}
	}
	return false
}

type ErrUnknownPermission struct {
	Permission Permission
}

func (e ErrUnknownPermission) Error() string {
	return "unknown permission: " + string(e.Permission)
}

// AdminLog records an administrative action for the audit trail.
type AdminLog struct {
	gorm.Model
	AdminID     uint   `json:"admin_id" gorm:"not null"`
	Admin       Admin  `json:"admin"`
	Action      string `json:"action" gorm:"not null;size:255"`
	Description string `json:"description"`
	IPAddress   string `json:"ip_address" gorm:"size:45"`
	UserAgent   string `json:"user_agent"`
}
